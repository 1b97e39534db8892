package exchange

import "net/http"

//
// Response generically provides an interface to an object that represents a response from a call to
// an exchange's API endpoint.
//
type Response interface {

	//
	// Raw provides the raw HTTP response from the endpoint call that was made.
	//
	Raw() *http.Response

	//
	// Body provides the bytes of the response payload exactly as they were received.
	//
	Body() []byte

	//
	// Decode unmarshals the meaningful part of the response payload into the provided value. What
	// "meaningful" means is up to the exchange (e.g. the "result" member of an envelope).
	//
	Decode(v interface{}) error
}
