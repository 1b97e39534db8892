package exchange

//
// APIError generically provides an interface to objects that represent a first-class error provided
// in the response of a request against a cryptocurrency exchange's API.
//
type APIError interface {
	error

	//
	// Category returns the exchange's classification of the error (if there was one).
	//
	Category() string

	//
	// Message returns the actual error message provided by the API (if there was one).
	//
	Message() string
}
