package kraken

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/lukehollenback/krakenpriv/exchange"
	"github.com/pkg/errors"
)

var _ exchange.Response = (*Response)(nil)

//
// envelope is the outer structure of every Kraken REST response.
//
type envelope struct {
	Error  []string        `json:"error"`
	Result json.RawMessage `json:"result"`
}

//
// Response implements the exchange.Response interface for wrapped responses from the Kraken API.
//
type Response struct {
	response *http.Response
	body     []byte
	result   json.RawMessage
}

func (o *Response) Raw() *http.Response {
	return o.response
}

func (o *Response) Body() []byte {
	return o.body
}

//
// Result returns the raw "result" member of the envelope.
//
func (o *Response) Result() json.RawMessage {
	return o.result
}

//
// Decode unmarshals the "result" member of the envelope into the provided value.
//
func (o *Response) Decode(v interface{}) error {
	if len(o.result) == 0 || bytes.Equal(o.result, []byte("null")) {
		return errors.New("the Kraken response did not carry a result")
	}

	return errors.Wrap(json.Unmarshal(o.result, v), "failed to decode Kraken result")
}
