package kraken

import (
	"fmt"
	"strings"

	"github.com/lukehollenback/krakenpriv/exchange"
)

var _ exchange.APIError = (*APIError)(nil)

//
// APIError implements the exchange.APIError interface for errors returned in the "error" member of
// a Kraken response envelope. Each message has the form "<severity><category>:<message>" where the
// severity is "E" (error) or "W" (warning).
//
type APIError struct {
	messages []string
}

//
// Messages returns every error message the endpoint returned.
//
func (o *APIError) Messages() []string {
	return append([]string(nil), o.messages...)
}

//
// Category returns the category of the first error message (e.g. "EGeneral").
//
func (o *APIError) Category() string {
	category, _ := o.split()

	return category
}

//
// Message returns the description of the first error message (e.g. "Invalid arguments").
//
func (o *APIError) Message() string {
	_, message := o.split()

	return message
}

func (o *APIError) Error() string {
	return fmt.Sprintf(
		"the Kraken endpoint returned an API error (messages: %s)",
		strings.Join(o.errorMessages(), "; "),
	)
}

func (o *APIError) split() (string, string) {
	errs := o.errorMessages()
	if len(errs) == 0 {
		return "", ""
	}

	parts := strings.SplitN(errs[0], ":", 2)
	if len(parts) == 1 {
		return "", parts[0]
	}

	return parts[0], parts[1]
}

//
// errorMessages returns only the messages with error severity.
//
func (o *APIError) errorMessages() []string {
	ret := make([]string, 0, len(o.messages))

	for _, v := range o.messages {
		if strings.HasPrefix(v, "E") {
			ret = append(ret, v)
		}
	}

	return ret
}

//
// warnings returns only the messages with warning severity.
//
func (o *APIError) warnings() []string {
	ret := make([]string, 0, len(o.messages))

	for _, v := range o.messages {
		if strings.HasPrefix(v, "W") {
			ret = append(ret, v)
		}
	}

	return ret
}

//
// populated returns whether or not the envelope actually carried an error (as opposed to nothing or
// only warnings).
//
func (o *APIError) populated() bool {
	return len(o.errorMessages()) > 0
}
