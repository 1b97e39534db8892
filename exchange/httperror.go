package exchange

import "fmt"

//
// HTTPError represents an error due to a non-2xx response from an API endpoint. When dealing with
// cryptocurrency exchange APIs, such a response almost always means that something critically wrong
// has occurred.
//
type HTTPError struct {
	statusCode int
	path       string
}

func NewHTTPError(statusCode int, path string) *HTTPError {
	return &HTTPError{
		statusCode: statusCode,
		path:       path,
	}
}

func (o *HTTPError) StatusCode() int {
	return o.statusCode
}

func (o *HTTPError) Path() string {
	return o.path
}

func (o *HTTPError) Error() string {
	return fmt.Sprintf("server responded to %s with a %d status code", o.path, o.statusCode)
}
