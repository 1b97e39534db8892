package kraken

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/logrusorgru/aurora"
	"github.com/lukehollenback/krakenpriv/constants"
	"github.com/lukehollenback/krakenpriv/exchange"
	"github.com/pkg/errors"
)

const (
	Name = "≪kraken-client≫"
)

var (
	logger *log.Logger
)

func init() {
	//
	// Initialize the logger.
	//
	logger = log.New(log.Writer(), fmt.Sprintf(constants.LogPrefixFmt, Name), log.Ldate|log.Ltime|log.Lmsgprefix)
}

var _ exchange.Client = (*Client)(nil)

//
// Client implements the exchange.Client interface for the Kraken private REST API. It signs every
// call with a Builder and sends it over HTTP.
//
type Client struct {
	mu         *sync.RWMutex
	credential *Credential
	builder    *Builder
	httpClient *http.Client
}

//
// NewClient instantiates a client that signs with the provided builder (or a default one) and sends
// with the provided HTTP client (or one with the default request timeout).
//
func NewClient(builder *Builder, httpClient *http.Client) *Client {
	if builder == nil {
		builder = NewBuilder()
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: constants.RequestTimeout}
	}

	return &Client{
		mu:         &sync.RWMutex{},
		builder:    builder,
		httpClient: httpClient,
	}
}

//
// Auth implements the exchange.Client interface's described method. The credential is validated
// immediately so that a malformed secret is fatal at start up.
//
func (o *Client) Auth(key string, secret string) error {
	cred := Credential{Key: key, Secret: secret}

	if err := cred.Validate(); err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	o.credential = &cred

	return nil
}

//
// Private signs and sends a call to the named private method. If result is non-nil, the "result"
// member of the response envelope is decoded into it.
//
func (o *Client) Private(ctx context.Context, method string, params Params, result interface{}) (*Response, error) {
	o.mu.RLock()
	cred := o.credential
	o.mu.RUnlock()

	if cred == nil {
		return nil, newConfigError(nil, "no credential has been provided to the client")
	}

	req, err := o.builder.Build(*cred, method, params)
	if err != nil {
		return nil, err
	}

	resp, err := o.Send(ctx, req)
	if err != nil {
		return resp, err
	}

	if result != nil {
		if err := resp.Decode(result); err != nil {
			return resp, err
		}
	}

	return resp, nil
}

//
// Send transmits a signed request and returns a wrapped response (parsed as much as generically
// possible) and/or an error if something went wrong. HTTP status failures and API errors are passed
// through as *exchange.HTTPError and *APIError respectively.
//
func (o *Client) Send(ctx context.Context, req *SignedRequest) (*Response, error) {
	//
	// Make a request to the endpoint.
	//
	httpReq, err := req.NewHTTPRequest(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create request for %s", req.Path())
	}

	start := time.Now()

	resp, err := o.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to send request for %s", req.Path())
	}
	defer resp.Body.Close()

	//
	// Begin wrapping the response in the standard response structure and read it.
	//
	wrappedResp := &Response{
		response: resp,
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return wrappedResp, errors.Wrapf(err, "failed to read response for %s", req.Path())
	}

	wrappedResp.body = respBody

	logger.Printf("%s answered with %s in %s.", aurora.Cyan(req.Path()), aurora.Bold(resp.Status), time.Since(start))

	//
	// Make sure the status code was valid.
	//
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return wrappedResp, exchange.NewHTTPError(resp.StatusCode, req.Path())
	}

	//
	// Unwrap the envelope and check it for API errors.
	//
	var env envelope

	if err := json.Unmarshal(respBody, &env); err != nil {
		return wrappedResp, errors.Wrapf(err, "failed to decode response envelope for %s", req.Path())
	}

	wrappedResp.result = env.Result

	apiErr := &APIError{messages: env.Error}

	for _, v := range apiErr.warnings() {
		logger.Printf("%s returned a warning: %s", aurora.Cyan(req.Path()), aurora.Yellow(v))
	}

	if apiErr.populated() {
		return wrappedResp, apiErr
	}

	return wrappedResp, nil
}
