package kraken

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
)

//
// SignedRequest is a fully authenticated private API request. It is immutable once built, and the
// body is byte-for-byte what was signed.
//
type SignedRequest struct {
	method  string
	url     string
	path    string
	nonce   string
	body    string
	headers http.Header
}

func (o *SignedRequest) Method() string {
	return o.method
}

func (o *SignedRequest) URL() string {
	return o.url
}

func (o *SignedRequest) Path() string {
	return o.path
}

func (o *SignedRequest) Nonce() string {
	return o.nonce
}

func (o *SignedRequest) Body() string {
	return o.body
}

//
// Header returns the value of the named header (e.g. APISignHeader).
//
func (o *SignedRequest) Header(name string) string {
	return o.headers.Get(name)
}

//
// Headers returns a copy of all of the request's headers.
//
func (o *SignedRequest) Headers() http.Header {
	return o.headers.Clone()
}

//
// NewHTTPRequest produces a fresh *http.Request carrying exactly the signed body and headers.
//
func (o *SignedRequest) NewHTTPRequest(ctx context.Context) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, o.method, o.url, strings.NewReader(o.body))
	if err != nil {
		return nil, err
	}

	req.Header = o.headers.Clone()

	return req, nil
}

//
// BuilderOption customizes a Builder.
//
type BuilderOption func(*Builder)

//
// WithHost overrides the scheme and host that private method paths are appended to.
//
func WithHost(host string) BuilderOption {
	return func(o *Builder) {
		o.host = strings.TrimSuffix(host, "/")
	}
}

//
// WithNonceGenerator overrides the source of nonces. Builders that share a credential should share
// a generator.
//
func WithNonceGenerator(nonces NonceGenerator) BuilderOption {
	return func(o *Builder) {
		o.nonces = nonces
	}
}

//
// Builder assembles signed private requests. It is safe for concurrent use.
//
type Builder struct {
	mu        *sync.Mutex
	host      string
	nonces    NonceGenerator
	lastNonce uint64
}

func NewBuilder(opts ...BuilderOption) *Builder {
	o := &Builder{
		mu:   &sync.Mutex{},
		host: BaseURL,
	}

	for _, opt := range opts {
		opt(o)
	}

	if o.nonces == nil {
		o.nonces = NewNonceGenerator(SystemClock)
	}

	return o
}

//
// Build signs a call to the named private method with the provided parameters. The parameters are
// copied, never modified, and must not contain a nonce.
//
func (o *Builder) Build(cred Credential, method string, params Params) (*SignedRequest, error) {
	//
	// Validate the inputs.
	//
	if method == "" {
		return nil, newInvariantError("private method name is empty")
	}

	if _, ok := params[NonceKey]; ok {
		return nil, newInvariantError("caller supplied the reserved %q parameter", NonceKey)
	}

	if err := cred.Validate(); err != nil {
		return nil, err
	}

	//
	// Obtain a nonce and produce the canonical body that contains it.
	//
	path := PrivatePathPrefix + method

	nonce, err := o.nextNonce()
	if err != nil {
		return nil, err
	}

	body, bodyBytes := Encode(params.with(NonceKey, nonce))

	//
	// Sign the exact bytes that will be sent.
	//
	signature, err := Sign(cred.Secret, path, nonce, bodyBytes)
	if err != nil {
		return nil, err
	}

	headers := make(http.Header, 3)
	headers.Set(APIKeyHeader, cred.Key)
	headers.Set(APISignHeader, signature)
	headers.Set(ContentTypeHeader, FormContentType)

	return &SignedRequest{
		method:  http.MethodPost,
		url:     o.host + path,
		path:    path,
		nonce:   nonce,
		body:    body,
		headers: headers,
	}, nil
}

//
// nextNonce obtains a nonce from the generator and makes sure it is a decimal integer greater than
// the last one this builder used.
//
func (o *Builder) nextNonce() (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	nonce, err := o.nonces.Next()
	if err != nil {
		return "", err
	}

	n, err := strconv.ParseUint(nonce, 10, 64)
	if err != nil {
		return "", newInvariantError("nonce %q is not an unsigned 64-bit decimal integer", nonce)
	}

	if n <= o.lastNonce {
		return "", newInvariantError("nonce %d does not exceed previously used nonce %d", n, o.lastNonce)
	}

	o.lastNonce = n

	return nonce, nil
}
