package exchange

import (
	"context"

	"github.com/shopspring/decimal"
)

//
// Client generically provides an interface to an object that can be used to interact with a
// cryptocurrency exchange's private (authenticated) REST API. Normally, this is the client used to
// do things like place orders, check balances, and obtain tokens for authenticated websocket feeds.
//
// Whenever an endpoint fails – whether due to a system failure, an HTTP error, or an API error –
// the error component of the return will be non-nil.
//
type Client interface {

	//
	// Auth provides the relevant exchange's API key and secret to the client. Implementations
	// validate the material up front so that a malformed secret is reported here rather than on the
	// first signed request.
	//
	Auth(key string, secret string) error

	//
	// Balances retrieves the account's holdings, keyed by the exchange's asset code.
	//
	Balances(ctx context.Context) (map[string]decimal.Decimal, error)

	//
	// PlaceOrder submits the provided order and returns the exchange's acknowledgement of it.
	//
	PlaceOrder(ctx context.Context, order Order) (*OrderAck, error)

	//
	// FeedToken obtains a short-lived token that authenticates a subscription to the exchange's
	// private websocket feed.
	//
	FeedToken(ctx context.Context) (string, error)
}
