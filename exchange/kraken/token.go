package kraken

import (
	"context"
)

//
// WebSocketsToken is the result of the GetWebSocketsToken private method.
//
type WebSocketsToken struct {
	Token   string `json:"token"`
	Expires int    `json:"expires"` // Seconds until the token lapses if it is not used.
}

//
// WebSocketsToken obtains a token for subscribing to the authenticated websocket feed.
//
func (o *Client) WebSocketsToken(ctx context.Context) (*WebSocketsToken, error) {
	token := &WebSocketsToken{}

	if _, err := o.Private(ctx, WebSocketsTokenMethod, Params{}, token); err != nil {
		return nil, err
	}

	return token, nil
}

//
// FeedToken implements the exchange.Client interface's described method.
//
func (o *Client) FeedToken(ctx context.Context) (string, error) {
	token, err := o.WebSocketsToken(ctx)
	if err != nil {
		return "", err
	}

	return token.Token, nil
}
