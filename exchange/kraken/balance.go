package kraken

import (
	"context"

	"github.com/shopspring/decimal"
)

//
// Balances implements the exchange.Client interface's described method using the Balance private
// method. Kraken reports amounts as decimal strings keyed by its own asset codes (e.g. "XXBT").
//
func (o *Client) Balances(ctx context.Context) (map[string]decimal.Decimal, error) {
	var balances map[string]decimal.Decimal

	if _, err := o.Private(ctx, BalanceMethod, Params{}, &balances); err != nil {
		return nil, err
	}

	return balances, nil
}
