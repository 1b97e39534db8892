package kraken

import (
	"context"
	"strconv"
	"strings"

	"github.com/lukehollenback/krakenpriv/exchange"
	"github.com/pkg/errors"
)

//
// NewOrder describes an order for the AddOrder private method. The embedded exchange.Order carries
// the fields every exchange understands; the remainder are Kraken specific and optional.
//
type NewOrder struct {
	exchange.Order

	Leverage string   // Amount of leverage desired (e.g. "2:1"). Empty means none.
	OFlags   []string // Order flags (viqc, fcib, fciq, nompp, post).
	StartTm  string   // "0" (now), "+<n>" (n seconds from now) or "<n>" (unix timestamp).
	ExpireTm string   // "0" (never), "+<n>" (n seconds from now) or "<n>" (unix timestamp).
	UserRef  *int32   // User reference id.
}

//
// AddOrderResult is the result of the AddOrder private method.
//
type AddOrderResult struct {
	Descr map[string]string `json:"descr"`
	TxID  []string          `json:"txid"`
}

//
// params converts the order into private method parameters, rejecting orders that are missing
// fields their type requires.
//
func (o *NewOrder) params() (Params, error) {
	if o.Pair == "" {
		return nil, errors.New("order is missing an asset pair")
	}

	if !o.Volume.IsPositive() {
		return nil, errors.Errorf("order volume must be positive (volume: %s)", o.Volume)
	}

	if o.Type.RequiresPrice() && !o.Price.Valid {
		return nil, errors.Errorf("%s orders require a price", o.Type)
	}

	if o.Type.RequiresPrice2() && !o.Price2.Valid {
		return nil, errors.Errorf("%s orders require a secondary price", o.Type)
	}

	params := Params{
		"pair":      o.Pair,
		"type":      o.Side.String(),
		"ordertype": o.Type.String(),
		"volume":    o.Volume.String(),
	}

	if o.Price.Valid {
		params["price"] = o.Price.Decimal.String()
	}

	if o.Price2.Valid {
		params["price2"] = o.Price2.Decimal.String()
	}

	if o.Leverage != "" {
		params["leverage"] = o.Leverage
	}

	if len(o.OFlags) > 0 {
		params["oflags"] = strings.Join(o.OFlags, ",")
	}

	if o.StartTm != "" {
		params["starttm"] = o.StartTm
	}

	if o.ExpireTm != "" {
		params["expiretm"] = o.ExpireTm
	}

	if o.UserRef != nil {
		params["userref"] = strconv.FormatInt(int64(*o.UserRef), 10)
	}

	if o.Validate {
		params["validate"] = "1"
	}

	return params, nil
}

//
// AddOrder places (or, if Validate is set, only validates) the provided order.
//
func (o *Client) AddOrder(ctx context.Context, order *NewOrder) (*AddOrderResult, error) {
	params, err := order.params()
	if err != nil {
		return nil, err
	}

	result := &AddOrderResult{}

	if _, err := o.Private(ctx, AddOrderMethod, params, result); err != nil {
		return nil, err
	}

	return result, nil
}

//
// PlaceOrder implements the exchange.Client interface's described method.
//
func (o *Client) PlaceOrder(ctx context.Context, order exchange.Order) (*exchange.OrderAck, error) {
	result, err := o.AddOrder(ctx, &NewOrder{Order: order})
	if err != nil {
		return nil, err
	}

	return &exchange.OrderAck{
		Description: result.Descr["order"],
		IDs:         result.TxID,
	}, nil
}
