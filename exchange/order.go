package exchange

import (
	"fmt"

	"github.com/shopspring/decimal"
)

//
// Side is an enum that represents the direction of an order.
//
type Side int

const (
	Buy Side = iota
	Sell
)

func (o Side) String() string {
	return [...]string{"buy", "sell"}[o]
}

//
// ParseSide converts the wire (or flag) representation of a side back into the enum.
//
func ParseSide(s string) (Side, error) {
	for _, v := range []Side{Buy, Sell} {
		if v.String() == s {
			return v, nil
		}
	}

	return Buy, fmt.Errorf("unknown order side %q", s)
}

//
// OrderType is an enum that represents the execution style of an order.
//
type OrderType int

const (
	Market          OrderType = iota
	Limit                     // Price is the limit price.
	StopLoss                  // Price is the stop loss price.
	TakeProfit                // Price is the take profit price.
	StopLossLimit             // Price is the stop loss trigger price, Price2 the triggered limit price.
	TakeProfitLimit           // Price is the take profit trigger price, Price2 the triggered limit price.
	SettlePosition
)

func (o OrderType) String() string {
	return [...]string{
		"market",
		"limit",
		"stop-loss",
		"take-profit",
		"stop-loss-limit",
		"take-profit-limit",
		"settle-position",
	}[o]
}

//
// RequiresPrice returns whether or not orders of this type must carry a primary price.
//
func (o OrderType) RequiresPrice() bool {
	return o != Market && o != SettlePosition
}

//
// RequiresPrice2 returns whether or not orders of this type must carry a secondary price.
//
func (o OrderType) RequiresPrice2() bool {
	return o == StopLossLimit || o == TakeProfitLimit
}

//
// ParseOrderType converts the wire (or flag) representation of an order type back into the enum.
//
func ParseOrderType(s string) (OrderType, error) {
	for v := Market; v <= SettlePosition; v++ {
		if v.String() == s {
			return v, nil
		}
	}

	return Market, fmt.Errorf("unknown order type %q", s)
}

//
// Order is an exchange-agnostic description of an order to be placed. Optional prices are left
// invalid (i.e. not Valid) when they do not apply to the order type.
//
type Order struct {
	Pair     string
	Side     Side
	Type     OrderType
	Price    decimal.NullDecimal
	Price2   decimal.NullDecimal
	Volume   decimal.Decimal
	Validate bool // Validate inputs only. Do not actually submit the order.
}

//
// OrderAck is an exchange-agnostic acknowledgement of a placed (or validated) order.
//
type OrderAck struct {
	Description string
	IDs         []string
}
