package broker

import (
	"flag"
	"strings"

	"github.com/lukehollenback/krakenpriv/exchange"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var (
	cfgPairs     *string
	cfgOrderType *string
	cfgDirection *string
	cfgPrice     *string
	cfgPrice2    *string
	cfgVolume    *string
	cfgValidate  *bool
)

func init() {
	//
	// Register configuration flags.
	//
	cfgPairs = flag.String("pairs", "SOLUSD,DOTUSD", "Comma separated asset pairs to place an order for.")
	cfgOrderType = flag.String("order-type", exchange.Limit.String(), "The order type (market, limit, stop-loss, ...).")
	cfgDirection = flag.String("direction", exchange.Buy.String(), "The order direction (buy or sell).")
	cfgPrice = flag.String("price", "154.00", "The primary price of each order. Leave empty for market orders.")
	cfgPrice2 = flag.String("price2", "", "The secondary price of each order (only for *-limit order types).")
	cfgVolume = flag.String("volume", "2", "The volume of each order, in lots.")
	cfgValidate = flag.Bool(
		"validate",
		true,
		"Whether or not to only validate orders. Disabling this places REAL orders. Be careful.",
	)
}

//
// Config describes the orders the Broker Service places each time it executes.
//
type Config struct {
	Pairs    []string
	Side     exchange.Side
	Type     exchange.OrderType
	Price    decimal.NullDecimal
	Price2   decimal.NullDecimal
	Volume   decimal.Decimal
	Validate bool
}

//
// ConfigFromFlags assembles a configuration from the parsed command line flags.
//
func ConfigFromFlags() (Config, error) {
	var (
		cfg Config
		err error
	)

	for _, v := range strings.Split(*cfgPairs, ",") {
		if v = strings.TrimSpace(v); v != "" {
			cfg.Pairs = append(cfg.Pairs, v)
		}
	}

	if cfg.Side, err = exchange.ParseSide(*cfgDirection); err != nil {
		return cfg, err
	}

	if cfg.Type, err = exchange.ParseOrderType(*cfgOrderType); err != nil {
		return cfg, err
	}

	if cfg.Price, err = parseOptionalDecimal(*cfgPrice); err != nil {
		return cfg, errors.Wrap(err, "invalid -price")
	}

	if cfg.Price2, err = parseOptionalDecimal(*cfgPrice2); err != nil {
		return cfg, errors.Wrap(err, "invalid -price2")
	}

	if cfg.Volume, err = decimal.NewFromString(*cfgVolume); err != nil {
		return cfg, errors.Wrap(err, "invalid -volume")
	}

	cfg.Validate = *cfgValidate

	return cfg, nil
}

//
// Orders returns the order to be placed for each configured pair.
//
func (o Config) Orders() []exchange.Order {
	ret := make([]exchange.Order, 0, len(o.Pairs))

	for _, pair := range o.Pairs {
		ret = append(ret, exchange.Order{
			Pair:     pair,
			Side:     o.Side,
			Type:     o.Type,
			Price:    o.Price,
			Price2:   o.Price2,
			Volume:   o.Volume,
			Validate: o.Validate,
		})
	}

	return ret
}

func parseOptionalDecimal(s string) (decimal.NullDecimal, error) {
	if s == "" {
		return decimal.NullDecimal{}, nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}

	return decimal.NewNullDecimal(d), nil
}
