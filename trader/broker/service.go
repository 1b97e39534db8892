package broker

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/logrusorgru/aurora"
	"github.com/lukehollenback/krakenpriv/constants"
	"github.com/lukehollenback/krakenpriv/exchange"
	"github.com/lukehollenback/krakenpriv/trader"
	"github.com/lukehollenback/krakenpriv/trader/writer"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	Name = "≪broker-service≫"
)

var (
	logger *log.Logger

	errNotRunning = errors.New("the broker service is not running")
)

func init() {
	//
	// Initialize the logger.
	//
	logger = log.New(log.Writer(), fmt.Sprintf(constants.LogPrefixFmt, Name), log.Ldate|log.Ltime|log.Lmsgprefix)
}

//
// Summary is the outcome of a single execution of the Broker Service.
//
type Summary struct {
	Acks     map[string]*exchange.OrderAck // Keyed by pair.
	Balances map[string]decimal.Decimal    // Keyed by asset code.
}

var _ trader.Service = (*Service)(nil)

//
// Service represents a service instance. It places the configured orders through an exchange
// client and then reports the account's balances.
//
type Service struct {
	mu       *sync.Mutex
	client   exchange.Client
	cfg      Config
	position position
	recorder recorder
}

//
// recorder is where executions hand their data points. Normally, this is the Writer Service.
//
type recorder interface {
	Write(timestamp time.Time, category writer.Type, label string, value decimal.Decimal) error
}

//
// New instantiates a service that trades through the provided client.
//
func New(client exchange.Client, cfg Config) *Service {
	return &Service{
		mu:       &sync.Mutex{},
		client:   client,
		cfg:      cfg,
		position: offline,
		recorder: writer.Instance(),
	}
}

//
// Start implements the trader.Service interface's described method.
//
func (o *Service) Start() (<-chan bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	//
	// Validate that necessary configurations have been provided.
	//
	if o.client == nil {
		return nil, errors.New("the broker service requires an exchange client")
	}

	if len(o.cfg.Pairs) == 0 {
		return nil, errors.New("the broker service requires at least one pair")
	}

	o.position = waiting

	chStarted := make(chan bool, 1)
	chStarted <- true

	logger.Printf("Started. (Validate Only: %t)", o.cfg.Validate)

	return chStarted, nil
}

//
// Stop implements the trader.Service interface's described method.
//
func (o *Service) Stop() (<-chan bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	logger.Printf("Stopping...")

	o.position = offline

	chStopped := make(chan bool, 1)
	chStopped <- true

	return chStopped, nil
}

//
// Execute places one order per configured pair and then retrieves the account's balances. Every
// acknowledgement and balance is also handed to the Writer Service (if it is running). The first
// failure aborts the execution.
//
func (o *Service) Execute(ctx context.Context) (*Summary, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.position != waiting {
		return nil, errNotRunning
	}

	o.position = submitting
	defer func() { o.position = waiting }()

	summary := &Summary{
		Acks: make(map[string]*exchange.OrderAck, len(o.cfg.Pairs)),
	}

	//
	// Place the orders.
	//
	for _, order := range o.cfg.Orders() {
		ack, err := o.client.PlaceOrder(ctx, order)
		if err != nil {
			return summary, errors.Wrapf(err, "failed to place order for %s", order.Pair)
		}

		summary.Acks[order.Pair] = ack

		logger.Printf(
			"Order %s for %s. (Description: %s) (IDs: %v)",
			aurora.Bold(aurora.Green(orderVerb(order))),
			aurora.Bold(aurora.Yellow(order.Pair)),
			ack.Description,
			ack.IDs,
		)

		o.record(time.Now(), writer.OrderVolume, order.Pair, order.Volume)
	}

	//
	// Report the balances.
	//
	balances, err := o.client.Balances(ctx)
	if err != nil {
		return summary, errors.Wrap(err, "failed to retrieve balances")
	}

	summary.Balances = balances

	assets := make([]string, 0, len(balances))
	for asset := range balances {
		assets = append(assets, asset)
	}

	sort.Strings(assets)

	now := time.Now()

	for _, asset := range assets {
		logger.Printf("Balance of %s is %s.", aurora.Bold(aurora.Yellow(asset)), aurora.Bold(aurora.Green(balances[asset])))

		o.record(now, writer.Balance, asset, balances[asset])
	}

	return summary, nil
}

//
// record hands a data point to the recorder. A writer that is not running is fine; any other
// failure is logged.
//
func (o *Service) record(timestamp time.Time, category writer.Type, label string, value decimal.Decimal) {
	err := o.recorder.Write(timestamp, category, label, value)
	if err != nil && errors.Cause(err) != writer.ErrNotRunning {
		logger.Printf("Failed to record %s for %s. (Error: %s)", category, label, err)
	}
}

func orderVerb(order exchange.Order) string {
	if order.Validate {
		return "validated"
	}

	return "placed"
}
