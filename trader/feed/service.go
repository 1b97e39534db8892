package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/logrusorgru/aurora"
	"github.com/lukehollenback/krakenpriv/constants"
	"github.com/lukehollenback/krakenpriv/exchange"
	"github.com/lukehollenback/krakenpriv/structs/evictingqueue"
	"github.com/lukehollenback/krakenpriv/trader"
	"github.com/pkg/errors"

	ws "github.com/gorilla/websocket"
)

const (
	Name       = "≪feed-service≫"
	DefaultURL = "wss://ws-auth.kraken.com"
)

var (
	logger *log.Logger

	errNotRunning = errors.New("the feed service is not running")

	cfgURL      *string
	cfgChannels *string
)

func init() {
	//
	// Initialize the logger.
	//
	logger = log.New(log.Writer(), fmt.Sprintf(constants.LogPrefixFmt, Name), log.Ldate|log.Ltime|log.Lmsgprefix)

	//
	// Register configuration flags.
	//
	cfgURL = flag.String("feed-url", DefaultURL, "The authenticated Kraken websocket endpoint.")
	cfgChannels = flag.String("feed-channels", "ownTrades,openOrders", "Comma separated private channels to subscribe to.")
}

var _ trader.Service = (*Service)(nil)

//
// Service represents a private feed monitor instance. It authenticates to the Kraken websocket API
// with a token obtained through a signed REST call, subscribes to private channels, and dispatches
// every channel message to the registered handlers.
//
type Service struct {
	mu        *sync.Mutex
	chKill    chan bool
	chStopped chan bool

	client   exchange.Client
	url      string
	channels []string

	state     state
	conn      *ws.Conn
	acked     map[string]bool
	sequences map[string]int
	reqID     int
	recent    *evictingqueue.EvictingQueue[*Event]
	handlers  []func(*Event)
}

//
// New instantiates a feed service that obtains its tokens from the provided client. The URL and
// channels come from the command line flags.
//
func New(client exchange.Client) *Service {
	o := &Service{
		mu:        &sync.Mutex{},
		client:    client,
		url:       *cfgURL,
		state:     disconnected,
		acked:     make(map[string]bool),
		sequences: make(map[string]int),
		recent:    evictingqueue.New[*Event](constants.RecentEventCapacity),
		handlers:  make([]func(*Event), 0),
	}

	for _, v := range strings.Split(*cfgChannels, ",") {
		if v = strings.TrimSpace(v); v != "" {
			o.channels = append(o.channels, v)
		}
	}

	return o
}

//
// SetURL overrides the websocket endpoint. It only takes effect on the next start.
//
func (o *Service) SetURL(url string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.url = url
}

//
// RegisterHandler registers a handler to be executed for every private channel message.
//
func (o *Service) RegisterHandler(handler func(*Event)) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.handlers = append(o.handlers, handler)
}

//
// Recent returns the most recently received channel messages, oldest first.
//
func (o *Service) Recent() []*Event {
	return o.recent.Items()
}

//
// Subscribed returns whether or not every requested channel has acknowledged its subscription.
//
func (o *Service) Subscribed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.state == subscribed
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
		return nil, errors.New("the feed service requires an exchange client")
	}

	if len(o.channels) == 0 {
		return nil, errors.New("the feed service requires at least one channel")
	}

	//
	// Obtain a token and connect to the authenticated websocket API.
	//
	o.state = connecting

	ctx, cancel := context.WithTimeout(context.Background(), constants.RequestTimeout)
	defer cancel()

	token, err := o.client.FeedToken(ctx)
	if err != nil {
		o.state = disconnected

		return nil, errors.Wrap(err, "failed to obtain a websocket token")
	}

	o.conn, _, err = ws.DefaultDialer.DialContext(ctx, o.url, nil)
	if err != nil {
		o.state = disconnected

		return nil, errors.Wrapf(err, "could not connect to %s", o.url)
	}

	o.state = connected
	o.acked = make(map[string]bool)
	o.sequences = make(map[string]int)

	//
	// Subscribe to each private channel.
	//
	for _, channel := range o.channels {
		o.reqID++

		msg := &request{
			Event:        "subscribe",
			ReqID:        o.reqID,
			Subscription: &subscription{Name: channel, Token: token},
		}

		if err := o.conn.WriteJSON(msg); err != nil {
			_ = o.conn.Close()
			o.state = disconnected

			return nil, errors.Wrapf(err, "could not subscribe to %s", channel)
		}
	}

	//
	// (Re)initialize our instance variables and fire off a goroutine as the executor for the
	// service.
	//
	o.chKill = make(chan bool, 1)
	o.chStopped = make(chan bool, 1)

	go o.service(o.chKill, o.chStopped)

	chStarted := make(chan bool, 1)
	chStarted <- true

	logger.Printf("Started. (URL: %s) (Channels: %s)", aurora.Cyan(o.url), strings.Join(o.channels, ", "))

	return chStarted, nil
}

//
// Stop implements the trader.Service interface's described method.
//
func (o *Service) Stop() (<-chan bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.chKill == nil {
		return nil, errNotRunning
	}

	logger.Printf("Stopping...")

	//
	// Tell the goroutines that were spun off by the service to shutdown. Further stops are rejected
	// until the next start.
	//
	o.chKill <- true
	o.chKill = nil

	return o.chStopped, nil
}

//
// service reads messages from the websocket feed and dispatches them until it is killed or the
// connection fails.
//
func (o *Service) service(chKill <-chan bool, chStopped chan<- bool) {
	chMsg := make(chan []byte)
	chErr := make(chan error, 1)
	chDone := make(chan struct{})

	go o.readMessages(chMsg, chErr, chDone)

	ticker := time.NewTicker(constants.FeedPingPeriod)
	defer ticker.Stop()

	for cont := true; cont; {
		select {
		case <-chKill:
			cont = false

		case msg := <-chMsg:
			o.handleMessage(msg)

		case err := <-chErr:
			logger.Printf("Could not read the next message from the Kraken websocket feed. (Error: %s)", err)

			cont = false

		case <-ticker.C:
			if err := o.ping(); err != nil {
				logger.Printf("Could not ping the Kraken websocket feed. (Error: %s)", err)

				cont = false
			}
		}
	}

	close(chDone)

	//
	// Close our websocket connection.
	//
	_ = o.conn.WriteControl(
		ws.CloseMessage,
		ws.FormatCloseMessage(ws.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)

	if err := o.conn.Close(); err != nil {
		logger.Printf("Failed to close the websocket connection. (Error: %s)", err)
	}

	o.mu.Lock()
	o.state = disconnected
	o.mu.Unlock()

	//
	// Send the signal that we have shut down.
	//
	chStopped <- true
}

//
// readMessages is the connection's only reader. It forwards messages until the connection fails or
// the service no longer wants them.
//
func (o *Service) readMessages(chMsg chan<- []byte, chErr chan<- error, chDone <-chan struct{}) {
	for {
		_ = o.conn.SetReadDeadline(time.Now().Add(constants.FeedReadTimeout))

		_, data, err := o.conn.ReadMessage()
		if err != nil {
			chErr <- err

			return
		}

		select {
		case chMsg <- data:
		case <-chDone:
			return
		}
	}
}

func (o *Service) ping() error {
	o.mu.Lock()
	o.reqID++
	msg := &request{Event: "ping", ReqID: o.reqID}
	o.mu.Unlock()

	return o.conn.WriteJSON(msg)
}

//
// handleMessage routes an inbound message by its shape: objects are status events and arrays are
// channel messages.
//
func (o *Service) handleMessage(data []byte) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return
	}

	switch data[0] {
	case '{':
		o.handleStatus(data)

	case '[':
		o.handleChannelMessage(data)

	default:
		logger.Printf("Ignoring unrecognized message. (Message: %s)", data)
	}
}

func (o *Service) handleStatus(data []byte) {
	var msg status

	if err := json.Unmarshal(data, &msg); err != nil {
		logger.Printf("Failed to parse status message. (Error: %s)", err)

		return
	}

	switch msg.Event {
	case "heartbeat", "pong":
		return

	case "systemStatus":
		logger.Printf("Kraken websocket API is %s. (Version: %s)", aurora.Bold(msg.Status), msg.Version)

	case "subscriptionStatus":
		o.mu.Lock()
		defer o.mu.Unlock()

		switch msg.Status {
		case "subscribed":
			o.acked[msg.ChannelName] = true

			logger.Printf("Subscribed to %s.", aurora.Bold(aurora.Green(msg.ChannelName)))

			if len(o.acked) == len(o.channels) && o.state == connected {
				o.state = subscribed
			}

		case "unsubscribed":
			delete(o.acked, msg.ChannelName)

			if o.state == subscribed {
				o.state = connected
			}

			logger.Printf("Unsubscribed from %s.", aurora.Bold(aurora.Yellow(msg.ChannelName)))

		case "error":
			logger.Printf(
				"Subscription to %s failed. (Error: %s)",
				aurora.Bold(aurora.Red(msg.ChannelName)),
				msg.ErrorMessage,
			)
		}

	default:
		logger.Printf("Ignoring %s event.", msg.Event)
	}
}

//
// handleChannelMessage parses a private channel message of the form
// [payload, channelName, {"sequence": n}], retains it, and dispatches it to the handlers.
//
func (o *Service) handleChannelMessage(data []byte) {
	var parts []json.RawMessage

	if err := json.Unmarshal(data, &parts); err != nil || len(parts) < 2 {
		logger.Printf("Ignoring malformed channel message. (Message: %s)", data)

		return
	}

	evt := &Event{
		Payload:  parts[0],
		Received: time.Now(),
	}

	if err := json.Unmarshal(parts[1], &evt.Channel); err != nil {
		logger.Printf("Ignoring channel message without a channel name. (Message: %s)", data)

		return
	}

	if len(parts) > 2 {
		var meta sequenceMeta

		if err := json.Unmarshal(parts[2], &meta); err == nil {
			evt.Sequence = meta.Sequence
		}
	}

	//
	// Note any gaps in the channel's sequence, retain the event, and grab the handlers.
	//
	o.mu.Lock()

	if last, ok := o.sequences[evt.Channel]; ok && evt.Sequence != 0 && evt.Sequence != last+1 {
		logger.Printf(
			"Sequence gap on %s. (Expected: %d) (Received: %d)",
			aurora.Bold(evt.Channel), last+1, evt.Sequence,
		)
	}

	if evt.Sequence != 0 {
		o.sequences[evt.Channel] = evt.Sequence
	}

	handlers := append(make([]func(*Event), 0, len(o.handlers)), o.handlers...)

	o.mu.Unlock()

	o.recent.Add(evt)

	for _, handler := range handlers {
		handler(evt)
	}
}
