package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	ws "github.com/gorilla/websocket"
	"github.com/lukehollenback/krakenpriv/exchange"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "WW91ciBhdXRoZW50aWNhdGlvbiB0b2tlbiBnb2VzIGhlcmUu"

//
// tokenClient is an exchange.Client that only knows how to hand out feed tokens.
//
type tokenClient struct {
	err error
}

func (o *tokenClient) Auth(key string, secret string) error {
	return nil
}

func (o *tokenClient) Balances(ctx context.Context) (map[string]decimal.Decimal, error) {
	return nil, errors.New("not implemented")
}

func (o *tokenClient) PlaceOrder(ctx context.Context, order exchange.Order) (*exchange.OrderAck, error) {
	return nil, errors.New("not implemented")
}

func (o *tokenClient) FeedToken(ctx context.Context) (string, error) {
	return testToken, o.err
}

//
// newFakeFeed starts a websocket server that acknowledges subscriptions carrying the expected
// token and then publishes the provided channel messages.
//
func newFakeFeed(t *testing.T, messages ...string) string {
	upgrader := ws.Upgrader{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if !assert.NoError(t, err) {
			return
		}
		defer conn.Close()

		_ = conn.WriteMessage(ws.TextMessage, []byte(`{"event":"systemStatus","status":"online","version":"1.9.0"}`))

		for i := 0; i < 2; i++ {
			var req request

			if !assert.NoError(t, conn.ReadJSON(&req)) {
				return
			}

			assert.Equal(t, "subscribe", req.Event)
			if !assert.NotNil(t, req.Subscription) {
				return
			}

			assert.Equal(t, testToken, req.Subscription.Token)

			_ = conn.WriteJSON(map[string]interface{}{
				"event":       "subscriptionStatus",
				"status":      "subscribed",
				"channelName": req.Subscription.Name,
				"reqid":       req.ReqID,
			})
		}

		for _, msg := range messages {
			_ = conn.WriteMessage(ws.TextMessage, []byte(msg))
		}

		//
		// Hold the connection open until the client goes away.
		//
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(server.Close)

	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func TestFeedDispatchesPrivateChannelMessages(t *testing.T) {
	url := newFakeFeed(t,
		`{"event":"heartbeat"}`,
		`[[{"TDLH43-DVQXD-2KHVYY":{"pair":"XBT/USD","type":"buy","vol":"1.00000000"}}],"ownTrades",{"sequence":1}]`,
		`[[{"OGTT3Y-C6I3P-XRI6HX":{"status":"open"}}],"openOrders",{"sequence":1}]`,
	)

	svc := New(&tokenClient{})
	svc.SetURL(url)

	chEvents := make(chan *Event, 2)
	svc.RegisterHandler(func(evt *Event) { chEvents <- evt })

	chStarted, err := svc.Start()
	require.NoError(t, err)
	<-chStarted

	var received []*Event

	for len(received) < 2 {
		select {
		case evt := <-chEvents:
			received = append(received, evt)
		case <-time.After(5 * time.Second):
			t.Fatalf("Timed out waiting for channel messages. (Received: %d)", len(received))
		}
	}

	assert.Equal(t, "ownTrades", received[0].Channel)
	assert.Equal(t, 1, received[0].Sequence)
	assert.Contains(t, string(received[0].Payload), "TDLH43-DVQXD-2KHVYY")
	assert.Equal(t, "openOrders", received[1].Channel)

	assert.True(t, svc.Subscribed())
	assert.Len(t, svc.Recent(), 2)

	chStopped, err := svc.Stop()
	require.NoError(t, err)

	select {
	case <-chStopped:
	case <-time.After(5 * time.Second):
		t.Fatalf("Timed out waiting for the feed service to stop.")
	}

	assert.False(t, svc.Subscribed())

	_, err = svc.Stop()
	assert.ErrorIs(t, err, errNotRunning, "a second stop should be rejected")
}

func TestFeedStartFailsWithoutToken(t *testing.T) {
	svc := New(&tokenClient{err: errors.New("EAPI:Invalid key")})
	svc.SetURL("ws://127.0.0.1:1")

	_, err := svc.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EAPI:Invalid key")

	_, err = svc.Stop()
	assert.Error(t, err)
}

func TestFeedStartRequiresClient(t *testing.T) {
	_, err := New(nil).Start()
	assert.Error(t, err)
}

func TestHandleMessageRetainsOnlyChannelMessages(t *testing.T) {
	svc := New(nil)

	svc.handleMessage([]byte(`{"event":"pong","reqid":7}`))
	svc.handleMessage([]byte(`not json`))
	svc.handleMessage([]byte(`["too short"]`))
	svc.handleMessage([]byte(`[[{"a":1}],"ownTrades",{"sequence":4}]`))
	svc.handleMessage([]byte(`[[{"b":2}],"ownTrades",{"sequence":6}]`))

	recent := svc.Recent()
	require.Len(t, recent, 2)

	assert.Equal(t, 4, recent[0].Sequence)
	assert.Equal(t, 6, recent[1].Sequence)
	assert.JSONEq(t, `[{"b":2}]`, string(recent[1].Payload))
}

func TestHandleMessageDispatchesToEveryHandler(t *testing.T) {
	svc := New(nil)

	var first, second []string

	svc.RegisterHandler(func(evt *Event) { first = append(first, evt.Channel) })
	svc.RegisterHandler(func(evt *Event) { second = append(second, evt.Channel) })

	svc.handleMessage([]byte(`{"event":"heartbeat"}`))
	svc.handleMessage([]byte(`[[{"a":1}],"openOrders",{"sequence":1}]`))

	assert.Equal(t, []string{"openOrders"}, first)
	assert.Equal(t, []string{"openOrders"}, second)
}
