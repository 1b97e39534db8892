package feed

import (
	"encoding/json"
	"time"
)

//
// Event is a single message received on one of the private channels (e.g. a batch of own trades).
//
type Event struct {
	Channel  string
	Sequence int
	Payload  json.RawMessage
	Received time.Time
}

type subscription struct {
	Name  string `json:"name"`
	Token string `json:"token"`
}

//
// request is an outbound message to the websocket API.
//
type request struct {
	Event        string        `json:"event"`
	ReqID        int           `json:"reqid,omitempty"`
	Subscription *subscription `json:"subscription,omitempty"`
}

//
// status is an inbound, object-shaped message (heartbeats, system status, subscription status).
//
type status struct {
	Event        string `json:"event"`
	Status       string `json:"status"`
	ChannelName  string `json:"channelName"`
	ErrorMessage string `json:"errorMessage"`
	Version      string `json:"version"`
}

type sequenceMeta struct {
	Sequence int `json:"sequence"`
}
