package feed

type state int

const (
	disconnected state = iota // The feed service has not yet attempted to establish a connection to the Kraken websocket API.
	connecting                // The feed service is obtaining a token and dialing the Kraken websocket API.
	connected                 // The feed service has connected and sent its subscription requests.
	subscribed                // Every requested private channel has acknowledged the subscription.
)

func (o state) String() string {
	return [...]string{"disconnected", "connecting", "connected", "subscribed"}[o]
}
