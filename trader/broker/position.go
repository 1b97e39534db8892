package broker

//
// position is an enum that represents the current state of the Broker Service. It is used to
// indicate what the Broker Service is currently doing.
//
type position int

const (
	offline    position = iota // The Broker Service is not currently running.
	waiting                    // The Broker Service is running but not currently talking to the exchange.
	submitting                 // Orders are being submitted or balances are being retrieved.
)
