package subscription

import "github.com/gabapcia/insightwatch/internal/message"

// Local event names emitted on the hub. Address fan-out additionally emits one event per
// output address, named after the address.
const (
	EventConnected    = "connected"
	EventDisconnected = "disconnected"
	EventError        = "error"
	EventBlock        = "block"
	EventBlockDetails = "block:details"
	EventTx           = "tx"
	EventTxDetails    = "tx:details"
	EventTxVout       = "tx:vout"
)

// AddressActivity is the payload of a per-address event.
type AddressActivity struct {
	TxID    string  `json:"txid"`
	Address string  `json:"address"`
	Amount  float64 `json:"amount"`
}

// VoutSummary is the payload of EventTxVout: the amounts received per valid address, in the
// order the addresses first appear in the transaction.
type VoutSummary struct {
	TxID    string           `json:"txid"`
	Outputs []message.Output `json:"vout"`
}
