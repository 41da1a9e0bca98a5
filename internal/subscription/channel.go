package subscription

import (
	"context"
	"encoding/json"

	"github.com/gabapcia/insightwatch/internal/message"
)

// Events delivered by a Channel.
const (
	ChannelConnect    = "connect"
	ChannelDisconnect = "disconnect"
	ChannelError      = "error"
	ChannelBlock      = "block"
	ChannelTx         = "tx"
)

// Outbound control message sent on every connect.
const (
	subscribeEvent = "subscribe"
	inventoryRoom  = "inv"
)

// Message is one inbound channel event. Data holds the raw JSON payload; Err is set for
// transport level errors.
type Message struct {
	Data json.RawMessage
	Err  error
}

// Handler processes an inbound channel event.
type Handler func(Message)

// Channel is the persistent push connection to the server.
//
// Implementations deliver events one at a time. Close must not fire a disconnect event.
type Channel interface {
	// Open establishes the connection. Reconnection after a drop is up to the implementation,
	// which fires connect again once the session is restored.
	Open(ctx context.Context) error

	// Close ends the connection and stops any reconnection.
	Close() error

	// On registers h for event.
	On(event string, h Handler)

	// Off removes every handler of event.
	Off(event string)

	// Listeners returns the number of handlers registered for event.
	Listeners(event string) int

	// Send emits an outbound event with payload.
	Send(event string, payload any) error
}

// DetailFetcher retrieves the detail record of an announcement.
type DetailFetcher interface {
	// FetchBlock returns the block identified by hash.
	FetchBlock(ctx context.Context, hash string) (message.BlockDetail, error)

	// FetchTransaction returns the transaction identified by txid.
	FetchTransaction(ctx context.Context, txid string) (message.TransactionDetail, error)
}
