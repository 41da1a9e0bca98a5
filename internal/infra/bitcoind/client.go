// Package bitcoind fetches block and transaction details from a Bitcoin Core node over
// JSON-RPC. The verbose answers use the same field names as Insight, so they go through the
// same normalizers.
package bitcoind

import (
	"context"
	"fmt"

	"github.com/gabapcia/insightwatch/internal/message"
	"github.com/gabapcia/insightwatch/internal/pkg/transport/jsonrpc"
	"github.com/gabapcia/insightwatch/internal/subscription"
)

const (
	methodGetBlock          = "getblock"
	methodGetRawTransaction = "getrawtransaction"

	// blockVerbosityTxIDs makes getblock return the header fields plus the list of txids.
	blockVerbosityTxIDs = 1
)

// client implements subscription.DetailFetcher against a bitcoind JSON-RPC endpoint.
type client struct {
	conn jsonrpc.Client
}

var _ subscription.DetailFetcher = (*client)(nil)

// NewClient returns a DetailFetcher issuing calls through conn.
func NewClient(conn jsonrpc.Client) *client {
	return &client{
		conn: conn,
	}
}

// FetchBlock calls getblock with verbosity 1.
func (c *client) FetchBlock(ctx context.Context, hash string) (message.BlockDetail, error) {
	data, err := c.conn.Fetch(ctx, methodGetBlock, hash, blockVerbosityTxIDs)
	if err != nil {
		return message.BlockDetail{}, fmt.Errorf("%s %s: %w", methodGetBlock, hash, err)
	}

	return message.ParseBlockDetail(data)
}

// FetchTransaction calls getrawtransaction in verbose mode. Nodes without -txindex only know
// mempool and wallet transactions.
func (c *client) FetchTransaction(ctx context.Context, txid string) (message.TransactionDetail, error) {
	data, err := c.conn.Fetch(ctx, methodGetRawTransaction, txid, true)
	if err != nil {
		return message.TransactionDetail{}, fmt.Errorf("%s %s: %w", methodGetRawTransaction, txid, err)
	}

	return message.ParseTransactionDetail(data)
}
