package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/gabapcia/insightwatch/internal/message"
	"github.com/gabapcia/insightwatch/internal/pkg/types"
	"github.com/gabapcia/insightwatch/internal/subscription"

	"github.com/urfave/cli/v3"
)

// ErrInvalidArgument is returned when a flag value is rejected before any request is made.
var ErrInvalidArgument = errors.New("invalid argument")

// addressReport is the output of the address command.
type addressReport struct {
	Address string `json:"address"`
	Valid   bool   `json:"valid"`
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// blockCommand returns a CLI command that fetches and prints a block detail record.
//
// Usage example:
//
//	insightwatch block --hash 000000000000000000035cea3f5b5e4a4a22dbd8e4e5b7e9d6177e1ee6e2d5a2
func blockCommand(fetcher subscription.DetailFetcher, cfg config) *cli.Command {
	return &cli.Command{
		Name:        "block",
		Description: "Fetch the detail record of a block.",
		Usage:       "Prints the block identified by --hash as JSON.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "hash",
				Usage:    "Block hash (hex)",
				Required: true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			hash, err := message.ParseBlockAnnouncement(c.String("hash"))
			if err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
			}

			block, err := fetcher.FetchBlock(ctx, hash.String())
			if err != nil {
				return err
			}

			return writeJSON(cfg.out, block)
		},
	}
}

// transactionCommand returns a CLI command that fetches and prints a transaction detail record.
//
// Usage example:
//
//	insightwatch tx --txid 4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b
func transactionCommand(fetcher subscription.DetailFetcher, cfg config) *cli.Command {
	return &cli.Command{
		Name:        "tx",
		Description: "Fetch the detail record of a transaction.",
		Usage:       "Prints the transaction identified by --txid as JSON.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "txid",
				Usage:    "Transaction id (hex)",
				Required: true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			txid := c.String("txid")
			if !types.IsHex(txid) {
				return fmt.Errorf("%w: txid %q is not hex", ErrInvalidArgument, txid)
			}

			tx, err := fetcher.FetchTransaction(ctx, txid)
			if err != nil {
				return err
			}

			return writeJSON(cfg.out, tx)
		},
	}
}

// addressCommand returns a CLI command that reports whether an address belongs to the
// configured network.
//
// Usage example:
//
//	insightwatch address --address 1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa
func addressCommand(addresses message.AddressValidator, cfg config) *cli.Command {
	return &cli.Command{
		Name:        "address",
		Description: "Check an address against the configured network.",
		Usage:       "Prints whether --address is valid for the network.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "address",
				Usage:    "Bitcoin address",
				Required: true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			address := c.String("address")

			return writeJSON(cfg.out, addressReport{
				Address: address,
				Valid:   addresses.IsValid(address),
			})
		},
	}
}
