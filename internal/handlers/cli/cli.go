package cli

import (
	"context"
	"io"
	"os"
	"syscall"

	"github.com/gabapcia/insightwatch/internal/message"
	"github.com/gabapcia/insightwatch/internal/relay"
	"github.com/gabapcia/insightwatch/internal/subscription"

	"github.com/urfave/cli/v3"
)

type config struct {
	relay   relay.Service
	out     io.Writer
	signals []os.Signal
}

// Option configures the CLI application.
type Option func(*config)

// WithRelay republishes the events of the watch command through r.
func WithRelay(r relay.Service) Option {
	return func(c *config) {
		c.relay = r
	}
}

// WithOutput sets where command results are written.
// Default: os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		c.out = w
	}
}

// Run initializes and executes the insightwatch CLI application.
//
// It registers all available commands, including:
//
//   - `watch`: Subscribes to the server and streams notifications until interrupted.
//   - `block`: Fetches the detail record of a block.
//   - `tx`: Fetches the detail record of a transaction.
//   - `address`: Checks an address against the configured network.
//
// Parameters:
//   - ctx: Context used to control the lifecycle of the CLI application.
//   - engine: The subscription engine used by the watch command.
//   - fetcher: The detail fetcher used by the block and tx commands.
//   - addresses: The validator used by the address and watch commands.
func Run(ctx context.Context, engine subscription.Service, fetcher subscription.DetailFetcher, addresses message.AddressValidator, opts ...Option) error {
	return newCommand(engine, fetcher, addresses, opts...).Run(ctx, os.Args)
}

func newCommand(engine subscription.Service, fetcher subscription.DetailFetcher, addresses message.AddressValidator, opts ...Option) *cli.Command {
	cfg := config{
		out:     os.Stdout,
		signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &cli.Command{
		EnableShellCompletion: true,
		Name:                  "insightwatch",
		Description:           "Realtime Bitcoin block and transaction notifications from an Insight server.",
		Usage:                 "insightwatch [command] [flags]",
		Writer:                cfg.out,
		Commands: []*cli.Command{
			watchCommand(engine, addresses, cfg),
			blockCommand(fetcher, cfg),
			transactionCommand(fetcher, cfg),
			addressCommand(addresses, cfg),
		},
	}
}
