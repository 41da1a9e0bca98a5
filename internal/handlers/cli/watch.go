package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"sync"

	"github.com/gabapcia/insightwatch/internal/message"
	"github.com/gabapcia/insightwatch/internal/pkg/logger"
	"github.com/gabapcia/insightwatch/internal/subscription"

	"github.com/urfave/cli/v3"
)

// watchedEvents are the local events streamed by the watch command.
var watchedEvents = []string{
	subscription.EventConnected,
	subscription.EventDisconnected,
	subscription.EventError,
	subscription.EventBlock,
	subscription.EventBlockDetails,
	subscription.EventTx,
	subscription.EventTxDetails,
	subscription.EventTxVout,
}

// eventLine is one line of the watch output.
type eventLine struct {
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

// printer writes one JSON line per event. Hub listeners may run concurrently.
type printer struct {
	mu  sync.Mutex
	enc *json.Encoder
}

func newPrinter(w io.Writer) *printer {
	return &printer{enc: json.NewEncoder(w)}
}

func (p *printer) print(event string, payload any) error {
	if err, ok := payload.(error); ok {
		payload = map[string]string{"error": err.Error()}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.enc.Encode(eventLine{Event: event, Payload: payload})
}

func parseSubscriptions(block, tx string) (subscription.Subscriptions, error) {
	blockMode, err := subscription.ParseMode(block)
	if err != nil {
		return subscription.Subscriptions{}, fmt.Errorf("%w: --block: %w", ErrInvalidArgument, err)
	}

	txMode, err := subscription.ParseMode(tx)
	if err != nil {
		return subscription.Subscriptions{}, fmt.Errorf("%w: --tx: %w", ErrInvalidArgument, err)
	}

	return subscription.Subscriptions{Block: blockMode, Tx: txMode}, nil
}

// watchCommand returns a CLI command that activates the subscription engine and writes every
// local event to the output as a JSON line.
//
// Usage example:
//
//	insightwatch watch --block detailed --tx true --address 1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa
//
// The process runs until it receives an interrupt (SIGINT or SIGTERM).
func watchCommand(engine subscription.Service, addresses message.AddressValidator, cfg config) *cli.Command {
	return &cli.Command{
		Name:        "watch",
		Description: "Subscribe to block and transaction announcements and stream them as JSON lines.",
		Usage:       "Streams notifications until Ctrl+C or a termination signal, then disconnects gracefully.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "block",
				Usage: "Block subscription mode (false, true, detailed)",
				Value: subscription.ModeOn.String(),
			},
			&cli.StringFlag{
				Name:  "tx",
				Usage: "Transaction subscription mode (false, true, detailed)",
				Value: subscription.ModeOff.String(),
			},
			&cli.StringSliceFlag{
				Name:  "address",
				Usage: "Also stream the activity of this address; repeatable, needs --tx",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			subs, err := parseSubscriptions(c.String("block"), c.String("tx"))
			if err != nil {
				return err
			}

			events := slices.Clone(watchedEvents)
			for _, address := range c.StringSlice("address") {
				if addresses != nil && !addresses.IsValid(address) {
					return fmt.Errorf("%w: %w: %q", ErrInvalidArgument, message.ErrInvalidAddress, address)
				}
				events = append(events, address)
			}

			if len(events) > len(watchedEvents) && !subs.Tx.Enabled() {
				logger.Warn(ctx, "address activity needs the transaction subscription", "tx", subs.Tx.String())
			}

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, cfg.signals...)
			defer signal.Stop(quit)

			hub := engine.Events()
			out := newPrinter(cfg.out)
			for _, event := range events {
				hub.On(event, func(payload any) {
					if err := out.print(event, payload); err != nil {
						logger.Error(ctx, "failed to write event", "event.name", event, "error", err)
					}
				})
			}

			if cfg.relay != nil {
				cfg.relay.Attach(hub, events...)
				if err := cfg.relay.Start(ctx); err != nil {
					return err
				}
				defer cfg.relay.Close()
			}

			if err := engine.Activate(ctx, subs); err != nil {
				return err
			}
			defer func() {
				if err := engine.Close(); err != nil {
					logger.Warn(ctx, "engine close failed", "error", err)
				}
			}()

			logger.Info(ctx, "watching", "block", subs.Block.String(), "tx", subs.Tx.String())

			select {
			case <-quit:
			case <-ctx.Done():
			}

			return nil
		},
	}
}
