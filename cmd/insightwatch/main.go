package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gabapcia/insightwatch/internal/config"
	"github.com/gabapcia/insightwatch/internal/handlers/cli"
	"github.com/gabapcia/insightwatch/internal/infra/address"
	"github.com/gabapcia/insightwatch/internal/infra/bitcoind"
	"github.com/gabapcia/insightwatch/internal/infra/insight"
	"github.com/gabapcia/insightwatch/internal/infra/redis"
	"github.com/gabapcia/insightwatch/internal/infra/socketio"
	"github.com/gabapcia/insightwatch/internal/pkg/logger"
	"github.com/gabapcia/insightwatch/internal/pkg/resilience/retry"
	"github.com/gabapcia/insightwatch/internal/pkg/telemetry"
	httptransport "github.com/gabapcia/insightwatch/internal/pkg/transport/http"
	"github.com/gabapcia/insightwatch/internal/pkg/transport/jsonrpc"
	"github.com/gabapcia/insightwatch/internal/relay"
	"github.com/gabapcia/insightwatch/internal/subscription"
)

// maxReconnectDelay caps the backoff between socket reconnection attempts.
const maxReconnectDelay = 30 * time.Second

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cfg.TelemetryEnabled {
		shutdown, err := telemetry.Init(ctx, cfg.ServiceName)
		if err != nil {
			return fmt.Errorf("telemetry: %w", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			_ = shutdown(ctx)
		}()
	}

	if err := logger.Init(cfg.LogLevel); err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx = logger.Derive(ctx, "network", cfg.Network)

	endpoints, err := insight.ResolveEndpoints(cfg.Server, cfg.Network, cfg.RoutePrefix)
	if err != nil {
		return err
	}

	addresses, err := address.NewValidator(cfg.Network)
	if err != nil {
		return err
	}

	httpClient := httptransport.NewClient(
		httptransport.WithTimeout(cfg.HTTPTimeout),
		httptransport.WithRetryMax(cfg.HTTPRetryMax),
		httptransport.WithLogger(logger.Leveled(ctx)),
	)

	var fetcher subscription.DetailFetcher
	switch cfg.Backend {
	case config.BackendBitcoind:
		conn := jsonrpc.NewClient(httpClient, cfg.BitcoindURL, jsonrpc.WithBasicAuth(cfg.BitcoindUser, cfg.BitcoindPassword))
		fetcher = bitcoind.NewClient(conn)
	default:
		fetcher = insight.NewClient(httpClient, endpoints.API)
	}

	reconnect := retry.New(
		retry.WithAttempts(cfg.ReconnectAttempts),
		retry.WithDelay(cfg.ReconnectDelay),
		retry.WithMaxDelay(maxReconnectDelay),
		retry.WithOnRetry(func(attempt uint, err error) {
			logger.Warn(ctx, "socket reconnect attempt failed", "attempt", attempt+1, "error", err)
		}),
	)

	channel, err := socketio.NewClient(endpoints.Socket,
		socketio.WithEngineIOVersion(cfg.EIOVersion),
		socketio.WithRetry(reconnect),
	)
	if err != nil {
		return err
	}

	engine := subscription.New(channel, fetcher,
		subscription.WithAddressValidator(addresses),
		subscription.WithAddressFanout(cfg.AddressFanout),
		subscription.WithStrictAddresses(cfg.StrictAddresses),
	)

	var opts []cli.Option
	if cfg.RelayEnabled() {
		publisher, err := redis.NewClient(ctx, cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword, cfg.RedisDB, cfg.RedisPrefix)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		defer func() { _ = publisher.Close() }()

		opts = append(opts, cli.WithRelay(relay.New(publisher)))
	}

	logger.Debug(ctx, "insightwatch configured", "api", endpoints.API, "socket", endpoints.Socket, "backend", cfg.Backend)

	return cli.Run(ctx, engine, fetcher, addresses, opts...)
}
