package subscription

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gabapcia/insightwatch/internal/message"
	"github.com/gabapcia/insightwatch/internal/pkg/logger"
	"github.com/gabapcia/insightwatch/internal/pkg/types"
	"github.com/gabapcia/insightwatch/internal/pkg/x/future"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// current reports whether ep is still the running epoch. Channels may deliver an event to a
// handler that was detached while the event was in flight.
func (s *service) current(ep *epoch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.epoch == ep
}

// track registers a detail fetch for ep, unless the epoch ended.
func (s *service) track(ep *epoch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != ep {
		return false
	}

	s.inflight++
	return true
}

// release marks a tracked fetch as emitted.
func (s *service) release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inflight--
	if s.inflight == 0 {
		s.idle.Broadcast()
	}
}

func (s *service) onConnect(ep *epoch) {
	s.mu.Lock()
	if s.epoch != ep {
		s.mu.Unlock()
		return
	}
	s.state = StateConnected
	s.mu.Unlock()

	logger.Info(ep.ctx, "channel connected")

	if err := s.channel.Send(subscribeEvent, inventoryRoom); err != nil {
		s.emitError(ep.ctx, fmt.Errorf("%w: subscribe: %w", ErrChannel, err))
		return
	}

	s.emit(ep.ctx, EventConnected, nil)
}

func (s *service) onDisconnect(ep *epoch, msg Message) {
	s.mu.Lock()
	if s.epoch != ep {
		s.mu.Unlock()
		return
	}
	s.state = StateDisconnected
	s.mu.Unlock()

	reason := reasonOf(msg)
	logger.Warn(ep.ctx, "channel disconnected", "reason", reason)
	s.emit(ep.ctx, EventDisconnected, reason)
}

func (s *service) onChannelError(ep *epoch, msg Message) {
	if !s.current(ep) {
		return
	}

	cause := msg.Err
	if cause == nil {
		cause = errors.New(reasonOf(msg))
	}

	s.emitError(ep.ctx, fmt.Errorf("%w: %w", ErrChannel, cause))
}

func (s *service) onBlock(ep *epoch, msg Message) {
	if !s.current(ep) {
		return
	}

	if msg.Err != nil {
		s.emitError(ep.ctx, fmt.Errorf("%w: %w", ErrChannel, msg.Err))
		return
	}

	block, err := message.ParseBlockAnnouncement(msg.Data)
	if err != nil {
		s.emitError(ep.ctx, err)
		return
	}

	s.emit(ep.ctx, EventBlock, block)

	if ep.subs.Block == ModeDetailed {
		s.fetchBlock(ep, block)
	}
}

func (s *service) onTx(ep *epoch, msg Message) {
	if !s.current(ep) {
		return
	}

	if msg.Err != nil {
		s.emitError(ep.ctx, fmt.Errorf("%w: %w", ErrChannel, msg.Err))
		return
	}

	var opts []message.ParseOption
	if s.strictAddresses && s.addressValidator != nil {
		opts = append(opts, message.WithAddressValidator(s.addressValidator))
	}

	tx, err := message.ParseTransactionAnnouncement(msg.Data, opts...)
	if err != nil {
		s.emitError(ep.ctx, err)
		return
	}

	s.emit(ep.ctx, EventTx, tx)

	if ep.subs.Tx == ModeDetailed {
		s.fetchTransaction(ep, tx.TxID)
	}

	if s.addressFanout {
		s.fanOut(ep.ctx, tx)
	}
}

func (s *service) fetchBlock(ep *epoch, hash message.BlockAnnouncement) {
	if !s.track(ep) {
		return
	}

	ctx, span := s.metrics.tracer.Start(ep.ctx, "subscription.fetch_block",
		trace.WithAttributes(attribute.String("block.hash", hash.String())),
	)
	start := time.Now()

	future.Go(ctx, func(ctx context.Context) (message.BlockDetail, error) {
		return s.fetcher.FetchBlock(ctx, hash.String())
	}).OnComplete(func(detail message.BlockDetail, err error) {
		defer s.release()
		defer span.End()

		s.metrics.recordFetch(ctx, "block", start, err)

		if err := s.completeBlock(ctx, hash, detail, err); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			s.emitError(ctx, err)
		}
	})
}

func (s *service) completeBlock(ctx context.Context, hash message.BlockAnnouncement, detail message.BlockDetail, err error) error {
	if err != nil {
		return fmt.Errorf("%w: block %s: %w", ErrFetch, hash, err)
	}

	detail, err = message.ParseBlockDetail(detail)
	if err != nil {
		return err
	}

	if detail.Hash != hash.String() {
		return fmt.Errorf("%w: requested block %s, received %s", ErrIntegrityViolation, hash, detail.Hash)
	}

	s.emit(ctx, EventBlockDetails, detail)
	return nil
}

func (s *service) fetchTransaction(ep *epoch, txid string) {
	if !s.track(ep) {
		return
	}

	ctx, span := s.metrics.tracer.Start(ep.ctx, "subscription.fetch_transaction",
		trace.WithAttributes(attribute.String("tx.id", txid)),
	)
	start := time.Now()

	future.Go(ctx, func(ctx context.Context) (message.TransactionDetail, error) {
		return s.fetcher.FetchTransaction(ctx, txid)
	}).OnComplete(func(detail message.TransactionDetail, err error) {
		defer s.release()
		defer span.End()

		s.metrics.recordFetch(ctx, "tx", start, err)

		if err := s.completeTransaction(ctx, txid, detail, err); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			s.emitError(ctx, err)
		}
	})
}

func (s *service) completeTransaction(ctx context.Context, txid string, detail message.TransactionDetail, err error) error {
	if err != nil {
		return fmt.Errorf("%w: tx %s: %w", ErrFetch, txid, err)
	}

	detail, err = message.ParseTransactionDetail(detail)
	if err != nil {
		return err
	}

	if detail.TxID != txid {
		return fmt.Errorf("%w: requested tx %s, received %s", ErrIntegrityViolation, txid, detail.TxID)
	}

	s.emit(ctx, EventTxDetails, detail)
	return nil
}

// fanOut emits one event per valid output address and then the per-address summary.
func (s *service) fanOut(ctx context.Context, tx message.TransactionAnnouncement) {
	var (
		order  []string
		seen   = types.NewSet[string]()
		totals = types.NewDefaultMap[string](func() float64 { return 0 })
	)

	for _, out := range tx.Vout {
		if s.addressValidator != nil && !s.addressValidator.IsValid(out.Address) {
			s.emitError(ctx, fmt.Errorf("%w: tx %s: %q", message.ErrInvalidAddress, tx.TxID, out.Address))
			continue
		}

		s.emit(ctx, out.Address, AddressActivity{
			TxID:    tx.TxID,
			Address: out.Address,
			Amount:  out.Amount,
		})

		if !seen.Has(out.Address) {
			seen.Add(out.Address)
			order = append(order, out.Address)
		}
		totals.Set(out.Address, totals.Get(out.Address)+out.Amount)
	}

	summary := VoutSummary{TxID: tx.TxID, Outputs: make([]message.Output, 0, len(order))}
	for _, address := range order {
		summary.Outputs = append(summary.Outputs, message.Output{Address: address, Amount: totals.Get(address)})
	}

	s.emit(ctx, EventTxVout, summary)
}

func (s *service) emit(ctx context.Context, event string, payload any) {
	s.metrics.countEvent(ctx, event)
	s.hub.Emit(event, payload)
}

func (s *service) emitError(ctx context.Context, err error) {
	logger.Debug(ctx, "emitting error event", "error", err)
	s.emit(ctx, EventError, err)
}

// reasonOf extracts a diagnostic string from a channel message.
func reasonOf(msg Message) string {
	if msg.Err != nil {
		return msg.Err.Error()
	}

	var reason string
	if err := json.Unmarshal(msg.Data, &reason); err == nil {
		return reason
	}

	return string(msg.Data)
}
