package exchangefeed

import (
	"context"

	"github.com/Fortunato28/mmb/log"
	"golang.org/x/time/rate"
)

// queueDepth bounds how many undelivered events the ingress will
// buffer. Once it is full, every new push of any kind is dropped and
// logged rather than blocking the caller; events already queued are
// kept.
const queueDepth = 1024

type queuedEvent struct {
	balance *BalanceSnapshot
	fill    *FillEvent
	finish  *FinishEvent
}

// Ingress decouples exchange push delivery from the ledger's lock: the
// goroutine that feeds PushBalance/PushFill/PushFinish (typically a
// websocket read loop) never blocks on the ledger, and Run's handler
// goroutine applies events serially, rate-limited against runaway
// reconnect storms.
type Ingress struct {
	capability Capability
	limiter    *rate.Limiter
	events     chan queuedEvent
	logger     *log.SubLogger
}

// NewIngress returns an Ingress that applies at most eventsPerSecond
// events to capability, sustained, with bursts up to burst.
func NewIngress(capability Capability, eventsPerSecond float64, burst int) *Ingress {
	return &Ingress{
		capability: capability,
		limiter:    rate.NewLimiter(rate.Limit(eventsPerSecond), burst),
		events:     make(chan queuedEvent, queueDepth),
		logger:     log.NewSubLogger("exchangefeed"),
	}
}

// PushBalance enqueues a balance snapshot. Never blocks: when the
// queue is full the snapshot is dropped and logged, since a later
// snapshot will supersede it.
func (i *Ingress) PushBalance(snapshot BalanceSnapshot) {
	select {
	case i.events <- queuedEvent{balance: &snapshot}:
	default:
		i.logger.Warnf("dropping balance snapshot for %s: ingress queue full", snapshot.Account)
	}
}

// PushFill enqueues a fill event. Never blocks.
func (i *Ingress) PushFill(fill FillEvent) {
	select {
	case i.events <- queuedEvent{fill: &fill}:
	default:
		i.logger.Warnf("dropping fill event: ingress queue full")
	}
}

// PushFinish enqueues an order finalisation event. Never blocks.
func (i *Ingress) PushFinish(finish FinishEvent) {
	select {
	case i.events <- queuedEvent{finish: &finish}:
	default:
		i.logger.Warnf("dropping finish event: ingress queue full")
	}
}

// Run drains queued events until ctx is cancelled, applying each to
// capability in arrival order. It returns ctx.Err() once cancelled.
func (i *Ingress) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-i.events:
			if err := i.limiter.Wait(ctx); err != nil {
				return err
			}
			i.apply(ev)
		}
	}
}

func (i *Ingress) apply(ev queuedEvent) {
	switch {
	case ev.balance != nil:
		i.capability.UpdateExchangeBalance(ev.balance.Account, ev.balance.Balances, ev.balance.Positions)
	case ev.fill != nil:
		if err := i.capability.OrderWasFilled(ev.fill.Descriptor, ev.fill.Symbol, ev.fill.Leverage, ev.fill.Order); err != nil {
			i.logger.Errorf("applying fill: %s", err)
		}
	case ev.finish != nil:
		i.capability.OrderWasFinished(ev.finish.Descriptor, ev.finish.ExchangeAccountID, ev.finish.Pair, ev.finish.ReservationID, ev.finish.ClientOrderID)
	}
}
