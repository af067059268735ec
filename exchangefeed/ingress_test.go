package exchangefeed

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Fortunato28/mmb/account"
	"github.com/Fortunato28/mmb/currency"
	"github.com/Fortunato28/mmb/instrument"
	"github.com/Fortunato28/mmb/order"
	"github.com/Fortunato28/mmb/strategy"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCapability struct {
	mu             sync.Mutex
	balanceUpdates int
	filledOrders   int
	finishedOrders int
	lastAccount    account.ExchangeAccountID
}

func (f *fakeCapability) UpdateExchangeBalance(acc account.ExchangeAccountID, _ map[currency.Code]decimal.Decimal, _ map[currency.Pair]decimal.Decimal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balanceUpdates++
	f.lastAccount = acc
}

func (f *fakeCapability) OrderWasFilled(strategy.Descriptor, instrument.Metadata, decimal.Decimal, order.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filledOrders++
	return nil
}

func (f *fakeCapability) OrderWasFinished(strategy.Descriptor, account.ExchangeAccountID, currency.Pair, *order.ReservationID, order.ClientOrderID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finishedOrders++
}

func (f *fakeCapability) counts() (int, int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.balanceUpdates, f.filledOrders, f.finishedOrders
}

func TestIngressAppliesQueuedEvents(t *testing.T) {
	t.Parallel()
	capa := &fakeCapability{}
	ingress := NewIngress(capa, 1000, 1000)

	acc := account.New("binance", 1)
	ingress.PushBalance(BalanceSnapshot{Account: acc})
	ingress.PushFill(FillEvent{})
	ingress.PushFinish(FinishEvent{})

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	go ingress.Run(ctx)

	require.Eventually(t, func() bool {
		balances, fills, finishes := capa.counts()
		return balances == 1 && fills == 1 && finishes == 1
	}, 150*time.Millisecond, 5*time.Millisecond)
}

func TestIngressPushNeverBlocksWhenQueueFull(t *testing.T) {
	t.Parallel()
	capa := &fakeCapability{}
	ingress := NewIngress(capa, 0.0001, 1) // effectively never drains

	done := make(chan struct{})
	go func() {
		for i := 0; i < queueDepth+10; i++ {
			ingress.PushBalance(BalanceSnapshot{Account: account.New("binance", int64(i))})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("PushBalance blocked instead of dropping once the queue filled")
	}
}

func TestIngressRunStopsOnCancellation(t *testing.T) {
	t.Parallel()
	capa := &fakeCapability{}
	ingress := NewIngress(capa, 1000, 1000)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- ingress.Run(ctx) }()
	cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}
