package balance

import (
	"github.com/Fortunato28/mmb/order"
	"github.com/shopspring/decimal"
)

// Clone produces a deep, independent copy of the ledger, then, for
// every order in orders whose reservation has a positive
// not_approved_amount, subtracts that order's contribution from the
// clone's virtual diff as if it had been unreserved. The original
// ledger is never touched; the returned clone may be mutated freely by
// the caller without any further coordination.
func (m *Manager) Clone(orders []order.Header) *Manager {
	m.mu.Lock()
	clone := &Manager{
		balances:     m.balances.clone(),
		positions:    m.positions.clone(),
		limits:       m.limits.clone(),
		reservations: m.reservations.clone(),
		fills:        m.fills.clone(),
		pnl:          m.pnl,
		logger:       m.logger,
	}
	m.mu.Unlock()

	for _, header := range orders {
		if header.ReservationID == nil {
			continue
		}
		r, err := clone.reservations.Get(*header.ReservationID)
		if err != nil || !r.NotApprovedAmount.IsPositive() {
			continue
		}

		cpu, err := CostPerUnit(r.Symbol, r.Side, r.Price, r.Leverage)
		if err != nil {
			continue
		}
		credit := r.NotApprovedAmount.Mul(cpu)
		balanceReq := NewBalanceRequest(r.Descriptor, r.ExchangeAccountID, r.Symbol.Pair, r.Symbol.BalanceCurrency)
		clone.balances.AddDiff(balanceReq, credit)

		r.UnreservedAmount = r.UnreservedAmount.Sub(r.NotApprovedAmount)
		r.NotApprovedAmount = decimal.Zero
	}

	return clone
}
