package balance

import (
	"sync"

	"github.com/Fortunato28/mmb/account"
	"github.com/Fortunato28/mmb/common/idgen"
	"github.com/Fortunato28/mmb/currency"
	"github.com/Fortunato28/mmb/instrument"
	"github.com/Fortunato28/mmb/log"
	"github.com/Fortunato28/mmb/order"
	"github.com/Fortunato28/mmb/pnl"
	"github.com/Fortunato28/mmb/strategy"
	"github.com/shopspring/decimal"
)

// Manager is the ledger's façade: the single entry point strategies
// and the exchange-event ingress use. It owns the one coarse lock that
// serialises every mutating and reading operation across the
// sub-components; none of them lock on their own.
type Manager struct {
	mu sync.Mutex

	balances     *VirtualBalanceHolder
	positions    *PositionTracker
	limits       *LimitManager
	reservations *ReservationBook
	fills        *FillApplicator
	pnl          *pnl.Aggregator

	logger *log.SubLogger
}

// NewManager builds an empty ledger backed by pnlAggregator for
// P&L recording.
func NewManager(pnlAggregator *pnl.Aggregator) *Manager {
	return &Manager{
		balances:     NewVirtualBalanceHolder(),
		positions:    NewPositionTracker(),
		limits:       NewLimitManager(),
		reservations: NewReservationBook(idgen.New()),
		fills:        NewFillApplicator(),
		pnl:          pnlAggregator,
		logger:       log.NewSubLogger("balance"),
	}
}

// UpdateExchangeBalance applies an exchange balance snapshot: reported
// balances replace the prior value per currency, and reported
// positions are ingested (honoured only on the first call per account
// and pair).
func (m *Manager) UpdateExchangeBalance(acc account.ExchangeAccountID, balances map[currency.Code]decimal.Decimal, positions map[currency.Pair]decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances.UpdateBalances(acc, balances)
	for pair, amount := range positions {
		m.positions.IngestReportedPosition(acc, pair, amount)
	}
}

// SetTargetAmountLimit configures the amount-limit manager.
func (m *Manager) SetTargetAmountLimit(desc strategy.Descriptor, acc account.ExchangeAccountID, pair currency.Pair, limit decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.limits.SetTargetAmountLimit(desc, acc, pair, limit)
}

func (m *Manager) validateReserveParameters(params ReserveParameters) error {
	if err := params.Symbol.Validate(); err != nil {
		return err
	}
	if !params.Price.IsPositive() {
		return ErrInvalidPrice
	}
	if !params.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if params.Leverage.IsNegative() {
		return ErrInvalidLeverage
	}
	return nil
}

// evaluateReservation projects params against the current ledger
// state and returns the un-derated free amount on params.Side, along
// with whether the reservation fits.
func (m *Manager) evaluateReservation(params ReserveParameters, explanation *Explanation) (bool, decimal.Decimal, error) {
	position := m.positions.Get(params.ExchangeAccountID, params.Symbol.Pair)
	limit := m.limits.GetLimit(params.Descriptor, params.ExchangeAccountID, params.Symbol.Pair)

	balanceReq := NewBalanceRequest(params.Descriptor, params.ExchangeAccountID, params.Symbol.Pair, params.Symbol.BalanceCurrency)
	reported, err := m.balances.GetVirtualBalance(balanceReq, nil, params.Side, decimal.Zero)
	if err != nil {
		return false, decimal.Zero, err
	}

	free, err := FreeAmount(params.Symbol, params.Side, reported, params.Price, params.Leverage, position)
	if err != nil {
		return false, decimal.Zero, err
	}
	// Live reservations on the same (descriptor, account, pair) count
	// towards the limit as if they had already been filled.
	limitPosition := position
	for _, r := range m.reservations.reservations {
		if r.Descriptor == params.Descriptor && r.ExchangeAccountID == params.ExchangeAccountID && r.Symbol.Pair == params.Symbol.Pair {
			limitPosition = ResultingPosition(r.Side, limitPosition, r.UnreservedAmount)
		}
	}
	free = ClampToLimit(params.Side, free, limitPosition, limit)

	tolerance := params.Symbol.AmountTick
	if params.Amount.GreaterThan(free.Add(tolerance)) {
		explanation.Addf("requested amount %s exceeds free amount %s (tolerance %s)", params.Amount, free, tolerance)
		return false, free, nil
	}
	if !CanReserveAmount(params.Symbol, params.Side, params.Amount, limitPosition, limit) {
		explanation.Addf("resulting position would exceed configured limit")
		return false, free, nil
	}
	return true, free, nil
}

// TryReserve atomically projects the effect of the reservation and, if
// it fits, debits the virtual diff and inserts a fresh reservation.
// Returns a nil id and nil error when the reservation does not fit;
// explanation, if non-nil, is populated with the reason.
func (m *Manager) TryReserve(params ReserveParameters, explanation *Explanation) (*order.ReservationID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.validateReserveParameters(params); err != nil {
		return nil, err
	}

	fits, _, err := m.evaluateReservation(params, explanation)
	if err != nil {
		return nil, err
	}
	if !fits {
		return nil, nil
	}

	cpu, err := CostPerUnit(params.Symbol, params.Side, params.Price, params.Leverage)
	if err != nil {
		return nil, err
	}
	cost := params.Amount.Mul(cpu)

	balanceReq := NewBalanceRequest(params.Descriptor, params.ExchangeAccountID, params.Symbol.Pair, params.Symbol.BalanceCurrency)
	m.balances.AddDiff(balanceReq, cost.Neg())

	id := m.reservations.Create(params.Descriptor, params.ExchangeAccountID, params.Symbol, params.Side, params.Price, params.Leverage, params.Amount, cost)
	explanation.Addf("reserved %s on %s side at price %s (leverage %s)", params.Amount, params.Side, params.Price, params.Leverage)
	return &id, nil
}

// CanReserve reports whether a reservation for params would fit
// without mutating any state.
func (m *Manager) CanReserve(params ReserveParameters, explanation *Explanation) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.validateReserveParameters(params); err != nil {
		explanation.Addf("invalid reservation parameters: %s", err)
		return false
	}
	fits, _, err := m.evaluateReservation(params, explanation)
	if err != nil {
		explanation.Addf("projection failed: %s", err)
		return false
	}
	return fits
}

// ApproveReservation moves amount from id's not-approved amount into
// an approved part keyed by clientOrderID.
func (m *Manager) ApproveReservation(id order.ReservationID, clientOrderID order.ClientOrderID, amount decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reservations.Approve(id, clientOrderID, amount)
}

// Unreserve releases amount of id's remaining capacity and credits the
// equivalent value back to the side-appropriate virtual diff.
func (m *Manager) Unreserve(id order.ReservationID, amount decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, err := m.reservations.Get(id)
	if err != nil {
		return err
	}
	symbol := r.Symbol
	desc := r.Descriptor
	acc := r.ExchangeAccountID

	cpu, err := m.reservations.Unreserve(id, amount)
	if err != nil {
		return err
	}
	credit := amount.Mul(cpu)
	balanceReq := NewBalanceRequest(desc, acc, symbol.Pair, symbol.BalanceCurrency)
	m.balances.AddDiff(balanceReq, credit)
	return nil
}

// TryTransferReservation moves amount from src to dst; both must
// share side, account, descriptor and symbol.
func (m *Manager) TryTransferReservation(src, dst order.ReservationID, amount decimal.Decimal) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reservations.TryTransferReservation(src, dst, amount) == nil
}

// OrderWasFilled applies every fill in header's order to the ledger
// and appends a P&L record per fill.
func (m *Manager) OrderWasFilled(desc strategy.Descriptor, symbol instrument.Metadata, leverage decimal.Decimal, o order.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, fill := range o.Fills {
		effect, err := m.fills.Apply(m.balances, m.positions, desc, o.Header.ExchangeAccountID, symbol, o.Header.Side, leverage, fill)
		if err != nil {
			return err
		}
		if !effect.Applied {
			continue
		}
		if m.pnl != nil {
			m.pnl.Append(pnl.Change{
				Descriptor:        desc,
				ExchangeAccountID: o.Header.ExchangeAccountID,
				CurrencyCode:      symbol.AmountCurrency,
				SignedAmount:      effect.SignedPositionDelta,
				Timestamp:         fill.Time,
			})
		}
	}
	return nil
}

// OrderWasFinished runs terminal cleanup for a finished order: any
// remaining approved capacity is released, and if the resulting
// position exceeds a configured limit the violation is logged but not
// rolled back, since the ledger is authoritative only for local
// accounting and the exchange remains the source of truth.
func (m *Manager) OrderWasFinished(desc strategy.Descriptor, acc account.ExchangeAccountID, pair currency.Pair, reservationID *order.ReservationID, clientOrderID order.ClientOrderID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if reservationID != nil {
		if r, err := m.reservations.Get(*reservationID); err == nil {
			if part, ok := r.ApprovedParts[clientOrderID]; ok && !part.Cancelled {
				if cpu, err := CostPerUnit(r.Symbol, r.Side, r.Price, r.Leverage); err == nil {
					portion := part.UnreservedPortion
					part.UnreservedPortion = decimal.Zero
					part.Cancelled = true
					r.UnreservedAmount = r.UnreservedAmount.Sub(portion)
					if r.UnreservedAmount.IsZero() {
						delete(m.reservations.reservations, *reservationID)
					}
					credit := portion.Mul(cpu)
					balanceReq := NewBalanceRequest(desc, acc, r.Symbol.Pair, r.Symbol.BalanceCurrency)
					m.balances.AddDiff(balanceReq, credit)
				}
			}
		}
	}

	if limit := m.limits.GetLimit(desc, acc, pair); limit != nil {
		position := m.positions.Get(acc, pair)
		if position.Abs().GreaterThan(*limit) {
			m.logger.Errorf("position %s for %s/%s exceeds configured limit %s after order finished", position, acc, pair, *limit)
		}
	}
}

// GetBalanceByCurrencyCode returns reported+diff for code, projected
// through price when code differs from symbol's balance currency, and
// derated by the safety factor.
func (m *Manager) GetBalanceByCurrencyCode(desc strategy.Descriptor, acc account.ExchangeAccountID, symbol instrument.Metadata, code currency.Code, price decimal.Decimal) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	req := NewBalanceRequest(desc, acc, symbol.Pair, code)
	raw, err := m.balances.GetVirtualBalance(req, &symbol, order.Buy, price)
	if err != nil {
		return decimal.Zero, err
	}
	return ApplySafetyFactor(raw), nil
}

// GetBalanceBySide returns the derated free amount (in amount
// currency, unleveraged) available on side.
func (m *Manager) GetBalanceBySide(desc strategy.Descriptor, acc account.ExchangeAccountID, symbol instrument.Metadata, side order.Side, price decimal.Decimal) (decimal.Decimal, error) {
	return m.GetLeveragedBalanceInAmountCurrencyCode(NewReserveParameters(desc, acc, symbol, side, price, decimal.Zero, decimal.NewFromInt(1)))
}

// GetBalanceByReserveParameters is GetBalanceBySide expressed directly
// in terms of a ReserveParameters bundle, ignoring its Amount field.
func (m *Manager) GetBalanceByReserveParameters(params ReserveParameters) (decimal.Decimal, error) {
	return m.GetLeveragedBalanceInAmountCurrencyCode(params)
}

// GetLeveragedBalanceInAmountCurrencyCode returns the derated free
// amount (in amount currency) available on params.Side under
// params.Leverage.
func (m *Manager) GetLeveragedBalanceInAmountCurrencyCode(params ReserveParameters) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	position := m.positions.Get(params.ExchangeAccountID, params.Symbol.Pair)
	limit := m.limits.GetLimit(params.Descriptor, params.ExchangeAccountID, params.Symbol.Pair)

	balanceReq := NewBalanceRequest(params.Descriptor, params.ExchangeAccountID, params.Symbol.Pair, params.Symbol.BalanceCurrency)
	reported, err := m.balances.GetVirtualBalance(balanceReq, nil, params.Side, decimal.Zero)
	if err != nil {
		return decimal.Zero, err
	}
	free, err := FreeAmount(params.Symbol, params.Side, reported, params.Price, params.Leverage, position)
	if err != nil {
		return decimal.Zero, err
	}
	free = ClampToLimit(params.Side, free, position, limit)
	return ApplySafetyFactor(free), nil
}

// GetPosition returns the signed position for (acc, pair); sign
// depends on side's query convention: buy-side returns +position,
// sell-side returns −position.
func (m *Manager) GetPosition(acc account.ExchangeAccountID, pair currency.Pair, side order.Side) decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	pos := m.positions.Get(acc, pair)
	if side == order.Sell {
		return pos.Neg()
	}
	return pos
}
