package balance

import (
	"github.com/Fortunato28/mmb/account"
	"github.com/Fortunato28/mmb/common/idgen"
	"github.com/Fortunato28/mmb/instrument"
	"github.com/Fortunato28/mmb/order"
	"github.com/Fortunato28/mmb/strategy"
	"github.com/shopspring/decimal"
)

// ApprovedPart is the portion of a reservation tied to one concrete
// client order. UnreservedPortion starts equal to Amount and decreases
// as the order's remaining capacity is released.
type ApprovedPart struct {
	Amount            decimal.Decimal
	Cancelled         bool
	UnreservedPortion decimal.Decimal
}

// Reservation is one live hold against a strategy's projected balance.
type Reservation struct {
	ID                order.ReservationID
	Descriptor        strategy.Descriptor
	ExchangeAccountID account.ExchangeAccountID
	Symbol            instrument.Metadata
	Side              order.Side
	Price             decimal.Decimal
	Leverage          decimal.Decimal

	Amount            decimal.Decimal
	NotApprovedAmount decimal.Decimal
	UnreservedAmount  decimal.Decimal
	Cost              decimal.Decimal

	ApprovedParts map[order.ClientOrderID]*ApprovedPart
}

// clone returns a deep copy of the reservation.
func (r *Reservation) clone() *Reservation {
	out := *r
	out.ApprovedParts = make(map[order.ClientOrderID]*ApprovedPart, len(r.ApprovedParts))
	for k, v := range r.ApprovedParts {
		part := *v
		out.ApprovedParts[k] = &part
	}
	return &out
}

// ReservationBook holds every live reservation, indexed by id, plus a
// secondary index from approved client order ids back to their
// reservation. It carries no locking of its own.
type ReservationBook struct {
	gen           *idgen.Generator
	reservations  map[order.ReservationID]*Reservation
	clientOrderOf map[order.ClientOrderID]order.ReservationID
}

// NewReservationBook returns an empty book backed by gen for fresh ids.
func NewReservationBook(gen *idgen.Generator) *ReservationBook {
	return &ReservationBook{
		gen:           gen,
		reservations:  make(map[order.ReservationID]*Reservation),
		clientOrderOf: make(map[order.ClientOrderID]order.ReservationID),
	}
}

// Create inserts a fresh reservation fully unapproved and returns its
// id. Callers are expected to have already verified the reservation
// fits via the projection engine.
func (b *ReservationBook) Create(desc strategy.Descriptor, acc account.ExchangeAccountID, symbol instrument.Metadata, side order.Side, price, leverage, amount, cost decimal.Decimal) order.ReservationID {
	id := order.ReservationID(b.gen.Next())
	b.reservations[id] = &Reservation{
		ID:                id,
		Descriptor:        desc,
		ExchangeAccountID: acc,
		Symbol:            symbol,
		Side:              side,
		Price:             price,
		Leverage:          leverage,
		Amount:            amount,
		NotApprovedAmount: amount,
		UnreservedAmount:  amount,
		Cost:              cost,
		ApprovedParts:     make(map[order.ClientOrderID]*ApprovedPart),
	}
	return id
}

// Get returns the live reservation for id.
func (b *ReservationBook) Get(id order.ReservationID) (*Reservation, error) {
	r, ok := b.reservations[id]
	if !ok {
		return nil, ErrUnknownReservation
	}
	return r, nil
}

// Approve moves amount from id's not-approved amount into an approved
// part keyed by clientOrderID, creating the part on first approval.
func (b *ReservationBook) Approve(id order.ReservationID, clientOrderID order.ClientOrderID, amount decimal.Decimal) error {
	r, ok := b.reservations[id]
	if !ok {
		return ErrUnknownReservation
	}
	if amount.GreaterThan(r.NotApprovedAmount) {
		return ErrApprovedExceedsNotApproved
	}
	r.NotApprovedAmount = r.NotApprovedAmount.Sub(amount)
	part, exists := r.ApprovedParts[clientOrderID]
	if !exists {
		part = &ApprovedPart{}
		r.ApprovedParts[clientOrderID] = part
	}
	part.Amount = part.Amount.Add(amount)
	part.UnreservedPortion = part.UnreservedPortion.Add(amount)
	b.clientOrderOf[clientOrderID] = id
	return nil
}

// ReservationByClientOrder resolves the reservation an approved client
// order belongs to.
func (b *ReservationBook) ReservationByClientOrder(clientOrderID order.ClientOrderID) (*Reservation, error) {
	id, ok := b.clientOrderOf[clientOrderID]
	if !ok {
		return nil, ErrUnknownClientOrder
	}
	return b.Get(id)
}

// Unreserve releases amount of id's remaining unreserved capacity,
// dropping the reservation entirely once it reaches zero. It releases
// the not-yet-approved portion first; any excess is released from
// approved parts' own unreserved portion, cancelling a part once its
// portion reaches zero. Returns the cost-per-unit to credit back to
// the virtual balance diff at the reservation's stored price.
func (b *ReservationBook) Unreserve(id order.ReservationID, amount decimal.Decimal) (decimal.Decimal, error) {
	r, ok := b.reservations[id]
	if !ok {
		return decimal.Zero, ErrUnknownReservation
	}
	if amount.GreaterThan(r.UnreservedAmount) {
		return decimal.Zero, ErrUnreserveExceedsUnreserved
	}

	cpu, err := CostPerUnit(r.Symbol, r.Side, r.Price, r.Leverage)
	if err != nil {
		return decimal.Zero, err
	}

	remaining := amount
	fromNotApproved := decimal.Min(remaining, r.NotApprovedAmount)
	r.NotApprovedAmount = r.NotApprovedAmount.Sub(fromNotApproved)
	remaining = remaining.Sub(fromNotApproved)

	for _, part := range r.ApprovedParts {
		if remaining.IsZero() {
			break
		}
		release := decimal.Min(remaining, part.UnreservedPortion)
		part.UnreservedPortion = part.UnreservedPortion.Sub(release)
		if part.UnreservedPortion.IsZero() {
			part.Cancelled = true
		}
		remaining = remaining.Sub(release)
	}

	r.UnreservedAmount = r.UnreservedAmount.Sub(amount)
	if r.UnreservedAmount.IsZero() {
		delete(b.reservations, id)
	}
	return cpu, nil
}

// TryTransferReservation moves amount from src's not-yet-approved
// capacity to dst, uniformly across Amount, Cost, NotApprovedAmount
// and UnreservedAmount. Both reservations must share side, account,
// descriptor and currency pair. Cost moves by the same amount as the
// other three fields; no conversion between the two reservations'
// prices is applied.
func (b *ReservationBook) TryTransferReservation(srcID, dstID order.ReservationID, amount decimal.Decimal) error {
	src, ok := b.reservations[srcID]
	if !ok {
		return ErrUnknownReservation
	}
	dst, ok := b.reservations[dstID]
	if !ok {
		return ErrUnknownReservation
	}
	if src.Side != dst.Side || src.ExchangeAccountID != dst.ExchangeAccountID ||
		src.Descriptor != dst.Descriptor || src.Symbol.Pair != dst.Symbol.Pair {
		return ErrMismatchedTransferEndpoints
	}
	if amount.GreaterThan(src.NotApprovedAmount) {
		return ErrUnreserveExceedsUnreserved
	}

	src.Amount = src.Amount.Sub(amount)
	src.NotApprovedAmount = src.NotApprovedAmount.Sub(amount)
	src.UnreservedAmount = src.UnreservedAmount.Sub(amount)
	src.Cost = src.Cost.Sub(amount)
	if src.UnreservedAmount.IsZero() {
		delete(b.reservations, srcID)
	}

	dst.Amount = dst.Amount.Add(amount)
	dst.NotApprovedAmount = dst.NotApprovedAmount.Add(amount)
	dst.UnreservedAmount = dst.UnreservedAmount.Add(amount)
	dst.Cost = dst.Cost.Add(amount)
	return nil
}

// clone returns a deep copy of the whole book.
func (b *ReservationBook) clone() *ReservationBook {
	out := &ReservationBook{
		gen:           b.gen,
		reservations:  make(map[order.ReservationID]*Reservation, len(b.reservations)),
		clientOrderOf: make(map[order.ClientOrderID]order.ReservationID, len(b.clientOrderOf)),
	}
	for k, v := range b.reservations {
		out.reservations[k] = v.clone()
	}
	for k, v := range b.clientOrderOf {
		out.clientOrderOf[k] = v
	}
	return out
}
