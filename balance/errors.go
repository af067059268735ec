// Package balance implements the ledger core: virtual balances,
// positions, amount limits, reservations, the leveraged balance
// projection engine, fill application, speculative cloning, and the
// public façade.
package balance

import "errors"

// Sentinel errors returned by façade operations. None of the ledger's
// own operations panic; every failure is one of these, checked with
// errors.Is per §7's error-handling design.
var (
	// ErrInvalidPrice is returned when a price is not strictly
	// positive, or when a projection would require dividing by zero.
	ErrInvalidPrice = errors.New("balance: invalid price")
	// ErrInvalidAmount is returned when an amount is not strictly
	// positive where one is required.
	ErrInvalidAmount = errors.New("balance: invalid amount")
	// ErrInvalidLeverage is returned when leverage is negative.
	ErrInvalidLeverage = errors.New("balance: invalid leverage")
	// ErrUnknownReservation is returned when a reservation id has no
	// corresponding live reservation.
	ErrUnknownReservation = errors.New("balance: unknown reservation id")
	// ErrInsufficientBalance names an insufficient projected balance.
	// TryReserve reports that case as a nil id rather than this error,
	// and no operation in this package returns it.
	ErrInsufficientBalance = errors.New("balance: insufficient projected balance")
	// ErrApprovedExceedsNotApproved is returned by Approve when the
	// requested amount exceeds the reservation's not-yet-approved
	// amount.
	ErrApprovedExceedsNotApproved = errors.New("balance: approved amount exceeds not-approved amount")
	// ErrUnreserveExceedsUnreserved is returned by Unreserve when the
	// requested amount exceeds the reservation's remaining unreserved
	// amount.
	ErrUnreserveExceedsUnreserved = errors.New("balance: unreserve amount exceeds unreserved amount")
	// ErrMismatchedTransferEndpoints is returned by TryTransferReservation
	// when the source and destination reservations do not share side,
	// account, descriptor, and symbol.
	ErrMismatchedTransferEndpoints = errors.New("balance: transfer endpoints must share side, account, descriptor, and symbol")
	// ErrUnknownClientOrder is returned by
	// ReservationBook.ReservationByClientOrder for a client order id not
	// tied to any approved reservation part.
	ErrUnknownClientOrder = errors.New("balance: unknown client order id")
)
