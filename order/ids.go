package order

import "github.com/gofrs/uuid"

// ReservationID identifies a reservation within the Reservation Book.
// Ids are generated by common/idgen and are strictly increasing within
// one process run.
type ReservationID uint64

// ClientOrderID identifies a concrete order placed against an
// exchange, generated by the caller or synthesised here when absent.
type ClientOrderID string

// NewClientOrderID synthesises a fresh random ClientOrderID.
func NewClientOrderID() ClientOrderID {
	id, err := uuid.NewV4()
	if err != nil {
		// uuid.NewV4 only fails if the system's random source is
		// broken; there is no sane recovery, and the ledger must never
		// silently hand out a colliding id.
		panic("order: failed to generate client order id: " + err.Error())
	}
	return ClientOrderID(id.String())
}

// TradeID identifies one exchange-reported fill event, used to
// deduplicate re-delivered fills.
type TradeID string
