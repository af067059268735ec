package balance

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Fortunato28/mmb/account"
	"github.com/Fortunato28/mmb/currency"
	"github.com/Fortunato28/mmb/pnl"
	"github.com/Fortunato28/mmb/strategy"
	"github.com/shopspring/decimal"
)

// snapshotSchemaVersion is bumped whenever BalanceSnapshot's or
// ReservationSnapshot's shape changes incompatibly.
const snapshotSchemaVersion = 1

// ReportedBalanceEntry is one exchange-reported balance cell.
type ReportedBalanceEntry struct {
	ExchangeAccountID account.ExchangeAccountID `json:"exchange_account_id"`
	CurrencyCode      currency.Code             `json:"currency_code"`
	Amount            decimal.Decimal           `json:"amount"`
}

// DiffEntry is one strategy-scoped virtual diff cell.
type DiffEntry struct {
	Descriptor        strategy.Descriptor       `json:"descriptor"`
	ExchangeAccountID account.ExchangeAccountID `json:"exchange_account_id"`
	Pair              currency.Pair             `json:"pair"`
	CurrencyCode      currency.Code             `json:"currency_code"`
	Amount            decimal.Decimal           `json:"amount"`
}

// PositionEntry is one (account, pair) position cell.
type PositionEntry struct {
	ExchangeAccountID account.ExchangeAccountID `json:"exchange_account_id"`
	Pair              currency.Pair             `json:"pair"`
	Amount            decimal.Decimal           `json:"amount"`
}

// LimitEntry is one configured amount limit.
type LimitEntry struct {
	Descriptor        strategy.Descriptor       `json:"descriptor"`
	ExchangeAccountID account.ExchangeAccountID `json:"exchange_account_id"`
	Pair              currency.Pair             `json:"pair"`
	Limit             decimal.Decimal           `json:"limit"`
}

// BalanceSnapshot is the persisted form of the Virtual Balance Holder,
// Position Tracker and Amount-Limit Manager: the first of the three
// JSON documents the ledger recommends persisting.
type BalanceSnapshot struct {
	SchemaVersion        int                    `json:"schema_version"`
	ReportedBalances     []ReportedBalanceEntry `json:"reported_balances"`
	Diffs                []DiffEntry            `json:"diffs"`
	PositionByFillAmount []PositionEntry        `json:"position_by_fill_amount"`
	Limits               []LimitEntry           `json:"limits"`
}

// ReservationSnapshot is the persisted form of the Reservation Book's
// active reservations: the second of the three JSON documents.
type ReservationSnapshot struct {
	SchemaVersion int           `json:"schema_version"`
	Reservations  []Reservation `json:"reservations"`
}

// PnLSnapshot is the persisted form of the P&L append log: the third
// of the three JSON documents.
type PnLSnapshot struct {
	SchemaVersion int          `json:"schema_version"`
	Changes       []pnl.Change `json:"changes"`
}

const (
	balancesFileName     = "balances.json"
	reservationsFileName = "reservations.json"
	pnlFileName          = "pnl.json"
)

// GetBalances assembles a BalanceSnapshot and ReservationSnapshot
// reflecting the ledger's current state.
func (m *Manager) GetBalances() (BalanceSnapshot, ReservationSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()

	balances := BalanceSnapshot{SchemaVersion: snapshotSchemaVersion}
	for k, v := range m.balances.reported {
		balances.ReportedBalances = append(balances.ReportedBalances, ReportedBalanceEntry{
			ExchangeAccountID: k.ExchangeAccountID,
			CurrencyCode:      k.CurrencyCode,
			Amount:            v,
		})
	}
	for k, v := range m.balances.diffs {
		balances.Diffs = append(balances.Diffs, DiffEntry{
			Descriptor:        k.Descriptor,
			ExchangeAccountID: k.ExchangeAccountID,
			Pair:              k.Pair,
			CurrencyCode:      k.CurrencyCode,
			Amount:            v,
		})
	}
	for k, v := range m.positions.positions {
		balances.PositionByFillAmount = append(balances.PositionByFillAmount, PositionEntry{
			ExchangeAccountID: k.ExchangeAccountID,
			Pair:              k.Pair,
			Amount:            v,
		})
	}
	for k, v := range m.limits.limits {
		balances.Limits = append(balances.Limits, LimitEntry{
			Descriptor:        k.Descriptor,
			ExchangeAccountID: k.ExchangeAccountID,
			Pair:              k.Pair,
			Limit:             v,
		})
	}

	reservations := ReservationSnapshot{SchemaVersion: snapshotSchemaVersion}
	for _, r := range m.reservations.reservations {
		reservations.Reservations = append(reservations.Reservations, *r.clone())
	}

	return balances, reservations
}

// Restore replaces the ledger's in-memory state with a previously
// captured snapshot. It is meant for process startup only: callers
// must not invoke it concurrently with any other Manager method, and
// it does not validate that balances and reservations were captured
// together.
func (m *Manager) Restore(balances BalanceSnapshot, reservations ReservationSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()

	restoredBalances := NewVirtualBalanceHolder()
	for _, e := range balances.ReportedBalances {
		restoredBalances.reported[reportedKey{ExchangeAccountID: e.ExchangeAccountID, CurrencyCode: e.CurrencyCode}] = e.Amount
	}
	for _, e := range balances.Diffs {
		key := diffKey{Descriptor: e.Descriptor, ExchangeAccountID: e.ExchangeAccountID, Pair: e.Pair, CurrencyCode: e.CurrencyCode}
		restoredBalances.diffs[key] = e.Amount
	}
	m.balances = restoredBalances

	restoredPositions := NewPositionTracker()
	for _, e := range balances.PositionByFillAmount {
		key := positionKey{ExchangeAccountID: e.ExchangeAccountID, Pair: e.Pair}
		restoredPositions.positions[key] = e.Amount
		restoredPositions.reported[key] = true
	}
	m.positions = restoredPositions

	restoredLimits := NewLimitManager()
	for _, e := range balances.Limits {
		key := limitKey{Descriptor: e.Descriptor, ExchangeAccountID: e.ExchangeAccountID, Pair: e.Pair}
		restoredLimits.limits[key] = e.Limit
	}
	m.limits = restoredLimits

	restoredBook := NewReservationBook(m.reservations.gen)
	var maxReservationID uint64
	for i := range reservations.Reservations {
		r := reservations.Reservations[i].clone()
		restoredBook.reservations[r.ID] = r
		for clientOrderID, part := range r.ApprovedParts {
			if !part.Cancelled {
				restoredBook.clientOrderOf[clientOrderID] = r.ID
			}
		}
		if id := uint64(r.ID); id > maxReservationID {
			maxReservationID = id
		}
	}
	restoredBook.gen.Bump(maxReservationID)
	m.reservations = restoredBook
}

// Save persists the ledger's three JSON documents — balances,
// reservations, and the P&L append log — into dir, one file per
// document, each written to a temporary file and renamed into place so
// a crash mid-write never leaves a half-written document behind.
func (m *Manager) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("balance: create snapshot dir %s: %w", dir, err)
	}

	balances, reservations := m.GetBalances()
	pnlSnapshot := PnLSnapshot{SchemaVersion: snapshotSchemaVersion, Changes: m.pnl.Records()}

	if err := writeAtomic(filepath.Join(dir, balancesFileName), balances); err != nil {
		return err
	}
	if err := writeAtomic(filepath.Join(dir, reservationsFileName), reservations); err != nil {
		return err
	}
	return writeAtomic(filepath.Join(dir, pnlFileName), pnlSnapshot)
}

// Load reads back the three JSON documents written by Save from dir
// and installs them into the ledger, replacing its current state.
func (m *Manager) Load(dir string) error {
	var balances BalanceSnapshot
	if err := readJSON(filepath.Join(dir, balancesFileName), &balances); err != nil {
		return err
	}
	var reservations ReservationSnapshot
	if err := readJSON(filepath.Join(dir, reservationsFileName), &reservations); err != nil {
		return err
	}
	var pnlSnapshot PnLSnapshot
	if err := readJSON(filepath.Join(dir, pnlFileName), &pnlSnapshot); err != nil {
		return err
	}

	m.Restore(balances, reservations)
	m.pnl.Restore(pnlSnapshot.Changes)
	return nil
}

func writeAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("balance: marshal %s: %w", path, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("balance: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("balance: rename %s to %s: %w", tmp, path, err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("balance: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("balance: unmarshal %s: %w", path, err)
	}
	return nil
}
