package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Fortunato28/mmb/balance"
)

const pnlFileName = "pnl.json"

// readPnLSnapshot reads the P&L document Manager.Save wrote, for
// "inspect" to report on without needing a live *balance.Manager.
func readPnLSnapshot(dir string) (balance.PnLSnapshot, error) {
	var snapshot balance.PnLSnapshot
	data, err := os.ReadFile(filepath.Join(dir, pnlFileName))
	if err != nil {
		return snapshot, fmt.Errorf("ledgerctl: read %s: %w", pnlFileName, err)
	}
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return snapshot, fmt.Errorf("ledgerctl: unmarshal %s: %w", pnlFileName, err)
	}
	return snapshot, nil
}
