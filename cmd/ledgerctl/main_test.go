package main

import (
	"testing"

	"github.com/Fortunato28/mmb/account"
	"github.com/Fortunato28/mmb/balance"
	"github.com/Fortunato28/mmb/common/idgen"
	"github.com/Fortunato28/mmb/currency"
	"github.com/Fortunato28/mmb/pnl"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaultsSnapshotDir(t *testing.T) {
	t.Setenv("LEDGERCTL_SNAPSHOT_DIR", "")
	t.Setenv("LEDGERCTL_FEED_URL", "")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "./data", cfg.SnapshotDir)
}

func TestLoadConfigHonoursEnvOverrides(t *testing.T) {
	t.Setenv("LEDGERCTL_SNAPSHOT_DIR", "/tmp/custom")
	t.Setenv("LEDGERCTL_FEED_URL", "wss://example.invalid/feed")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom", cfg.SnapshotDir)
	assert.NoError(t, cfg.RequireFeedURL())
}

func TestRequireFeedURLRejectsEmpty(t *testing.T) {
	cfg := Config{SnapshotDir: "./data"}
	assert.Error(t, cfg.RequireFeedURL())
}

func TestReadPnLSnapshotRoundTripsWithManagerSave(t *testing.T) {
	dir := t.TempDir()

	aggregator := pnl.NewAggregator(idgen.NewSeeded(0))
	manager := balance.NewManager(aggregator)
	acc := account.New("binance", 1)
	manager.UpdateExchangeBalance(acc, map[currency.Code]decimal.Decimal{
		currency.BTC: decimal.NewFromInt(10),
	}, nil)
	aggregator.Append(pnl.Change{
		ExchangeAccountID: acc,
		CurrencyCode:      currency.USDT,
		SignedAmount:      decimal.NewFromInt(5),
		USDEquivalent:     decimal.NewFromInt(5),
	})

	require.NoError(t, manager.Save(dir))

	restored := balance.NewManager(pnl.NewAggregator(idgen.NewSeeded(0)))
	require.NoError(t, restored.Load(dir))

	before, _ := manager.GetBalances()
	after, _ := restored.GetBalances()
	assert.ElementsMatch(t, before.ReportedBalances, after.ReportedBalances)

	snapshot, err := readPnLSnapshot(dir)
	require.NoError(t, err)
	assert.Len(t, snapshot.Changes, 1)
}

func TestReadPnLSnapshotSurfacesMissingFile(t *testing.T) {
	dir := t.TempDir()
	_, err := readPnLSnapshot(dir)
	assert.Error(t, err)
}
