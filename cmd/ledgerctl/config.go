package main

import (
	"fmt"
	"os"

	"github.com/Fortunato28/mmb/common/validate"
)

// Config holds the process-wide settings ledgerctl needs.
type Config struct {
	SnapshotDir     string
	ExchangeFeedURL string
}

// LoadConfig reads configuration from the environment. SnapshotDir
// defaults to "./data" when unset. ExchangeFeedURL is only required by
// the "run" subcommand; RequireFeedURL checks that separately so
// "inspect" works without a feed configured.
func LoadConfig() (Config, error) {
	cfg := Config{
		SnapshotDir:     os.Getenv("LEDGERCTL_SNAPSHOT_DIR"),
		ExchangeFeedURL: os.Getenv("LEDGERCTL_FEED_URL"),
	}
	if cfg.SnapshotDir == "" {
		cfg.SnapshotDir = "./data"
	}
	return cfg, nil
}

// RequireFeedURL checks that ExchangeFeedURL was configured.
func (c Config) RequireFeedURL() error {
	if err := validate.Validate(validate.NonEmpty(c.ExchangeFeedURL)); err != nil {
		return fmt.Errorf("ledgerctl: LEDGERCTL_FEED_URL: %w", err)
	}
	return nil
}
