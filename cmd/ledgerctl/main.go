// Command ledgerctl runs the balance ledger as a standalone process:
// it dials an exchange feed, runs an ingress against the ledger, and
// periodically persists the ledger's three JSON documents (balances,
// reservations, P&L log) to disk. Frames arriving on the feed
// connection are not read or forwarded to the ingress.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Fortunato28/mmb/balance"
	"github.com/Fortunato28/mmb/common/idgen"
	"github.com/Fortunato28/mmb/exchangefeed"
	"github.com/Fortunato28/mmb/log"
	"github.com/Fortunato28/mmb/pnl"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: ledgerctl <run|inspect>")
		os.Exit(2)
	}

	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "run":
		runCommand(cfg)
	case "inspect":
		inspectCommand(cfg)
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand %q\n", os.Args[1])
		os.Exit(2)
	}
}

// runCommand wires a fresh ledger to the configured exchange feed and
// keeps it running until interrupted, snapshotting on an interval and
// once more on shutdown.
func runCommand(cfg Config) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	snapshotEvery := fs.Duration("snapshot-every", time.Minute, "how often to persist ledger snapshots")
	resume := fs.Bool("resume", false, "load the last persisted snapshot before serving")
	fs.Parse(os.Args[2:])

	if err := cfg.RequireFeedURL(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := log.NewSubLogger("ledgerctl")
	aggregator := pnl.NewAggregator(idgen.New())
	manager := balance.NewManager(aggregator)

	if *resume {
		if err := manager.Load(cfg.SnapshotDir); err != nil {
			logger.Warnf("no prior snapshot loaded: %s", err)
		}
	}

	ingress := exchangefeed.NewIngress(manager, 50, 100)
	dialer := exchangefeed.NewDialer(cfg.ExchangeFeedURL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		logger.Infof("received shutdown signal")
		cancel()
	}()

	conn, err := dialer.Dial(ctx)
	if err != nil {
		logger.Errorf("dialing exchange feed: %s", err)
	} else {
		defer conn.Close()
		logger.Infof("connected to exchange feed at %s", cfg.ExchangeFeedURL)
	}

	go func() {
		if err := ingress.Run(ctx); err != nil {
			logger.Warnf("ingress stopped: %s", err)
		}
	}()

	ticker := time.NewTicker(*snapshotEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			if err := manager.Save(cfg.SnapshotDir); err != nil {
				logger.Errorf("final snapshot failed: %s", err)
			}
			return
		case <-ticker.C:
			if err := manager.Save(cfg.SnapshotDir); err != nil {
				logger.Errorf("snapshot failed: %s", err)
			}
		}
	}
}

// inspectCommand prints a summary of the last persisted snapshot
// without starting the feed.
func inspectCommand(cfg Config) {
	manager := balance.NewManager(pnl.NewAggregator(idgen.New()))
	if err := manager.Load(cfg.SnapshotDir); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	balances, reservations := manager.GetBalances()

	pnlSnapshot, err := readPnLSnapshot(cfg.SnapshotDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Printf("reported balances: %d, diffs: %d, positions: %d, limits: %d\n",
		len(balances.ReportedBalances), len(balances.Diffs), len(balances.PositionByFillAmount), len(balances.Limits))
	fmt.Printf("open reservations: %d\n", len(reservations.Reservations))
	fmt.Printf("p&l records: %d\n", len(pnlSnapshot.Changes))
}
