package commands

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/cleared-dev/ledger/internal/accounts"
	"github.com/cleared-dev/ledger/internal/config"
	"github.com/cleared-dev/ledger/internal/journal"
	"github.com/cleared-dev/ledger/internal/logger"
)

// ledger is a chart of accounts built from ledger.yaml with its journals applied.
type ledger struct {
	cfg   *config.Config
	index *accounts.Index
	log   *zap.Logger
}

func (o *options) load() (*ledger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", o.configPath, err)
	}

	mode, level := cfg.Log.Mode, cfg.Log.Level
	if o.verbose {
		mode, level = logger.ModeDebug, "debug"
	}
	log, err := logger.New(mode, level)
	if err != nil {
		return nil, err
	}

	currency, err := cfg.Currency()
	if err != nil {
		return nil, err
	}
	index := accounts.NewStandard(currency,
		accounts.WithLogger(log),
		accounts.WithSegment(cfg.Ledger.Segment))

	for _, a := range cfg.Accounts {
		parent, err := index.Lookup(a.Parent)
		if err != nil {
			return nil, fmt.Errorf("account %q: parent: %w", a.Name, err)
		}
		if _, err := index.CreateCustomAccount(a.Name, parent); err != nil {
			return nil, err
		}
	}

	paths := cfg.JournalPaths(filepath.Dir(o.configPath))
	paths = append(paths, o.journals...)
	svc := journal.NewService(index, log)
	for _, p := range paths {
		if _, err := svc.ApplyFile(p); err != nil {
			return nil, err
		}
	}

	log.Debug("ledger loaded",
		zap.String("config", o.configPath),
		zap.Int("custom_accounts", len(cfg.Accounts)),
		zap.Int("journals", len(paths)))
	return &ledger{cfg: cfg, index: index, log: log}, nil
}

func (l *ledger) close() {
	_ = l.log.Sync()
}
