package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/udisondev/dpscalc/internal/config"
	"github.com/udisondev/dpscalc/internal/data"
	"github.com/udisondev/dpscalc/internal/db"
)

// app holds what the commands share. The catalog and the store are opened
// on first use.
type app struct {
	cfg config.Calculator
	log *slog.Logger
	out io.Writer

	bundle *data.Bundle
	store  *db.Store
}

func newApp(cfg config.Calculator, log *slog.Logger, out io.Writer) *app {
	return &app{cfg: cfg, log: log, out: out}
}

func (a *app) close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn("closing store", "err", err)
		}
	}
}

// openStore opens the configured database and applies migrations.
func (a *app) openStore(ctx context.Context) (*db.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	s, err := db.Open(ctx, a.cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		s.Close()
		return nil, err
	}
	a.log.Debug("store opened", "dialect", a.cfg.Database.Dialect)
	a.store = s
	return s, nil
}

// loadData reads the catalog files, records their fingerprints and keeps
// the price history in sync: a changed price file is stored, a missing one
// is replaced by the newest stored snapshot.
func (a *app) loadData(ctx context.Context) (*data.Bundle, error) {
	if a.bundle != nil {
		return a.bundle, nil
	}
	b, err := data.LoadAll(data.Paths{
		Items:     a.cfg.Data.Items,
		Monsters:  a.cfg.Data.Monsters,
		Prices:    a.cfg.Data.Prices,
		Overrides: a.cfg.Data.Overrides,
	})
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	store, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}

	havePrices := false
	for _, snap := range b.Snapshots {
		fresh, err := store.RecordCatalog(ctx, snap.Kind, snap.Fingerprint, snap.Count)
		if err != nil {
			return nil, err
		}
		if snap.Kind != "prices" {
			continue
		}
		havePrices = true
		if fresh {
			if err := store.SavePrices(ctx, b.Catalog.Quotes(), timeNow()); err != nil {
				return nil, err
			}
			a.log.Info("price snapshot stored", "path", snap.Path, "quotes", snap.Count)
		}
	}

	if !havePrices {
		quotes, err := store.LoadPrices(ctx)
		if err != nil {
			return nil, err
		}
		if len(quotes) > 0 {
			b.Catalog = data.NewCatalog(b.Catalog.Items(), quotes)
			a.log.Info("using stored prices", "quotes", len(quotes))
		}
	}

	a.bundle = b
	return b, nil
}
