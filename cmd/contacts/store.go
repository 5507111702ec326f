package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/goliatone/go-contacts/internal/config"
	"github.com/goliatone/go-contacts/pkg/store"
	"github.com/goliatone/go-contacts/pkg/store/postgres"
	"github.com/goliatone/go-contacts/pkg/store/sqlite"
)

// openStore picks postgres for postgres URLs and SQLite for everything else.
func openStore(ctx context.Context, db config.Database, log *zap.Logger) (store.Store, error) {
	if db.IsPostgres() {
		s, err := postgres.Open(ctx, db.URL, db.MaxOpenConns, db.MaxIdleConns)
		if err != nil {
			return nil, err
		}
		log.Info("store opened", zap.String("driver", "postgres"))
		return s, nil
	}

	s, err := sqlite.Open(ctx, db.URL,
		sqlite.WithMaxOpenConns(db.MaxOpenConns),
		sqlite.WithMaxIdleConns(db.MaxIdleConns),
	)
	if err != nil {
		return nil, err
	}
	log.Info("store opened", zap.String("driver", "sqlite"), zap.String("path", s.Path()))
	return s, nil
}
