package main

import (
	"context"

	"github.com/sells-group/leadgen-cli/internal/store"
)

// initStore opens the configured store and runs migrations.
func initStore(ctx context.Context) (store.Store, error) {
	dsn := cfg.Store.DatabaseURL
	if cfg.Store.Driver != "postgres" && dsn == "" {
		dsn = "leadgen.db"
	}
	return store.Open(ctx, cfg.Store.Driver, dsn)
}
