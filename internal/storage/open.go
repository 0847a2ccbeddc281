package storage

import (
	"context"
	"fmt"

	"github.com/Veraticus/tally/internal/config"
	"github.com/Veraticus/tally/internal/service"
)

// Open returns the storage backend selected by cfg. SQLite databases are
// migrated before they are returned.
func Open(ctx context.Context, cfg config.StorageConfig) (service.Storage, error) {
	switch cfg.Backend {
	case config.BackendCSV, "":
		return NewFlatFileStorage(cfg.DataDir)
	case config.BackendSQLite:
		db, err := NewSQLiteStorage(cfg.DatabasePath)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

var (
	_ service.Storage = (*FlatFileStorage)(nil)
	_ service.Storage = (*SQLiteStorage)(nil)
)
