// Package db holds the record store drivers. Every driver persists whole
// collections as JSON documents; the repository layer decides what goes in
// them.
package db

import (
	"context"
	"fmt"

	"github.com/lsandon/fertiviltro-app/internal/config"
	"github.com/lsandon/fertiviltro-app/internal/ports"
)

// Backend is a record store that can be probed and closed.
type Backend interface {
	ports.RecordStore
	ports.HealthChecker
	Driver() string
	Close() error
}

// Open selects the driver named by cfg.StoreDriver.
func Open(ctx context.Context, cfg config.Config) (Backend, error) {
	switch cfg.StoreDriver {
	case config.DriverJSON, "":
		return NewJSONFiles(cfg.DataDir)
	case config.DriverSQLite:
		return NewSQLite(ctx, cfg.SQLitePath)
	case config.DriverPostgres:
		return NewPostgres(ctx, cfg.DatabaseURL)
	case config.DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %s", cfg.StoreDriver)
	}
}
