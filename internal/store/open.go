package store

import (
	"context"
	"fmt"
)

// Supported KV drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// KV is a closable key/value backend.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Open returns the KV backend named by driver. dsn is a file path for
// sqlite and a connection string for postgres; memory ignores it.
func Open(ctx context.Context, driver, dsn string) (KV, error) {
	switch driver {
	case "", DriverMemory:
		return NewMemoryKV(), nil
	case DriverSQLite:
		if dsn == "" {
			dsn = "skypulse.db"
		}
		return NewSQLite(ctx, dsn)
	case DriverPostgres:
		if dsn == "" {
			return nil, fmt.Errorf("postgres store requires a dsn")
		}
		return NewPostgres(ctx, dsn)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

var (
	_ KV = (*MemoryKV)(nil)
	_ KV = (*SQLiteKV)(nil)
	_ KV = (*PostgresKV)(nil)
)
