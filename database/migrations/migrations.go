// Package migrations declares the MongoDB indexes the storefront relies on.
// Each migration file registers itself from init(); the CLI's `indexes`
// command runs the registry in order.
package migrations

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"
)

// Migration applies one schema change (for MongoDB, index builds).
type Migration interface {
	Name() string
	Up(ctx context.Context, db *mongo.Database) error
}

var (
	mu       sync.Mutex
	registry []Migration
)

// Register adds a migration. Called from init() in the migration files.
func Register(m Migration) {
	mu.Lock()
	defer mu.Unlock()
	registry = append(registry, m)
}

// All returns the registered migrations in registration order.
func All() []Migration {
	mu.Lock()
	defer mu.Unlock()
	out := make([]Migration, len(registry))
	copy(out, registry)
	return out
}

// RunAll applies every registered migration. Index builds are idempotent,
// so re-running is safe.
func RunAll(ctx context.Context, db *mongo.Database) error {
	for _, m := range All() {
		if err := m.Up(ctx, db); err != nil {
			return err
		}
	}
	return nil
}
