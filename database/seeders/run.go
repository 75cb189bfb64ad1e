// Package seeders fills a fresh database with development data. Seeders
// register themselves from init(); the CLI's `seed` command runs them all.
package seeders

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"
)

// SeederFunc inserts seed documents.
type SeederFunc func(ctx context.Context, db *mongo.Database) error

type entry struct {
	name string
	fn   SeederFunc
}

var (
	mu      sync.Mutex
	entries []entry
)

// Register adds a seeder. Called from init() in the seeder files.
func Register(name string, fn SeederFunc) {
	mu.Lock()
	defer mu.Unlock()
	entries = append(entries, entry{name: name, fn: fn})
}

// RunAll executes every registered seeder in registration order.
func RunAll(ctx context.Context, db *mongo.Database) error {
	mu.Lock()
	list := make([]entry, len(entries))
	copy(list, entries)
	mu.Unlock()

	for _, e := range list {
		if err := e.fn(ctx, db); err != nil {
			return fmt.Errorf("seeder %q: %w", e.name, err)
		}
		fmt.Printf("seeded: %s\n", e.name)
	}
	return nil
}
