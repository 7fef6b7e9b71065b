// Package storage keeps moderation catalogs in sql databases (sqlite or postgres).
// Each table set is represented by a struct with methods implementing business logic for this data type,
// all records are scoped by the group id of the engine.
package storage

import (
	"context"
	"fmt"
	"log"

	"github.com/iroha-tools/modbot/app/storage/engine"
)

// Open connects to the database by url and makes catalog storage for the group
func Open(ctx context.Context, connURL, gid string) (*Catalog, error) {
	db, err := engine.New(ctx, connURL, gid)
	if err != nil {
		return nil, fmt.Errorf("can't make db engine for %s: %w", connURL, err)
	}
	log.Printf("[DEBUG] catalog storage %s, group %q", db.Type(), gid)
	res, err := NewCatalog(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("can't make catalog storage: %w", err)
	}
	return res, nil
}
