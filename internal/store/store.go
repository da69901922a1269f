// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists extraction output as three record streams: the
// model record, spatial-tree batches, and element-row batches. Two
// backends implement the same surface: SQLite (default, with an FTS5
// index over search text) and Postgres via pgx.
package store

import (
	"context"
	"fmt"

	"github.com/pdiddy/ifc-engine/pkg/types"
)

// Store is the persistence boundary. Batch inserts are synchronous and
// preserve the order records were assembled in; callers that need
// atomicity across batches will not find it here.
type Store interface {
	InsertModel(ctx context.Context, model types.ModelRecord) error
	InsertSpatialNodes(ctx context.Context, nodes []types.SpatialNode) error
	InsertElements(ctx context.Context, rows []types.ElementRecord) error
	UpdateModelParsed(ctx context.Context, modelID string, elementCount int) error
	Close() error
}

// Open creates the configured backend. The postgres backend requires a
// DSN; its absence is reported before any connection attempt so callers
// can fail pre-flight.
func Open(ctx context.Context, cfg types.StoreConfig) (Store, error) {
	switch cfg.Backend {
	case types.BackendSQLite, "":
		return OpenSQLite(cfg)
	case types.BackendPostgres:
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("postgres backend selected but no DSN configured (set .secrets/postgres-dsn)")
		}
		return OpenPostgres(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
