// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/pdiddy/ifc-engine/pkg/types"
)

// Postgres writes extraction output to a hosted Postgres database. Query
// surfaces are left to the database's own tooling; this backend only
// ingests.
type Postgres struct {
	conn *pgx.Conn
}

// OpenPostgres connects and ensures the schema exists.
func OpenPostgres(ctx context.Context, cfg types.StoreConfig) (*Postgres, error) {
	conn, err := pgx.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	p := &Postgres{conn: conn}
	if err := p.createSchema(ctx); err != nil {
		conn.Close(ctx)
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return p, nil
}

// Close terminates the connection.
func (p *Postgres) Close() error {
	return p.conn.Close(context.Background())
}

func (p *Postgres) createSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS ifc_models (
			id UUID PRIMARY KEY,
			name TEXT,
			file_name TEXT,
			file_size BIGINT,
			schema_version TEXT,
			parse_status TEXT,
			element_count INTEGER,
			parsed_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS ifc_spatial_tree (
			express_id BIGINT NOT NULL,
			ifc_type TEXT,
			name TEXT,
			long_name TEXT,
			parent_express_id BIGINT,
			elevation DOUBLE PRECISION,
			element_count INTEGER,
			model_id UUID NOT NULL REFERENCES ifc_models(id)
		)`,
		`CREATE TABLE IF NOT EXISTS ifc_elements (
			express_id BIGINT NOT NULL,
			global_id TEXT,
			ifc_type TEXT,
			name TEXT,
			description TEXT,
			volume DOUBLE PRECISION,
			area DOUBLE PRECISION,
			height DOUBLE PRECISION,
			length DOUBLE PRECISION,
			width DOUBLE PRECISION,
			perimeter DOUBLE PRECISION,
			weight DOUBLE PRECISION,
			floor_name TEXT,
			materials JSONB,
			classifications JSONB,
			concrete_class TEXT,
			property_sets JSONB,
			quantity_sets JSONB,
			search_text TEXT,
			model_id UUID NOT NULL REFERENCES ifc_models(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_elements_model ON ifc_elements(model_id)`,
		`CREATE INDEX IF NOT EXISTS idx_spatial_model ON ifc_spatial_tree(model_id)`,
	}

	for _, stmt := range statements {
		if _, err := p.conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// InsertModel writes the model record in its initial state.
func (p *Postgres) InsertModel(ctx context.Context, m types.ModelRecord) error {
	_, err := p.conn.Exec(ctx,
		`INSERT INTO ifc_models (id, name, file_name, file_size, schema_version, parse_status, element_count)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID, m.Name, m.FileName, m.FileSize, m.SchemaVersion, string(m.ParseStatus), m.ElementCount,
	)
	if err != nil {
		return fmt.Errorf("inserting model: %w", err)
	}
	return nil
}

// UpdateModelParsed marks the model done and records its element count.
func (p *Postgres) UpdateModelParsed(ctx context.Context, modelID string, elementCount int) error {
	_, err := p.conn.Exec(ctx,
		`UPDATE ifc_models SET parse_status = $1, element_count = $2, parsed_at = $3 WHERE id = $4`,
		string(types.ParseDone), elementCount, time.Now().UTC(), modelID,
	)
	if err != nil {
		return fmt.Errorf("updating model: %w", err)
	}
	return nil
}

// InsertSpatialNodes writes one chunk of spatial tree nodes in a single batch.
func (p *Postgres) InsertSpatialNodes(ctx context.Context, nodes []types.SpatialNode) error {
	b := &pgx.Batch{}
	for _, n := range nodes {
		b.Queue(
			`INSERT INTO ifc_spatial_tree (express_id, ifc_type, name, long_name, parent_express_id, elevation, element_count, model_id)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			n.ExpressID, n.IfcType, n.Name, n.LongName,
			n.ParentExpressID, n.Elevation, n.ElementCount, n.ModelID,
		)
	}
	return p.sendBatch(ctx, b, len(nodes), "spatial node")
}

// InsertElements writes one batch of element rows.
func (p *Postgres) InsertElements(ctx context.Context, rows []types.ElementRecord) error {
	b := &pgx.Batch{}
	for _, r := range rows {
		materials, _ := json.Marshal(r.Materials)
		classifications, _ := json.Marshal(r.Classifications)
		psets, _ := json.Marshal(types.SetsToMap(r.PropertySets))
		qsets, _ := json.Marshal(types.SetsToMap(r.QuantitySets))

		b.Queue(
			`INSERT INTO ifc_elements (express_id, global_id, ifc_type, name, description,
				volume, area, height, length, width, perimeter, weight,
				floor_name, materials, classifications, concrete_class,
				property_sets, quantity_sets, search_text, model_id)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`,
			r.ExpressID, r.GlobalID, r.IfcType, r.Name, r.Description,
			r.Volume, r.Area, r.Height, r.Length, r.Width, r.Perimeter, r.Weight,
			r.FloorName, materials, classifications, r.ConcreteClass,
			psets, qsets, r.SearchText, r.ModelID,
		)
	}
	return p.sendBatch(ctx, b, len(rows), "element")
}

func (p *Postgres) sendBatch(ctx context.Context, b *pgx.Batch, n int, kind string) error {
	br := p.conn.SendBatch(ctx, b)
	for i := 0; i < n; i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("inserting %s %d of %d: %w", kind, i+1, n, err)
		}
	}
	return br.Close()
}
