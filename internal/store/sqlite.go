// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/ifc-engine/pkg/types"
)

const defaultSQLitePath = "index/ifc.db"

// SQLite is the default store backend.
type SQLite struct {
	db         *sql.DB
	maxResults int
}

// OpenSQLite opens or creates the database and its schema.
func OpenSQLite(cfg types.StoreConfig) (*SQLite, error) {
	path := cfg.SQLitePath
	if path == "" {
		path = defaultSQLitePath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &SQLite{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS ifc_models (
			id TEXT PRIMARY KEY,
			name TEXT,
			file_name TEXT,
			file_size INTEGER,
			schema_version TEXT,
			parse_status TEXT,
			element_count INTEGER,
			parsed_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS ifc_spatial_tree (
			express_id INTEGER NOT NULL,
			ifc_type TEXT,
			name TEXT,
			long_name TEXT,
			parent_express_id INTEGER,
			elevation REAL,
			element_count INTEGER,
			model_id TEXT NOT NULL REFERENCES ifc_models(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_spatial_model ON ifc_spatial_tree(model_id)`,
		`CREATE TABLE IF NOT EXISTS ifc_elements (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			express_id INTEGER NOT NULL,
			global_id TEXT,
			ifc_type TEXT,
			name TEXT,
			description TEXT,
			volume REAL,
			area REAL,
			height REAL,
			length REAL,
			width REAL,
			perimeter REAL,
			weight REAL,
			floor_name TEXT,
			materials TEXT,
			classifications TEXT,
			concrete_class TEXT,
			property_sets TEXT,
			quantity_sets TEXT,
			search_text TEXT,
			model_id TEXT NOT NULL REFERENCES ifc_models(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_elements_model ON ifc_elements(model_id)`,
		`CREATE INDEX IF NOT EXISTS idx_elements_type ON ifc_elements(ifc_type)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='elements_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE elements_fts USING fts5(search_text, content=ifc_elements, content_rowid=rowid)`,
			`CREATE TRIGGER elements_ai AFTER INSERT ON ifc_elements BEGIN
				INSERT INTO elements_fts(rowid, search_text) VALUES (new.rowid, new.search_text);
			END`,
			`CREATE TRIGGER elements_ad AFTER DELETE ON ifc_elements BEGIN
				INSERT INTO elements_fts(elements_fts, rowid, search_text) VALUES('delete', old.rowid, old.search_text);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// InsertModel writes the model record in its initial state.
func (s *SQLite) InsertModel(ctx context.Context, m types.ModelRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO ifc_models (id, name, file_name, file_size, schema_version, parse_status, element_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Name, m.FileName, m.FileSize, m.SchemaVersion, string(m.ParseStatus), m.ElementCount,
	)
	if err != nil {
		return fmt.Errorf("inserting model: %w", err)
	}
	return nil
}

// UpdateModelParsed marks the model done and records its element count.
func (s *SQLite) UpdateModelParsed(ctx context.Context, modelID string, elementCount int) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE ifc_models SET parse_status = ?, element_count = ?, parsed_at = ? WHERE id = ?`,
		string(types.ParseDone), elementCount, time.Now().UTC().Format(time.RFC3339Nano), modelID,
	)
	if err != nil {
		return fmt.Errorf("updating model: %w", err)
	}
	return nil
}

// InsertSpatialNodes writes one chunk of spatial tree nodes.
func (s *SQLite) InsertSpatialNodes(ctx context.Context, nodes []types.SpatialNode) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO ifc_spatial_tree (express_id, ifc_type, name, long_name, parent_express_id, elevation, element_count, model_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, n := range nodes {
		_, err := stmt.ExecContext(ctx,
			n.ExpressID, n.IfcType, n.Name, n.LongName,
			nullableInt(n.ParentExpressID), nullableFloat(n.Elevation),
			n.ElementCount, n.ModelID,
		)
		if err != nil {
			return fmt.Errorf("inserting spatial node #%d: %w", n.ExpressID, err)
		}
	}

	return tx.Commit()
}

// InsertElements writes one batch of element rows.
func (s *SQLite) InsertElements(ctx context.Context, rows []types.ElementRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO ifc_elements (express_id, global_id, ifc_type, name, description,
			volume, area, height, length, width, perimeter, weight,
			floor_name, materials, classifications, concrete_class,
			property_sets, quantity_sets, search_text, model_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		materials, _ := json.Marshal(r.Materials)
		classifications, _ := json.Marshal(r.Classifications)
		psets, _ := json.Marshal(types.SetsToMap(r.PropertySets))
		qsets, _ := json.Marshal(types.SetsToMap(r.QuantitySets))

		_, err := stmt.ExecContext(ctx,
			r.ExpressID, r.GlobalID, r.IfcType, r.Name, r.Description,
			r.Volume, r.Area, r.Height, r.Length, r.Width, r.Perimeter, r.Weight,
			r.FloorName, string(materials), string(classifications), r.ConcreteClass,
			string(psets), string(qsets), r.SearchText, r.ModelID,
		)
		if err != nil {
			return fmt.Errorf("inserting element #%d: %w", r.ExpressID, err)
		}
	}

	return tx.Commit()
}

func nullableInt(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
