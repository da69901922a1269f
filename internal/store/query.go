// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pdiddy/ifc-engine/pkg/types"
)

// QueryOptions holds parameters for element queries.
type QueryOptions struct {
	// Query is the FTS5 full-text search string over search_text.
	Query string

	// IfcType filters by element type tag.
	IfcType string

	// Floor filters by floor name.
	Floor string

	// ModelID filters by model.
	ModelID string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.IfcType == "" && q.Floor == "" && q.ModelID == ""
}

// ElementHit is one query result row.
type ElementHit struct {
	ExpressID     int64   `json:"express_id"`
	GlobalID      string  `json:"global_id"`
	IfcType       string  `json:"ifc_type"`
	Name          string  `json:"name"`
	FloorName     string  `json:"floor_name"`
	Volume        float64 `json:"volume"`
	Area          float64 `json:"area"`
	ConcreteClass string  `json:"concrete_class"`
	ModelID       string  `json:"model_id"`
}

// Query searches extracted elements with optional full-text search and
// structured filters. Full-text queries rank by FTS5 relevance; filter-only
// queries sort by model, type, and id.
func (s *SQLite) Query(ctx context.Context, opts QueryOptions) ([]ElementHit, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT e.express_id, e.global_id, e.ifc_type, e.name, e.floor_name,
				e.volume, e.area, e.concrete_class, e.model_id
			FROM elements_fts
			JOIN ifc_elements e ON e.rowid = elements_fts.rowid
			WHERE elements_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT e.express_id, e.global_id, e.ifc_type, e.name, e.floor_name,
				e.volume, e.area, e.concrete_class, e.model_id
			FROM ifc_elements e
			WHERE 1=1`)
	}

	if opts.IfcType != "" {
		qb.WriteString(` AND e.ifc_type = ?`)
		args = append(args, strings.ToUpper(opts.IfcType))
	}
	if opts.Floor != "" {
		qb.WriteString(` AND e.floor_name = ?`)
		args = append(args, opts.Floor)
	}
	if opts.ModelID != "" {
		qb.WriteString(` AND e.model_id = ?`)
		args = append(args, opts.ModelID)
	}

	if useFTS {
		qb.WriteString(` ORDER BY elements_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY e.model_id, e.ifc_type, e.express_id`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying elements: %w", err)
	}
	defer rows.Close()

	var hits []ElementHit
	for rows.Next() {
		var (
			h        ElementHit
			name     sql.NullString
			floor    sql.NullString
			concrete sql.NullString
		)
		if err := rows.Scan(
			&h.ExpressID, &h.GlobalID, &h.IfcType, &name, &floor,
			&h.Volume, &h.Area, &concrete, &h.ModelID,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		h.Name = name.String
		h.FloorName = floor.String
		h.ConcreteClass = concrete.String
		hits = append(hits, h)
	}

	return hits, rows.Err()
}

// Models lists stored model records, newest first by parsed_at.
func (s *SQLite) Models(ctx context.Context) ([]types.ModelRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, file_name, file_size, schema_version, parse_status, element_count
		 FROM ifc_models ORDER BY parsed_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("querying models: %w", err)
	}
	defer rows.Close()

	var models []types.ModelRecord
	for rows.Next() {
		var m types.ModelRecord
		var status string
		if err := rows.Scan(&m.ID, &m.Name, &m.FileName, &m.FileSize,
			&m.SchemaVersion, &status, &m.ElementCount); err != nil {
			return nil, fmt.Errorf("scanning model: %w", err)
		}
		m.ParseStatus = types.ParseStatus(status)
		models = append(models, m)
	}

	return models, rows.Err()
}
