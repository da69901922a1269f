// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// StoreBackend identifies the persistence backend.
type StoreBackend string

const (
	BackendSQLite   StoreBackend = "sqlite"
	BackendPostgres StoreBackend = "postgres"
)

// StoreConfig holds settings for the persistence boundary.
type StoreConfig struct {
	// Backend selects the store: sqlite or postgres.
	Backend StoreBackend `json:"backend" yaml:"backend"`

	// SQLitePath is the database file path for the sqlite backend
	// (default "index/ifc.db").
	SQLitePath string `json:"sqlite_path" yaml:"sqlite_path"`

	// PostgresDSN is the connection string for the postgres backend.
	// Usually supplied via .secrets/postgres-dsn rather than config.
	PostgresDSN string `json:"postgres_dsn,omitempty" yaml:"postgres_dsn,omitempty"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// ParseConfig holds settings for the extraction run.
type ParseConfig struct {
	// ElementBatchSize is the element row flush threshold (default 1000).
	ElementBatchSize int `json:"element_batch_size" yaml:"element_batch_size"`

	// SpatialBatchSize is the spatial node insert chunk size (default 500).
	SpatialBatchSize int `json:"spatial_batch_size" yaml:"spatial_batch_size"`

	// ProgressInterval is how many elements between progress lines (default 100).
	ProgressInterval int `json:"progress_interval" yaml:"progress_interval"`

	// SummaryDir is where parse summary YAML files are written (default "summaries").
	SummaryDir string `json:"summary_dir" yaml:"summary_dir"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Store StoreConfig `json:"store" yaml:"store"`
	Parse ParseConfig `json:"parse" yaml:"parse"`

	// LogMode selects zap's config: "dev" or "prod".
	LogMode string `json:"log_mode" yaml:"log_mode"`
}
