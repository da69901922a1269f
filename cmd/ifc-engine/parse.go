// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/ifc-engine/internal/extract"
	"github.com/pdiddy/ifc-engine/internal/ifc"
	"github.com/pdiddy/ifc-engine/internal/logging"
	"github.com/pdiddy/ifc-engine/internal/store"
	"github.com/pdiddy/ifc-engine/pkg/types"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file.ifc]",
	Short: "Extract an IFC model file into the store",
	Long: `Parse reads an IFC (STEP) model file, extracts every physical element
into a flat row with normalized dimensions, materials, and classifications,
builds the spatial container tree, and inserts everything into the
configured store in batches. A YAML summary sidecar is written after a
successful run.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	path := args[0]

	// Pre-flight: the file and the store must both be reachable before
	// any parsing work starts.
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("model file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("model file %s is a directory", path)
	}

	cfg := activeConfig()
	if backend, _ := cmd.Flags().GetString("store"); backend != "" {
		cfg.Store.Backend = types.StoreBackend(backend)
	}
	if db, _ := cmd.Flags().GetString("db"); db != "" {
		cfg.Store.SQLitePath = db
	}

	log, err := logging.New(cfg.LogMode)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx := cmd.Context()
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	fmt.Fprintf(os.Stdout, "parsing %s (%d bytes)\n", path, info.Size())
	g, err := ifc.Open(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "schema %s, %d entities\n", g.Schema, len(g.Entities()))

	modelName, _ := cmd.Flags().GetString("model-name")
	if modelName == "" {
		modelName = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	model := types.ModelRecord{
		ID:            uuid.NewString(),
		Name:          modelName,
		FileName:      filepath.Base(path),
		FileSize:      info.Size(),
		SchemaVersion: g.Schema,
		ParseStatus:   types.ParseRunning,
	}

	engine := extract.New(g, st, log, cfg.Parse)
	summary, err := engine.Run(ctx, model, os.Stdout)
	if err != nil {
		return err
	}

	if err := writeParseSummary(cfg.Parse.SummaryDir, model, summary); err != nil {
		log.Warnw("summary sidecar not written", "error", err)
	}

	if summary.HasFailures() {
		fmt.Fprintf(os.Stderr, "%d element(s) dropped during extraction\n", summary.Failed)
	}
	return nil
}

// parseSummary is the YAML sidecar written after a run.
type parseSummary struct {
	Model        types.ModelRecord `yaml:"model"`
	SpatialNodes int               `yaml:"spatial_nodes"`
	Elements     int               `yaml:"elements"`
	Rows         int               `yaml:"rows"`
	Failed       int               `yaml:"failed"`
	Duration     string            `yaml:"duration"`
}

func writeParseSummary(dir string, model types.ModelRecord, summary extract.RunSummary) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	now := time.Now().UTC()
	model.ParseStatus = types.ParseDone
	model.ElementCount = summary.Elements
	model.ParsedAt = &now

	data, err := yaml.Marshal(parseSummary{
		Model:        model,
		SpatialNodes: summary.SpatialNodes,
		Elements:     summary.Elements,
		Rows:         summary.Rows,
		Failed:       summary.Failed,
		Duration:     summary.Duration.Round(time.Millisecond).String(),
	})
	if err != nil {
		return err
	}

	path := filepath.Join(dir, model.ID+".yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, "wrote summary", path)
	return nil
}

func init() {
	parseCmd.Flags().String("model-name", "", "display name for the model (default: file name without extension)")
	parseCmd.Flags().String("store", "", "store backend override: sqlite or postgres")
	parseCmd.Flags().String("db", "", "SQLite database path override")

	rootCmd.AddCommand(parseCmd)
}
