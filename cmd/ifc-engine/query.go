// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/ifc-engine/internal/store"
	"github.com/pdiddy/ifc-engine/pkg/types"
)

var queryCmd = &cobra.Command{
	Use:   "query [terms...]",
	Short: "Search extracted elements in the local store",
	Long: `Query searches extracted elements using FTS5 full-text search over the
element search text, structured filters (type, floor, model), or both.
It works against the local SQLite store only.

Use --models to list parsed models instead of searching elements.`,
	RunE: runQuery,
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg := activeConfig()
	if db, _ := cmd.Flags().GetString("db"); db != "" {
		cfg.Store.SQLitePath = db
	}
	if cfg.Store.Backend == types.BackendPostgres {
		return fmt.Errorf("query works against the local sqlite store; the postgres backend has its own query surface")
	}

	s, err := store.OpenSQLite(cfg.Store)
	if err != nil {
		return err
	}
	defer s.Close()

	jsonOutput, _ := cmd.Flags().GetBool("json")

	if listModels, _ := cmd.Flags().GetBool("models"); listModels {
		models, err := s.Models(cmd.Context())
		if err != nil {
			return err
		}
		return formatModelsOutput(models, jsonOutput)
	}

	opts := queryOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide search terms, --type, --floor, or --model")
	}

	hits, err := s.Query(cmd.Context(), opts)
	if err != nil {
		return err
	}
	return formatQueryOutput(hits, jsonOutput)
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) store.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}

	ifcType, _ := cmd.Flags().GetString("type")
	floor, _ := cmd.Flags().GetString("floor")
	modelID, _ := cmd.Flags().GetString("model")
	limit, _ := cmd.Flags().GetInt("limit")

	return store.QueryOptions{
		Query:      queryText,
		IfcType:    ifcType,
		Floor:      floor,
		ModelID:    modelID,
		MaxResults: limit,
	}
}

func formatQueryOutput(hits []store.ElementHit, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(hits)
	}

	if len(hits) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-22s  %-30s  %-18s  %10s  %10s\n",
		"Rank", "Type", "Name", "Floor", "Volume", "Area")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 104))

	for i, h := range hits {
		name := h.Name
		if len(name) > 30 {
			name = name[:27] + "..."
		}
		floor := h.FloorName
		if len(floor) > 18 {
			floor = floor[:15] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-22s  %-30s  %-18s  %10.3f  %10.3f\n",
			i+1, h.IfcType, name, floor, h.Volume, h.Area)
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(hits))
	return nil
}

func formatModelsOutput(models []types.ModelRecord, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(models)
	}

	if len(models) == 0 {
		fmt.Println("No models stored.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-36s  %-24s  %-8s  %-8s  %s\n",
		"ID", "Name", "Schema", "Status", "Elements")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))

	for _, m := range models {
		name := m.Name
		if len(name) > 24 {
			name = name[:21] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-36s  %-24s  %-8s  %-8s  %d\n",
			m.ID, name, m.SchemaVersion, m.ParseStatus, m.ElementCount)
	}

	fmt.Fprintf(os.Stdout, "\n%d models\n", len(models))
	return nil
}

func init() {
	queryCmd.Flags().String("query", "", "full-text search query")
	queryCmd.Flags().String("type", "", "filter by IFC type tag (e.g. IFCWALL)")
	queryCmd.Flags().String("floor", "", "filter by floor name")
	queryCmd.Flags().String("model", "", "filter by model ID")
	queryCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	queryCmd.Flags().String("db", "", "SQLite database path override")
	queryCmd.Flags().Bool("models", false, "list parsed models instead of searching")
	queryCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(queryCmd)
}
