// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the ifc-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/ifc-engine/internal/secrets"
	"github.com/pdiddy/ifc-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when non-empty, else the named secret.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the ifc-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "ifc-engine",
	Short: "Extract IFC building models into a query-ready relational store",
	Long: `ifc-engine flattens IFC (STEP) building models: one row per physical
element with normalized dimensional, material, and classification metadata
plus the full raw property data, and a spatial container tree
(project/site/building/storey/space).

parse ingests a model file into the configured store; query searches the
extracted elements.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./ifc-engine.yaml or ~/.config/ifc-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("ifc-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "ifc-engine"))
		}
	}

	viper.SetEnvPrefix("IFC_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// activeConfig assembles the pipeline configuration from viper, with the
// Postgres DSN falling back to the loaded secrets.
func activeConfig() types.PipelineConfig {
	cfg := types.PipelineConfig{
		Store: types.StoreConfig{
			Backend:     types.StoreBackend(viper.GetString("store.backend")),
			SQLitePath:  viper.GetString("store.sqlite_path"),
			PostgresDSN: secretDefault("postgres-dsn", viper.GetString("store.postgres_dsn")),
			MaxResults:  viper.GetInt("store.max_results"),
		},
		Parse: types.ParseConfig{
			ElementBatchSize: viper.GetInt("parse.element_batch_size"),
			SpatialBatchSize: viper.GetInt("parse.spatial_batch_size"),
			ProgressInterval: viper.GetInt("parse.progress_interval"),
			SummaryDir:       viper.GetString("parse.summary_dir"),
		},
		LogMode: viper.GetString("log_mode"),
	}
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = types.BackendSQLite
	}
	if cfg.Parse.SummaryDir == "" {
		cfg.Parse.SummaryDir = "summaries"
	}
	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
