package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wappdev/wapp/app"
	"github.com/wappdev/wapp/config"
	"github.com/wappdev/wapp/core/storage"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create backing tables without serving",
	Long: `Resolve the demo container tree in metadata mode and create the
backing table for every declared model, then exit. Safe to run
repeatedly; existing tables are left untouched.`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	store, err := storage.OpenSQLite(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	root, err := demoTree(store)
	if err != nil {
		return fmt.Errorf("declare tree: %w", err)
	}

	set, err := app.Metadata(root)
	if err != nil {
		return err
	}

	for _, ref := range set.Models {
		if err := store.Register(cmd.Context(), ref.Model); err != nil {
			return fmt.Errorf("register model %q: %w", ref.LocalName, err)
		}
		logger.Info().
			Str("model", ref.LocalName).
			Str("table", ref.Model.TableName()).
			Msg("table ready")
	}

	logger.Info().Int("models", len(set.Models)).Msg("migration complete")
	return nil
}
