package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/wappdev/wapp/app"
	"github.com/wappdev/wapp/config"
	"github.com/wappdev/wapp/core/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the demo HTTP server",
	Long: `Resolve the demo container tree, create backing tables, and serve
the bound route table until interrupted. The config file is watched for
changes and SIGHUP forces a reload.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	holder, err := config.NewHolder(cfgFile, newLogger(config.Default()))
	if err != nil {
		return err
	}
	defer holder.Stop()

	cfg := holder.Get()
	logger := newLogger(cfg)

	if err := holder.WatchFile(); err != nil {
		logger.Warn().Err(err).Msg("config file watch unavailable")
	}
	holder.WatchSignals()

	// The store is opened here rather than inside app.New so the demo
	// tree's custom handlers can share it.
	store, err := storage.OpenSQLite(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	root, err := demoTree(store)
	if err != nil {
		store.Close()
		return fmt.Errorf("declare tree: %w", err)
	}

	a, err := app.New(app.Options{
		Config: cfg,
		Root:   root,
		Logger: logger,
		Store:  store,
	})
	if err != nil {
		store.Close()
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return a.Run(ctx)
}
