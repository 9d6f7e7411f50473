package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/fates/internal/config"
	"github.com/example/fates/internal/logging"
	"github.com/example/fates/internal/persistence/sqlite"
)

// app carries the resolved settings from the root command to its children.
type app struct {
	dataDir   string
	logLevel  string
	logFormat string

	cfg    config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "fates",
		Short: "Maintain the local Fates task, calendar and notification database",
		Long: `fates inspects and maintains the SQLite database that backs the Fates
task manager. Settings come from FATES_* environment variables, an optional
.env file and the YAML file named by FATES_CONFIG; flags override them.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.dataDir, "data-dir", "", "Directory holding fates.db (default: per-user data directory)")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	flags.StringVar(&a.logFormat, "log-format", "", "Log format: json or text")

	cmd.AddCommand(
		newMigrateCmd(a),
		newStatusCmd(a),
		newKVCmd(a),
		newTagsCmd(a),
	)
	return cmd
}

// setup loads configuration, applies flag overrides and builds the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("data-dir") {
		if strings.TrimSpace(a.dataDir) == "" {
			return errors.New("--data-dir cannot be empty")
		}
		cfg.DataDir = a.dataDir
	}
	if flags.Changed("log-level") {
		level, err := logging.ParseLevel(a.logLevel)
		if err != nil {
			return fmt.Errorf("--log-level: %w", err)
		}
		cfg.LogLevel = level
	}
	if flags.Changed("log-format") {
		if !logging.ValidFormat(a.logFormat) {
			return fmt.Errorf("--log-format: unknown format %q", a.logFormat)
		}
		cfg.LogFormat = strings.ToLower(a.logFormat)
	}

	a.cfg = cfg
	a.logger = logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	cmd.SetContext(logging.ContextWithLogger(cmd.Context(), a.logger))
	return nil
}

// withStore opens the migrated store for the duration of fn.
func (a *app) withStore(cmd *cobra.Command, fn func(ctx context.Context, store *sqlite.Store) error) (err error) {
	ctx := cmd.Context()
	store, err := sqlite.Open(ctx, a.cfg.StoreConfig(), sqlite.WithLogger(a.logger))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close store: %w", cerr))
		}
	}()
	return fn(ctx, store)
}
