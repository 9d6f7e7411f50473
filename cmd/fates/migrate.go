package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/fates/internal/persistence/sqlite"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database if needed and apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(cmd, func(ctx context.Context, store *sqlite.Store) error {
				status, err := store.SchemaStatus(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s is at schema version %d\n", status.Path, status.CurrentVersion)
				return nil
			})
		},
	}
}
