package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/fates/internal/persistence/sqlite"
)

func newTagsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Manage tags",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List tags by name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(cmd, func(ctx context.Context, store *sqlite.Store) error {
				tags, err := store.Tags.ListTags(ctx)
				if err != nil {
					return err
				}
				for _, tag := range tags {
					fmt.Fprintln(cmd.OutOrStdout(), tag.Name)
				}
				return nil
			})
		},
	}

	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Register a tag; existing tags are left unchanged",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(ctx context.Context, store *sqlite.Store) error {
				return store.Tags.CreateTag(ctx, args[0])
			})
		},
	}

	cmd.AddCommand(list, add)
	return cmd
}
