package main

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/fates/internal/persistence/sqlite"
)

type statusOutput struct {
	Path           string          `json:"path"`
	CurrentVersion int             `json:"current_version"`
	Pending        int             `json:"pending"`
	Applied        []appliedOutput `json:"applied"`
}

type appliedOutput struct {
	Version         string    `json:"version"`
	AppliedAt       time.Time `json:"applied_at"`
	ExecutionTimeMs int64     `json:"execution_time_ms"`
}

func newStatusCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the database location and applied schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(cmd, func(ctx context.Context, store *sqlite.Store) error {
				status, err := store.SchemaStatus(ctx)
				if err != nil {
					return err
				}

				out := statusOutput{
					Path:           status.Path,
					CurrentVersion: status.CurrentVersion,
					Pending:        status.Pending,
					Applied:        make([]appliedOutput, 0, len(status.Applied)),
				}
				for _, m := range status.Applied {
					out.Applied = append(out.Applied, appliedOutput{
						Version:         m.Version,
						AppliedAt:       m.AppliedAt,
						ExecutionTimeMs: m.ExecutionTime.Milliseconds(),
					})
				}

				if asJSON {
					encoder := json.NewEncoder(cmd.OutOrStdout())
					encoder.SetIndent("", "  ")
					return encoder.Encode(out)
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintf(w, "database:\t%s\n", out.Path)
				fmt.Fprintf(w, "schema version:\t%d\n", out.CurrentVersion)
				fmt.Fprintf(w, "pending:\t%d\n", out.Pending)
				for _, m := range out.Applied {
					fmt.Fprintf(w, "applied:\t%s\t%s\t%dms\n", m.Version, m.AppliedAt.Format(time.RFC3339), m.ExecutionTimeMs)
				}
				return w.Flush()
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}
