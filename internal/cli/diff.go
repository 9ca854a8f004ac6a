package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"rota-engine/internal/importer"
	"rota-engine/internal/model"
	"rota-engine/internal/revision"
	"rota-engine/internal/shift"
)

func newDiffCmd() *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Print the JSON patch between two schedule revisions",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := shift.Default()
			a, err := importer.ReadFile(from, c)
			if err != nil {
				return fmt.Errorf("import %s: %w", from, err)
			}
			b, err := importer.ReadFile(to, c)
			if err != nil {
				return fmt.Errorf("import %s: %w", to, err)
			}
			return writeJSON(cmd.OutOrStdout(), model.DiffResponse{Patch: revision.Diff(a.Schedule, b.Schedule)})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Earlier schedule revision")
	cmd.Flags().StringVar(&to, "to", "", "Later schedule revision")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
