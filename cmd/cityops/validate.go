package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cityops-io/cityops-ce/internal/models"
	"github.com/cityops-io/cityops-ce/internal/repository"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <seed-file>",
		Short: "Check a seed file against the record schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			ds, err := repository.ParseDataset(data)
			if err != nil {
				var verr *repository.ValidationError
				if errors.As(err, &verr) {
					out := cmd.ErrOrStderr()
					fmt.Fprintf(out, "❌ %s has %d problem(s):\n", args[0], len(verr.Problems))
					for _, p := range verr.Problems {
						fmt.Fprintf(out, "   - %s\n", p)
					}
					return fmt.Errorf("%s is not a valid seed file", args[0])
				}
				return err
			}

			for _, w := range routingWarnings(ds) {
				fmt.Fprintf(cmd.ErrOrStderr(), "⚠️  %s\n", w)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ %s is valid: %d reports, %d users, %d departments, %d notifications, %d templates\n",
				args[0], len(ds.Reports), len(ds.Users), len(ds.Departments), len(ds.Notifications), len(ds.Templates))
			return nil
		},
	}
}

// routingWarnings flags reports filed under a department that does not list
// their category. Reports for departments missing from the seed are skipped.
func routingWarnings(ds *repository.Dataset) []string {
	byName := make(map[string]models.Department, len(ds.Departments))
	for _, d := range ds.Departments {
		byName[d.Name] = d
	}

	var warnings []string
	for _, r := range ds.Reports {
		d, ok := byName[r.Department]
		if ok && !d.Handles(r.Category) {
			warnings = append(warnings, fmt.Sprintf("report %s: %s does not handle %q", r.ID, d.Name, r.Category))
		}
	}
	return warnings
}
