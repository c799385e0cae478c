package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/cityops-io/cityops-ce/internal/version"
)

var (
	commit = "none"
	date   = "unknown"
)

// recordFlags are shared by every command that reads the record source.
type recordFlags struct {
	seed       string
	configFile string
	search     string
	filters    []string
	output     string
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cityops",
		Short: "CityOps CLI - search and export municipal issue records",
		Long: `CityOps Command Line Interface

Runs the same searches as the admin dashboard against a seed file
(or the built-in sample data) and prints or exports the results.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version.Short(), commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newReportsCmd(),
		newUsersCmd(),
		newDepartmentsCmd(),
		newNotificationsCmd(),
		newExportCmd(),
		newValidateCmd(),
		newVersionCmd(rootCmd),
	)
	return rootCmd
}

func newVersionCmd(root *cobra.Command) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON {
				info := version.GetInfo()
				info.GitCommit = commit
				info.BuildDate = date
				return json.NewEncoder(cmd.OutOrStdout()).Encode(info)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "CityOps CLI %s\n", root.Version)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print build info as JSON")
	return cmd
}

func main() {
	// .env is optional for the CLI
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
