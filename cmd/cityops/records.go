package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cityops-io/cityops-ce/internal/config"
	"github.com/cityops-io/cityops-ce/internal/filter"
	"github.com/cityops-io/cityops-ce/internal/repository"
	"github.com/cityops-io/cityops-ce/internal/service"
)

func (f *recordFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.seed, "seed", "", "Seed file to read (default: built-in sample data)")
	cmd.Flags().StringVar(&f.configFile, "config", "", "Config file with filter mode overrides")
	cmd.Flags().StringVarP(&f.search, "search", "s", "", "Free-text search")
	cmd.Flags().StringArrayVarP(&f.filters, "filter", "f", nil, "Selector as key=value, repeatable (e.g. status=pending)")
}

func (f *recordFlags) bindOutput(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "table", "Output format: table or json")
}

// loadConfig returns the file config when --config is set, defaults otherwise.
func (f *recordFlags) loadConfig() (*config.Config, error) {
	if f.configFile == "" {
		return config.Default(), nil
	}
	if err := config.LoadFromFile(f.configFile); err != nil {
		return nil, err
	}
	return config.Get(), nil
}

func (f *recordFlags) openServices(ctx context.Context) (*service.Services, *config.Config, error) {
	cfg, err := f.loadConfig()
	if err != nil {
		return nil, nil, err
	}

	seed := f.seed
	if seed == "" {
		seed = cfg.Source.SeedFile
	}
	source, err := repository.NewMemoryRecordSource(ctx, repository.FileLoader(seed))
	if err != nil {
		return nil, nil, err
	}

	modes, err := cfg.FilterModes()
	if err != nil {
		return nil, nil, err
	}
	services, err := service.NewServices(source, modes)
	if err != nil {
		return nil, nil, err
	}
	return services, cfg, nil
}

// criteria builds the search criteria and warns about keys the entity does
// not know; those are ignored by the search itself.
func (f *recordFlags) criteria(w io.Writer, known []string) (filter.Criteria, error) {
	c := filter.Criteria{Query: f.search}

	valid := make(map[string]bool, len(known))
	for _, name := range known {
		valid[name] = true
	}
	for _, raw := range f.filters {
		key, value, ok := strings.Cut(raw, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return c, fmt.Errorf("invalid filter %q, expected key=value", raw)
		}
		if !valid[key] {
			fmt.Fprintf(w, "Warning: ignoring unknown filter %q (known: %s)\n", key, strings.Join(known, ", "))
			continue
		}
		c = c.With(key, strings.TrimSpace(value))
	}
	return c, nil
}

// footer prints the result count, noting when a search narrowed it.
func footer(w io.Writer, n int, noun string, c filter.Criteria) {
	if c.IsEmpty() {
		fmt.Fprintf(w, "\n%d %s(s)\n", n, noun)
		return
	}
	fmt.Fprintf(w, "\n%d %s(s) matching\n", n, noun)
}

func writeJSON(w io.Writer, total int, data interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]interface{}{"total": total, "data": data})
}

func checkOutput(output string) error {
	switch output {
	case "table", "json":
		return nil
	default:
		return fmt.Errorf("invalid output %q. Supported: table, json", output)
	}
}

func newReportsCmd() *cobra.Command {
	f := &recordFlags{}
	cmd := &cobra.Command{
		Use:     "reports",
		Aliases: []string{"report"},
		Short:   "Search citizen reports",
		Example: "  cityops reports --search water -f status=pending -f priority=high",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutput(f.output); err != nil {
				return err
			}
			services, _, err := f.openServices(cmd.Context())
			if err != nil {
				return err
			}
			c, err := f.criteria(cmd.ErrOrStderr(), services.Reports.Spec().SelectorNames())
			if err != nil {
				return err
			}
			reports, err := services.Reports.List(cmd.Context(), c)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if f.output == "json" {
				return writeJSON(out, len(reports), reports)
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCATEGORY\tLOCATION\tSTATUS\tPRIORITY\tDEPARTMENT\tUPDATED")
			for _, r := range reports {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					r.ID, r.Category, r.Location, r.Status.Label(), r.Priority.Label(),
					r.Department, r.UpdatedAt.Format(time.RFC3339))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			footer(out, len(reports), "report", c)
			return nil
		},
	}
	f.bind(cmd)
	f.bindOutput(cmd)
	return cmd
}

func newUsersCmd() *cobra.Command {
	f := &recordFlags{}
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Search staff accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutput(f.output); err != nil {
				return err
			}
			services, _, err := f.openServices(cmd.Context())
			if err != nil {
				return err
			}
			c, err := f.criteria(cmd.ErrOrStderr(), services.Users.Spec().SelectorNames())
			if err != nil {
				return err
			}
			users, err := services.Users.List(cmd.Context(), c)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if f.output == "json" {
				return writeJSON(out, len(users), users)
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tROLE\tDEPARTMENT\tSTATUS\tRESOLVED")
			for _, u := range users {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%d/%d\n",
					u.ID, u.Name, u.Email, u.Role.Label(), u.Department, u.Status.Label(),
					u.ReportsResolved, u.ReportsAssigned)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			footer(out, len(users), "user", c)
			return nil
		},
	}
	f.bind(cmd)
	f.bindOutput(cmd)
	return cmd
}

func newDepartmentsCmd() *cobra.Command {
	f := &recordFlags{}
	cmd := &cobra.Command{
		Use:     "departments",
		Aliases: []string{"depts"},
		Short:   "Search departments",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutput(f.output); err != nil {
				return err
			}
			services, _, err := f.openServices(cmd.Context())
			if err != nil {
				return err
			}
			c, err := f.criteria(cmd.ErrOrStderr(), services.Departments.Spec().SelectorNames())
			if err != nil {
				return err
			}
			departments, err := services.Departments.List(cmd.Context(), c)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if f.output == "json" {
				return writeJSON(out, len(departments), departments)
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tHEAD\tSTAFF\tACTIVE\tSLA\tCATEGORIES")
			for _, d := range departments {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%s%%\t%s\n",
					d.ID, d.Name, d.Head, d.Staff, d.ActiveReports,
					strconv.FormatFloat(d.Performance.SLACompliance, 'f', 1, 64),
					strings.Join(d.Categories, ", "))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			footer(out, len(departments), "department", c)
			return nil
		},
	}
	f.bind(cmd)
	f.bindOutput(cmd)
	return cmd
}

func newNotificationsCmd() *cobra.Command {
	f := &recordFlags{}
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notify"},
		Short:   "Search notifications",
		Example: "  cityops notifications -f read=false -f priority=high",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutput(f.output); err != nil {
				return err
			}
			services, _, err := f.openServices(cmd.Context())
			if err != nil {
				return err
			}
			c, err := f.criteria(cmd.ErrOrStderr(), services.Notifications.Spec().SelectorNames())
			if err != nil {
				return err
			}
			notifications, err := services.Notifications.List(cmd.Context(), c)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if f.output == "json" {
				return writeJSON(out, len(notifications), notifications)
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tTYPE\tPRIORITY\tREAD\tDEPARTMENT\tTIME")
			for _, n := range notifications {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%t\t%s\t%s\n",
					n.ID, n.Title, n.Type.Label(), n.Priority.Label(), n.Read,
					n.Department, n.Timestamp.Format(time.RFC3339))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			footer(out, len(notifications), "notification", c)
			return nil
		},
	}
	f.bind(cmd)
	f.bindOutput(cmd)
	return cmd
}
