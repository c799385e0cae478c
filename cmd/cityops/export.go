package main

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cityops-io/cityops-ce/internal/export"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export filtered records to a file",
	}
	cmd.AddCommand(newExportReportsCmd())
	return cmd
}

func newExportReportsCmd() *cobra.Command {
	f := &recordFlags{}
	var (
		formatFlag string
		outFlag    string
	)

	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Export reports as csv, xlsx or json",
		Long: `Export the reports matching --search and --filter.

Without --out the file is named after the format and the current time,
e.g. reports-20240115-120000.xlsx. Use --out - to write to stdout.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			services, cfg, err := f.openServices(cmd.Context())
			if err != nil {
				return err
			}

			if formatFlag == "" {
				formatFlag = cfg.Export.DefaultFormat
			}
			format, err := export.ParseFormat(formatFlag)
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

			var buf bytes.Buffer
			if err := export.NewExporter(cfg.ExportOptions()).Reports(&buf, format, reports); err != nil {
				return fmt.Errorf("failed to export reports: %w", err)
			}

			if outFlag == "-" {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if outFlag == "" {
				outFlag = export.Filename("reports", format, time.Now())
			}
			if err := os.WriteFile(outFlag, buf.Bytes(), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", outFlag, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "✅ Exported %d report(s) to %s\n", len(reports), outFlag)
			return nil
		},
	}
	f.bind(cmd)
	cmd.Flags().StringVar(&formatFlag, "format", "", "Export format: csv, xlsx or json (default from config)")
	cmd.Flags().StringVar(&outFlag, "out", "", "Output file, or - for stdout")
	return cmd
}
