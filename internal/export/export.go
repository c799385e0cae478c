// Package export writes filtered report lists as CSV, XLSX or JSON.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/cityops-io/cityops-ce/internal/models"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
)

// ParseFormat accepts a format name case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatXLSX, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("invalid export format %q. Supported: csv, json, xlsx", s)
}

func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/json"
	}
}

// Filename builds an attachment name such as reports-20240115-093000.csv.
func Filename(prefix string, f Format, at time.Time) string {
	return fmt.Sprintf("%s-%s.%s", prefix, at.Format("20060102-150405"), f)
}

type Options struct {
	SheetName  string
	TimeFormat string
}

func DefaultOptions() Options {
	return Options{SheetName: "Reports", TimeFormat: "2006-01-02 15:04:05"}
}

// Exporter renders report lists in the configured layout.
type Exporter struct {
	opts Options
}

func NewExporter(opts Options) *Exporter {
	def := DefaultOptions()
	if opts.SheetName == "" {
		opts.SheetName = def.SheetName
	}
	if opts.TimeFormat == "" {
		opts.TimeFormat = def.TimeFormat
	}
	return &Exporter{opts: opts}
}

var reportHeaders = []string{
	"ID", "Category", "Location", "Status", "Priority", "Reporter",
	"Assigned To", "Department", "Created", "Updated", "Description",
}

func (e *Exporter) reportRow(r models.Report) []string {
	return []string{
		r.ID,
		r.Category,
		r.Location,
		r.Status.Label(),
		r.Priority.Label(),
		r.Reporter,
		r.AssignedTo,
		r.Department,
		r.CreatedAt.Format(e.opts.TimeFormat),
		r.UpdatedAt.Format(e.opts.TimeFormat),
		r.Description,
	}
}

// Reports writes reports to w in the given format, keeping their order.
func (e *Exporter) Reports(w io.Writer, f Format, reports []models.Report) error {
	switch f {
	case FormatCSV:
		return e.reportsCSV(w, reports)
	case FormatXLSX:
		return e.reportsXLSX(w, reports)
	case FormatJSON:
		return e.reportsJSON(w, reports)
	}
	return fmt.Errorf("invalid export format %q", f)
}

func (e *Exporter) reportsCSV(w io.Writer, reports []models.Report) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(reportHeaders); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range reports {
		if err := writer.Write(e.reportRow(r)); err != nil {
			return fmt.Errorf("failed to write csv row %s: %w", r.ID, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func (e *Exporter) reportsXLSX(w io.Writer, reports []models.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := e.opts.SheetName
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(reportHeaders))
	for i, h := range reportHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(reportHeaders))
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, r := range reports {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := e.reportRow(r)
		row := make([]interface{}, len(values))
		for j, v := range values {
			row[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %s: %w", r.ID, err)
		}
	}

	if err := f.SetColWidth(sheet, "A", lastCol, 18); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

type reportDocument struct {
	Reports    []models.Report `json:"reports"`
	ExportedAt time.Time       `json:"exported_at"`
	Total      int             `json:"total"`
}

func (e *Exporter) reportsJSON(w io.Writer, reports []models.Report) error {
	if reports == nil {
		reports = []models.Report{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(reportDocument{
		Reports:    reports,
		ExportedAt: time.Now().UTC(),
		Total:      len(reports),
	})
}
