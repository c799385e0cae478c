package service

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/cityops-io/cityops-ce/internal/filter"
	"github.com/cityops-io/cityops-ce/internal/models"
	"github.com/cityops-io/cityops-ce/internal/repository"
	"github.com/cityops-io/cityops-ce/internal/utils"
)

// ReportSummary backs the stat cards on the reports page.
type ReportSummary struct {
	Total      int                         `json:"total"`
	Open       int                         `json:"open"`
	Unassigned int                         `json:"unassigned"`
	ByStatus   map[models.ReportStatus]int `json:"by_status"`
	ByPriority map[models.Priority]int     `json:"by_priority"`
	ByCategory map[string]int              `json:"by_category"`
}

// Marker is a report pinned on the city map.
type Marker struct {
	ReportID  string  `json:"report_id"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Color     string  `json:"color"`
	Status    string  `json:"status"`
	Priority  string  `json:"priority"`
	Category  string  `json:"category"`
	PopupHTML string  `json:"popup_html"`
}

// ReportService handles report listing and aggregation
type ReportService struct {
	source    repository.RecordSource
	spec      filter.Spec[models.Report]
	sanitizer *utils.HTMLSanitizer
}

// NewReportService creates a report service. modes overrides the match mode of
// individual selectors.
func NewReportService(source repository.RecordSource, modes map[string]filter.MatchMode) (*ReportService, error) {
	spec, err := ReportFilterSpec().WithModes(modes)
	if err != nil {
		return nil, fmt.Errorf("reports: %w", err)
	}
	return &ReportService{
		source:    source,
		spec:      spec,
		sanitizer: utils.NewHTMLSanitizer(),
	}, nil
}

// Spec returns the filter definition used by List.
func (s *ReportService) Spec() filter.Spec[models.Report] {
	return s.spec
}

// List returns the reports matching c in source order.
func (s *ReportService) List(ctx context.Context, c filter.Criteria) ([]models.Report, error) {
	reports, err := s.source.Reports(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load reports: %w", err)
	}
	start := time.Now()
	out := filter.Apply(reports, s.spec, c)
	observeFilter(EntityReports, start, len(out))
	return out, nil
}

// Get returns a single report or repository.ErrNotFound.
func (s *ReportService) Get(ctx context.Context, id string) (*models.Report, error) {
	return s.source.ReportByID(ctx, id)
}

func (s *ReportService) Summary(ctx context.Context) (*ReportSummary, error) {
	reports, err := s.source.Reports(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load reports: %w", err)
	}
	return summarizeReports(reports), nil
}

func summarizeReports(reports []models.Report) *ReportSummary {
	summary := &ReportSummary{
		Total:      len(reports),
		Open:       filter.Count(reports, models.Report.IsOpen),
		Unassigned: filter.Count(reports, func(r models.Report) bool { return !r.IsAssigned() }),
		ByStatus:   make(map[models.ReportStatus]int),
		ByPriority: make(map[models.Priority]int),
		ByCategory: filter.Tally(reports, func(r models.Report) string { return r.Category }),
	}
	// Every known tag gets a card, even at zero.
	for _, st := range models.AllReportStatuses() {
		summary.ByStatus[st] = filter.Count(reports, func(r models.Report) bool { return r.Status == st })
	}
	for _, p := range models.AllPriorities() {
		summary.ByPriority[p] = filter.Count(reports, func(r models.Report) bool { return r.Priority == p })
	}
	return summary
}

// Markers returns map pins for the matching reports that carry coordinates.
func (s *ReportService) Markers(ctx context.Context, c filter.Criteria) ([]Marker, error) {
	reports, err := s.List(ctx, c)
	if err != nil {
		return nil, err
	}

	markers := make([]Marker, 0, len(reports))
	for _, r := range reports {
		if r.Coordinates == nil {
			continue
		}
		markers = append(markers, Marker{
			ReportID:  r.ID,
			Lat:       r.Coordinates.Lat,
			Lng:       r.Coordinates.Lng,
			Color:     r.Status.MarkerColor(),
			Status:    string(r.Status),
			Priority:  string(r.Priority),
			Category:  r.Category,
			PopupHTML: s.popup(r),
		})
	}
	return markers, nil
}

func (s *ReportService) popup(r models.Report) string {
	raw := fmt.Sprintf(
		`<div class="p-2"><h3 class="font-semibold">%s</h3><p class="text-sm">%s</p><p class="text-xs">%s</p><span class="%s">%s</span> <span class="%s">%s</span></div>`,
		html.EscapeString(r.ID),
		html.EscapeString(r.Category),
		html.EscapeString(r.Location),
		r.Status.Badge().Class, r.Status.Label(),
		r.Priority.Badge().Class, r.Priority.Label(),
	)
	return s.sanitizer.Sanitize(raw)
}
