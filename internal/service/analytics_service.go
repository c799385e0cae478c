package service

import (
	"context"
	"strings"
	"time"

	"github.com/cityops-io/cityops-ce/internal/filter"
	"github.com/cityops-io/cityops-ce/internal/models"
)

// weekdays is the display order of the weekly trend.
var weekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}

// DayTrend counts reports filed on one weekday. Pending covers every
// report that is not resolved yet.
type DayTrend struct {
	Day      string `json:"day"`
	Reports  int    `json:"reports"`
	Resolved int    `json:"resolved"`
	Pending  int    `json:"pending"`
}

// DepartmentStat pairs a department's report counts with its performance figures.
type DepartmentStat struct {
	Name            string  `json:"name"`
	TotalReports    int     `json:"total_reports"`
	Resolved        int     `json:"resolved"`
	AvgResponseTime string  `json:"avg_response_time"`
	SLACompliance   float64 `json:"sla_compliance"`
	Satisfaction    float64 `json:"satisfaction"`
}

// Analytics backs the analytics page.
type Analytics struct {
	Department      string           `json:"department"`
	TotalReports    int              `json:"total_reports"`
	ResolutionRate  float64          `json:"resolution_rate"` // percent
	AvgSatisfaction float64          `json:"avg_satisfaction"`
	Weekly          []DayTrend       `json:"weekly"`
	ByCategory      map[string]int   `json:"by_category"`
	Departments     []DepartmentStat `json:"departments"`
}

type AnalyticsService struct {
	reports     *ReportService
	departments *DepartmentService
}

func NewAnalyticsService(reports *ReportService, departments *DepartmentService) *AnalyticsService {
	return &AnalyticsService{reports: reports, departments: departments}
}

// Overview aggregates the reports matching c. The report "department"
// selector also narrows the department table by name.
func (s *AnalyticsService) Overview(ctx context.Context, c filter.Criteria) (*Analytics, error) {
	reports, err := s.reports.List(ctx, c)
	if err != nil {
		return nil, err
	}

	department := c.Filters["department"]
	if department == "" {
		department = filter.Wildcard
	}
	departments, err := s.departments.List(ctx, filter.Criteria{}.With("name", department))
	if err != nil {
		return nil, err
	}

	resolved := filter.Count(reports, func(r models.Report) bool { return !r.IsOpen() })
	out := &Analytics{
		Department:   department,
		TotalReports: len(reports),
		Weekly:       weeklyTrend(reports),
		ByCategory:   filter.Tally(reports, func(r models.Report) string { return r.Category }),
		Departments:  make([]DepartmentStat, 0, len(departments)),
	}
	if len(reports) > 0 {
		out.ResolutionRate = float64(resolved) * 100 / float64(len(reports))
	}

	var satisfaction float64
	for _, d := range departments {
		stat := DepartmentStat{
			Name:            d.Name,
			AvgResponseTime: d.AvgResponseTime,
			SLACompliance:   d.Performance.SLACompliance,
			Satisfaction:    d.Performance.Satisfaction,
		}
		for _, r := range reports {
			if !strings.EqualFold(r.Department, d.Name) {
				continue
			}
			stat.TotalReports++
			if !r.IsOpen() {
				stat.Resolved++
			}
		}
		satisfaction += d.Performance.Satisfaction
		out.Departments = append(out.Departments, stat)
	}
	if len(departments) > 0 {
		out.AvgSatisfaction = satisfaction / float64(len(departments))
	}
	return out, nil
}

// weeklyTrend buckets reports by the UTC weekday they were filed on.
func weeklyTrend(reports []models.Report) []DayTrend {
	index := make(map[time.Weekday]int, len(weekdays))
	trend := make([]DayTrend, len(weekdays))
	for i, day := range weekdays {
		index[day] = i
		trend[i].Day = day.String()[:3]
	}
	for _, r := range reports {
		t := &trend[index[r.CreatedAt.UTC().Weekday()]]
		t.Reports++
		if r.IsOpen() {
			t.Pending++
		} else {
			t.Resolved++
		}
	}
	return trend
}
