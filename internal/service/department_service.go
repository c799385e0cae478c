package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/cityops-io/cityops-ce/internal/filter"
	"github.com/cityops-io/cityops-ce/internal/models"
	"github.com/cityops-io/cityops-ce/internal/repository"
)

type DepartmentSummary struct {
	Count            int     `json:"count"`
	TotalStaff       int     `json:"total_staff"`
	ActiveReports    int     `json:"active_reports"`
	TotalResolved    int     `json:"total_resolved"`
	AvgSLACompliance float64 `json:"avg_sla_compliance"`
	AvgSatisfaction  float64 `json:"avg_satisfaction"`
}

// DepartmentService handles department listing and performance roll-ups
type DepartmentService struct {
	source repository.RecordSource
	spec   filter.Spec[models.Department]
}

func NewDepartmentService(source repository.RecordSource, modes map[string]filter.MatchMode) (*DepartmentService, error) {
	spec, err := DepartmentFilterSpec().WithModes(modes)
	if err != nil {
		return nil, fmt.Errorf("departments: %w", err)
	}
	return &DepartmentService{source: source, spec: spec}, nil
}

func (s *DepartmentService) Spec() filter.Spec[models.Department] {
	return s.spec
}

func (s *DepartmentService) List(ctx context.Context, c filter.Criteria) ([]models.Department, error) {
	departments, err := s.source.Departments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load departments: %w", err)
	}
	start := time.Now()
	out := filter.Apply(departments, s.spec, c)
	observeFilter(EntityDepartments, start, len(out))
	return out, nil
}

func (s *DepartmentService) Summary(ctx context.Context) (*DepartmentSummary, error) {
	departments, err := s.source.Departments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load departments: %w", err)
	}
	return summarizeDepartments(departments), nil
}

func summarizeDepartments(departments []models.Department) *DepartmentSummary {
	summary := &DepartmentSummary{Count: len(departments)}
	if len(departments) == 0 {
		return summary
	}

	var sla, satisfaction float64
	for _, d := range departments {
		summary.TotalStaff += d.Staff
		summary.ActiveReports += d.ActiveReports
		summary.TotalResolved += d.TotalResolved
		sla += d.Performance.SLACompliance
		satisfaction += d.Performance.Satisfaction
	}
	n := float64(len(departments))
	summary.AvgSLACompliance = round1(sla / n)
	summary.AvgSatisfaction = round1(satisfaction / n)
	return summary
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
