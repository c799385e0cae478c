package service

import (
	"context"
	"slices"

	"github.com/cityops-io/cityops-ce/internal/models"
	"github.com/cityops-io/cityops-ce/internal/repository"
)

const recentReportLimit = 5

// Overview is everything the landing dashboard shows at once.
type Overview struct {
	Reports       *ReportSummary       `json:"reports"`
	Users         *UserSummary         `json:"users"`
	Departments   *DepartmentSummary   `json:"departments"`
	Notifications *NotificationSummary `json:"notifications"`
	RecentReports []models.Report      `json:"recent_reports"`
}

type DashboardService struct {
	source repository.RecordSource
}

func NewDashboardService(source repository.RecordSource) *DashboardService {
	return &DashboardService{source: source}
}

// Overview aggregates all summaries from a single read of each collection.
func (s *DashboardService) Overview(ctx context.Context) (*Overview, error) {
	reports, err := s.source.Reports(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.source.Users(ctx)
	if err != nil {
		return nil, err
	}
	departments, err := s.source.Departments(ctx)
	if err != nil {
		return nil, err
	}
	notifications, err := s.source.Notifications(ctx)
	if err != nil {
		return nil, err
	}

	return &Overview{
		Reports:       summarizeReports(reports),
		Users:         summarizeUsers(users),
		Departments:   summarizeDepartments(departments),
		Notifications: summarizeNotifications(notifications),
		RecentReports: recentReports(reports, recentReportLimit),
	}, nil
}

// recentReports returns up to limit reports, most recently updated first.
func recentReports(reports []models.Report, limit int) []models.Report {
	sorted := slices.Clone(reports)
	slices.SortStableFunc(sorted, func(a, b models.Report) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}
