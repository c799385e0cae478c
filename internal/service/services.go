package service

import (
	"fmt"

	"github.com/cityops-io/cityops-ce/internal/filter"
	"github.com/cityops-io/cityops-ce/internal/repository"
)

// Services bundles every service the API and CLI need.
type Services struct {
	Reports       *ReportService
	Users         *UserService
	Departments   *DepartmentService
	Notifications *NotificationService
	Dashboard     *DashboardService
	Analytics     *AnalyticsService
}

// NewServices wires all services to source. modes maps an entity name
// (EntityReports, ...) to its selector mode overrides.
func NewServices(source repository.RecordSource, modes map[string]map[string]filter.MatchMode) (*Services, error) {
	for entity := range modes {
		switch entity {
		case EntityReports, EntityUsers, EntityDepartments, EntityNotifications:
		default:
			return nil, fmt.Errorf("unknown filter entity %q", entity)
		}
	}

	reports, err := NewReportService(source, modes[EntityReports])
	if err != nil {
		return nil, err
	}
	users, err := NewUserService(source, modes[EntityUsers])
	if err != nil {
		return nil, err
	}
	departments, err := NewDepartmentService(source, modes[EntityDepartments])
	if err != nil {
		return nil, err
	}
	notifications, err := NewNotificationService(source, modes[EntityNotifications])
	if err != nil {
		return nil, err
	}

	return &Services{
		Reports:       reports,
		Users:         users,
		Departments:   departments,
		Notifications: notifications,
		Dashboard:     NewDashboardService(source),
		Analytics:     NewAnalyticsService(reports, departments),
	}, nil
}
