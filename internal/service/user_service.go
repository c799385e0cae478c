package service

import (
	"context"
	"fmt"
	"time"

	"github.com/cityops-io/cityops-ce/internal/filter"
	"github.com/cityops-io/cityops-ce/internal/models"
	"github.com/cityops-io/cityops-ce/internal/repository"
)

type UserSummary struct {
	Total        int                     `json:"total"`
	Active       int                     `json:"active"`
	Inactive     int                     `json:"inactive"`
	Admins       int                     `json:"admins"`
	FieldWorkers int                     `json:"field_workers"`
	ByRole       map[models.UserRole]int `json:"by_role"`
}

// UserService handles staff account listing
type UserService struct {
	source repository.RecordSource
	spec   filter.Spec[models.User]
}

func NewUserService(source repository.RecordSource, modes map[string]filter.MatchMode) (*UserService, error) {
	spec, err := UserFilterSpec().WithModes(modes)
	if err != nil {
		return nil, fmt.Errorf("users: %w", err)
	}
	return &UserService{source: source, spec: spec}, nil
}

func (s *UserService) Spec() filter.Spec[models.User] {
	return s.spec
}

func (s *UserService) List(ctx context.Context, c filter.Criteria) ([]models.User, error) {
	users, err := s.source.Users(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	start := time.Now()
	out := filter.Apply(users, s.spec, c)
	observeFilter(EntityUsers, start, len(out))
	return out, nil
}

func (s *UserService) Summary(ctx context.Context) (*UserSummary, error) {
	users, err := s.source.Users(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	return summarizeUsers(users), nil
}

func summarizeUsers(users []models.User) *UserSummary {
	summary := &UserSummary{
		Total:  len(users),
		Active: filter.Count(users, models.User.IsActive),
		ByRole: make(map[models.UserRole]int),
	}
	summary.Inactive = summary.Total - summary.Active
	for _, role := range models.AllUserRoles() {
		summary.ByRole[role] = filter.Count(users, func(u models.User) bool { return u.Role == role })
	}
	summary.Admins = summary.ByRole[models.RoleAdmin]
	summary.FieldWorkers = summary.ByRole[models.RoleFieldWorker]
	return summary
}
