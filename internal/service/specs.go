package service

import (
	"strconv"

	"github.com/cityops-io/cityops-ce/internal/filter"
	"github.com/cityops-io/cityops-ce/internal/models"
)

// Entity names used for metrics labels and filter mode overrides.
const (
	EntityReports       = "reports"
	EntityUsers         = "users"
	EntityDepartments   = "departments"
	EntityNotifications = "notifications"
)

// ReportFilterSpec searches id, category, location and description. Category
// is matched by substring so "trash" selects "Trash Collection"; status and
// priority must match exactly.
func ReportFilterSpec() filter.Spec[models.Report] {
	return filter.Spec[models.Report]{
		Text: []filter.TextField[models.Report]{
			{Name: "id", Value: func(r models.Report) string { return r.ID }},
			{Name: "category", Value: func(r models.Report) string { return r.Category }},
			{Name: "location", Value: func(r models.Report) string { return r.Location }},
			{Name: "description", Value: func(r models.Report) string { return r.Description }},
		},
		Selectors: []filter.Selector[models.Report]{
			{Name: "status", Mode: filter.MatchExact, Value: func(r models.Report) string { return string(r.Status) }},
			{Name: "category", Mode: filter.MatchContains, Value: func(r models.Report) string { return r.Category }},
			{Name: "priority", Mode: filter.MatchExact, Value: func(r models.Report) string { return string(r.Priority) }},
			{Name: "department", Mode: filter.MatchFold, Value: func(r models.Report) string { return r.Department }},
		},
	}
}

func UserFilterSpec() filter.Spec[models.User] {
	return filter.Spec[models.User]{
		Text: []filter.TextField[models.User]{
			{Name: "name", Value: func(u models.User) string { return u.Name }},
			{Name: "email", Value: func(u models.User) string { return u.Email }},
			{Name: "department", Value: func(u models.User) string { return u.Department }},
		},
		Selectors: []filter.Selector[models.User]{
			{Name: "role", Mode: filter.MatchExact, Value: func(u models.User) string { return string(u.Role) }},
			{Name: "status", Mode: filter.MatchExact, Value: func(u models.User) string { return string(u.Status) }},
			{Name: "department", Mode: filter.MatchFold, Value: func(u models.User) string { return u.Department }},
		},
	}
}

// DepartmentFilterSpec matches the category selector against any of the
// categories a department handles.
func DepartmentFilterSpec() filter.Spec[models.Department] {
	return filter.Spec[models.Department]{
		Text: []filter.TextField[models.Department]{
			{Name: "name", Value: func(d models.Department) string { return d.Name }},
			{Name: "head", Value: func(d models.Department) string { return d.Head }},
		},
		Selectors: []filter.Selector[models.Department]{
			{Name: "name", Mode: filter.MatchFold, Value: func(d models.Department) string { return d.Name }},
			{Name: "category", Mode: filter.MatchContains, Values: func(d models.Department) []string { return d.Categories }},
		},
	}
}

func NotificationFilterSpec() filter.Spec[models.Notification] {
	return filter.Spec[models.Notification]{
		Text: []filter.TextField[models.Notification]{
			{Name: "title", Value: func(n models.Notification) string { return n.Title }},
			{Name: "message", Value: func(n models.Notification) string { return n.Message }},
		},
		Selectors: []filter.Selector[models.Notification]{
			{Name: "type", Mode: filter.MatchExact, Value: func(n models.Notification) string { return string(n.Type) }},
			{Name: "priority", Mode: filter.MatchExact, Value: func(n models.Notification) string { return string(n.Priority) }},
			{Name: "read", Mode: filter.MatchExact, Value: func(n models.Notification) string { return strconv.FormatBool(n.Read) }},
			{Name: "department", Mode: filter.MatchFold, Value: func(n models.Notification) string { return n.Department }},
		},
	}
}
