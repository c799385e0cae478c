package models

import "slices"

type Contact struct {
	Phone string `json:"phone" yaml:"phone"`
	Email string `json:"email" yaml:"email"`
}

// Performance holds display-only service metrics.
type Performance struct {
	SLACompliance float64 `json:"sla_compliance" yaml:"sla_compliance"` // percent
	Satisfaction  float64 `json:"satisfaction" yaml:"satisfaction"`     // 0-5
}

// Department is an organizational unit that resolves reports of certain categories.
type Department struct {
	ID              int         `json:"id" yaml:"id"`
	Name            string      `json:"name" yaml:"name"`
	Head            string      `json:"head" yaml:"head"`
	Contact         Contact     `json:"contact" yaml:"contact"`
	Staff           int         `json:"staff" yaml:"staff"`
	ActiveReports   int         `json:"active_reports" yaml:"active_reports"`
	AvgResponseTime string      `json:"avg_response_time" yaml:"avg_response_time"`
	TotalResolved   int         `json:"total_resolved" yaml:"total_resolved"`
	Categories      []string    `json:"categories" yaml:"categories"`
	Performance     Performance `json:"performance" yaml:"performance"`
	Enabled         bool        `json:"enabled" yaml:"enabled"`
}

// Handles reports whether the department takes reports of the given category.
func (d Department) Handles(category string) bool {
	return slices.Contains(d.Categories, category)
}

// Clone returns a copy with its own category slice.
func (d Department) Clone() Department {
	d.Categories = slices.Clone(d.Categories)
	return d
}
