package models

import "time"

// User is a municipal staff member with dashboard access.
type User struct {
	ID              int        `json:"id" yaml:"id"`
	Name            string     `json:"name" yaml:"name"`
	Email           string     `json:"email" yaml:"email"`
	Phone           string     `json:"phone" yaml:"phone"`
	Role            UserRole   `json:"role" yaml:"role"`
	Department      string     `json:"department" yaml:"department"`
	Status          UserStatus `json:"status" yaml:"status"`
	LastLogin       time.Time  `json:"last_login" yaml:"last_login"`
	ReportsAssigned int        `json:"reports_assigned" yaml:"reports_assigned"`
	ReportsResolved int        `json:"reports_resolved" yaml:"reports_resolved"`
}

// IsActive reports whether the account is enabled.
func (u User) IsActive() bool {
	return u.Status == UserActive
}

// ResolutionRate is the resolved share of assigned reports as a percentage.
// Users with nothing assigned have a rate of zero.
func (u User) ResolutionRate() float64 {
	if u.ReportsAssigned == 0 {
		return 0
	}
	return float64(u.ReportsResolved) / float64(u.ReportsAssigned) * 100
}
