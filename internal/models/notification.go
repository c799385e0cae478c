package models

import (
	"slices"
	"time"
)

// Notification is an inbox entry for dashboard staff.
type Notification struct {
	ID         int              `json:"id" yaml:"id"`
	Title      string           `json:"title" yaml:"title"`
	Message    string           `json:"message" yaml:"message"`
	Type       NotificationType `json:"type" yaml:"type"`
	Timestamp  time.Time        `json:"timestamp" yaml:"timestamp"`
	Read       bool             `json:"read" yaml:"read"`
	ReportID   string           `json:"report_id,omitempty" yaml:"report_id,omitempty"`
	Department string           `json:"department" yaml:"department"`
	Priority   Priority         `json:"priority" yaml:"priority"`
}

// NotificationTemplate is a message skeleton with {PLACEHOLDER} tokens.
type NotificationTemplate struct {
	ID       int      `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Subject  string   `json:"subject" yaml:"subject"`
	Body     string   `json:"body" yaml:"body"`
	Channels []string `json:"channels" yaml:"channels"`
}

func (t NotificationTemplate) Clone() NotificationTemplate {
	t.Channels = slices.Clone(t.Channels)
	return t
}
