package models

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Badge describes how an enumerated tag is presented in tables and cards.
type Badge struct {
	Label   string `json:"label"`
	Variant string `json:"variant"`
	Class   string `json:"class"`
	Icon    string `json:"icon,omitempty"`
}

var labelSeparators = strings.NewReplacer("-", " ", "_", " ")

// humanize turns "in-progress" into "In Progress" and "field_worker" into "Field Worker".
func humanize(tag string) string {
	// cases.Caser is stateful, so one is built per call.
	return cases.Title(language.English).String(labelSeparators.Replace(tag))
}

func unknownBadge(tag string) Badge {
	return Badge{Label: humanize(tag), Variant: "outline"}
}

// ReportStatus is the lifecycle tag of a citizen report.
type ReportStatus string

const (
	StatusPending    ReportStatus = "pending"
	StatusAssigned   ReportStatus = "assigned"
	StatusInProgress ReportStatus = "in-progress"
	StatusResolved   ReportStatus = "resolved"
)

// AllReportStatuses lists every status in workflow order.
func AllReportStatuses() []ReportStatus {
	return []ReportStatus{StatusPending, StatusAssigned, StatusInProgress, StatusResolved}
}

func (s ReportStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAssigned, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

func (s ReportStatus) Label() string { return humanize(string(s)) }

// Badge returns the table badge for the status.
func (s ReportStatus) Badge() Badge {
	switch s {
	case StatusPending:
		return Badge{Label: s.Label(), Variant: "secondary", Class: "bg-warning/10 text-warning border-warning/20"}
	case StatusAssigned:
		return Badge{Label: s.Label(), Variant: "default", Class: "bg-status-assigned/10 text-status-assigned border-status-assigned/20"}
	case StatusInProgress:
		return Badge{Label: s.Label(), Variant: "outline", Class: "bg-status-in-progress/10 text-status-in-progress border-status-in-progress/20"}
	case StatusResolved:
		return Badge{Label: s.Label(), Variant: "secondary", Class: "bg-status-resolved/10 text-status-resolved border-status-resolved/20"}
	}
	return unknownBadge(string(s))
}

// MarkerColor returns the map marker fill for the status.
func (s ReportStatus) MarkerColor() string {
	switch s {
	case StatusPending:
		return "#f59e0b"
	case StatusAssigned:
		return "#3b82f6"
	case StatusInProgress:
		return "#8b5cf6"
	case StatusResolved:
		return "#10b981"
	}
	return "#6b7280"
}

// Priority is shared by reports and notifications.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func AllPriorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

func (p Priority) Label() string { return humanize(string(p)) }

// Badge returns the report table badge for the priority.
func (p Priority) Badge() Badge {
	switch p {
	case PriorityLow:
		return Badge{Label: p.Label(), Variant: "outline", Class: "text-muted-foreground", Icon: "alert-triangle"}
	case PriorityMedium:
		return Badge{Label: p.Label(), Variant: "secondary", Class: "bg-yellow-100 text-yellow-800 border-yellow-200", Icon: "alert-triangle"}
	case PriorityHigh:
		return Badge{Label: p.Label(), Variant: "destructive", Class: "bg-red-100 text-red-800 border-red-200", Icon: "alert-triangle"}
	}
	return unknownBadge(string(p))
}

// NotificationBadge returns the inbox badge for the priority. Low is green
// in the inbox, unlike the muted report badge.
func (p Priority) NotificationBadge() Badge {
	switch p {
	case PriorityLow:
		return Badge{Label: p.Label(), Variant: "outline", Class: "bg-green-100 text-green-800 border-green-200"}
	case PriorityMedium:
		return Badge{Label: p.Label(), Variant: "outline", Class: "bg-yellow-100 text-yellow-800 border-yellow-200"}
	case PriorityHigh:
		return Badge{Label: p.Label(), Variant: "outline", Class: "bg-red-100 text-red-800 border-red-200"}
	}
	return unknownBadge(string(p))
}

// UserRole is the staff role of a dashboard user.
type UserRole string

const (
	RoleAdmin          UserRole = "admin"
	RoleDepartmentHead UserRole = "department_head"
	RoleSupervisor     UserRole = "supervisor"
	RoleFieldWorker    UserRole = "field_worker"
)

func AllUserRoles() []UserRole {
	return []UserRole{RoleAdmin, RoleDepartmentHead, RoleSupervisor, RoleFieldWorker}
}

func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleDepartmentHead, RoleSupervisor, RoleFieldWorker:
		return true
	}
	return false
}

func (r UserRole) Label() string { return humanize(string(r)) }

func (r UserRole) Badge() Badge {
	switch r {
	case RoleAdmin:
		return Badge{Label: r.Label(), Variant: "outline", Class: "bg-red-100 text-red-800 border-red-200"}
	case RoleDepartmentHead:
		return Badge{Label: r.Label(), Variant: "outline", Class: "bg-blue-100 text-blue-800 border-blue-200"}
	case RoleSupervisor:
		return Badge{Label: r.Label(), Variant: "outline", Class: "bg-purple-100 text-purple-800 border-purple-200"}
	case RoleFieldWorker:
		return Badge{Label: r.Label(), Variant: "outline", Class: "bg-green-100 text-green-800 border-green-200"}
	}
	return unknownBadge(string(r))
}

// UserStatus tells whether an account may sign in.
type UserStatus string

const (
	UserActive   UserStatus = "active"
	UserInactive UserStatus = "inactive"
)

func AllUserStatuses() []UserStatus {
	return []UserStatus{UserActive, UserInactive}
}

func (s UserStatus) Valid() bool {
	return s == UserActive || s == UserInactive
}

func (s UserStatus) Label() string { return humanize(string(s)) }

func (s UserStatus) Badge() Badge {
	switch s {
	case UserActive:
		return Badge{Label: s.Label(), Variant: "default", Class: "bg-green-100 text-green-800"}
	case UserInactive:
		return Badge{Label: s.Label(), Variant: "secondary", Class: "bg-gray-100 text-gray-800"}
	}
	return unknownBadge(string(s))
}

// NotificationType classifies inbox entries.
type NotificationType string

const (
	NotificationAlert   NotificationType = "alert"
	NotificationWarning NotificationType = "warning"
	NotificationInfo    NotificationType = "info"
	NotificationSystem  NotificationType = "system"
)

func AllNotificationTypes() []NotificationType {
	return []NotificationType{NotificationAlert, NotificationWarning, NotificationInfo, NotificationSystem}
}

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationAlert, NotificationWarning, NotificationInfo, NotificationSystem:
		return true
	}
	return false
}

func (t NotificationType) Label() string { return humanize(string(t)) }

// Badge returns the inbox icon style for the type.
func (t NotificationType) Badge() Badge {
	switch t {
	case NotificationAlert:
		return Badge{Label: t.Label(), Variant: "icon", Class: "text-red-500", Icon: "alert-triangle"}
	case NotificationWarning:
		return Badge{Label: t.Label(), Variant: "icon", Class: "text-yellow-500", Icon: "clock"}
	case NotificationInfo:
		return Badge{Label: t.Label(), Variant: "icon", Class: "text-blue-500", Icon: "bell"}
	case NotificationSystem:
		return Badge{Label: t.Label(), Variant: "icon", Class: "text-green-500", Icon: "check-circle"}
	}
	return Badge{Label: t.Label(), Variant: "icon", Icon: "bell"}
}
