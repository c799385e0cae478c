package api

import (
	"time"

	"github.com/xeonx/timeago"

	"github.com/cityops-io/cityops-ce/internal/models"
)

// Rows decorate records with the presentation fields the tables show.

type reportRow struct {
	models.Report
	StatusBadge   models.Badge `json:"status_badge"`
	PriorityBadge models.Badge `json:"priority_badge"`
	UpdatedAgo    string       `json:"updated_ago"`
}

type userRow struct {
	models.User
	RoleBadge      models.Badge `json:"role_badge"`
	StatusBadge    models.Badge `json:"status_badge"`
	LastLoginAgo   string       `json:"last_login_ago"`
	ResolutionRate float64      `json:"resolution_rate"`
}

type notificationRow struct {
	models.Notification
	TypeBadge     models.Badge `json:"type_badge"`
	PriorityBadge models.Badge `json:"priority_badge"`
	TimeAgo       string       `json:"time_ago"`
}

func ago(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	return timeago.English.FormatReference(t, now)
}

func reportRows(reports []models.Report, now time.Time) []reportRow {
	rows := make([]reportRow, len(reports))
	for i, r := range reports {
		rows[i] = reportRow{
			Report:        r,
			StatusBadge:   r.Status.Badge(),
			PriorityBadge: r.Priority.Badge(),
			UpdatedAgo:    ago(r.UpdatedAt, now),
		}
	}
	return rows
}

func userRows(users []models.User, now time.Time) []userRow {
	rows := make([]userRow, len(users))
	for i, u := range users {
		rows[i] = userRow{
			User:           u,
			RoleBadge:      u.Role.Badge(),
			StatusBadge:    u.Status.Badge(),
			LastLoginAgo:   ago(u.LastLogin, now),
			ResolutionRate: u.ResolutionRate(),
		}
	}
	return rows
}

func notificationRows(notifications []models.Notification, now time.Time) []notificationRow {
	rows := make([]notificationRow, len(notifications))
	for i, n := range notifications {
		rows[i] = notificationRow{
			Notification:  n,
			TypeBadge:     n.Type.Badge(),
			PriorityBadge: n.Priority.NotificationBadge(),
			TimeAgo:       ago(n.Timestamp, now),
		}
	}
	return rows
}
