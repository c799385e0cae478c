package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Every known tag must map to a styled badge; only unknown values fall back.
func TestBadgesAreExhaustive(t *testing.T) {
	for _, s := range AllReportStatuses() {
		assert.True(t, s.Valid(), s)
		assert.NotEmpty(t, s.Badge().Class, s)
		assert.NotEqual(t, "#6b7280", s.MarkerColor(), s)
	}
	for _, p := range AllPriorities() {
		assert.True(t, p.Valid(), p)
		assert.NotEmpty(t, p.Badge().Class, p)
		assert.NotEmpty(t, p.NotificationBadge().Class, p)
	}
	for _, r := range AllUserRoles() {
		assert.True(t, r.Valid(), r)
		assert.NotEmpty(t, r.Badge().Class, r)
	}
	for _, s := range AllUserStatuses() {
		assert.True(t, s.Valid(), s)
		assert.NotEmpty(t, s.Badge().Class, s)
	}
	for _, n := range AllNotificationTypes() {
		assert.True(t, n.Valid(), n)
		assert.NotEmpty(t, n.Badge().Class, n)
	}
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "In Progress", StatusInProgress.Label())
	assert.Equal(t, "Department Head", RoleDepartmentHead.Label())
	assert.Equal(t, "Field Worker", RoleFieldWorker.Badge().Label)
	assert.Equal(t, "High", PriorityHigh.Label())
	assert.Equal(t, "System", NotificationSystem.Label())
}

func TestUnknownTags(t *testing.T) {
	unknown := ReportStatus("on-hold")
	assert.False(t, unknown.Valid())
	assert.Equal(t, Badge{Label: "On Hold", Variant: "outline"}, unknown.Badge())
	assert.Equal(t, "#6b7280", unknown.MarkerColor())

	assert.False(t, Priority("urgent").Valid())
	assert.Empty(t, Priority("urgent").Badge().Class)
	assert.False(t, UserRole("guest").Valid())
	assert.False(t, UserStatus("").Valid())
	assert.Equal(t, "bell", NotificationType("digest").Badge().Icon)
}

func TestPriorityBadgesDifferForLow(t *testing.T) {
	assert.NotEqual(t, PriorityLow.Badge().Class, PriorityLow.NotificationBadge().Class)
	assert.Equal(t, PriorityHigh.Badge().Class, PriorityHigh.NotificationBadge().Class)
}
