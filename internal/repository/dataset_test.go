package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cityops-io/cityops-ce/internal/models"
)

const minimalSeed = `
reports:
  - id: R-2024-101
    category: Pothole
    location: Main St
    status: pending
    priority: high
    department: Roads & Transport
    created_at: 2024-01-15T09:30:00Z
    updated_at: 2024-01-15T09:30:00Z
users:
  - id: 1
    name: Sarah Johnson
    email: sarah.johnson@city.gov
    role: department_head
    status: active
`

func TestDefaultDataset(t *testing.T) {
	ds, err := DefaultDataset()
	require.NoError(t, err)

	assert.Len(t, ds.Reports, 5)
	assert.Len(t, ds.Users, 6)
	assert.Len(t, ds.Departments, 4)
	assert.Len(t, ds.Notifications, 5)
	assert.Len(t, ds.Templates, 3)

	first := ds.Reports[0]
	assert.Equal(t, "R-2024-001", first.ID)
	assert.Equal(t, models.StatusPending, first.Status)
	assert.Equal(t, 2024, first.CreatedAt.Year())
	require.NotNil(t, first.Coordinates)
	assert.InDelta(t, 40.7128, first.Coordinates.Lat, 1e-9)

	assert.Equal(t, []string{"Water Leak", "Power Outage", "Streetlights", "Gas Issues"}, ds.Departments[1].Categories)
	assert.False(t, ds.Reports[0].IsAssigned())
	assert.True(t, ds.Reports[1].IsAssigned())
}

func TestParseDataset_Minimal(t *testing.T) {
	ds, err := ParseDataset([]byte(minimalSeed))
	require.NoError(t, err)
	assert.Len(t, ds.Reports, 1)
	assert.Len(t, ds.Users, 1)
	assert.Empty(t, ds.Departments)
}

func TestParseDataset_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		seed    string
		problem string
	}{
		{
			name:    "empty document",
			seed:    "",
			problem: "document is empty",
		},
		{
			name:    "status outside enum",
			seed:    strings.Replace(minimalSeed, "status: pending", "status: closed", 1),
			problem: "reports.0.status",
		},
		{
			name:    "malformed report id",
			seed:    strings.Replace(minimalSeed, "R-2024-101", "REPORT-1", 1),
			problem: "reports.0.id",
		},
		{
			name:    "unknown role",
			seed:    strings.Replace(minimalSeed, "department_head", "mayor", 1),
			problem: "users.0.role",
		},
		{
			name:    "missing category",
			seed:    strings.Replace(minimalSeed, "    category: Pothole\n", "", 1),
			problem: "category",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDataset([]byte(tt.seed))
			require.Error(t, err)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
			assert.Contains(t, verr.Error(), tt.problem)
		})
	}
}

func TestParseDataset_DuplicateIDs(t *testing.T) {
	seed := `
reports:
  - {id: R-2024-001, category: A, location: B, status: pending, priority: low, department: C, created_at: 2024-01-01T00:00:00Z, updated_at: 2024-01-01T00:00:00Z}
  - {id: R-2024-001, category: A, location: B, status: pending, priority: low, department: C, created_at: 2024-01-01T00:00:00Z, updated_at: 2024-01-01T00:00:00Z}
users:
  - {id: 7, name: A, email: a@city.gov, role: admin, status: active}
  - {id: 7, name: B, email: b@city.gov, role: admin, status: active}
`
	_, err := ParseDataset([]byte(seed))
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Problems, "duplicate report id R-2024-001")
	assert.Contains(t, verr.Problems, "duplicate user id 7")
}

func TestParseDataset_BadYAML(t *testing.T) {
	_, err := ParseDataset([]byte("reports: [unterminated"))
	require.Error(t, err)
	var verr *ValidationError
	assert.False(t, errors.As(err, &verr))
}

func TestFileLoader(t *testing.T) {
	ctx := context.Background()

	t.Run("empty path uses embedded seed", func(t *testing.T) {
		ds, err := FileLoader("")(ctx)
		require.NoError(t, err)
		assert.Len(t, ds.Reports, 5)
	})

	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "seed.yaml")
		require.NoError(t, os.WriteFile(path, []byte(minimalSeed), 0o644))

		ds, err := FileLoader(path)(ctx)
		require.NoError(t, err)
		assert.Equal(t, "R-2024-101", ds.Reports[0].ID)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := FileLoader(filepath.Join(t.TempDir(), "nope.yaml"))(ctx)
		assert.Error(t, err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := FileLoader("")(cctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
