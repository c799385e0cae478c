package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cityops-io/cityops-ce/internal/config"
)

const singleReportSeed = `
reports:
  - id: R-2024-101
    category: Water Leak
    location: Harbor Rd
    status: pending
    priority: high
    department: Water & Sewer
    created_at: 2024-01-15T09:30:00Z
    updated_at: 2024-01-15T09:30:00Z
`

func setupTestApplication(t *testing.T) *application {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app, err := newApplication(context.Background(), config.Default())
	require.NoError(t, err)
	t.Cleanup(app.runner.Stop)
	return app
}

func get(t *testing.T, engine *gin.Engine, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	w := httptest.NewRecorder()
	req, err := http.NewRequest(http.MethodGet, path, nil)
	require.NoError(t, err)
	engine.ServeHTTP(w, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestHealthEndpoint(t *testing.T) {
	app := setupTestApplication(t)

	w, body := get(t, app.engine, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "cityops-api", body["service"])
}

func TestApplicationServesSampleData(t *testing.T) {
	app := setupTestApplication(t)

	w, body := get(t, app.engine, "/api/v1/reports?status=pending")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 2, body["total"])
}

func TestNewApplication_RejectsBadInput(t *testing.T) {
	t.Run("missing seed file", func(t *testing.T) {
		cfg := config.Default()
		cfg.Source.SeedFile = filepath.Join(t.TempDir(), "missing.yaml")
		_, err := newApplication(context.Background(), cfg)
		assert.Error(t, err)
	})

	t.Run("unknown filter mode", func(t *testing.T) {
		cfg := config.Default()
		cfg.Filters = map[string]map[string]string{"reports": {"status": "prefix"}}
		_, err := newApplication(context.Background(), cfg)
		assert.Error(t, err)
	})
}

func TestReloadOnChange(t *testing.T) {
	app := setupTestApplication(t)
	ctx := context.Background()
	onChange := app.reloadOnChange(ctx)

	t.Run("bad seed keeps current records", func(t *testing.T) {
		updated := config.Default()
		updated.Source.SeedFile = filepath.Join(t.TempDir(), "missing.yaml")
		onChange(config.Default(), updated)

		reports, err := app.source.Reports(ctx)
		require.NoError(t, err)
		assert.Len(t, reports, 5)
	})

	t.Run("new seed file is loaded", func(t *testing.T) {
		seed := filepath.Join(t.TempDir(), "seed.yaml")
		require.NoError(t, os.WriteFile(seed, []byte(singleReportSeed), 0644))

		updated := config.Default()
		updated.Source.SeedFile = seed
		onChange(config.Default(), updated)

		_, body := get(t, app.engine, "/api/v1/reports")
		assert.EqualValues(t, 1, body["total"])

		require.NoError(t, app.source.Reload(ctx))
		reports, err := app.source.Reports(ctx)
		require.NoError(t, err)
		require.Len(t, reports, 1, "refresh must keep reading the new seed")
		assert.Equal(t, "R-2024-101", reports[0].ID)
	})
}
