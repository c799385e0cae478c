package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cityops-io/cityops-ce/internal/filter"
)

func resetConfig() {
	mu.Lock()
	cfg = nil
	once = sync.Once{}
	listeners = nil
	mu.Unlock()
}

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	d := Default()
	require.NoError(t, d.Validate())

	assert.Equal(t, "0.0.0.0:8080", d.Server.GetServerAddr())
	assert.Equal(t, "@every 5m", d.Source.RefreshSchedule)
	assert.Empty(t, d.Source.SeedFile)
	assert.Equal(t, []float64{-74.006, 40.7128}, d.Map.Center)
	assert.False(t, d.Map.TokenConfigured())
	assert.True(t, d.App.IsDevelopment())
	assert.False(t, d.App.IsProduction())

	modes, err := d.FilterModes()
	require.NoError(t, err)
	assert.Empty(t, modes)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"bad filter mode", func(c *Config) { c.Filters = map[string]map[string]string{"reports": {"status": "prefix"}} }, "filters.reports.status"},
		{"bad schedule", func(c *Config) { c.Source.RefreshSchedule = "every now and then" }, "source.refresh_schedule"},
		{"bad export format", func(c *Config) { c.Export.DefaultFormat = "pdf" }, "export.default_format"},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level"},
		{"bad center", func(c *Config) { c.Map.Center = []float64{1} }, "map.center"},
		{"bad zoom", func(c *Config) { c.Map.Zoom = 30 }, "map.zoom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	t.Run("empty schedule disables refresh", func(t *testing.T) {
		c := Default()
		c.Source.RefreshSchedule = ""
		assert.NoError(t, c.Validate())
	})
}

func TestValidateSchedule(t *testing.T) {
	for _, spec := range []string{"@every 5m", "@hourly", "0 */5 * * * *"} {
		assert.NoError(t, ValidateSchedule(spec), spec)
	}
	assert.Error(t, ValidateSchedule("*/5 * * * *"), "five-field specs need the seconds column")
}

func TestFilterModes(t *testing.T) {
	c := Default()
	c.Filters = map[string]map[string]string{
		"reports": {"status": "fold", "category": "exact"},
		"users":   {"department": "contains"},
	}

	modes, err := c.FilterModes()
	require.NoError(t, err)
	assert.Equal(t, filter.MatchFold, modes["reports"]["status"])
	assert.Equal(t, filter.MatchExact, modes["reports"]["category"])
	assert.Equal(t, filter.MatchContains, modes["users"]["department"])
}

func TestExportOptions(t *testing.T) {
	c := Default()
	c.Export.SheetName = "Open"
	opts := c.ExportOptions()
	assert.Equal(t, "Open", opts.SheetName)
	assert.Equal(t, "2006-01-02 15:04:05", opts.TimeFormat)
}

func TestLoadFromFile(t *testing.T) {
	t.Run("Load valid YAML config file", func(t *testing.T) {
		resetConfig()
		configFile := writeConfig(t, t.TempDir(), "test-config.yaml", `
app:
  name: CityOps Test
  env: test
server:
  port: 9000
source:
  seed_file: /srv/seed.yaml
filters:
  reports:
    status: fold
map:
  access_token: pk.test
`)

		require.NoError(t, LoadFromFile(configFile))

		loaded := Get()
		assert.Equal(t, "CityOps Test", loaded.App.Name)
		assert.Equal(t, 9000, loaded.Server.Port)
		assert.Equal(t, "0.0.0.0", loaded.Server.Host, "unset keys keep defaults")
		assert.Equal(t, "/srv/seed.yaml", loaded.Source.SeedFile)
		assert.Equal(t, "@every 5m", loaded.Source.RefreshSchedule)
		assert.True(t, loaded.Map.TokenConfigured())

		modes, err := loaded.FilterModes()
		require.NoError(t, err)
		assert.Equal(t, filter.MatchFold, modes["reports"]["status"])
	})

	t.Run("Environment overrides file", func(t *testing.T) {
		resetConfig()
		t.Setenv("CITYOPS_SERVER_PORT", "9090")
		t.Setenv("CITYOPS_MAP_ACCESS_TOKEN", "pk.from-env")
		configFile := writeConfig(t, t.TempDir(), "config.yaml", "server:\n  port: 9000\n")

		require.NoError(t, LoadFromFile(configFile))
		assert.Equal(t, 9090, Get().Server.Port)
		assert.Equal(t, "pk.from-env", Get().Map.AccessToken)
	})

	t.Run("Error on non-existent file", func(t *testing.T) {
		err := LoadFromFile("/non/existent/config.yaml")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("Error on invalid YAML", func(t *testing.T) {
		configFile := writeConfig(t, t.TempDir(), "invalid-config.yaml", "app:\n  name: [this is invalid\n")
		err := LoadFromFile(configFile)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("Error on invalid values", func(t *testing.T) {
		configFile := writeConfig(t, t.TempDir(), "config.yaml", "filters:\n  reports:\n    status: prefix\n")
		err := LoadFromFile(configFile)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "filters.reports.status")
	})
}

func TestLoad(t *testing.T) {
	t.Run("Missing files fall back to defaults", func(t *testing.T) {
		resetConfig()
		require.NoError(t, Load(t.TempDir()))
		d := Default()
		assert.Equal(t, d.Server, Get().Server)
		assert.Equal(t, d.Source, Get().Source)
		assert.Equal(t, d.Map, Get().Map)
	})

	t.Run("config.yaml merges over default.yaml", func(t *testing.T) {
		resetConfig()
		dir := t.TempDir()
		writeConfig(t, dir, "default.yaml", "server:\n  port: 8081\nlogging:\n  level: warn\n")
		writeConfig(t, dir, "config.yaml", "server:\n  port: 8082\n")

		require.NoError(t, Load(dir))
		assert.Equal(t, 8082, Get().Server.Port)
		assert.Equal(t, "warn", Get().Logging.Level)
	})
}

func TestMustLoad(t *testing.T) {
	t.Run("MustLoad panics on error", func(t *testing.T) {
		resetConfig()
		dir := t.TempDir()
		writeConfig(t, dir, "default.yaml", "server:\n  port: 0\n")

		defer func() {
			r := recover()
			require.NotNil(t, r)
			assert.Contains(t, r.(string), "Failed to load configuration")
		}()
		MustLoad(dir)
	})
}

func TestOnChange(t *testing.T) {
	resetConfig()
	mu.Lock()
	cfg = Default()
	mu.Unlock()

	var gotOld, gotNew *Config
	OnChange(func(old, updated *Config) {
		gotOld, gotNew = old, updated
	})

	updated := Default()
	updated.Source.SeedFile = "/srv/new.yaml"
	swap(updated)

	assert.Equal(t, "", gotOld.Source.SeedFile)
	assert.Equal(t, "/srv/new.yaml", gotNew.Source.SeedFile)
	assert.Same(t, updated, Get())
}

func TestGetBeforeLoad(t *testing.T) {
	resetConfig()
	assert.Equal(t, Default(), Get())
}

func TestConcurrentConfigAccess(t *testing.T) {
	resetConfig()
	mu.Lock()
	cfg = Default()
	mu.Unlock()

	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c := Get()
				_ = c.App.IsProduction()
				_ = c.Server.GetServerAddr()
			}
		}()
	}

	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				next := Default()
				next.App.Name = fmt.Sprintf("App %d", id)
				swap(next)
				time.Sleep(time.Millisecond)
			}
		}(i)
	}

	wg.Wait()
	assert.NotNil(t, Get())
}

func BenchmarkGetConfig(b *testing.B) {
	mu.Lock()
	cfg = Default()
	mu.Unlock()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = Get()
		}
	})
}
