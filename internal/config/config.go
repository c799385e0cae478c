package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"

	"github.com/cityops-io/cityops-ce/internal/export"
	"github.com/cityops-io/cityops-ce/internal/filter"
)

const EnvPrefix = "CITYOPS"

var (
	cfg       *Config
	once      sync.Once
	mu        sync.RWMutex
	listeners []func(old, updated *Config)

	logger = log.New(os.Stdout, "[CONFIG] ", log.LstdFlags)
)

// Config represents the application configuration
type Config struct {
	App     AppConfig                    `mapstructure:"app"`
	Server  ServerConfig                 `mapstructure:"server"`
	Source  SourceConfig                 `mapstructure:"source"`
	Filters map[string]map[string]string `mapstructure:"filters"`
	Map     MapConfig                    `mapstructure:"map"`
	Metrics MetricsConfig                `mapstructure:"metrics"`
	Logging LoggingConfig                `mapstructure:"logging"`
	Export  ExportConfig                 `mapstructure:"export"`
}

type AppConfig struct {
	Name  string `mapstructure:"name"`
	Env   string `mapstructure:"env"`
	Debug bool   `mapstructure:"debug"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// SourceConfig selects the seed the record source is loaded from. An empty
// SeedFile uses the embedded sample data.
type SourceConfig struct {
	SeedFile        string `mapstructure:"seed_file"`
	RefreshSchedule string `mapstructure:"refresh_schedule"`
}

type MapConfig struct {
	AccessToken string    `mapstructure:"access_token"`
	Style       string    `mapstructure:"style"`
	Center      []float64 `mapstructure:"center"` // lng, lat
	Zoom        float64   `mapstructure:"zoom"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

type ExportConfig struct {
	DefaultFormat string `mapstructure:"default_format"`
	SheetName     string `mapstructure:"sheet_name"`
	TimeFormat    string `mapstructure:"time_format"`
}

// Default returns the built-in configuration used when no file is present.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name: "CityOps",
			Env:  "development",
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Source: SourceConfig{
			RefreshSchedule: "@every 5m",
		},
		Filters: map[string]map[string]string{},
		Map: MapConfig{
			Style:  "mapbox://styles/mapbox/light-v11",
			Center: []float64{-74.006, 40.7128},
			Zoom:   12,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Export: ExportConfig{
			DefaultFormat: "csv",
			SheetName:     "Reports",
			TimeFormat:    "2006-01-02 15:04:05",
		},
	}
}

// setDefaults registers every key so environment overrides work without a
// config file.
func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("app.name", d.App.Name)
	v.SetDefault("app.env", d.App.Env)
	v.SetDefault("app.debug", d.App.Debug)
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("source.seed_file", d.Source.SeedFile)
	v.SetDefault("source.refresh_schedule", d.Source.RefreshSchedule)
	v.SetDefault("filters", d.Filters)
	v.SetDefault("map.access_token", d.Map.AccessToken)
	v.SetDefault("map.style", d.Map.Style)
	v.SetDefault("map.center", d.Map.Center)
	v.SetDefault("map.zoom", d.Map.Zoom)
	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.path", d.Metrics.Path)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("export.default_format", d.Export.DefaultFormat)
	v.SetDefault("export.sheet_name", d.Export.SheetName)
	v.SetDefault("export.time_format", d.Export.TimeFormat)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load initializes the configuration with hot reload support. default.yaml
// and config.yaml in configPath are both optional.
func Load(configPath string) error {
	var err error
	once.Do(func() {
		v := newViper()
		v.AddConfigPath(configPath)

		watched := ""
		for _, name := range []string{"default", "config"} {
			v.SetConfigName(name)
			if mergeErr := v.MergeInConfig(); mergeErr != nil {
				var notFound viper.ConfigFileNotFoundError
				if errors.As(mergeErr, &notFound) {
					continue
				}
				err = fmt.Errorf("failed to read %s config: %w", name, mergeErr)
				return
			}
			watched = v.ConfigFileUsed()
		}

		var loaded *Config
		if loaded, err = decode(v); err != nil {
			return
		}
		mu.Lock()
		cfg = loaded
		mu.Unlock()

		if watched == "" {
			logger.Printf("No config file in %s, using defaults", configPath)
			return
		}

		v.SetConfigFile(watched)
		v.OnConfigChange(func(e fsnotify.Event) {
			logger.Printf("Config file changed: %s", e.Name)
			updated, err := decode(v)
			if err != nil {
				logger.Printf("Failed to reload config: %v", err)
				return
			}
			swap(updated)
			logger.Println("Configuration reloaded successfully")
		})
		v.WatchConfig()
	})

	return err
}

// swap installs updated and notifies listeners.
func swap(updated *Config) {
	mu.Lock()
	old := cfg
	cfg = updated
	subscribers := append([]func(old, updated *Config){}, listeners...)
	mu.Unlock()

	for _, fn := range subscribers {
		fn(old, updated)
	}
}

// OnChange registers fn to run after every successful hot reload.
func OnChange(fn func(old, updated *Config)) {
	mu.Lock()
	defer mu.Unlock()
	listeners = append(listeners, fn)
}

// Get returns the current configuration (thread-safe). Before Load it
// returns the defaults.
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	if cfg == nil {
		return Default()
	}
	return cfg
}

// LoadFromFile loads configuration from a specific file (useful for testing)
func LoadFromFile(configFile string) error {
	v := newViper()
	v.SetConfigFile(configFile)

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	loaded, err := decode(v)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	cfg = loaded
	return nil
}

// MustLoad loads configuration and panics on error
func MustLoad(configPath string) {
	if err := Load(configPath); err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}
}

// GetServerAddr returns the server listen address
func (c *ServerConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsProduction returns true if running in production mode
func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}

func (c *AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// IsDebug reports whether per-request filter logging is on.
func (c *LoggingConfig) IsDebug() bool {
	return strings.EqualFold(c.Level, "debug")
}

// TokenConfigured reports whether a map access token is present.
func (c *MapConfig) TokenConfigured() bool {
	return strings.TrimSpace(c.AccessToken) != ""
}

// FilterModes parses the per-entity selector overrides.
func (c *Config) FilterModes() (map[string]map[string]filter.MatchMode, error) {
	out := make(map[string]map[string]filter.MatchMode, len(c.Filters))
	for entity, selectors := range c.Filters {
		modes := make(map[string]filter.MatchMode, len(selectors))
		for name, raw := range selectors {
			mode, err := filter.ParseMatchMode(raw)
			if err != nil {
				return nil, fmt.Errorf("filters.%s.%s: %w", entity, name, err)
			}
			modes[name] = mode
		}
		out[entity] = modes
	}
	return out, nil
}

// ExportOptions maps the export section onto exporter options.
func (c *Config) ExportOptions() export.Options {
	return export.Options{SheetName: c.Export.SheetName, TimeFormat: c.Export.TimeFormat}
}

var scheduleParser = cron.NewParser(
	cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// ValidateSchedule checks a spec the way the task runner parses it.
func ValidateSchedule(spec string) error {
	if _, err := scheduleParser.Parse(spec); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return nil
}

// Validate checks structural constraints and reports every problem at once.
func (c *Config) Validate() error {
	var problems []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("server.port %d out of range", c.Server.Port))
	}
	if _, err := c.FilterModes(); err != nil {
		problems = append(problems, err.Error())
	}
	if c.Source.RefreshSchedule != "" {
		if err := ValidateSchedule(c.Source.RefreshSchedule); err != nil {
			problems = append(problems, "source.refresh_schedule: "+err.Error())
		}
	}
	if _, err := export.ParseFormat(c.Export.DefaultFormat); err != nil {
		problems = append(problems, "export.default_format: "+err.Error())
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level))
	}
	if len(c.Map.Center) != 2 {
		problems = append(problems, "map.center must be [lng, lat]")
	}
	if c.Map.Zoom < 0 || c.Map.Zoom > 22 {
		problems = append(problems, fmt.Sprintf("map.zoom %.1f out of range", c.Map.Zoom))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration:\n%s", strings.Join(problems, "\n"))
	}
	return nil
}
