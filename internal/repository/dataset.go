package repository

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cityops-io/cityops-ce/internal/models"
)

//go:embed seed/default.yaml
var defaultSeed []byte

// ErrNotFound is returned when a record id does not exist in the source.
var ErrNotFound = errors.New("record not found")

// ValidationError lists every problem found in a seed document.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid dataset: %s", strings.Join(e.Problems, "; "))
}

// Dataset is one consistent snapshot of every collection the dashboard shows.
type Dataset struct {
	Reports       []models.Report               `yaml:"reports"`
	Users         []models.User                 `yaml:"users"`
	Departments   []models.Department           `yaml:"departments"`
	Notifications []models.Notification         `yaml:"notifications"`
	Templates     []models.NotificationTemplate `yaml:"templates"`
}

// ParseDataset validates a YAML seed document and decodes it.
func ParseDataset(data []byte) (*Dataset, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}
	if err := validateDocument(raw); err != nil {
		return nil, err
	}

	ds := &Dataset{}
	if err := yaml.Unmarshal(data, ds); err != nil {
		return nil, fmt.Errorf("failed to decode seed: %w", err)
	}
	if err := ds.checkUnique(); err != nil {
		return nil, err
	}
	return ds, nil
}

// DefaultDataset returns the embedded sample data.
func DefaultDataset() (*Dataset, error) {
	return ParseDataset(defaultSeed)
}

// Loader produces a fresh dataset, e.g. by re-reading a seed file.
type Loader func(ctx context.Context) (*Dataset, error)

// FileLoader reads the seed at path on every call. An empty path loads the
// embedded sample data.
func FileLoader(path string) Loader {
	return func(ctx context.Context) (*Dataset, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if path == "" {
			return DefaultDataset()
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read seed %s: %w", path, err)
		}
		ds, err := ParseDataset(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return ds, nil
	}
}

func (ds *Dataset) checkUnique() error {
	var problems []string

	seenReports := make(map[string]bool, len(ds.Reports))
	for _, r := range ds.Reports {
		if seenReports[r.ID] {
			problems = append(problems, fmt.Sprintf("duplicate report id %s", r.ID))
		}
		seenReports[r.ID] = true
	}

	problems = appendDuplicateInts(problems, "user", ds.Users, func(u models.User) int { return u.ID })
	problems = appendDuplicateInts(problems, "department", ds.Departments, func(d models.Department) int { return d.ID })
	problems = appendDuplicateInts(problems, "notification", ds.Notifications, func(n models.Notification) int { return n.ID })
	problems = appendDuplicateInts(problems, "template", ds.Templates, func(t models.NotificationTemplate) int { return t.ID })

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func appendDuplicateInts[T any](problems []string, kind string, items []T, id func(T) int) []string {
	seen := make(map[int]bool, len(items))
	for _, it := range items {
		n := id(it)
		if seen[n] {
			problems = append(problems, fmt.Sprintf("duplicate %s id %d", kind, n))
		}
		seen[n] = true
	}
	return problems
}

// clone deep-copies the dataset so callers can never reach the snapshot.
func (ds *Dataset) clone() *Dataset {
	out := &Dataset{
		Reports:       make([]models.Report, len(ds.Reports)),
		Users:         make([]models.User, len(ds.Users)),
		Departments:   make([]models.Department, len(ds.Departments)),
		Notifications: make([]models.Notification, len(ds.Notifications)),
		Templates:     make([]models.NotificationTemplate, len(ds.Templates)),
	}
	for i, r := range ds.Reports {
		out.Reports[i] = r.Clone()
	}
	copy(out.Users, ds.Users)
	for i, d := range ds.Departments {
		out.Departments[i] = d.Clone()
	}
	copy(out.Notifications, ds.Notifications)
	for i, t := range ds.Templates {
		out.Templates[i] = t.Clone()
	}
	return out
}
