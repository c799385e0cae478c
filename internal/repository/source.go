package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cityops-io/cityops-ce/internal/models"
)

// RecordSource supplies the ordered record collections shown by the dashboard.
// Every call returns a copy; callers may keep or modify the result freely.
type RecordSource interface {
	Reports(ctx context.Context) ([]models.Report, error)
	ReportByID(ctx context.Context, id string) (*models.Report, error)
	Users(ctx context.Context) ([]models.User, error)
	Departments(ctx context.Context) ([]models.Department, error)
	Notifications(ctx context.Context) ([]models.Notification, error)
	Templates(ctx context.Context) ([]models.NotificationTemplate, error)
	TemplateByID(ctx context.Context, id int) (*models.NotificationTemplate, error)
}

// MemoryRecordSource serves a read-only in-memory snapshot that can be
// swapped atomically by Reload or Replace.
type MemoryRecordSource struct {
	mu       sync.RWMutex
	data     *Dataset
	loadedAt time.Time
	loader   Loader
}

// NewMemoryRecordSource loads the first snapshot with loader.
func NewMemoryRecordSource(ctx context.Context, loader Loader) (*MemoryRecordSource, error) {
	s := &MemoryRecordSource{loader: loader}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// NewStaticRecordSource serves ds as-is. Reload is a no-op.
func NewStaticRecordSource(ds *Dataset) *MemoryRecordSource {
	return &MemoryRecordSource{data: ds.clone(), loadedAt: time.Now()}
}

// Reload replaces the snapshot with a fresh one from the loader. On failure
// the current snapshot is kept.
func (s *MemoryRecordSource) Reload(ctx context.Context) error {
	s.mu.RLock()
	loader := s.loader
	s.mu.RUnlock()
	if loader == nil {
		return nil
	}
	ds, err := loader(ctx)
	if err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}
	s.Replace(ds)
	return nil
}

// SwitchLoader loads a snapshot with loader and, only if that succeeds,
// installs both so later Reload calls use the new loader.
func (s *MemoryRecordSource) SwitchLoader(ctx context.Context, loader Loader) error {
	ds, err := loader(ctx)
	if err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}
	snapshot := ds.clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loader = loader
	s.data = snapshot
	s.loadedAt = time.Now()
	return nil
}

// Replace swaps in ds as the current snapshot.
func (s *MemoryRecordSource) Replace(ds *Dataset) {
	snapshot := ds.clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = snapshot
	s.loadedAt = time.Now()
}

// LoadedAt returns when the current snapshot was installed.
func (s *MemoryRecordSource) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

func (s *MemoryRecordSource) snapshot(ctx context.Context) (*Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.data == nil {
		return &Dataset{}, nil
	}
	return s.data, nil
}

func (s *MemoryRecordSource) Reports(ctx context.Context) ([]models.Report, error) {
	ds, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Report, len(ds.Reports))
	for i, r := range ds.Reports {
		out[i] = r.Clone()
	}
	return out, nil
}

func (s *MemoryRecordSource) ReportByID(ctx context.Context, id string) (*models.Report, error) {
	ds, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range ds.Reports {
		if r.ID == id {
			found := r.Clone()
			return &found, nil
		}
	}
	return nil, fmt.Errorf("report %s: %w", id, ErrNotFound)
}

func (s *MemoryRecordSource) Users(ctx context.Context) ([]models.User, error) {
	ds, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.User, len(ds.Users))
	copy(out, ds.Users)
	return out, nil
}

func (s *MemoryRecordSource) Departments(ctx context.Context) ([]models.Department, error) {
	ds, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Department, len(ds.Departments))
	for i, d := range ds.Departments {
		out[i] = d.Clone()
	}
	return out, nil
}

func (s *MemoryRecordSource) Notifications(ctx context.Context) ([]models.Notification, error) {
	ds, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Notification, len(ds.Notifications))
	copy(out, ds.Notifications)
	return out, nil
}

func (s *MemoryRecordSource) Templates(ctx context.Context) ([]models.NotificationTemplate, error) {
	ds, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.NotificationTemplate, len(ds.Templates))
	for i, t := range ds.Templates {
		out[i] = t.Clone()
	}
	return out, nil
}

func (s *MemoryRecordSource) TemplateByID(ctx context.Context, id int) (*models.NotificationTemplate, error) {
	ds, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range ds.Templates {
		if t.ID == id {
			found := t.Clone()
			return &found, nil
		}
	}
	return nil, fmt.Errorf("template %d: %w", id, ErrNotFound)
}
