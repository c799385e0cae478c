package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDefaultSource(t *testing.T) *MemoryRecordSource {
	t.Helper()
	src, err := NewMemoryRecordSource(context.Background(), FileLoader(""))
	require.NoError(t, err)
	return src
}

func TestMemoryRecordSource_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	src := newDefaultSource(t)

	reports, err := src.Reports(ctx)
	require.NoError(t, err)
	reports[0].Category = "mutated"
	reports[0].Coordinates.Lat = 0

	again, err := src.Reports(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Pothole", again[0].Category)
	assert.InDelta(t, 40.7128, again[0].Coordinates.Lat, 1e-9)

	depts, err := src.Departments(ctx)
	require.NoError(t, err)
	depts[0].Categories[0] = "mutated"

	depts, err = src.Departments(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Pothole", depts[0].Categories[0])
}

func TestMemoryRecordSource_Lookups(t *testing.T) {
	ctx := context.Background()
	src := newDefaultSource(t)

	r, err := src.ReportByID(ctx, "R-2024-003")
	require.NoError(t, err)
	assert.Equal(t, "Graffiti", r.Category)

	_, err = src.ReportByID(ctx, "R-1999-999")
	assert.True(t, errors.Is(err, ErrNotFound))

	tpl, err := src.TemplateByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Status Update", tpl.Name)

	_, err = src.TemplateByID(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRecordSource_ReloadKeepsSnapshotOnFailure(t *testing.T) {
	ctx := context.Background()
	calls := 0
	loader := func(ctx context.Context) (*Dataset, error) {
		calls++
		if calls > 1 {
			return nil, errors.New("seed unavailable")
		}
		return DefaultDataset()
	}

	src, err := NewMemoryRecordSource(ctx, loader)
	require.NoError(t, err)
	loaded := src.LoadedAt()

	err = src.Reload(ctx)
	require.Error(t, err)

	reports, err := src.Reports(ctx)
	require.NoError(t, err)
	assert.Len(t, reports, 5)
	assert.Equal(t, loaded, src.LoadedAt())
}

func TestMemoryRecordSource_Replace(t *testing.T) {
	ctx := context.Background()
	src := NewStaticRecordSource(&Dataset{})
	require.NoError(t, src.Reload(ctx))

	users, err := src.Users(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	ds, err := ParseDataset([]byte(minimalSeed))
	require.NoError(t, err)
	src.Replace(ds)

	users, err = src.Users(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	ds.Users[0].Name = "changed after replace"
	users, _ = src.Users(ctx)
	assert.Equal(t, "Sarah Johnson", users[0].Name)
}

func TestMemoryRecordSource_CancelledContext(t *testing.T) {
	src := newDefaultSource(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.Notifications(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryRecordSource_ConcurrentReload(t *testing.T) {
	ctx := context.Background()
	src := newDefaultSource(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, src.Reload(ctx))
		}()
		go func() {
			defer wg.Done()
			reports, err := src.Reports(ctx)
			assert.NoError(t, err)
			assert.Len(t, reports, 5)
		}()
	}
	wg.Wait()
}

func TestMemoryRecordSource_SwitchLoader(t *testing.T) {
	ctx := context.Background()
	src := newDefaultSource(t)

	failing := func(ctx context.Context) (*Dataset, error) { return nil, errors.New("boom") }
	require.Error(t, src.SwitchLoader(ctx, failing))
	require.NoError(t, src.Reload(ctx), "failed switch must keep the old loader")

	minimal := func(ctx context.Context) (*Dataset, error) { return ParseDataset([]byte(minimalSeed)) }
	require.NoError(t, src.SwitchLoader(ctx, minimal))
	require.NoError(t, src.Reload(ctx))

	users, err := src.Users(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
