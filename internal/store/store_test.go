package store

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dekendrabaduwal/College-course/internal/config"
	"github.com/Dekendrabaduwal/College-course/internal/rootfind"
)

func solvedRun(t *testing.T, id string, at time.Time) *Run {
	t.Helper()
	p := rootfind.Params{A: 0, B: 2, Tol: 1e-3}
	res, err := rootfind.Bisect(rootfind.FuncOf(func(x float64) float64 { return x*x - 2 }), p, nil)
	require.NoError(t, err)
	return NewRun(id, "x^2 - 2", p, res, nil, at)
}

// exercise runs the same contract against every backend
func exercise(t *testing.T, s Store) {
	ctx := context.Background()
	base := time.Unix(1700000000, 0)

	first := solvedRun(t, "first", base)
	second := solvedRun(t, "second", base.Add(time.Minute))

	failed := NewRun("failed", "x^2 + 1", rootfind.Params{A: -1, B: 1, Tol: 1e-6},
		rootfind.Result{Status: rootfind.StatusNoSignChange}, rootfind.ErrNoSignChange, base.Add(2*time.Minute))

	for _, r := range []*Run{first, second, failed} {
		require.NoError(t, s.Save(ctx, r))
	}

	got, err := s.Get(ctx, "first")
	require.NoError(t, err)
	assert.Equal(t, first.Func, got.Func)
	assert.Equal(t, first.Params, got.Params)
	assert.Equal(t, rootfind.StatusConverged, got.Status)
	assert.Equal(t, first.X, got.X)
	assert.Equal(t, first.Iters, got.Iters)
	assert.True(t, first.CreatedAt.Equal(got.CreatedAt))

	got, err = s.Get(ctx, "failed")
	require.NoError(t, err)
	assert.Equal(t, rootfind.StatusNoSignChange, got.Status)
	assert.Equal(t, rootfind.ErrNoSignChange.Error(), got.Err)
	assert.Empty(t, got.Iters)

	_, err = s.Get(ctx, "missing")
	assert.True(t, errors.Is(err, ErrNotFound))

	list, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"failed", "second", "first"}, []string{list[0].ID, list[1].ID, list[2].ID})
	assert.Empty(t, list[1].Iters, "List omits iterations")

	list, err = s.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "failed", list[0].ID)

	// saving again replaces the trace
	first.Iters = first.Iters[:2]
	require.NoError(t, s.Save(ctx, first))
	got, err = s.Get(ctx, "first")
	require.NoError(t, err)
	assert.Len(t, got.Iters, 2)

	require.NoError(t, s.Close())
}

func TestMemory(t *testing.T) {
	exercise(t, NewMemory())
}

func TestMemory_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	require.NoError(t, s.Save(ctx, solvedRun(t, "id", time.Now())))

	got, err := s.Get(ctx, "id")
	require.NoError(t, err)
	got.Iters[0].K = 99

	again, err := s.Get(ctx, "id")
	require.NoError(t, err)
	assert.Equal(t, 1, again.Iters[0].K)
}

func TestSQLite(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "runs.db"))
	require.NoError(t, err)
	exercise(t, s)
}

func TestSQLite_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "runs.db")

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, solvedRun(t, "kept", time.Now())))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Get(ctx, "kept")
	require.NoError(t, err)
	assert.NotEmpty(t, got.Iters)
}

func TestSQLite_NaNParams(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer s.Close()

	r := NewRun("nan", "x", rootfind.Params{A: math.NaN(), B: 1, Tol: 1e-6},
		rootfind.Result{Status: rootfind.StatusInvalidInterval}, rootfind.ErrInvalidInterval, time.Now())
	require.NoError(t, s.Save(ctx, r))

	got, err := s.Get(ctx, "nan")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(got.Params.A))
	assert.Equal(t, 1.0, got.Params.B)
}

func TestOpen(t *testing.T) {
	s, err := Open(config.StoreConfig{Driver: config.DriverMemory})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	s, err = Open(config.StoreConfig{Driver: config.DriverSQLite, Path: filepath.Join(t.TempDir(), "h.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, s)
	require.NoError(t, s.Close())

	_, err = Open(config.StoreConfig{Driver: "redis"})
	assert.Error(t, err)
}
