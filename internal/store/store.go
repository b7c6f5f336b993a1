// Package store keeps the history of solver runs.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dekendrabaduwal/College-course/internal/config"
	"github.com/Dekendrabaduwal/College-course/internal/rootfind"
)

// ErrNotFound is returned for unknown run ids.
var ErrNotFound = errors.New("run not found")

// Run is a finished (or stopped) solver run.
type Run struct {
	ID        string          `json:"id"`
	Func      string          `json:"func"`
	Params    rootfind.Params `json:"params"`
	Status    rootfind.Status `json:"status"`
	X         float64         `json:"x"`
	FX        float64         `json:"fx"`
	Err       string          `json:"err,omitempty"`
	Iters     []rootfind.Iter `json:"iters,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// NewRun builds a history record from a solver outcome.
func NewRun(id, fn string, p rootfind.Params, res rootfind.Result, err error, at time.Time) *Run {
	r := &Run{
		ID:        id,
		Func:      fn,
		Params:    p,
		Status:    res.Status,
		X:         res.X,
		FX:        res.FX,
		Iters:     res.Iters,
		CreatedAt: at,
	}
	if err != nil {
		r.Err = err.Error()
	}
	return r
}

// Store persists runs.
type Store interface {
	Save(ctx context.Context, r *Run) error
	Get(ctx context.Context, id string) (*Run, error)
	// List returns runs newest first without their iterations.
	// limit <= 0 means all.
	List(ctx context.Context, limit int) ([]*Run, error)
	Close() error
}

// Open returns the store selected by cfg.
func Open(cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case config.DriverMemory, "":
		return NewMemory(), nil
	case config.DriverSQLite:
		return OpenSQLite(cfg.Path)
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
}
