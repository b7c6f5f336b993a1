package store

import (
	"context"
	"slices"
	"strings"
	"sync"
)

// Memory is an in-process Store.
type Memory struct {
	mu   sync.Mutex
	runs map[string]*Run
}

func NewMemory() *Memory {
	return &Memory{runs: map[string]*Run{}}
}

func (m *Memory) Save(_ context.Context, r *Run) error {
	cp := *r
	cp.Iters = slices.Clone(r.Iters)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[r.ID] = &cp
	return nil
}

func (m *Memory) Get(_ context.Context, id string) (*Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.runs[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r
	cp.Iters = slices.Clone(r.Iters)
	return &cp, nil
}

func (m *Memory) List(_ context.Context, limit int) ([]*Run, error) {
	m.mu.Lock()
	out := make([]*Run, 0, len(m.runs))
	for _, r := range m.runs {
		cp := *r
		cp.Iters = nil
		out = append(out, &cp)
	}
	m.mu.Unlock()

	slices.SortFunc(out, func(a, b *Run) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) Close() error { return nil }

