package server

import (
	"context"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/Dekendrabaduwal/College-course/internal/config"
	"github.com/Dekendrabaduwal/College-course/internal/rootfind"
)

// RunParams is the request body of /start and /solve.
// Tol and MaxIter fall back to the configured defaults when absent.
type RunParams struct {
	Func    string   `json:"func"`
	A       *float64 `json:"a"`
	B       *float64 `json:"b"`
	Tol     *float64 `json:"tol"`
	MaxIter *int     `json:"maxIter"`
}

func (rp RunParams) params(def config.SolverConfig) rootfind.Params {
	p := rootfind.Params{
		A:       math.NaN(),
		B:       math.NaN(),
		Tol:     def.Tol,
		MaxIter: def.MaxIter,
	}
	if rp.A != nil {
		p.A = *rp.A
	}
	if rp.B != nil {
		p.B = *rp.B
	}
	if rp.Tol != nil {
		p.Tol = *rp.Tol
	}
	if rp.MaxIter != nil {
		p.MaxIter = *rp.MaxIter
	}
	return p
}

// event is one published SSE payload.
type event struct {
	Type string
	Data string
}

func (e event) terminal() bool {
	return e.Type == "done" || e.Type == "error" || e.Type == "stopped"
}

// RunState is one asynchronous run started through /start.
type RunState struct {
	ID        string
	Func      string
	Params    rootfind.Params
	CreatedAt time.Time
	Cancel    context.CancelFunc

	mu     sync.Mutex
	iters  []rootfind.Iter
	events []event
	done   chan struct{}
}

func newRunState(id, fn string, p rootfind.Params, cancel context.CancelFunc) *RunState {
	return &RunState{
		ID:        id,
		Func:      fn,
		Params:    p,
		CreatedAt: time.Now(),
		Cancel:    cancel,
		done:      make(chan struct{}),
	}
}

func (rs *RunState) addIter(it rootfind.Iter) {
	rs.mu.Lock()
	rs.iters = append(rs.iters, it)
	rs.mu.Unlock()
}

// Iters returns a snapshot of the trace so far.
func (rs *RunState) Iters() []rootfind.Iter {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return slices.Clone(rs.iters)
}

// Done is closed once the run has published its final event.
func (rs *RunState) Done() <-chan struct{} {
	return rs.done
}

// eventsFrom returns the events published after the first n.
func (rs *RunState) eventsFrom(n int) []event {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if n >= len(rs.events) {
		return nil
	}
	return slices.Clone(rs.events[n:])
}

// registry of runs started by this process
type registry struct {
	mu   sync.Mutex
	runs map[string]*RunState
}

func newRegistry() *registry {
	return &registry{runs: map[string]*RunState{}}
}

func (r *registry) save(rs *RunState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[rs.ID] = rs
}

// forget drops rs unless the id has since been taken by another run.
func (r *registry) forget(rs *RunState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.runs[rs.ID] == rs {
		delete(r.runs, rs.ID)
	}
}

func (r *registry) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.runs)
}

func (r *registry) get(id string) *RunState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runs[id]
}

func (r *registry) cancelAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rs := range r.runs {
		if rs.Cancel != nil {
			rs.Cancel()
		}
	}
}
