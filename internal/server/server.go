package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Dekendrabaduwal/College-course/internal/config"
	"github.com/Dekendrabaduwal/College-course/internal/logger"
	"github.com/Dekendrabaduwal/College-course/internal/metrics"
	"github.com/Dekendrabaduwal/College-course/internal/report"
	"github.com/Dekendrabaduwal/College-course/internal/rootfind"
	"github.com/Dekendrabaduwal/College-course/internal/sse"
	"github.com/Dekendrabaduwal/College-course/internal/store"
)

const saveTimeout = 5 * time.Second

// Server owns the run registry, the SSE hub and the history store.
type Server struct {
	cfg      config.Config
	hub      *sse.Hub
	history  store.Store
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	runs     *registry
	log      *slog.Logger
	wg       sync.WaitGroup

	// compile turns the request expression into f; swapped in tests
	compile func(string) (rootfind.Func, error)
}

// New wires a server. reg receives the solver metrics and is served on /metrics.
func New(cfg config.Config, history store.Store, reg *prometheus.Registry) *Server {
	return &Server{
		cfg:      cfg,
		hub:      sse.NewHub(),
		history:  history,
		metrics:  metrics.New(reg),
		gatherer: reg,
		runs:     newRegistry(),
		log:      logger.With("component", "server"),
		compile:  rootfind.NewEvalFunc,
	}
}

// Close stops live runs and waits for them to finish.
func (s *Server) Close() {
	s.runs.cancelAll()
	s.wg.Wait()
}

// start launches an asynchronous run and returns its state.
func (s *Server) start(fn string, f rootfind.Func, p rootfind.Params) *RunState {
	ctx, cancel := context.WithCancel(context.Background())
	rs := newRunState(uuid.NewString(), fn, p, cancel)
	s.runs.save(rs)

	s.wg.Add(1)
	go s.run(ctx, rs, f)
	return rs
}

func (s *Server) run(ctx context.Context, rs *RunState, f rootfind.Func) {
	defer s.wg.Done()
	defer close(rs.done)
	defer rs.Cancel()

	finish := s.metrics.RunStarted()
	start := time.Now()

	s.publish(rs, "start", map[string]any{"id": rs.ID})

	res, err := rootfind.Bisect(f, rs.Params, func(it rootfind.Iter) error {
		rs.addIter(it)
		s.publish(rs, "iter", map[string]any{"iter": it})

		select {
		case <-ctx.Done():
			return rootfind.ErrStopped
		default:
		}
		return nil
	})

	finish(res.Status.String(), len(res.Iters))
	s.record(rs.ID, rs.Func, rs.Params, res, err, rs.CreatedAt, time.Since(start))

	msg, _ := report.Message(rs.Params, res, err)
	switch {
	case errors.Is(err, rootfind.ErrStopped):
		s.publish(rs, "stopped", map[string]any{"message": msg})
	case err != nil:
		s.publish(rs, "error", map[string]any{
			"status":  res.Status,
			"err":     err.Error(),
			"message": msg,
		})
	default:
		s.publish(rs, "done", map[string]any{
			"status":  res.Status,
			"x":       res.X,
			"fx":      res.FX,
			"message": msg,
		})
	}

	// the history store has the run from here on
	time.AfterFunc(s.cfg.Server.RunRetention, func() { s.runs.forget(rs) })
}

// solve runs synchronously and records the outcome.
func (s *Server) solve(fn string, f rootfind.Func, p rootfind.Params) (string, rootfind.Result, error) {
	id := uuid.NewString()
	finish := s.metrics.RunStarted()
	start := time.Now()

	res, err := rootfind.Bisect(f, p, nil)

	finish(res.Status.String(), len(res.Iters))
	s.record(id, fn, p, res, err, start, time.Since(start))
	return id, res, err
}

func (s *Server) record(id, fn string, p rootfind.Params, res rootfind.Result, err error, at time.Time, elapsed time.Duration) {
	logger.RunFinished(id, res.Status.String(), len(res.Iters), elapsed, "func", fn)

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if serr := s.history.Save(ctx, store.NewRun(id, fn, p, res, err, at)); serr != nil {
		s.log.Error("failed to save run", "run_id", id, "error", serr)
	}
}

// publish appends the event to the run log and notifies subscribers.
// Both happen under the run lock so /stream sees each event exactly once.
func (s *Server) publish(rs *RunState, typ string, payload map[string]any) {
	payload["type"] = typ
	msg, err := json.Marshal(payload)
	if err != nil {
		s.log.Error("failed to encode event", "run_id", rs.ID, "type", typ, "error", err)
		return
	}

	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.events = append(rs.events, event{Type: typ, Data: string(msg)})
	s.hub.Publish(rs.ID, string(msg))
}
