package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Dekendrabaduwal/College-course/internal/report"
	"github.com/Dekendrabaduwal/College-course/internal/rootfind"
	"github.com/Dekendrabaduwal/College-course/internal/sse"
	"github.com/Dekendrabaduwal/College-course/internal/store"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeParams(w http.ResponseWriter, r *http.Request) (RunParams, bool) {
	var rp RunParams
	if err := json.NewDecoder(r.Body).Decode(&rp); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return rp, false
	}
	return rp, true
}

// StartRun compiles and validates the request, then runs it in the background.
// The response carries the run id and samples of f for plotting.
func (s *Server) StartRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}

	rp, ok := decodeParams(w, r)
	if !ok {
		return
	}
	p := rp.params(s.cfg.Solver)

	f, err := s.compile(rp.Func)
	if err == nil {
		err = rootfind.Validate(p)
	}
	if err != nil {
		writeJSON(w, http.StatusBadRequest, report.NewSummary(p, rootfind.Result{}, err))
		return
	}

	samples := rootfind.SampleFunc(f, p.A, p.B, s.cfg.Server.PlotPoints)
	xs := make([]float64, len(samples))
	ys := make([]*float64, len(samples))
	for i, pt := range samples {
		xs[i], ys[i] = pt.X, pt.Y
	}

	rs := s.start(rp.Func, f, p)

	writeJSON(w, http.StatusOK, map[string]any{
		"id": rs.ID,
		"xs": xs,
		"ys": ys,
	})
}

// Solve runs synchronously. Solver failures are results, not HTTP errors.
func (s *Server) Solve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}

	rp, ok := decodeParams(w, r)
	if !ok {
		return
	}
	p := rp.params(s.cfg.Solver)

	f, err := s.compile(rp.Func)
	if err != nil {
		writeJSON(w, http.StatusOK, report.NewSummary(p, rootfind.Result{}, err))
		return
	}

	var (
		id  string
		res rootfind.Result
	)
	if err = rootfind.Validate(p); err != nil {
		// not recorded: the history only keeps runs on a valid interval
		res.Status = rootfind.StatusOf(err)
	} else {
		id, res, err = s.solve(rp.Func, f, p)
	}

	writeJSON(w, http.StatusOK, struct {
		ID string `json:"id,omitempty"`
		report.Summary
	}{id, report.NewSummary(p, res, err)})
}

// StopRun cancels a live run.
func (s *Server) StopRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}

	rs := s.runs.get(id)
	if rs == nil {
		http.Error(w, "unknown id", http.StatusNotFound)
		return
	}

	if rs.Cancel != nil {
		rs.Cancel()
	}

	w.WriteHeader(http.StatusNoContent)
}

// ExportCSV writes the iterations of a run as CSV.
func (s *Server) ExportCSV(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}

	var iters []rootfind.Iter
	if rs := s.runs.get(id); rs != nil {
		iters = rs.Iters()
	} else {
		run, err := s.history.Get(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "unknown id", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		iters = run.Iters
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=iterations_"+id+".csv")

	if err := report.WriteCSV(w, iters); err != nil {
		s.log.Warn("csv export failed", "run_id", id, "error", err)
	}
}

// Stream is the SSE stream of a run. Events published before the client
// connected are replayed first; the stream ends after the final event.
func (s *Server) Stream(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}

	rs := s.runs.get(id)
	if rs == nil {
		http.Error(w, "unknown id", http.StatusNotFound)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// subscribe before the first replay so no wake-up is missed
	wake, cancel := s.hub.Subscribe(id)
	defer cancel()

	sent := 0
	flush := func() (finished bool) {
		for _, ev := range rs.eventsFrom(sent) {
			sent++
			if err := sse.WriteEvent(w, "msg", ev.Data); err != nil {
				return true
			}
			if ev.terminal() {
				finished = true
				break
			}
		}
		flusher.Flush()
		return finished
	}

	if flush() {
		return
	}

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-wake:
			if flush() {
				return
			}
		case <-rs.Done():
			flush()
			return
		}
	}
}

// ListRuns returns the run history, newest first.
func (s *Server) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "limit must be an integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	runs, err := s.history.List(r.Context(), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

// GetRun returns one run with its trace.
func (s *Server) GetRun(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/runs/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}

	run, err := s.history.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "unknown id", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, run)
}
