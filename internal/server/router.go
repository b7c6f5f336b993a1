package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router maps the API endpoints.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/start", s.StartRun)
	mux.HandleFunc("/solve", s.Solve)
	mux.HandleFunc("/stop", s.StopRun)
	mux.HandleFunc("/stream", s.Stream)
	mux.HandleFunc("/export", s.ExportCSV)
	mux.HandleFunc("/runs", s.ListRuns)
	mux.HandleFunc("/runs/", s.GetRun)

	mux.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	return mux
}
