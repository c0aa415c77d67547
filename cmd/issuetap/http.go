// http.go — Serve-mode HTTP endpoints.
package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/issuetap/issuetap/internal/devtools"
	"github.com/issuetap/issuetap/internal/observe"
	"github.com/issuetap/issuetap/internal/util"
)

// defaultTraceTail bounds /debug/trace responses when no n is given.
const defaultTraceTail = 100

func serveMux(reg *prometheus.Registry, history *observe.History, trace *devtools.Trace) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", handleHealthz())
	mux.HandleFunc("/reports", handleReports(history))
	mux.HandleFunc("/reports/latest", handleLatestReport(history))
	mux.HandleFunc("/debug/trace", handleTrace(trace))
	return mux
}

// handleHealthz reports liveness and build identity.
func handleHealthz() http.HandlerFunc {
	started := time.Now()
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			util.JSONError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		util.JSONResponse(w, http.StatusOK, map[string]any{
			"status":  "ok",
			"version": version,
			"uptime":  time.Since(started).Round(time.Second).String(),
		})
	}
}

// handleReports lists the held reports, newest first. ?since=RFC3339
// keeps only reports stopped at or after the given time.
func handleReports(history *observe.History) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			util.JSONError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		reports := history.Reports()
		if since := r.URL.Query().Get("since"); since != "" {
			t := util.ParseTimestamp(since)
			if t.IsZero() {
				util.JSONError(w, http.StatusBadRequest, "invalid since timestamp, want RFC3339")
				return
			}
			reports = history.Since(t)
		}
		util.JSONResponse(w, http.StatusOK, map[string]any{
			"count":   len(reports),
			"total":   history.Total(),
			"reports": reports,
		})
	}
}

// handleLatestReport returns the most recent report, 404 before the
// first round completes.
func handleLatestReport(history *observe.History) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			util.JSONError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		latest := history.Latest()
		if latest == nil {
			util.JSONError(w, http.StatusNotFound, "no reports yet")
			return
		}
		util.JSONResponse(w, http.StatusOK, latest)
	}
}

// handleTrace returns the most recent protocol messages, oldest first.
// ?n= bounds the tail length.
func handleTrace(trace *devtools.Trace) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			util.JSONError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		n := defaultTraceTail
		if raw := r.URL.Query().Get("n"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				util.JSONError(w, http.StatusBadRequest, "invalid n, want a positive integer")
				return
			}
			n = parsed
		}
		util.JSONResponse(w, http.StatusOK, map[string]any{
			"total":   trace.Total(),
			"entries": trace.Tail(n),
		})
	}
}
