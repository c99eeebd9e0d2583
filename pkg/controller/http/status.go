package http

import (
	"net/http"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"adowatch/pkg/domain/interfaces"
	"adowatch/pkg/domain/types"
)

// StatusHandler serves the build status API
type StatusHandler struct {
	monitor interfaces.BuildMonitor
}

// NewStatusHandler creates a new StatusHandler
func NewStatusHandler(monitor interfaces.BuildMonitor) *StatusHandler {
	return &StatusHandler{
		monitor: monitor,
	}
}

// Status reports the polling loop state
func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.monitor.Status())
}

// Builds serves the last known good snapshot. Before the first successful
// refresh there is nothing to serve yet.
func (h *StatusHandler) Builds(w http.ResponseWriter, r *http.Request) {
	snapshot := h.monitor.Snapshot()
	if snapshot == nil {
		writeError(w, goerr.New("no snapshot available yet"), http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}

// Refresh triggers an immediate refresh cycle and serves its result.
// Concurrent requests share one fetch with the interval loop.
func (h *StatusHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	snapshot, err := h.monitor.Refresh(ctx)
	if err != nil {
		ctxlog.From(ctx).Error("On-demand refresh failed", "error", err)

		switch {
		case types.IsAuthFailed(err):
			writeError(w, err, http.StatusUnauthorized)
		case types.IsUpdateFailed(err):
			writeError(w, err, http.StatusBadGateway)
		default:
			writeError(w, err, http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}
