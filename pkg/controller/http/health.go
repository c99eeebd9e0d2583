package http

import (
	"net/http"

	"adowatch/pkg/domain/model"
	"adowatch/pkg/domain/types"
)

// handleHealth handles health check requests
func handleHealth(w http.ResponseWriter, r *http.Request) {
	status := &model.HealthStatus{
		Status:  "healthy",
		Service: types.ServiceName,
		Version: types.Version,
	}

	writeJSON(w, http.StatusOK, status)
}
