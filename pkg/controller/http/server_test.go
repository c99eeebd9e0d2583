package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/goerr/v2"

	controller "adowatch/pkg/controller/http"
	"adowatch/pkg/domain/model"
	"adowatch/pkg/domain/types"
)

// monitorMock is a functional mock of interfaces.BuildMonitor
type monitorMock struct {
	snapshot    *model.Snapshot
	status      model.MonitorStatus
	refreshFunc func(ctx context.Context) (*model.Snapshot, error)
}

func (m *monitorMock) Snapshot() *model.Snapshot   { return m.snapshot }
func (m *monitorMock) Status() model.MonitorStatus { return m.status }

func (m *monitorMock) Refresh(ctx context.Context) (*model.Snapshot, error) {
	if m.refreshFunc != nil {
		return m.refreshFunc(ctx)
	}
	return m.snapshot, nil
}

func newTestServer(t *testing.T, monitor *monitorMock) *controller.Server {
	t.Helper()
	server, err := controller.NewServer(
		context.Background(),
		monitor,
		controller.WithAddr("localhost:0"),
	)
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}
	return server
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(t, &monitorMock{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	server.Handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Status code = %v, want %v", w.Code, http.StatusOK)
	}

	var status model.HealthStatus
	if err := json.NewDecoder(w.Body).Decode(&status); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if status.Status != "healthy" {
		t.Errorf("Status = %v, want healthy", status.Status)
	}

	if status.Service != "adowatch" {
		t.Errorf("Service = %v, want adowatch", status.Service)
	}

	if status.Version == "" {
		t.Error("Version should not be empty")
	}
}

func TestStatusEndpoint(t *testing.T) {
	server := newTestServer(t, &monitorMock{
		status: model.MonitorStatus{
			State:     model.MonitorStateUpdateFailed,
			LastError: "update failed",
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	w := httptest.NewRecorder()

	server.Handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Status code = %v, want %v", w.Code, http.StatusOK)
	}

	var status model.MonitorStatus
	if err := json.NewDecoder(w.Body).Decode(&status); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if status.State != model.MonitorStateUpdateFailed {
		t.Errorf("State = %v, want %v", status.State, model.MonitorStateUpdateFailed)
	}

	if status.LastError != "update failed" {
		t.Errorf("LastError = %v, want update failed", status.LastError)
	}
}

func TestBuildsEndpoint(t *testing.T) {
	t.Run("no snapshot yet", func(t *testing.T) {
		server := newTestServer(t, &monitorMock{})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/builds", nil)
		w := httptest.NewRecorder()

		server.Handler.ServeHTTP(w, req)

		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("Status code = %v, want %v", w.Code, http.StatusServiceUnavailable)
		}
	})

	t.Run("serves the latest snapshot", func(t *testing.T) {
		server := newTestServer(t, &monitorMock{
			snapshot: model.NewSnapshot("org1", &model.Project{Name: "proj1"}, []model.Build{
				{ID: 1, Status: model.BuildStatusCompleted},
			}),
		})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/builds", nil)
		w := httptest.NewRecorder()

		server.Handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status code = %v, want %v", w.Code, http.StatusOK)
		}

		var snapshot model.Snapshot
		if err := json.NewDecoder(w.Body).Decode(&snapshot); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}

		if snapshot.Organization != "org1" {
			t.Errorf("Organization = %v, want org1", snapshot.Organization)
		}
		if len(snapshot.Builds) != 1 || snapshot.Builds[0].ID != 1 {
			t.Errorf("Builds = %+v, want one build with ID 1", snapshot.Builds)
		}
	})
}

func TestRefreshEndpoint(t *testing.T) {
	tests := []struct {
		name       string
		refresh    func(ctx context.Context) (*model.Snapshot, error)
		wantStatus int
	}{
		{
			name: "success",
			refresh: func(ctx context.Context) (*model.Snapshot, error) {
				return model.NewSnapshot("org1", &model.Project{Name: "proj1"}, nil), nil
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "transient update failure",
			refresh: func(ctx context.Context) (*model.Snapshot, error) {
				return nil, goerr.New("update failed", goerr.T(types.TagUpdateFailed))
			},
			wantStatus: http.StatusBadGateway,
		},
		{
			name: "auth failure",
			refresh: func(ctx context.Context) (*model.Snapshot, error) {
				return nil, goerr.New("token expired", goerr.T(types.TagAuthFailed))
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "unexpected failure",
			refresh: func(ctx context.Context) (*model.Snapshot, error) {
				return nil, goerr.New("boom")
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(t, &monitorMock{refreshFunc: tt.refresh})

			req := httptest.NewRequest(http.MethodPost, "/api/v1/refresh", nil)
			w := httptest.NewRecorder()

			server.Handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Status code = %v, want %v", w.Code, tt.wantStatus)
			}
		})
	}
}
