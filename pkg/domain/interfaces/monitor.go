package interfaces

import (
	"context"

	"adowatch/pkg/domain/model"
)

// BuildMonitor is the surface the HTTP controller consumes from the
// polling loop
type BuildMonitor interface {
	// Snapshot returns the last known good snapshot, or nil before the
	// first successful refresh
	Snapshot() *model.Snapshot

	// Status reports the current polling state
	Status() model.MonitorStatus

	// Refresh triggers an immediate refresh cycle. Concurrent calls share
	// a single fetch.
	Refresh(ctx context.Context) (*model.Snapshot, error)
}

// Notifier receives build result changes detected between consecutive
// refresh cycles
type Notifier interface {
	NotifyBuildChange(ctx context.Context, change model.BuildChange) error
}
