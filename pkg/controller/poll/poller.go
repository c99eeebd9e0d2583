package poll

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"golang.org/x/sync/singleflight"

	"adowatch/pkg/domain/interfaces"
	"adowatch/pkg/domain/model"
	"adowatch/pkg/domain/types"
	"adowatch/pkg/usecase"
	"adowatch/pkg/utils/async"
)

// Poller drives the coordinator on a fixed interval and keeps the single
// last-known-good snapshot. Only one refresh cycle is ever in flight;
// concurrent triggers (interval tick plus on-demand API call) are collapsed
// into a single fetch.
type Poller struct {
	coordinator *usecase.Coordinator
	interval    time.Duration
	notifiers   []interfaces.Notifier
	onError     func(error)

	group singleflight.Group

	mu          sync.RWMutex
	snapshot    *model.Snapshot
	state       model.MonitorState
	lastSuccess time.Time
	lastErr     error
}

// Option is a functional option for Poller configuration
type Option func(*Poller)

// WithInterval overrides the refresh interval
func WithInterval(interval time.Duration) Option {
	return func(p *Poller) {
		p.interval = interval
	}
}

// WithNotifier registers a notifier for build result changes
func WithNotifier(n interfaces.Notifier) Option {
	return func(p *Poller) {
		p.notifiers = append(p.notifiers, n)
	}
}

// WithOnError registers a hook invoked with every failed refresh cycle,
// used for error reporting
func WithOnError(hook func(error)) Option {
	return func(p *Poller) {
		p.onError = hook
	}
}

// New creates a poller around an authorized coordinator
func New(coordinator *usecase.Coordinator, opts ...Option) *Poller {
	p := &Poller{
		coordinator: coordinator,
		interval:    usecase.DefaultUpdateInterval,
		state:       model.MonitorStateIdle,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Run refreshes immediately and then on every interval tick until the
// context is cancelled. Transient failures are logged and retried on the
// next tick. An auth failure stops the loop and is returned; the operator
// has to supply a new token.
func (p *Poller) Run(ctx context.Context) error {
	logger := ctxlog.From(ctx)
	logger.Info("Starting polling loop",
		"organization", p.coordinator.Organization(),
		"interval", p.interval.String(),
	)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if _, err := p.Refresh(ctx); err != nil {
			if types.IsAuthFailed(err) {
				logger.Error("Authentication failed, polling stopped", "error", err)
				return err
			}
			logger.Warn("Refresh failed, retrying on next interval", "error", err)
		}

		select {
		case <-ctx.Done():
			logger.Info("Polling loop stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// Refresh runs one refresh cycle. Concurrent callers share the in-flight
// fetch and its outcome.
func (p *Poller) Refresh(ctx context.Context) (*model.Snapshot, error) {
	v, err, _ := p.group.Do("refresh", func() (any, error) {
		return p.refresh(ctx)
	})
	if err != nil {
		return nil, err
	}

	return v.(*model.Snapshot), nil
}

// Snapshot returns the last known good snapshot, or nil before the first
// successful refresh
func (p *Poller) Snapshot() *model.Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshot
}

// Status reports the polling state for the status API
func (p *Poller) Status() model.MonitorStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()

	status := model.MonitorStatus{
		State:       p.state,
		LastSuccess: p.lastSuccess,
	}
	if p.lastErr != nil {
		status.LastError = p.lastErr.Error()
	}

	return status
}

func (p *Poller) refresh(ctx context.Context) (*model.Snapshot, error) {
	logger := ctxlog.From(ctx).With("cycle_id", uuid.New().String())
	ctx = ctxlog.With(ctx, logger)

	snapshot, err := p.coordinator.Refresh(ctx)
	if err != nil {
		p.recordFailure(err)
		if p.onError != nil {
			p.onError(err)
		}
		return nil, err
	}

	previous := p.commit(snapshot)

	logger.Info("Refresh cycle completed",
		"organization", snapshot.Organization,
		"project", snapshot.Project.Name,
		"build_count", len(snapshot.Builds),
	)

	p.notify(ctx, snapshot.ChangesSince(previous))

	return snapshot, nil
}

// commit stores the new snapshot and returns the one it superseded
func (p *Poller) commit(snapshot *model.Snapshot) *model.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	previous := p.snapshot
	p.snapshot = snapshot
	p.state = model.MonitorStateOK
	p.lastSuccess = snapshot.FetchedAt
	p.lastErr = nil

	return previous
}

func (p *Poller) recordFailure(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if types.IsAuthFailed(err) {
		p.state = model.MonitorStateReauthRequired
	} else {
		p.state = model.MonitorStateUpdateFailed
	}
	p.lastErr = err
}

func (p *Poller) notify(ctx context.Context, changes []model.BuildChange) {
	for _, change := range changes {
		ctxlog.From(ctx).Info("Build result changed",
			"definition", change.Definition.Name,
			"previous_result", change.Previous.Result,
			"current_result", change.Current.Result,
		)

		for _, n := range p.notifiers {
			notifier := n
			c := change
			async.Dispatch(ctx, func(ctx context.Context) error {
				return notifier.NotifyBuildChange(ctx, c)
			})
		}
	}
}
