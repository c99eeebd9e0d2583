package poll_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"adowatch/pkg/controller/poll"
	"adowatch/pkg/domain/model"
	"adowatch/pkg/domain/types"
	"adowatch/pkg/usecase"
)

// clientMock is a functional mock of interfaces.DevOpsClient
type clientMock struct {
	getProjectFunc func(ctx context.Context, organization, name string) (*model.Project, error)
	getBuildsFunc  func(ctx context.Context, organization, project, query string) ([]model.Build, error)
}

func (m *clientMock) Authorize(ctx context.Context, token, organization string) error {
	return nil
}

func (m *clientMock) Authorized() bool { return true }

func (m *clientMock) GetProject(ctx context.Context, organization, name string) (*model.Project, error) {
	if m.getProjectFunc != nil {
		return m.getProjectFunc(ctx, organization, name)
	}
	return &model.Project{Name: name}, nil
}

func (m *clientMock) GetBuilds(ctx context.Context, organization, project, query string) ([]model.Build, error) {
	if m.getBuildsFunc != nil {
		return m.getBuildsFunc(ctx, organization, project, query)
	}
	return nil, nil
}

func newCoordinator(t *testing.T, mock *clientMock) *usecase.Coordinator {
	t.Helper()
	c := usecase.NewCoordinator(mock, "org1")
	_, err := c.ResolveProject(context.Background(), "proj1")
	gt.NoError(t, err)
	return c
}

// notifierMock records build changes through a channel
type notifierMock struct {
	changes chan model.BuildChange
}

func (n *notifierMock) NotifyBuildChange(ctx context.Context, change model.BuildChange) error {
	n.changes <- change
	return nil
}

func TestPoller_Refresh(t *testing.T) {
	t.Run("successful refresh commits the snapshot", func(t *testing.T) {
		mock := &clientMock{
			getBuildsFunc: func(ctx context.Context, organization, project, query string) ([]model.Build, error) {
				return []model.Build{{ID: 1, Definition: model.Definition{ID: 1, Name: "ci"}}}, nil
			},
		}
		p := poll.New(newCoordinator(t, mock))

		gt.V(t, p.Snapshot()).Nil()
		gt.V(t, p.Status().State).Equal(model.MonitorStateIdle)

		snapshot, err := p.Refresh(context.Background())
		gt.NoError(t, err)
		gt.V(t, snapshot).NotNil()
		gt.V(t, p.Snapshot()).Equal(snapshot)

		status := p.Status()
		gt.V(t, status.State).Equal(model.MonitorStateOK)
		gt.V(t, status.LastError).Equal("")
	})

	t.Run("failed cycle keeps the last known good snapshot", func(t *testing.T) {
		healthy := true
		mock := &clientMock{
			getBuildsFunc: func(ctx context.Context, organization, project, query string) ([]model.Build, error) {
				if !healthy {
					return nil, goerr.New("connection refused", goerr.T(types.TagTransport))
				}
				return []model.Build{{ID: 1, Definition: model.Definition{ID: 1}}}, nil
			},
		}
		p := poll.New(newCoordinator(t, mock))

		first, err := p.Refresh(context.Background())
		gt.NoError(t, err)

		healthy = false
		_, err = p.Refresh(context.Background())
		gt.Error(t, err)
		gt.V(t, types.IsUpdateFailed(err)).Equal(true)

		// the previous snapshot is still served
		gt.V(t, p.Snapshot()).Equal(first)

		status := p.Status()
		gt.V(t, status.State).Equal(model.MonitorStateUpdateFailed)
		gt.V(t, status.LastError).NotEqual("")
	})

	t.Run("error hook fires on failure", func(t *testing.T) {
		mock := &clientMock{
			getBuildsFunc: func(ctx context.Context, organization, project, query string) ([]model.Build, error) {
				return nil, goerr.New("connection refused", goerr.T(types.TagTransport))
			},
		}

		var hooked error
		p := poll.New(newCoordinator(t, mock), poll.WithOnError(func(err error) {
			hooked = err
		}))

		_, err := p.Refresh(context.Background())
		gt.Error(t, err)
		gt.V(t, hooked).NotNil()
	})
}

func TestPoller_Notifications(t *testing.T) {
	result := model.BuildResultSucceeded
	mock := &clientMock{
		getBuildsFunc: func(ctx context.Context, organization, project, query string) ([]model.Build, error) {
			return []model.Build{{
				ID:         1,
				Status:     model.BuildStatusCompleted,
				Result:     result,
				Definition: model.Definition{ID: 1, Name: "ci"},
			}}, nil
		},
	}

	notifier := &notifierMock{changes: make(chan model.BuildChange, 1)}
	p := poll.New(newCoordinator(t, mock), poll.WithNotifier(notifier))

	_, err := p.Refresh(context.Background())
	gt.NoError(t, err)

	// no change on the first cycle, nothing to compare against
	select {
	case <-notifier.changes:
		t.Fatal("unexpected notification on first refresh")
	case <-time.After(50 * time.Millisecond):
	}

	result = model.BuildResultFailed
	_, err = p.Refresh(context.Background())
	gt.NoError(t, err)

	select {
	case change := <-notifier.changes:
		gt.V(t, change.Definition.Name).Equal("ci")
		gt.V(t, change.Previous.Result).Equal(model.BuildResultSucceeded)
		gt.V(t, change.Current.Result).Equal(model.BuildResultFailed)
	case <-time.After(time.Second):
		t.Fatal("notification not delivered")
	}
}

func TestPoller_Run(t *testing.T) {
	t.Run("stops on context cancellation", func(t *testing.T) {
		mock := &clientMock{
			getBuildsFunc: func(ctx context.Context, organization, project, query string) ([]model.Build, error) {
				return []model.Build{}, nil
			},
		}
		p := poll.New(newCoordinator(t, mock), poll.WithInterval(10*time.Millisecond))

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- p.Run(ctx)
		}()

		time.Sleep(30 * time.Millisecond)
		cancel()

		select {
		case err := <-done:
			gt.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("Run did not stop after cancellation")
		}

		gt.V(t, p.Snapshot()).NotNil()
	})

	t.Run("continues through transient failures", func(t *testing.T) {
		calls := 0
		mock := &clientMock{
			getBuildsFunc: func(ctx context.Context, organization, project, query string) ([]model.Build, error) {
				calls++
				return nil, goerr.New("connection refused", goerr.T(types.TagTransport))
			},
		}
		p := poll.New(newCoordinator(t, mock), poll.WithInterval(10*time.Millisecond))

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- p.Run(ctx)
		}()

		time.Sleep(50 * time.Millisecond)
		cancel()

		select {
		case err := <-done:
			gt.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("Run did not stop after cancellation")
		}

		if calls < 2 {
			t.Errorf("expected at least 2 refresh attempts, got %d", calls)
		}
	})
}
