package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"adowatch/pkg/domain/interfaces"
	"adowatch/pkg/domain/model"
	"adowatch/pkg/domain/types"
)

// BuildsQuery requests exactly one build per build definition, most recent
// first. The parameterization is preserved byte-for-byte for behavioral
// compatibility with the service.
const BuildsQuery = "?queryOrder=queueTimeDescending&maxBuildsPerDefinition=1"

// DefaultUpdateInterval is the refresh interval expected by the host
// polling loop
const DefaultUpdateInterval = 300 * time.Second

// Coordinator manages and fetches Azure DevOps build data for one
// organization. The organization is fixed at construction; the project is
// resolved once via ResolveProject before the periodic Refresh cycle starts.
type Coordinator struct {
	client       interfaces.DevOpsClient
	organization string
	project      *model.Project
}

// NewCoordinator creates a coordinator for the given organization
func NewCoordinator(client interfaces.DevOpsClient, organization string) *Coordinator {
	return &Coordinator{
		client:       client,
		organization: organization,
	}
}

// Organization returns the configured organization identifier
func (c *Coordinator) Organization() string {
	return c.organization
}

// Project returns the resolved project, or nil before ResolveProject
func (c *Coordinator) Project() *model.Project {
	return c.project
}

// Authorize exchanges the personal access token for an authorized session
// on the underlying client. A token the service rejects raises an
// auth-tagged error so the caller can prompt for re-authentication instead
// of retrying; transport failures surface as transient update failures.
func (c *Coordinator) Authorize(ctx context.Context, token string) (bool, error) {
	_, err := fetch(ctx, "authorize", func(ctx context.Context) (bool, error) {
		if err := c.client.Authorize(ctx, token, c.organization); err != nil {
			return false, err
		}

		if !c.client.Authorized() {
			return false, goerr.New(
				"could not authorize with Azure DevOps, the personal access token needs to be renewed",
				goerr.T(types.TagAuthFailed), goerr.V("organization", c.organization))
		}

		return true, nil
	})
	if err != nil {
		return false, err
	}

	ctxlog.From(ctx).Debug("Authorized with Azure DevOps",
		"organization", c.organization,
	)

	return true, nil
}

// ResolveProject resolves a project name to its descriptor and pins it for
// the life of the coordinator. An unknown project surfaces as a transient
// update failure.
func (c *Coordinator) ResolveProject(ctx context.Context, name string) (*model.Project, error) {
	project, err := fetch(ctx, "get_project", func(ctx context.Context) (*model.Project, error) {
		return c.client.GetProject(ctx, c.organization, name)
	})
	if err != nil {
		return nil, err
	}

	c.project = project

	ctxlog.From(ctx).Info("Resolved Azure DevOps project",
		"organization", c.organization,
		"project", project.Name,
		"project_id", project.ID,
	)

	return project, nil
}

// Refresh fetches the latest build per definition and returns a new
// snapshot. Nothing is committed on failure; the caller keeps whatever
// snapshot it already had.
func (c *Coordinator) Refresh(ctx context.Context) (*model.Snapshot, error) {
	if c.project == nil {
		return nil, goerr.New("project is not resolved", goerr.T(types.TagUpdateFailed))
	}

	builds, err := fetch(ctx, "get_builds", func(ctx context.Context) ([]model.Build, error) {
		return c.client.GetBuilds(ctx, c.organization, c.project.Name, BuildsQuery)
	})
	if err != nil {
		return nil, err
	}

	ctxlog.From(ctx).Debug("Fetched builds",
		"organization", c.organization,
		"project", c.project.Name,
		"build_count", len(builds),
	)

	return model.NewSnapshot(c.organization, c.project, builds), nil
}
