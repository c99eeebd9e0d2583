package interfaces

import (
	"context"

	"adowatch/pkg/domain/model"
)

// DevOpsClient defines the Azure DevOps REST surface consumed by the
// coordinator. Implementations tag network-level failures with
// types.TagTransport; a non-OK response from the service yields an absent
// result instead of an error.
type DevOpsClient interface {
	// Authorize validates the personal access token against the organization
	// and records it for subsequent calls. A rejected token is not an error;
	// it leaves the client unauthorized.
	Authorize(ctx context.Context, token, organization string) error

	// Authorized reports whether the last Authorize call succeeded
	Authorized() bool

	// GetProject resolves a project name to its descriptor. Returns nil
	// without error when the project does not exist.
	GetProject(ctx context.Context, organization, name string) (*model.Project, error)

	// GetBuilds fetches builds for the project. The query string is passed
	// through verbatim.
	GetBuilds(ctx context.Context, organization, project, query string) ([]model.Build, error)
}
