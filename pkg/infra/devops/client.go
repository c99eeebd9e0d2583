package devops

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"adowatch/pkg/domain/interfaces"
	"adowatch/pkg/domain/model"
	"adowatch/pkg/domain/types"
)

// DefaultBaseURL is the Azure DevOps REST endpoint
const DefaultBaseURL = "https://dev.azure.com"

type client struct {
	httpClient *http.Client
	baseURL    string

	token      string
	authorized bool
}

// Option is a functional option for client configuration
type Option func(*client)

// WithHTTPClient sets the HTTP client. Timeout policy belongs here, not to
// the callers.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *client) {
		c.httpClient = httpClient
	}
}

// WithBaseURL overrides the service endpoint, mainly for tests
func WithBaseURL(baseURL string) Option {
	return func(c *client) {
		c.baseURL = baseURL
	}
}

// NewClient creates an Azure DevOps REST client. The client is unauthorized
// until Authorize is called with a valid personal access token.
func NewClient(opts ...Option) interfaces.DevOpsClient {
	c := &client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    DefaultBaseURL,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Authorize validates the token by listing the organization's projects.
// A non-OK response (rejected token) leaves the client unauthorized without
// returning an error; only network-level failures are errors.
func (c *client) Authorize(ctx context.Context, token, organization string) error {
	c.token = token
	c.authorized = false

	var projects projectListResponse
	ok, err := c.getJSON(ctx, fmt.Sprintf("%s/%s/_apis/projects", c.baseURL, url.PathEscape(organization)), &projects)
	if err != nil {
		return err
	}

	c.authorized = ok
	return nil
}

// Authorized reports whether the last Authorize call succeeded
func (c *client) Authorized() bool {
	return c.authorized
}

// GetProject resolves a project name to its descriptor. An unknown project
// yields nil without error.
func (c *client) GetProject(ctx context.Context, organization, name string) (*model.Project, error) {
	var project apiProject
	reqURL := fmt.Sprintf("%s/%s/_apis/projects/%s",
		c.baseURL, url.PathEscape(organization), url.PathEscape(name))

	ok, err := c.getJSON(ctx, reqURL, &project)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	return project.toModel(), nil
}

// GetBuilds fetches the build list for a project. The query string is
// appended verbatim so the parameterization stays byte-identical to what
// the service expects.
func (c *client) GetBuilds(ctx context.Context, organization, project, query string) ([]model.Build, error) {
	var builds buildListResponse
	reqURL := fmt.Sprintf("%s/%s/%s/_apis/build/builds%s",
		c.baseURL, url.PathEscape(organization), url.PathEscape(project), query)

	ok, err := c.getJSON(ctx, reqURL, &builds)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	result := make([]model.Build, 0, len(builds.Value))
	for _, b := range builds.Value {
		result = append(result, b.toModel())
	}

	return result, nil
}

// getJSON performs an authenticated GET and decodes the response body.
// Returns false when the service answered with a non-OK status; errors are
// reserved for network and decode failures, tagged as transport failures.
func (c *client) getJSON(ctx context.Context, reqURL string, out any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return false, goerr.Wrap(err, "failed to create request", goerr.V("url", reqURL))
	}

	// Azure DevOps PATs use basic auth with an empty user name
	req.SetBasicAuth("", c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, goerr.Wrap(err, "request to Azure DevOps failed",
			goerr.T(types.TagTransport), goerr.V("url", reqURL))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, goerr.Wrap(err, "failed to decode Azure DevOps response",
			goerr.T(types.TagTransport), goerr.V("url", reqURL))
	}

	return true, nil
}
