package config

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"adowatch/pkg/infra/devops"
	"adowatch/pkg/usecase"
)

// DevOps holds Azure DevOps configuration
type DevOps struct {
	Organization        string
	Project             string
	PersonalAccessToken string
	BaseURL             string
	Interval            time.Duration
}

// Flags returns CLI flags for Azure DevOps configuration. Required values
// are validated in Validate rather than by the flag parser so they can also
// arrive via the config file.
func (c *DevOps) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "organization",
			Aliases:     []string{"o"},
			Usage:       "Azure DevOps organization",
			Destination: &c.Organization,
			Sources:     cli.EnvVars("ADOWATCH_ORGANIZATION"),
		},
		&cli.StringFlag{
			Name:        "project",
			Aliases:     []string{"p"},
			Usage:       "Azure DevOps project name",
			Destination: &c.Project,
			Sources:     cli.EnvVars("ADOWATCH_PROJECT"),
		},
		&cli.StringFlag{
			Name:        "pat",
			Usage:       "Personal access token",
			Destination: &c.PersonalAccessToken,
			Sources:     cli.EnvVars("ADOWATCH_PAT"),
		},
		&cli.StringFlag{
			Name:        "base-url",
			Usage:       "Azure DevOps API base URL",
			Destination: &c.BaseURL,
			Sources:     cli.EnvVars("ADOWATCH_BASE_URL"),
		},
		&cli.DurationFlag{
			Name:        "interval",
			Usage:       "Refresh interval (default 300s)",
			Destination: &c.Interval,
			Sources:     cli.EnvVars("ADOWATCH_INTERVAL"),
		},
	}
}

// Validate checks required values and fills defaults after flags, env and
// config file have been merged
func (c *DevOps) Validate() error {
	if c.Organization == "" {
		return goerr.New("organization is required")
	}
	if c.Project == "" {
		return goerr.New("project is required")
	}
	if c.PersonalAccessToken == "" {
		return goerr.New("personal access token is required")
	}

	if c.BaseURL == "" {
		c.BaseURL = devops.DefaultBaseURL
	}
	if c.Interval == 0 {
		c.Interval = usecase.DefaultUpdateInterval
	}

	return nil
}
