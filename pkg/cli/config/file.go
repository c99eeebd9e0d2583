package config

import (
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
)

// File is the TOML configuration file schema. Values from the file fill in
// whatever flags and environment variables left empty; they never override.
type File struct {
	DevOps struct {
		Organization        string `toml:"organization"`
		Project             string `toml:"project"`
		PersonalAccessToken string `toml:"personal_access_token"`
		BaseURL             string `toml:"base_url"`
		Interval            string `toml:"interval"`
	} `toml:"devops"`

	Server struct {
		Addr string `toml:"addr"`
	} `toml:"server"`

	Slack struct {
		WebhookURL string `toml:"webhook_url"`
	} `toml:"slack"`

	Sentry struct {
		DSN         string `toml:"dsn"`
		Environment string `toml:"environment"`
	} `toml:"sentry"`
}

// LoadFile reads and parses a TOML configuration file
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V("path", path))
	}

	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, goerr.Wrap(err, "failed to parse config file", goerr.V("path", path))
	}

	return &f, nil
}

// Apply merges file values into the given configs, filling only empty slots
func (f *File) Apply(devops *DevOps, server *Server, slack *Slack, sentry *Sentry) error {
	if devops.Organization == "" {
		devops.Organization = f.DevOps.Organization
	}
	if devops.Project == "" {
		devops.Project = f.DevOps.Project
	}
	if devops.PersonalAccessToken == "" {
		devops.PersonalAccessToken = f.DevOps.PersonalAccessToken
	}
	if devops.BaseURL == "" {
		devops.BaseURL = f.DevOps.BaseURL
	}
	if f.DevOps.Interval != "" {
		interval, err := time.ParseDuration(f.DevOps.Interval)
		if err != nil {
			return goerr.Wrap(err, "invalid interval in config file",
				goerr.V("interval", f.DevOps.Interval))
		}
		if devops.Interval == 0 {
			devops.Interval = interval
		}
	}

	if server.Addr == "" {
		server.Addr = f.Server.Addr
	}
	if slack.WebhookURL == "" {
		slack.WebhookURL = f.Slack.WebhookURL
	}
	if sentry.DSN == "" {
		sentry.DSN = f.Sentry.DSN
	}
	if sentry.Environment == "" {
		sentry.Environment = f.Sentry.Environment
	}

	return nil
}
