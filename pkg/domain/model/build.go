package model

import "time"

// BuildStatus represents the lifecycle status of a build
type BuildStatus string

const (
	BuildStatusNone       BuildStatus = "none"
	BuildStatusNotStarted BuildStatus = "notStarted"
	BuildStatusInProgress BuildStatus = "inProgress"
	BuildStatusCancelling BuildStatus = "cancelling"
	BuildStatusPostponed  BuildStatus = "postponed"
	BuildStatusCompleted  BuildStatus = "completed"
)

// BuildResult represents the outcome of a completed build
type BuildResult string

const (
	BuildResultNone               BuildResult = "none"
	BuildResultSucceeded          BuildResult = "succeeded"
	BuildResultPartiallySucceeded BuildResult = "partiallySucceeded"
	BuildResultFailed             BuildResult = "failed"
	BuildResultCanceled           BuildResult = "canceled"
)

// Definition identifies a build definition, the repeatable build
// configuration a build was queued from
type Definition struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Revision int    `json:"revision,omitempty"`
}

// Build is one record describing the latest run of a build definition
type Build struct {
	ID            int         `json:"id"`
	Number        string      `json:"number"`
	Status        BuildStatus `json:"status"`
	Result        BuildResult `json:"result,omitempty"`
	SourceBranch  string      `json:"source_branch,omitempty"`
	SourceVersion string      `json:"source_version,omitempty"`
	QueueTime     time.Time   `json:"queue_time"`
	StartTime     time.Time   `json:"start_time,omitzero"`
	FinishTime    time.Time   `json:"finish_time,omitzero"`
	Definition    Definition  `json:"definition"`
	WebURL        string      `json:"web_url,omitempty"`
}

// Finished reports whether the build has reached a terminal status
func (b *Build) Finished() bool {
	return b.Status == BuildStatusCompleted
}
