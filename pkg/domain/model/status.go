package model

import "time"

// MonitorState is the externally visible state of the polling loop
type MonitorState string

const (
	// MonitorStateIdle means no refresh has completed yet
	MonitorStateIdle MonitorState = "idle"
	// MonitorStateOK means the last refresh cycle succeeded
	MonitorStateOK MonitorState = "ok"
	// MonitorStateUpdateFailed means the last cycle failed transiently and
	// will be retried on the next interval
	MonitorStateUpdateFailed MonitorState = "update_failed"
	// MonitorStateReauthRequired means the personal access token was
	// rejected and polling stopped until a new token is supplied
	MonitorStateReauthRequired MonitorState = "reauth_required"
)

// MonitorStatus reports the polling loop state for the status API
type MonitorStatus struct {
	State       MonitorState `json:"state"`
	LastSuccess time.Time    `json:"last_success,omitzero"`
	LastError   string       `json:"last_error,omitempty"`
}
