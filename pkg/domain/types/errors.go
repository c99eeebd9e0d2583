package types

import "github.com/m-mizutani/goerr/v2"

// Error tags classify failures for the polling loop and the HTTP layer.
//
//   - TagTransport marks network-level failures raised by the Azure DevOps
//     client. It never escapes the coordinator; the failure translator maps
//     it to TagUpdateFailed.
//   - TagUpdateFailed marks a transient refresh failure. The poller keeps the
//     last known good snapshot and retries on the next interval.
//   - TagAuthFailed marks a rejected or expired personal access token. It is
//     never retried; the operator has to supply a new token.
var (
	TagTransport    = goerr.NewTag("transport")
	TagUpdateFailed = goerr.NewTag("update_failed")
	TagAuthFailed   = goerr.NewTag("auth_failed")
)

// IsTransport checks if the error is a network-level client failure
func IsTransport(err error) bool {
	return goerr.HasTag(err, TagTransport)
}

// IsUpdateFailed checks if the error is a transient update failure
func IsUpdateFailed(err error) bool {
	return goerr.HasTag(err, TagUpdateFailed)
}

// IsAuthFailed checks if the error requires re-authentication
func IsAuthFailed(err error) bool {
	return goerr.HasTag(err, TagAuthFailed)
}
