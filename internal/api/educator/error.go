package educator

import "ProctorGuard/pkg/response"

var (
	ErrInvalidCredentials  = response.NewError(401, "invalid educator credentials")
	ErrLoginDisabled       = response.NewError(404, "educator login is not configured")
	ErrLiveFeedUnavailable = response.NewError(503, "live alert feed is not available")
	ErrListAlerts          = response.NewError(500, "failed to list alerts")
	ErrIssueToken          = response.NewError(500, "failed to issue access token")
)
