package assistant

import "ProctorGuard/pkg/response"

var (
	ErrEmptyQuestion  = response.NewError(400, "no question provided")
	ErrUnknownContext = response.NewError(400, "unknown question context")
)
