package textdetection

import "ProctorGuard/pkg/response"

var (
	ErrEmptyText           = response.NewError(400, "no text content provided")
	ErrTextTooLong         = response.NewError(413, "text content too long")
	ErrInternalServerError = response.NewError(500, "text detection failed")
)
