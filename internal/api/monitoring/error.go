package monitoring

import "ProctorGuard/pkg/response"

var (
	ErrEmptyImage          = response.NewError(400, "no image data provided")
	ErrInvalidImage        = response.NewError(400, "invalid image data")
	ErrInvalidAudio        = response.NewError(400, "invalid audio data")
	ErrFrameTimeout        = response.NewError(408, "frame processing timed out")
	ErrInternalServerError = response.NewError(500, "frame processing failed")
)
