package report

import "errors"

var (
	ErrSurfaceUnavailable = errors.New("report surface unavailable")
	ErrCaptureFailed      = errors.New("report capture failed")
	ErrUnsupportedFormat  = errors.New("unsupported export format")
)
