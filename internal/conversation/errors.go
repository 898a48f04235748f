package conversation

import "errors"

var (
	// ErrUnsupportedPlatform is returned when no adapter exists for a platform name.
	ErrUnsupportedPlatform = errors.New("unsupported platform")

	// ErrMalformedExport is returned when an export file is not valid JSON.
	ErrMalformedExport = errors.New("malformed export")
)
