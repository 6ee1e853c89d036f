package report

import "errors"

// Sentinel error kinds for this package.
var (
	ErrUnknownFormat = errors.New("unknown output format")
	ErrSmokeFailed   = errors.New("smoke check failed")
)
