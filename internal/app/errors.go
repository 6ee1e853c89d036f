package service

import "errors"

// Sentinel kinds returned by the service.
var (
	ErrUnknownView     = errors.New("unknown view")
	ErrPlayerNotFound  = errors.New("player not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrDataUnavailable = errors.New("dataset unavailable")
	ErrViewFailed      = errors.New("view failed")
)
