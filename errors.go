package sdk

import "errors"

var (
	// ErrCoreCall indicates that a native core invocation failed.
	ErrCoreCall = errors.New("core call failed")

	// ErrCoreResponseInvalid signals that the core returned an invalid or unexpected payload.
	ErrCoreResponseInvalid = errors.New("core response is invalid or unexpected")

	// ErrInvalidEndpoint is returned when the configured server endpoint is not a usable URL.
	ErrInvalidEndpoint = errors.New("server endpoint is invalid")

	// ErrInvalidPingTag is returned when a debug view tag does not match the allowed format.
	ErrInvalidPingTag = errors.New("ping tag is invalid")
)
