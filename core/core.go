package core

import (
	wapc "github.com/wapc/wapc-guest-tinygo"
)

// Capability and function names routing calls into the native core.
const (
	CapabilityMetrics = "metrics"
	CapabilityUpload  = "upload"

	FnMetricNew     = "new"
	FnMetricDestroy = "destroy"
	FnStringListAdd = "string_list_add"
	FnStringListSet = "string_list_set"
	FnCounterAdd    = "counter_add"
	FnTestGetValue  = "test_get_value"

	FnUploadNext = "next"
	FnUploadDone = "done"
)

// HostCall is the native core entry point signature. Calls are routed by
// namespace, capability, and function name; the payload format is owned by
// the addressed function.
type HostCall func(namespace, capability, function string, payload []byte) ([]byte, error)

// DefaultHostCall returns the process-wide core entry point.
func DefaultHostCall() HostCall { return wapc.HostCall }
