/*
Package core defines the boundary between the SDK and the native telemetry
core.

The core is addressed through a host-call function routed by namespace,
capability, and function name; tests inject their own entry point, production
code defaults to the process host call. Control-plane payloads (metric
creation, recording, test reads, upload reports) are JSON. The upload task
channel uses a fixed binary layout instead: a one-byte discriminant followed
by a variant payload, decoded by DecodeUploadTask.

Unknown discriminants and truncated task payloads indicate an ABI mismatch
between the two sides of the boundary. Decoding treats them as unreachable
and panics rather than guessing a variant.
*/
package core
