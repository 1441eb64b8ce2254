/*
Package dispatch provides the ordered task queue that serializes all
metric-mutating calls into the native core.

A single worker executes tasks one at a time in submission order, which makes
the core safe for concurrent recording without per-handle locks. DrainSync is
the synchronization barrier behind the metrics test-read operations: it
blocks until everything enqueued before the call has committed. Production
write paths never drain; they enqueue and return.
*/
package dispatch
