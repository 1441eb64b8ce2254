/*
Package metrics provides the per-metric recording façades over the native
core.

Each façade owns one opaque core handle, created by a single core call at
construction and released at most once by Destroy. Recording operations
(Add, Set) enqueue work on the shared dispatch queue and return immediately;
the queue's single worker serializes all writes into the core, so concurrent
recording needs no per-handle locking. Metrics constructed with Disabled set
accept every record call and silently skip it.

TestHasValue and TestGetValue are test-only reads. Both first drain the
dispatch queue so the read observes every record call made before it. A
value that was never recorded and a value the core returned but could not be
decoded report the same ErrMissingValue condition.
*/
package metrics
