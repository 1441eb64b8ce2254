/*
Package coremock provides pretend native cores for tests.

Mock is a call-level double: it validates the namespace, capability, and
function of each core call against the expectations you set (unset fields
are wildcards), runs an optional payload validator, and returns scripted
bytes or a scripted failure. Every call is journaled for later inspection.

Core is a behavioral double: an in-memory core that allocates metric
handles, stores recorded values per destination ping, answers test reads,
serves upload tasks from a script, and journals completion reports. The
Encode helpers build upload tasks in the same wire format the real core
uses, so decoder and loop tests exercise the actual boundary layout.

Reach for Mock when you need to assert routing or exact payloads; reach for
Core when a test spans the whole record/read or upload cycle.
*/
package coremock
