/*
Package uploader drives the ping upload task protocol.

The loop is pull-based: it repeatedly asks the native core for one unit of
work and receives Upload, Wait, or Done. Upload tasks are handed to an
Uploader collaborator (HTTP by default) and the outcome is reported back to
the core, which owns all batching, throttling, and retry policy. Wait pauses
for a backoff interval; Done stops the loop until it is resumed externally.
Exactly one loop instance may run at a time per process.
*/
package uploader
