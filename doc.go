/*
Package sdk provides the entry point and runtime configuration for the Beacon
telemetry SDK.

The package exposes New to snapshot process configuration and a RuntimeConfig
that is shared by the capability packages (metrics, uploader). The debug view
tag is process-wide state: SetPingTag validates and stores it, and ping
requests read it through PingTag at construction time only.
*/
package sdk
