package sdk

import (
	"fmt"
	"net/url"
	"runtime"
)

const (
	// DefaultNamespace is used when no explicit namespace is provided.
	DefaultNamespace = "beacon"

	// DefaultServerEndpoint is the server pings are sent to when no
	// endpoint is configured.
	DefaultServerEndpoint = "https://incoming.telemetry.beacon-project.dev"

	// DefaultMaxEvents is the number of events stored before force-sending.
	DefaultMaxEvents = 500

	// Version is the SDK version reported in the default user agent.
	Version = "0.3.0"
)

// Config provides configuration options for SDK initialization.
type Config struct {
	// Namespace controls the capability namespace used for core calls.
	// If empty, DefaultNamespace is used.
	Namespace string

	// ServerEndpoint is the server pings are sent to.
	ServerEndpoint string

	// UserAgent is sent with every ping upload. If empty, a default
	// identifying the SDK version and platform is used.
	UserAgent string

	// Channel is the release channel the application is on, if known.
	Channel string

	// MaxEvents is the number of events to store before force-sending.
	MaxEvents int

	// LogPings controls whether ping bodies are logged before upload.
	LogPings bool

	// PingTag is an optional debug view tag applied as the X-Debug-ID
	// header on uploaded pings. Must satisfy the same rules as SetPingTag.
	PingTag string
}

// RuntimeConfig carries configuration that is used during creation of SDK components.
type RuntimeConfig struct {
	// Namespace is the capability namespace used to scope core interactions.
	Namespace string

	// ServerEndpoint is the server pings are sent to.
	ServerEndpoint string

	// UserAgent is sent with every ping upload.
	UserAgent string

	// Channel is the release channel the application is on, if known.
	Channel string

	// MaxEvents is the number of events to store before force-sending.
	MaxEvents int

	// LogPings controls whether ping bodies are logged before upload.
	LogPings bool
}

// SDK represents the initialized runtime configuration snapshot.
type SDK struct {
	// runtime holds the current runtime configuration snapshot.
	runtime RuntimeConfig
}

// New initializes the SDK, applying defaults for unset configuration values.
func New(config Config) (*SDK, error) {
	// Create runtime configuration with defaults
	cfg := RuntimeConfig{
		Namespace:      DefaultNamespace,
		ServerEndpoint: DefaultServerEndpoint,
		UserAgent:      defaultUserAgent(),
		MaxEvents:      DefaultMaxEvents,
		LogPings:       config.LogPings,
		Channel:        config.Channel,
	}

	// Override defaults with provided configuration
	if config.Namespace != "" {
		cfg.Namespace = config.Namespace
	}
	if config.ServerEndpoint != "" {
		cfg.ServerEndpoint = config.ServerEndpoint
	}
	if config.UserAgent != "" {
		cfg.UserAgent = config.UserAgent
	}
	if config.MaxEvents > 0 {
		cfg.MaxEvents = config.MaxEvents
	}

	// Validate the endpoint before any uploader is built from it
	u, err := url.Parse(cfg.ServerEndpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEndpoint, cfg.ServerEndpoint)
	}

	// A configured ping tag goes through the same validation as SetPingTag
	if config.PingTag != "" {
		if err := SetPingTag(config.PingTag); err != nil {
			return nil, err
		}
	}

	return &SDK{runtime: cfg}, nil
}

// Config returns the current runtime configuration snapshot.
func (s *SDK) Config() RuntimeConfig { return s.runtime }

// defaultUserAgent identifies the SDK version and host platform.
func defaultUserAgent() string {
	return fmt.Sprintf("Beacon/%s (Go on %s)", Version, runtime.GOOS)
}
