package metrics

import (
	"encoding/binary"
	"errors"
	"fmt"
	"regexp"
	"sync"

	"github.com/bytedance/sonic"

	sdk "github.com/beacon-project/sdk"
	"github.com/beacon-project/sdk/core"
	"github.com/beacon-project/sdk/dispatch"
)

var (
	// ErrInvalidMetricName indicates a category or name that does not match
	// the supported format.
	ErrInvalidMetricName = errors.New("metric name is invalid")

	// ErrNoPingDestination is returned when a metric declares no pings to
	// be sent in.
	ErrNoPingDestination = errors.New("metric must declare at least one ping destination")

	// ErrMissingValue is returned by test reads when the metric holds no
	// value for the requested ping, or the core returned a value that
	// could not be decoded.
	ErrMissingValue = errors.New("metric has no value")

	// isMetricNameValid validates metric categories and names.
	isMetricNameValid = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_.]*$`)
)

// Lifetime classifies how long a recorded value is kept by the core.
type Lifetime int

const (
	// LifetimePing clears the value each time its ping is submitted.
	LifetimePing Lifetime = iota

	// LifetimeApplication keeps the value for the application run.
	LifetimeApplication

	// LifetimeUser keeps the value across application runs.
	LifetimeUser
)

// String returns the wire name of the lifetime.
func (l Lifetime) String() string {
	switch l {
	case LifetimeApplication:
		return "application"
	case LifetimeUser:
		return "user"
	default:
		return "ping"
	}
}

// CommonMetricData is the descriptor shared by every metric type.
type CommonMetricData struct {
	// Category groups related metrics, e.g. "browser.session".
	Category string

	// Name identifies the metric within its category.
	Name string

	// SendInPings lists the pings the metric is sent in. The first entry
	// is the default target for test reads.
	SendInPings []string

	// Lifetime classifies how long recorded values are kept.
	Lifetime Lifetime

	// Disabled turns every record operation into a silent no-op.
	Disabled bool
}

// Config controls how a Client instance interacts with the native core.
type Config struct {
	// SDKConfig provides the runtime namespace used for core calls.
	SDKConfig sdk.RuntimeConfig

	// HostCall overrides the core entry point used for metric operations.
	HostCall core.HostCall

	// Queue overrides the dispatch queue recording operations are
	// serialized through. Defaults to the shared per-process queue.
	Queue *dispatch.Queue
}

// Client creates metric façades bound to one core and one dispatch queue.
type Client struct {
	runtime  sdk.RuntimeConfig
	hostCall core.HostCall
	queue    *dispatch.Queue
}

// New creates a metrics client with namespace defaults and optional
// host-call and queue overrides.
func New(config Config) (*Client, error) {
	runtime := config.SDKConfig
	if runtime.Namespace == "" {
		runtime.Namespace = sdk.DefaultNamespace
	}

	hostCall := config.HostCall
	if hostCall == nil {
		hostCall = core.DefaultHostCall()
	}

	queue := config.Queue
	if queue == nil {
		queue = dispatch.Default()
	}

	return &Client{runtime: runtime, hostCall: hostCall, queue: queue}, nil
}

// newMetricRequest is the JSON descriptor sent to the core at creation time.
type newMetricRequest struct {
	Type        string   `json:"type"`
	Category    string   `json:"category"`
	Name        string   `json:"name"`
	SendInPings []string `json:"send_in_pings"`
	Lifetime    string   `json:"lifetime"`
	Disabled    bool     `json:"disabled"`
}

// recordRequest forwards one recorded value and its handle to the core.
type recordRequest struct {
	Handle uint64 `json:"handle"`
	Value  any    `json:"value"`
}

// testReadRequest asks the core for the current value in one ping.
type testReadRequest struct {
	Handle uint64 `json:"handle"`
	Ping   string `json:"ping"`
}

// metric holds the per-façade handle and wiring shared by all metric types.
// The handle is owned exclusively by the façade that created it: created by
// one core call at construction, destroyed at most once at teardown. Zero
// means "not created" and is never passed to the core.
type metric struct {
	meta      CommonMetricData
	handle    uint64
	namespace string
	hostCall  core.HostCall
	queue     *dispatch.Queue

	destroyOnce sync.Once
}

// newMetric validates the descriptor and registers the metric with the core.
func (c *Client) newMetric(metricType string, meta CommonMetricData) (*metric, error) {
	if !isMetricNameValid.MatchString(meta.Category) || !isMetricNameValid.MatchString(meta.Name) {
		return nil, fmt.Errorf("%w: %q.%q", ErrInvalidMetricName, meta.Category, meta.Name)
	}
	if len(meta.SendInPings) == 0 {
		return nil, fmt.Errorf("%w: %s.%s", ErrNoPingDestination, meta.Category, meta.Name)
	}

	payload, err := sonic.Marshal(newMetricRequest{
		Type:        metricType,
		Category:    meta.Category,
		Name:        meta.Name,
		SendInPings: meta.SendInPings,
		Lifetime:    meta.Lifetime.String(),
		Disabled:    meta.Disabled,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sdk.ErrCoreResponseInvalid, err)
	}

	resp, err := c.hostCall(c.runtime.Namespace, core.CapabilityMetrics, core.FnMetricNew, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sdk.ErrCoreCall, err)
	}
	if len(resp) != 8 {
		return nil, fmt.Errorf("%w: metric handle has %d bytes", sdk.ErrCoreResponseInvalid, len(resp))
	}

	handle := binary.LittleEndian.Uint64(resp)
	if handle == 0 {
		return nil, fmt.Errorf("%w: core returned the zero handle", sdk.ErrCoreResponseInvalid)
	}

	return &metric{
		meta:      meta,
		handle:    handle,
		namespace: c.runtime.Namespace,
		hostCall:  c.hostCall,
		queue:     c.queue,
	}, nil
}

// record enqueues one core call forwarding value for this handle. Recording
// is asynchronous: the call returns before the task has executed. Disabled
// metrics skip the enqueue entirely.
func (m *metric) record(fn string, value any) {
	if m.meta.Disabled || m.handle == 0 {
		return
	}

	handle := m.handle
	m.queue.Enqueue(func() {
		payload, err := sonic.Marshal(recordRequest{Handle: handle, Value: value})
		if err != nil {
			return
		}
		_, _ = m.hostCall(m.namespace, core.CapabilityMetrics, fn, payload)
	})
}

// destroy releases the handle. Runs at most once; core errors are swallowed
// since the only failure mode is an already-invalid handle, which is not
// actionable at this layer.
func (m *metric) destroy() {
	m.destroyOnce.Do(func() {
		if m.handle == 0 {
			return
		}
		payload := make([]byte, 8)
		binary.LittleEndian.PutUint64(payload, m.handle)
		_, _ = m.hostCall(m.namespace, core.CapabilityMetrics, core.FnMetricDestroy, payload)
		m.handle = 0
	})
}

// testValue drains the dispatch queue, then reads the current value for the
// target ping into out. Every record enqueued before the call is observed.
// An absent value and an undecodable value both report ErrMissingValue.
func (m *metric) testValue(pings []string, out any) error {
	m.queue.DrainSync()

	target := m.meta.SendInPings[0]
	if len(pings) > 0 && pings[0] != "" {
		target = pings[0]
	}

	payload, err := sonic.Marshal(testReadRequest{Handle: m.handle, Ping: target})
	if err != nil {
		return fmt.Errorf("%w: %s.%s", ErrMissingValue, m.meta.Category, m.meta.Name)
	}

	resp, err := m.hostCall(m.namespace, core.CapabilityMetrics, core.FnTestGetValue, payload)
	if err != nil || len(resp) == 0 {
		return fmt.Errorf("%w: %s.%s in ping %q", ErrMissingValue, m.meta.Category, m.meta.Name, target)
	}
	if err := sonic.Unmarshal(resp, out); err != nil {
		return fmt.Errorf("%w: %s.%s in ping %q", ErrMissingValue, m.meta.Category, m.meta.Name, target)
	}

	return nil
}
