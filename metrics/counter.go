package metrics

import "github.com/beacon-project/sdk/core"

// Counter records a cumulative count.
type Counter struct {
	m *metric
}

// NewCounter registers a counter metric with the core and returns its façade.
func (c *Client) NewCounter(meta CommonMetricData) (*Counter, error) {
	m, err := c.newMetric("counter", meta)
	if err != nil {
		return nil, err
	}
	return &Counter{m: m}, nil
}

// Add increases the counter by amount, defaulting to 1. Non-positive
// amounts are ignored. Asynchronous; returns before the write has committed.
func (c *Counter) Add(amount ...int32) {
	delta := int32(1)
	if len(amount) > 0 {
		delta = amount[0]
	}
	if delta <= 0 {
		return
	}
	c.m.record(core.FnCounterAdd, delta)
}

// Destroy releases the metric handle. Must be the last operation performed
// on this façade; safe to call more than once.
func (c *Counter) Destroy() {
	c.m.destroy()
}

// TestHasValue reports whether the counter holds a value in the given ping,
// after waiting for all outstanding writes. Test-only.
func (c *Counter) TestHasValue(ping ...string) bool {
	_, err := c.TestGetValue(ping...)
	return err == nil
}

// TestGetValue waits for all outstanding writes, then returns the counter
// value for the given ping. Returns ErrMissingValue when no value exists or
// the core payload cannot be decoded. Test-only.
func (c *Counter) TestGetValue(ping ...string) (int32, error) {
	var value int32
	if err := c.m.testValue(ping, &value); err != nil {
		return 0, err
	}
	return value, nil
}
