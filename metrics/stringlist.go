package metrics

import "github.com/beacon-project/sdk/core"

// StringList records an ordered list of strings, e.g. the set of enabled
// engines or search sources.
type StringList struct {
	m *metric
}

// NewStringList registers a string list metric with the core and returns its
// façade.
func (c *Client) NewStringList(meta CommonMetricData) (*StringList, error) {
	m, err := c.newMetric("string_list", meta)
	if err != nil {
		return nil, err
	}
	return &StringList{m: m}, nil
}

// Add appends value to the list in every destination ping. Asynchronous;
// returns before the write has committed.
func (s *StringList) Add(value string) {
	s.m.record(core.FnStringListAdd, value)
}

// Set replaces the list in every destination ping. Asynchronous; returns
// before the write has committed.
func (s *StringList) Set(values []string) {
	s.m.record(core.FnStringListSet, values)
}

// Destroy releases the metric handle. Must be the last operation performed
// on this façade; safe to call more than once.
func (s *StringList) Destroy() {
	s.m.destroy()
}

// TestHasValue reports whether the metric holds a value in the given ping,
// after waiting for all outstanding writes. Defaults to the first
// destination ping. Test-only.
func (s *StringList) TestHasValue(ping ...string) bool {
	_, err := s.TestGetValue(ping...)
	return err == nil
}

// TestGetValue waits for all outstanding writes, then returns the recorded
// list for the given ping. Defaults to the first destination ping. Returns
// ErrMissingValue when no value exists or the core payload cannot be
// decoded. Test-only.
func (s *StringList) TestGetValue(ping ...string) ([]string, error) {
	var values []string
	if err := s.m.testValue(ping, &values); err != nil {
		return nil, err
	}
	return values, nil
}
