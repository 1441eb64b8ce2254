package coremock

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/rs/xid"

	"github.com/beacon-project/sdk/core"
)

var (
	// ErrUnknownHandle is returned for operations on a handle the core
	// never issued or already destroyed.
	ErrUnknownHandle = errors.New("unknown metric handle")

	// ErrUnknownFunction is returned for a capability/function pair the
	// core does not implement.
	ErrUnknownFunction = errors.New("unknown core function")

	// ErrScriptExhausted is returned when the upload task script has no
	// tasks left. A correctly behaving loop stops at Done and never sees it.
	ErrScriptExhausted = errors.New("upload task script exhausted")
)

// Report is one upload completion report received by the core.
type Report struct {
	DocumentID string `json:"document_id"`
	Status     string `json:"status"`
}

// metricState is the stored state of one live metric handle.
type metricState struct {
	descriptor  metricDescriptor
	stringLists map[string][]string
	counters    map[string]int32
}

// metricDescriptor mirrors the creation payload sent by the SDK.
type metricDescriptor struct {
	Type        string   `json:"type"`
	Category    string   `json:"category"`
	Name        string   `json:"name"`
	SendInPings []string `json:"send_in_pings"`
	Lifetime    string   `json:"lifetime"`
	Disabled    bool     `json:"disabled"`
}

// Core is a scripted in-memory native core. It implements the metrics
// capability end to end (handles, recording, test reads) and serves upload
// tasks from a script, journaling completion reports. Safe for concurrent
// use.
type Core struct {
	mu         sync.Mutex
	nextHandle uint64
	metrics    map[uint64]*metricState
	taskScript [][]byte
	nextCalls  int
	reports    []Report
}

// NewCore creates an empty scripted core.
func NewCore() *Core {
	return &Core{
		nextHandle: 1,
		metrics:    make(map[uint64]*metricState),
	}
}

// HostCall dispatches a core invocation by capability and function.
func (c *Core) HostCall(_ string, capability, function string, payload []byte) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch capability {
	case core.CapabilityMetrics:
		return c.metricsCall(function, payload)
	case core.CapabilityUpload:
		return c.uploadCall(function, payload)
	}
	return nil, fmt.Errorf("%w: %s/%s", ErrUnknownFunction, capability, function)
}

func (c *Core) metricsCall(function string, payload []byte) ([]byte, error) {
	switch function {
	case core.FnMetricNew:
		var desc metricDescriptor
		if err := sonic.Unmarshal(payload, &desc); err != nil {
			return nil, err
		}
		handle := c.nextHandle
		c.nextHandle++
		c.metrics[handle] = &metricState{
			descriptor:  desc,
			stringLists: make(map[string][]string),
			counters:    make(map[string]int32),
		}
		resp := make([]byte, 8)
		binary.LittleEndian.PutUint64(resp, handle)
		return resp, nil

	case core.FnMetricDestroy:
		if len(payload) != 8 {
			return nil, fmt.Errorf("%w: handle has %d bytes", ErrUnknownHandle, len(payload))
		}
		handle := binary.LittleEndian.Uint64(payload)
		if _, ok := c.metrics[handle]; !ok {
			return nil, fmt.Errorf("%w: %d", ErrUnknownHandle, handle)
		}
		delete(c.metrics, handle)
		return nil, nil

	case core.FnStringListAdd:
		var req struct {
			Handle uint64 `json:"handle"`
			Value  string `json:"value"`
		}
		if err := sonic.Unmarshal(payload, &req); err != nil {
			return nil, err
		}
		state, ok := c.metrics[req.Handle]
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrUnknownHandle, req.Handle)
		}
		for _, ping := range state.descriptor.SendInPings {
			state.stringLists[ping] = append(state.stringLists[ping], req.Value)
		}
		return nil, nil

	case core.FnStringListSet:
		var req struct {
			Handle uint64   `json:"handle"`
			Value  []string `json:"value"`
		}
		if err := sonic.Unmarshal(payload, &req); err != nil {
			return nil, err
		}
		state, ok := c.metrics[req.Handle]
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrUnknownHandle, req.Handle)
		}
		for _, ping := range state.descriptor.SendInPings {
			state.stringLists[ping] = append([]string(nil), req.Value...)
		}
		return nil, nil

	case core.FnCounterAdd:
		var req struct {
			Handle uint64 `json:"handle"`
			Value  int32  `json:"value"`
		}
		if err := sonic.Unmarshal(payload, &req); err != nil {
			return nil, err
		}
		state, ok := c.metrics[req.Handle]
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrUnknownHandle, req.Handle)
		}
		for _, ping := range state.descriptor.SendInPings {
			state.counters[ping] += req.Value
		}
		return nil, nil

	case core.FnTestGetValue:
		var req struct {
			Handle uint64 `json:"handle"`
			Ping   string `json:"ping"`
		}
		if err := sonic.Unmarshal(payload, &req); err != nil {
			return nil, err
		}
		state, ok := c.metrics[req.Handle]
		if !ok {
			return nil, nil
		}
		switch state.descriptor.Type {
		case "string_list":
			values, ok := state.stringLists[req.Ping]
			if !ok {
				return nil, nil
			}
			return sonic.Marshal(values)
		case "counter":
			value, ok := state.counters[req.Ping]
			if !ok {
				return nil, nil
			}
			return sonic.Marshal(value)
		}
		return nil, nil
	}

	return nil, fmt.Errorf("%w: metrics/%s", ErrUnknownFunction, function)
}

func (c *Core) uploadCall(function string, payload []byte) ([]byte, error) {
	switch function {
	case core.FnUploadNext:
		c.nextCalls++
		if len(c.taskScript) == 0 {
			return nil, ErrScriptExhausted
		}
		task := c.taskScript[0]
		c.taskScript = c.taskScript[1:]
		return task, nil

	case core.FnUploadDone:
		var report Report
		if err := sonic.Unmarshal(payload, &report); err != nil {
			return nil, err
		}
		c.reports = append(c.reports, report)
		return nil, nil
	}

	return nil, fmt.Errorf("%w: upload/%s", ErrUnknownFunction, function)
}

// ScriptTask appends a pre-encoded task to the upload script.
func (c *Core) ScriptTask(task []byte) {
	c.mu.Lock()
	c.taskScript = append(c.taskScript, task)
	c.mu.Unlock()
}

// ScriptPing enqueues an Upload task for a fresh document ID and returns
// that ID.
func (c *Core) ScriptPing(path, body string, headers map[string]string) string {
	documentID := xid.New().String()
	c.ScriptTask(EncodeUploadTask(documentID, path, body, headers))
	return documentID
}

// ScriptWait enqueues a Wait task.
func (c *Core) ScriptWait() { c.ScriptTask(EncodeWaitTask()) }

// ScriptDone enqueues a Done task.
func (c *Core) ScriptDone() { c.ScriptTask(EncodeDoneTask()) }

// Reports returns a copy of the received upload completion reports.
func (c *Core) Reports() []Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Report(nil), c.reports...)
}

// NextTaskCalls returns how many times the upload capability was asked for
// work.
func (c *Core) NextTaskCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nextCalls
}

// LiveHandles returns the number of metric handles not yet destroyed.
func (c *Core) LiveHandles() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.metrics)
}
