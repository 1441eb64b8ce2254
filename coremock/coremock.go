package coremock

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrUnexpectedNamespace is returned when the namespace is not as expected.
	ErrUnexpectedNamespace = errors.New("unexpected namespace")

	// ErrUnexpectedCapability is returned when the capability is not as expected.
	ErrUnexpectedCapability = errors.New("unexpected capability")

	// ErrUnexpectedFunction is returned when the function is not as expected.
	ErrUnexpectedFunction = errors.New("unexpected function")

	// ErrCallFailed is returned when Fail is set without a custom error.
	ErrCallFailed = errors.New("core call failed")
)

// Call is one journaled core invocation.
type Call struct {
	Namespace  string
	Capability string
	Function   string
	Payload    []byte
}

// Mock simulates the native core entry point with routing validation and
// configurable responses. Expectation fields left empty act as wildcards;
// only values you set are enforced. Every call is journaled.
type Mock struct {
	// ExpectedNamespace, when set, is enforced against the call namespace.
	ExpectedNamespace string

	// ExpectedCapability, when set, is enforced against the call capability.
	ExpectedCapability string

	// ExpectedFunction, when set, is enforced against the call function.
	ExpectedFunction string

	// PayloadValidator, when set, validates the payload of each call.
	PayloadValidator func([]byte) error

	// Response, when set, provides the bytes returned by each call.
	Response func() []byte

	// Fail makes every call return Err, or ErrCallFailed when Err is nil.
	Fail bool

	// Err is the error returned when Fail is set.
	Err error

	mu    sync.Mutex
	calls []Call
}

// HostCall simulates a core call, validating routing and returning the
// scripted response or error.
func (m *Mock) HostCall(namespace, capability, function string, payload []byte) ([]byte, error) {
	m.mu.Lock()
	m.calls = append(m.calls, Call{
		Namespace:  namespace,
		Capability: capability,
		Function:   function,
		Payload:    append([]byte(nil), payload...),
	})
	m.mu.Unlock()

	if m.Fail {
		if m.Err != nil {
			return nil, m.Err
		}
		return nil, ErrCallFailed
	}

	if m.ExpectedNamespace != "" && m.ExpectedNamespace != namespace {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrUnexpectedNamespace, m.ExpectedNamespace, namespace)
	}
	if m.ExpectedCapability != "" && m.ExpectedCapability != capability {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrUnexpectedCapability, m.ExpectedCapability, capability)
	}
	if m.ExpectedFunction != "" && m.ExpectedFunction != function {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrUnexpectedFunction, m.ExpectedFunction, function)
	}

	if m.PayloadValidator != nil {
		if err := m.PayloadValidator(payload); err != nil {
			return nil, err
		}
	}

	if m.Response != nil {
		return m.Response(), nil
	}

	return nil, nil
}

// Calls returns a copy of the journal of received calls.
func (m *Mock) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}
