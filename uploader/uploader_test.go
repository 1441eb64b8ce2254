package uploader

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sdk "github.com/beacon-project/sdk"
	"github.com/beacon-project/sdk/core"
	"github.com/beacon-project/sdk/coremock"
	"github.com/beacon-project/sdk/logging"
)

func TestMain(m *testing.M) {
	if err := logging.Configure(logging.Config{Level: "disabled"}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// stubUploader journals requests and returns scripted results.
type stubUploader struct {
	requests []core.PingRequest
	results  []Result
}

func (s *stubUploader) Upload(req core.PingRequest) Result {
	s.requests = append(s.requests, req)
	if len(s.results) == 0 {
		return Success
	}
	result := s.results[0]
	s.results = s.results[1:]
	return result
}

func newTestLoop(t *testing.T, hostCall core.HostCall, up Uploader) *Loop {
	t.Helper()

	loop, err := New(Config{
		SDKConfig:   sdk.RuntimeConfig{Namespace: "beacon"},
		HostCall:    hostCall,
		Uploader:    up,
		WaitBackoff: time.Millisecond,
	})
	require.NoError(t, err)
	return loop
}

func TestLoopProtocol(t *testing.T) {
	mock := coremock.NewCore()
	firstID := mock.ScriptPing("/submit/metrics", `{"seq":1}`, map[string]string{"Content-Type": "application/json"})
	secondID := mock.ScriptPing("/submit/baseline", `{"seq":2}`, nil)
	mock.ScriptWait()
	mock.ScriptDone()

	stub := &stubUploader{results: []Result{Success, RecoverableFailure}}
	loop := newTestLoop(t, mock.HostCall, stub)

	require.NoError(t, loop.Run())

	// Exactly two uploads, one wait, then termination with no further
	// task requests.
	require.Len(t, stub.requests, 2)
	assert.Equal(t, firstID, stub.requests[0].DocumentID)
	assert.Equal(t, "/submit/metrics", stub.requests[0].Path)
	assert.Equal(t, `{"seq":1}`, stub.requests[0].Body)
	assert.Equal(t, "application/json", stub.requests[0].Headers["Content-Type"])
	assert.Equal(t, secondID, stub.requests[1].DocumentID)
	assert.Equal(t, 4, mock.NextTaskCalls())

	reports := mock.Reports()
	require.Len(t, reports, 2)
	assert.Equal(t, coremock.Report{DocumentID: firstID, Status: "success"}, reports[0])
	assert.Equal(t, coremock.Report{DocumentID: secondID, Status: "recoverable_failure"}, reports[1])
}

func TestLoopReportsUnrecoverableFailure(t *testing.T) {
	mock := coremock.NewCore()
	documentID := mock.ScriptPing("/submit/metrics", "{}", nil)
	mock.ScriptDone()

	stub := &stubUploader{results: []Result{UnrecoverableFailure}}
	loop := newTestLoop(t, mock.HostCall, stub)

	require.NoError(t, loop.Run())

	reports := mock.Reports()
	require.Len(t, reports, 1)
	assert.Equal(t, coremock.Report{DocumentID: documentID, Status: "unrecoverable_failure"}, reports[0])
}

func TestLoopSingleInstance(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	hostCall := func(_, capability, function string, _ []byte) ([]byte, error) {
		if capability == core.CapabilityUpload && function == core.FnUploadNext {
			close(started)
			<-release
			return coremock.EncodeDoneTask(), nil
		}
		return nil, nil
	}

	loop := newTestLoop(t, hostCall, &stubUploader{})

	errChan := make(chan error, 1)
	go func() { errChan <- loop.Run() }()
	<-started

	second := newTestLoop(t, hostCall, &stubUploader{})
	assert.ErrorIs(t, second.Run(), ErrAlreadyRunning)

	close(release)
	require.NoError(t, <-errChan)

	// Once the first loop has finished, a new one may run.
	mock := coremock.NewCore()
	mock.ScriptDone()
	third := newTestLoop(t, mock.HostCall, &stubUploader{})
	require.NoError(t, third.Run())
}

func TestLoopCoreCallError(t *testing.T) {
	mock := &coremock.Mock{Fail: true, Err: errors.New("core unavailable")}
	loop := newTestLoop(t, mock.HostCall, &stubUploader{})

	assert.ErrorIs(t, loop.Run(), sdk.ErrCoreCall)
}

func TestLoopInjectsDebugTag(t *testing.T) {
	require.NoError(t, sdk.SetPingTag("test-tag"))
	defer func() { require.NoError(t, sdk.SetPingTag("")) }()

	mock := coremock.NewCore()
	mock.ScriptPing("/submit/metrics", "{}", map[string]string{"A": "1"})
	mock.ScriptDone()

	stub := &stubUploader{}
	loop := newTestLoop(t, mock.HostCall, stub)

	require.NoError(t, loop.Run())
	require.Len(t, stub.requests, 1)
	assert.Equal(t, "test-tag", stub.requests[0].Headers[core.DebugHeader])
	assert.Equal(t, "1", stub.requests[0].Headers["A"])
}

func TestResultString(t *testing.T) {
	assert.Equal(t, "success", Success.String())
	assert.Equal(t, "recoverable_failure", RecoverableFailure.String())
	assert.Equal(t, "unrecoverable_failure", UnrecoverableFailure.String())
}
