package uploader

import (
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"
	"go.uber.org/atomic"

	sdk "github.com/beacon-project/sdk"
	"github.com/beacon-project/sdk/core"
)

// defaultWaitBackoff is the pause applied when the core reports no work yet.
const defaultWaitBackoff = time.Second

var (
	// ErrAlreadyRunning is returned when a second upload loop is started
	// while one is active. Concurrent loops would race on task acquisition.
	ErrAlreadyRunning = errors.New("upload loop is already running")

	// loopActive guards the one-loop-per-process invariant.
	loopActive = atomic.NewBool(false)
)

// Result classifies one upload attempt for the core. The core owns all
// retry policy; this layer only reports what happened.
type Result int

const (
	// Success means the server accepted the ping.
	Success Result = iota

	// RecoverableFailure means the attempt failed in a way worth retrying,
	// e.g. a network error or server-side failure.
	RecoverableFailure

	// UnrecoverableFailure means retrying cannot help, e.g. the server
	// rejected the ping.
	UnrecoverableFailure
)

// String returns the wire name of the result.
func (r Result) String() string {
	switch r {
	case Success:
		return "success"
	case UnrecoverableFailure:
		return "unrecoverable_failure"
	default:
		return "recoverable_failure"
	}
}

// Uploader performs one upload attempt for a ping request.
type Uploader interface {
	Upload(req core.PingRequest) Result
}

// Config controls how a Loop instance interacts with the native core.
type Config struct {
	// SDKConfig provides the runtime namespace and upload endpoint.
	SDKConfig sdk.RuntimeConfig

	// HostCall overrides the core entry point used for task acquisition
	// and completion reports.
	HostCall core.HostCall

	// Uploader overrides the upload collaborator. Defaults to an HTTP
	// uploader built from SDKConfig.
	Uploader Uploader

	// WaitBackoff overrides the pause applied on a Wait task.
	WaitBackoff time.Duration
}

// Loop drives the ping upload task protocol. The core is the sole authority
// on scheduling; the loop only executes what it is told.
type Loop struct {
	runtime  sdk.RuntimeConfig
	hostCall core.HostCall
	uploader Uploader
	backoff  time.Duration
}

// New creates an upload loop with namespace defaults and optional overrides.
func New(config Config) (*Loop, error) {
	runtime := config.SDKConfig
	if runtime.Namespace == "" {
		runtime.Namespace = sdk.DefaultNamespace
	}
	if runtime.ServerEndpoint == "" {
		runtime.ServerEndpoint = sdk.DefaultServerEndpoint
	}

	hostCall := config.HostCall
	if hostCall == nil {
		hostCall = core.DefaultHostCall()
	}

	up := config.Uploader
	if up == nil {
		up = NewHTTPUploader(runtime)
	}

	backoff := config.WaitBackoff
	if backoff <= 0 {
		backoff = defaultWaitBackoff
	}

	return &Loop{runtime: runtime, hostCall: hostCall, uploader: up, backoff: backoff}, nil
}

// uploadReport is the JSON completion report sent back to the core.
type uploadReport struct {
	DocumentID string `json:"document_id"`
	Status     string `json:"status"`
}

// Run asks the core for work until it reports Done: uploads are attempted
// and their outcome reported back, Wait pauses for the configured backoff.
// Only one loop may run at a time per process; a second concurrent Run
// returns ErrAlreadyRunning. The loop is resumed externally (by a new Run
// call) once more work is scheduled.
func (l *Loop) Run() error {
	if !loopActive.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer loopActive.Store(false)

	for {
		raw, err := l.hostCall(l.runtime.Namespace, core.CapabilityUpload, core.FnUploadNext, nil)
		if err != nil {
			return fmt.Errorf("%w: fetching upload task: %v", sdk.ErrCoreCall, err)
		}

		switch task := core.DecodeUploadTask(raw).(type) {
		case core.TaskUpload:
			result := l.uploader.Upload(task.Request)
			log.Debug().
				Str("document_id", task.Request.DocumentID).
				Str("result", result.String()).
				Msg("Ping upload attempted")
			l.report(task.Request.DocumentID, result)
		case core.TaskWait:
			time.Sleep(l.backoff)
		case core.TaskDone:
			return nil
		}
	}
}

// report tells the core how the upload attempt went. Failures to report are
// logged; the core will hand the ping out again if it never hears back.
func (l *Loop) report(documentID string, result Result) {
	payload, err := sonic.Marshal(uploadReport{DocumentID: documentID, Status: result.String()})
	if err != nil {
		return
	}
	if _, err := l.hostCall(l.runtime.Namespace, core.CapabilityUpload, core.FnUploadDone, payload); err != nil {
		log.Error().Err(err).Str("document_id", documentID).Msg("Failed to report upload result")
	}
}
