package core

import "fmt"

// TaskTag is the canonical enumeration of upload task discriminants. The
// native core declares it with a 32-bit representation, but the wire layout
// packs the tag into a single byte; DecodeUploadTask widens the byte back to
// the canonical width before comparing, never the other way around.
type TaskTag uint32

const (
	// TagUpload indicates a ping is ready for upload.
	TagUpload TaskTag = 0

	// TagWait indicates no work is available yet; retry after a backoff.
	TagWait TaskTag = 1

	// TagDone indicates the core has no more work until externally resumed.
	TagDone TaskTag = 2
)

// UploadTask is one unit of work handed out by the core: TaskUpload,
// TaskWait, or TaskDone.
type UploadTask interface {
	isUploadTask()
}

// TaskUpload instructs the caller to upload the carried ping request.
type TaskUpload struct {
	Request PingRequest
}

// TaskWait instructs the caller to pause before asking for work again.
type TaskWait struct{}

// TaskDone instructs the caller to stop asking for work.
type TaskDone struct{}

func (TaskUpload) isUploadTask() {}
func (TaskWait) isUploadTask()   {}
func (TaskDone) isUploadTask()   {}

// DecodeUploadTask translates a raw boundary task value into an UploadTask.
// The first byte is the packed discriminant; the remainder is the variant
// payload. A discriminant outside the known set, or a malformed Upload
// payload, is an ABI-corruption bug and panics.
func DecodeUploadTask(raw []byte) UploadTask {
	if len(raw) == 0 {
		panic("core: empty upload task value")
	}

	switch TaskTag(uint32(raw[0])) {
	case TagUpload:
		return TaskUpload{Request: materializeRequest(raw[1:])}
	case TagWait:
		return TaskWait{}
	case TagDone:
		return TaskDone{}
	}

	panic(fmt.Sprintf("core: unknown upload task discriminant %d", raw[0]))
}
