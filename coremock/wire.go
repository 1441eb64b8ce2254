package coremock

import (
	"github.com/bytedance/sonic"

	"github.com/beacon-project/sdk/core"
)

// EncodeUploadTask builds the wire form of an Upload task: the packed
// discriminant byte followed by four NUL-terminated buffers (document ID,
// path, body, headers as a JSON object).
func EncodeUploadTask(documentID, path, body string, headers map[string]string) []byte {
	headerBlob := []byte("{}")
	if headers != nil {
		if encoded, err := sonic.Marshal(headers); err == nil {
			headerBlob = encoded
		}
	}

	buf := []byte{byte(core.TagUpload)}
	for _, field := range [][]byte{[]byte(documentID), []byte(path), []byte(body), headerBlob} {
		buf = append(buf, field...)
		buf = append(buf, 0)
	}
	return buf
}

// EncodeWaitTask builds the wire form of a Wait task.
func EncodeWaitTask() []byte { return []byte{byte(core.TagWait)} }

// EncodeDoneTask builds the wire form of a Done task.
func EncodeDoneTask() []byte { return []byte{byte(core.TagDone)} }
