package core

import (
	"bytes"

	"github.com/bytedance/sonic"

	sdk "github.com/beacon-project/sdk"
)

// DebugHeader is the header carrying the debug view tag on uploaded pings.
const DebugHeader = "X-Debug-ID"

// uploadFieldCount is the number of NUL-terminated buffers in an Upload payload:
// document ID, path, body, and headers as a JSON object.
const uploadFieldCount = 4

// PingRequest is one ping ready for upload.
type PingRequest struct {
	// DocumentID identifies the ping; it is also its on-disk file name.
	DocumentID string

	// Path is the upload target path, relative to the server endpoint.
	Path string

	// Body is the JSON-encoded ping payload.
	Body string

	// Headers are sent with the upload request. Keys are case-sensitive
	// and unique.
	Headers map[string]string
}

// materializeRequest copies the four NUL-terminated boundary buffers of an
// Upload payload into Go-owned strings and decodes the header blob. The
// boundary memory is not referenced after this call returns.
func materializeRequest(payload []byte) PingRequest {
	fields, ok := splitBoundaryStrings(payload, uploadFieldCount)
	if !ok {
		panic("core: truncated upload task payload")
	}

	req := PingRequest{
		DocumentID: fields[0],
		Path:       fields[1],
		Body:       fields[2],
		Headers:    decodeHeaders(fields[3]),
	}

	// The debug view tag is read at construction time only and overwrites
	// any header of the same name coming from the core.
	if tag := sdk.PingTag(); tag != "" {
		req.Headers[DebugHeader] = tag
	}

	return req
}

// decodeHeaders parses a JSON object of string keys and string values. Any
// other shape, or malformed JSON, yields an empty map: a corrupt header blob
// must not block ping upload.
func decodeHeaders(raw string) map[string]string {
	headers := make(map[string]string)
	if raw == "" {
		return headers
	}
	if err := sonic.UnmarshalString(raw, &headers); err != nil {
		return make(map[string]string)
	}
	return headers
}

// splitBoundaryStrings copies n consecutive NUL-terminated buffers out of
// boundary-owned memory. Returns false if fewer than n terminators exist.
func splitBoundaryStrings(payload []byte, n int) ([]string, bool) {
	fields := make([]string, 0, n)
	rest := payload
	for i := 0; i < n; i++ {
		idx := bytes.IndexByte(rest, 0)
		if idx < 0 {
			return nil, false
		}
		// string conversion copies; no reference into rest survives
		fields = append(fields, string(rest[:idx]))
		rest = rest[idx+1:]
	}
	return fields, true
}
