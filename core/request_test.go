package core

import (
	"reflect"
	"testing"

	sdk "github.com/beacon-project/sdk"
)

// rawUpload assembles an Upload payload (without the discriminant byte)
// from its four NUL-terminated fields.
func rawUpload(documentID, path, body, headerBlob string) []byte {
	var buf []byte
	for _, field := range []string{documentID, path, body, headerBlob} {
		buf = append(buf, field...)
		buf = append(buf, 0)
	}
	return buf
}

func TestMaterializeRequestHeaders(t *testing.T) {
	testCases := []struct {
		name       string
		headerBlob string
		want       map[string]string
	}{
		{
			name:       "Valid Flat Object",
			headerBlob: `{"Content-Type":"application/json","Date":"today"}`,
			want:       map[string]string{"Content-Type": "application/json", "Date": "today"},
		},
		{
			name:       "Empty Object",
			headerBlob: `{}`,
			want:       map[string]string{},
		},
		{
			name:       "Empty Blob",
			headerBlob: "",
			want:       map[string]string{},
		},
		{
			name:       "Malformed JSON",
			headerBlob: `{"Content-Type":`,
			want:       map[string]string{},
		},
		{
			name:       "Array Shape",
			headerBlob: `["Content-Type","application/json"]`,
			want:       map[string]string{},
		},
		{
			name:       "Non String Values",
			headerBlob: `{"Retry-After":30}`,
			want:       map[string]string{},
		},
		{
			name:       "Nested Object Values",
			headerBlob: `{"outer":{"inner":"x"}}`,
			want:       map[string]string{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := materializeRequest(rawUpload("doc-1", "/submit/metrics", "{}", tc.headerBlob))
			if !reflect.DeepEqual(req.Headers, tc.want) {
				t.Fatalf("expected headers %v, got %v", tc.want, req.Headers)
			}
		})
	}
}

func TestMaterializeRequestFields(t *testing.T) {
	req := materializeRequest(rawUpload("doc-2", "/submit/baseline", `{"ping":"baseline"}`, "{}"))

	if req.DocumentID != "doc-2" {
		t.Errorf("expected document ID %q, got %q", "doc-2", req.DocumentID)
	}
	if req.Path != "/submit/baseline" {
		t.Errorf("expected path %q, got %q", "/submit/baseline", req.Path)
	}
	if req.Body != `{"ping":"baseline"}` {
		t.Errorf("expected body %q, got %q", `{"ping":"baseline"}`, req.Body)
	}
}

func TestMaterializeRequestDebugTag(t *testing.T) {
	if err := sdk.SetPingTag("T"); err != nil {
		t.Fatalf("SetPingTag returned error: %v", err)
	}
	defer func() {
		if err := sdk.SetPingTag(""); err != nil {
			t.Fatalf("failed to clear ping tag: %v", err)
		}
	}()

	t.Run("Tag Added To Existing Headers", func(t *testing.T) {
		req := materializeRequest(rawUpload("doc-3", "/submit/metrics", "{}", `{"A":"1"}`))
		want := map[string]string{"A": "1", DebugHeader: "T"}
		if !reflect.DeepEqual(req.Headers, want) {
			t.Fatalf("expected headers %v, got %v", want, req.Headers)
		}
	})

	t.Run("Tag Overwrites Core Header", func(t *testing.T) {
		req := materializeRequest(rawUpload("doc-4", "/submit/metrics", "{}", `{"X-Debug-ID":"stale"}`))
		if req.Headers[DebugHeader] != "T" {
			t.Fatalf("expected debug header %q, got %q", "T", req.Headers[DebugHeader])
		}
	})
}

func TestMaterializeRequestNoDebugTag(t *testing.T) {
	req := materializeRequest(rawUpload("doc-5", "/submit/metrics", "{}", `{"A":"1"}`))
	want := map[string]string{"A": "1"}
	if !reflect.DeepEqual(req.Headers, want) {
		t.Fatalf("expected headers %v, got %v", want, req.Headers)
	}
}

func TestSplitBoundaryStrings(t *testing.T) {
	fields, ok := splitBoundaryStrings([]byte("a\x00\x00c\x00"), 3)
	if !ok {
		t.Fatal("expected split to succeed")
	}
	if !reflect.DeepEqual(fields, []string{"a", "", "c"}) {
		t.Fatalf("unexpected fields: %v", fields)
	}

	if _, ok := splitBoundaryStrings([]byte("a\x00b"), 2); ok {
		t.Fatal("expected split to fail on missing terminator")
	}
}
