package convert

import (
	"bytes"
	"io"
)

// Options selects and parameterizes a single conversion.
type Options struct {
	// Type is the conversion kind name, e.g. "bufferToBase64". Required.
	Type string

	// Filename overrides the result file name. When set, the extension and
	// MIME type are derived from it instead of from the content.
	Filename string

	// SaveFilePath, when set, receives a copy of the rendered result.
	SaveFilePath string

	// Inspect requests Result.Details.
	Inspect bool
}

// Metadata describes the identified payload.
// FileSize is always the canonical byte length, never the length of an encoded form.
type Metadata struct {
	FileName string
	FileSize int64
	FileMime string
	FileExt  string
}

// Details holds optional content facts gathered when Options.Inspect is set.
type Details struct {
	SHA256    string `json:"sha256,omitempty"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
	PageCount int    `json:"page_count,omitempty"`
}

// Result is the envelope returned by a successful conversion.
//
// FileData holds the rendered output: []byte for Buffer, string for Base64,
// Base64Url and Binary, io.ReadCloser for Stream. Stream results must be
// closed by the caller.
type Result struct {
	FileName string   `json:"file_name"`
	FileSize int64    `json:"file_size"`
	FileMime string   `json:"file_mime"`
	FileType string   `json:"file_type"`
	FileExt  string   `json:"file_ext"`
	FileData any      `json:"file_data"`
	Details  *Details `json:"file_details,omitempty"`
}

func newResult(kind string, meta Metadata, data any) *Result {
	return &Result{
		FileName: meta.FileName,
		FileSize: meta.FileSize,
		FileMime: meta.FileMime,
		FileType: kind,
		FileExt:  meta.FileExt,
		FileData: data,
	}
}

// Bytes returns FileData when it is a byte slice.
func (r *Result) Bytes() ([]byte, bool) {
	b, ok := r.FileData.([]byte)
	return b, ok
}

// Text returns FileData when it is a string.
func (r *Result) Text() (string, bool) {
	s, ok := r.FileData.(string)
	return s, ok
}

// Stream returns FileData when it is a stream.
func (r *Result) Stream() (io.ReadCloser, bool) {
	rc, ok := r.FileData.(io.ReadCloser)
	return rc, ok
}

// IsStream reports whether FileData is a stream.
func (r *Result) IsStream() bool {
	_, ok := r.FileData.(io.ReadCloser)
	return ok
}

func newStream(data []byte) io.ReadCloser {
	return io.NopCloser(bytes.NewReader(data))
}
