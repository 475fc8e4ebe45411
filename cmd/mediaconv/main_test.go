package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/mediaconv/pkg/convert"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *string         `json:"error"`
}

type resultData struct {
	FileName string  `json:"file_name"`
	FileSize int64   `json:"file_size"`
	FileMime string  `json:"file_mime"`
	FileType string  `json:"file_type"`
	FileExt  string  `json:"file_ext"`
	FileData *string `json:"file_data"`
	Details  *struct {
		SHA256 string `json:"sha256"`
	} `json:"file_details"`
}

func run(t *testing.T, stdin string, args ...string) (int, envelope) {
	t.Helper()
	t.Setenv("MEDIACONV_ENV", "")

	full := append([]string{}, args...)
	if len(args) > 0 && args[0] == "convert" {
		full = append(full, "--config", filepath.Join(t.TempDir(), "absent.toml"))
	}

	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), full, strings.NewReader(stdin), &stdout, &stderr)

	var env envelope
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &env), "stdout: %s", stdout.String())
	return code, env
}

func decodeResult(t *testing.T, env envelope) resultData {
	t.Helper()
	require.True(t, env.Success, "error: %v", env.Error)

	var r resultData
	require.NoError(t, json.Unmarshal(env.Data, &r))
	return r
}

func TestVersion(t *testing.T) {
	code, env := run(t, "", "version")

	assert.Equal(t, exitOK, code)
	assert.JSONEq(t, `{"version":"dev"}`, string(env.Data))
}

func TestKinds(t *testing.T) {
	code, env := run(t, "", "kinds")
	require.Equal(t, exitOK, code)

	var names []string
	require.NoError(t, json.Unmarshal(env.Data, &names))
	assert.Len(t, names, 40)
	assert.Contains(t, names, "urlToStream")
	assert.Contains(t, names, "pathToBase64Url")
	assert.Contains(t, names, "autoToBuffer")
}

func TestConvert_BufferToBase64(t *testing.T) {
	code, env := run(t, "", "convert", "abc", "--type", "bufferToBase64")
	require.Equal(t, exitOK, code)

	r := decodeResult(t, env)
	assert.Equal(t, int64(3), r.FileSize)
	assert.Equal(t, "bufferToBase64", r.FileType)
	assert.Equal(t, "text/plain", r.FileMime)
	assert.Equal(t, "txt", r.FileExt)
	require.NotNil(t, r.FileData)
	assert.Equal(t, "YWJj", *r.FileData)
}

func TestConvert_PathToBase64Url(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hello.txt")
	require.NoError(t, os.WriteFile(path, []byte("hi"), 0644))

	code, env := run(t, "", "convert", path, "--type", "pathToBase64Url")
	require.Equal(t, exitOK, code)

	r := decodeResult(t, env)
	assert.Equal(t, "hello.txt", r.FileName)
	assert.Equal(t, "txt", r.FileExt)
	require.NotNil(t, r.FileData)
	assert.Equal(t, "data:text/plain;base64,aGk=", *r.FileData)
}

func TestConvert_FilenameOverride(t *testing.T) {
	code, env := run(t, "", "convert", "YWJj", "--type", "base64ToBase64", "--filename", "x.json")
	require.Equal(t, exitOK, code)

	r := decodeResult(t, env)
	assert.Equal(t, "x.json", r.FileName)
	assert.Equal(t, "application/json", r.FileMime)
	assert.Equal(t, "json", r.FileExt)
}

func TestConvert_StdinStream(t *testing.T) {
	code, env := run(t, "abcdef", "convert", "-", "--type", "streamToBase64")
	require.Equal(t, exitOK, code)

	r := decodeResult(t, env)
	assert.Equal(t, int64(6), r.FileSize)
	require.NotNil(t, r.FileData)
	assert.Equal(t, "YWJjZGVm", *r.FileData)
}

func TestConvert_StdinBase64TrimsNewline(t *testing.T) {
	code, env := run(t, "YWJj\n", "convert", "-", "--type", "base64ToBinary")
	require.Equal(t, exitOK, code)

	r := decodeResult(t, env)
	require.NotNil(t, r.FileData)
	assert.Equal(t, "abc", *r.FileData)
}

func TestConvert_StdinBinaryRawBytes(t *testing.T) {
	code, env := run(t, "\xff\x80a", "convert", "-", "--type", "binaryToBase64")
	require.Equal(t, exitOK, code)

	r := decodeResult(t, env)
	assert.Equal(t, int64(3), r.FileSize)
	require.NotNil(t, r.FileData)
	assert.Equal(t, "/4Bh", *r.FileData)
}

func TestConvert_StreamResultSaved(t *testing.T) {
	save := filepath.Join(t.TempDir(), "out", "saved.txt")

	code, env := run(t, "", "convert", "abc", "--type", "bufferToStream", "--save", save)
	require.Equal(t, exitOK, code)

	r := decodeResult(t, env)
	assert.Nil(t, r.FileData)
	assert.Equal(t, int64(3), r.FileSize)

	data, err := os.ReadFile(save)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))
}

func TestConvert_Inspect(t *testing.T) {
	code, env := run(t, "", "convert", "abc", "--type", "bufferToBuffer", "--inspect")
	require.Equal(t, exitOK, code)

	r := decodeResult(t, env)
	require.NotNil(t, r.Details)
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", r.Details.SHA256)
}

func TestConvert_MetricsFile(t *testing.T) {
	prom := filepath.Join(t.TempDir(), "mediaconv.prom")

	code, _ := run(t, "", "convert", "abc", "--type", "bufferToBase64", "--metrics-file", prom)
	require.Equal(t, exitOK, code)

	data, err := os.ReadFile(prom)
	require.NoError(t, err)
	assert.Contains(t, string(data), `mediaconv_conversions_total{kind="bufferToBase64",outcome="success"} 1`)
}

func TestConvert_Failures(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	tests := []struct {
		name    string
		args    []string
		code    int
		message string
	}{
		{
			name:    "unsupported kind",
			args:    []string{"convert", "abc", "--type", "fooToBar"},
			code:    exitInvalid,
			message: "fooToBar",
		},
		{
			name:    "malformed data uri",
			args:    []string{"convert", "not-a-data-uri", "--type", "base64UrlToBuffer"},
			code:    exitInvalid,
			message: "malformed input",
		},
		{
			name:    "invalid base64",
			args:    []string{"convert", "***", "--type", "base64ToBuffer"},
			code:    exitInvalid,
			message: "decode failed",
		},
		{
			name:    "missing file",
			args:    []string{"convert", "/nonexistent/file", "--type", "pathToBuffer"},
			code:    exitNotFound,
			message: "file not found",
		},
		{
			name:    "unwritable save path",
			args:    []string{"convert", "abc", "--type", "bufferToBase64", "--save", filepath.Join(blocker, "out.txt")},
			code:    exitPersistence,
			message: "persist result failed",
		},
		{
			name: "missing type flag",
			args: []string{"convert", "abc"},
			code: exitFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := run(t, "", tt.args...)

			assert.Equal(t, tt.code, code)
			assert.False(t, env.Success)
			assert.Equal(t, "null", string(env.Data))
			require.NotNil(t, env.Error)
			if tt.message != "" {
				assert.Contains(t, *env.Error, tt.message)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, exitOK},
		{&convert.UnsupportedConversionError{Kind: "x"}, exitInvalid},
		{fmt.Errorf("%w: bad", convert.ErrFormat), exitInvalid},
		{fmt.Errorf("%w: bad", convert.ErrDecode), exitInvalid},
		{fmt.Errorf("%w: /a", convert.ErrNotFound), exitNotFound},
		{fmt.Errorf("%w: %w", convert.ErrPersistence, errors.New("disk full")), exitPersistence},
		{errors.New("network unreachable"), exitFailure},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, exitCode(tt.err), "exitCode(%v)", tt.err)
	}
}
