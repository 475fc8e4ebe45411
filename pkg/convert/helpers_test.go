package convert_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/JaimeStill/mediaconv/pkg/convert"
	"github.com/JaimeStill/mediaconv/pkg/detect"
	"github.com/JaimeStill/mediaconv/pkg/storage"
)

var fixedNow = time.UnixMilli(1700000000000)

var pngHeader = []byte{
	0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n',
	0x00, 0x00, 0x00, 0x0d, 'I', 'H', 'D', 'R',
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00,
}

var opaque = []byte{0xde, 0xad, 0xbe, 0xef, 0x00, 0x13, 0x37, 0x00}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

type fakeResource struct {
	data          []byte
	unknownLength bool
}

type fakeFetcher struct {
	resources map[string]fakeResource
}

func (f *fakeFetcher) Stream(_ context.Context, url string) (io.ReadCloser, int64, error) {
	r, ok := f.resources[url]
	if !ok {
		return nil, 0, errors.New("404 not found")
	}
	size := int64(len(r.data))
	if r.unknownLength {
		size = -1
	}
	return &trackingReader{r: bytes.NewReader(r.data)}, size, nil
}

// chunkReader yields one chunk per Read call.
type chunkReader struct {
	chunks [][]byte
	closed bool
}

func (c *chunkReader) Read(p []byte) (int, error) {
	if len(c.chunks) == 0 {
		return 0, io.EOF
	}
	n := copy(p, c.chunks[0])
	c.chunks[0] = c.chunks[0][n:]
	if len(c.chunks[0]) == 0 {
		c.chunks = c.chunks[1:]
	}
	return n, nil
}

func (c *chunkReader) Close() error {
	c.closed = true
	return nil
}

type trackingReader struct {
	r      io.Reader
	closed bool
}

func (t *trackingReader) Read(p []byte) (int, error) { return t.r.Read(p) }

func (t *trackingReader) Close() error {
	t.closed = true
	return nil
}

// failingFS wraps a Filesystem and fails every write.
type failingFS struct {
	convert.Filesystem
}

func (failingFS) Write(context.Context, string, []byte) error {
	return errors.New("disk full")
}

func (failingFS) Pipe(context.Context, string, io.Reader) (int64, error) {
	return 0, errors.New("disk full")
}

type recorded struct {
	kind string
	size int64
	err  error
}

type fakeRecorder struct {
	mu      sync.Mutex
	records []recorded
}

func (r *fakeRecorder) Record(kind string, size int64, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, recorded{kind, size, err})
}

type fakeInspector struct {
	details *convert.Details
	err     error
}

func (f fakeInspector) Inspect([]byte, string) (*convert.Details, error) {
	return f.details, f.err
}

type setup struct {
	maxPayload string
	deps       func(*convert.Deps)
}

func newConverter(t *testing.T, s setup) *convert.Converter {
	t.Helper()

	cfg := &convert.Config{MaxPayloadSize: s.maxPayload}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}

	fsCfg := &storage.Config{}
	if err := fsCfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}
	fs, err := storage.New(fsCfg, testLogger())
	if err != nil {
		t.Fatalf("storage.New() failed: %v", err)
	}

	deps := convert.Deps{
		Sniffer:    detect.Content{},
		Lookup:     detect.Extension{},
		Fetcher:    &fakeFetcher{resources: map[string]fakeResource{}},
		Filesystem: fs,
		Clock:      func() time.Time { return fixedNow },
	}
	if s.deps != nil {
		s.deps(&deps)
	}

	c, err := convert.New(cfg, deps, testLogger())
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return c
}

func mustConvert(t *testing.T, c *convert.Converter, input any, opts convert.Options) *convert.Result {
	t.Helper()

	result, err := c.Convert(context.Background(), input, opts)
	if err != nil {
		t.Fatalf("Convert(%s) failed: %v", opts.Type, err)
	}
	return result
}

func readStream(t *testing.T, r *convert.Result) []byte {
	t.Helper()

	rc, ok := r.Stream()
	if !ok {
		t.Fatalf("FileData = %T, want stream", r.FileData)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll() failed: %v", err)
	}
	return data
}
