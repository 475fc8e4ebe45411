// Package convert normalizes media input in any supported representation into
// canonical bytes, identifies its MIME type and extension, and renders it into
// a requested output representation.
//
// A conversion is selected by a kind name of the form "<source>To<Target>",
// e.g. "pathToBase64" or "urlToStream". Each source form has one decoder and
// each target form has one encoder; the dispatcher composes them.
package convert

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/docker/go-units"
)

// Sniffer identifies content from its leading bytes.
// Implementations report ok=false when the content is not recognized.
type Sniffer interface {
	Sniff(data []byte) (mime, ext string, ok bool)
}

// Lookup resolves a MIME type from a file name or a bare extension.
type Lookup interface {
	Lookup(nameOrExt string) (mime string, ok bool)
}

// Fetcher retrieves remote resources.
type Fetcher interface {
	// Stream returns the live response body and its reported length (-1 when unknown).
	// The caller closes the body.
	Stream(ctx context.Context, url string) (io.ReadCloser, int64, error)
}

// Filesystem provides the file primitives used for path sources and persistence.
// Open must return an error satisfying errors.Is(err, fs.ErrNotExist) when no
// regular file exists at path, including when path names a directory.
type Filesystem interface {
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Write(ctx context.Context, path string, data []byte) error
	Pipe(ctx context.Context, path string, r io.Reader) (int64, error)
}

// Inspector derives optional details from a buffered payload. It may return
// partial details together with an error.
type Inspector interface {
	Inspect(data []byte, mime string) (*Details, error)
}

// Recorder observes the outcome of each conversion.
type Recorder interface {
	Record(kind string, size int64, err error)
}

// Deps carries the collaborators of a Converter. Sniffer, Lookup, Fetcher and
// Filesystem are required; the rest are optional.
type Deps struct {
	Sniffer    Sniffer
	Lookup     Lookup
	Fetcher    Fetcher
	Filesystem Filesystem
	Inspector  Inspector
	Recorder   Recorder
	Clock      func() time.Time
}

// Converter dispatches conversions. It holds no per-call state and is safe
// for concurrent use.
type Converter struct {
	sniffer    Sniffer
	lookup     Lookup
	fetcher    Fetcher
	fs         Filesystem
	inspector  Inspector
	recorder   Recorder
	now        func() time.Time
	maxPayload int64
	logger     *slog.Logger
}

// New creates a Converter from a finalized configuration.
func New(cfg *Config, deps Deps, logger *slog.Logger) (*Converter, error) {
	if deps.Sniffer == nil || deps.Lookup == nil {
		return nil, fmt.Errorf("sniffer and lookup required")
	}
	if deps.Fetcher == nil {
		return nil, fmt.Errorf("fetcher required")
	}
	if deps.Filesystem == nil {
		return nil, fmt.Errorf("filesystem required")
	}

	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Converter{
		sniffer:    deps.Sniffer,
		lookup:     deps.Lookup,
		fetcher:    deps.Fetcher,
		fs:         deps.Filesystem,
		inspector:  deps.Inspector,
		recorder:   deps.Recorder,
		now:        deps.Clock,
		maxPayload: cfg.MaxPayloadBytes(),
		logger:     logger.With("system", "convert"),
	}, nil
}

// Convert normalizes input according to opts.Type, identifies it, renders the
// target representation and optionally persists it to opts.SaveFilePath.
//
// The expected Go type of input depends on the source form: []byte for
// buffer, io.Reader for stream, string for every other form. A failed call
// returns no result.
func (c *Converter) Convert(ctx context.Context, input any, opts Options) (*Result, error) {
	result, err := c.convert(ctx, input, opts)
	if c.recorder != nil {
		var size int64
		if result != nil {
			size = result.FileSize
		}
		c.recorder.Record(opts.Type, size, err)
	}
	if err != nil {
		c.logger.Debug("conversion failed", "kind", opts.Type, "error", err)
		return nil, err
	}

	c.logger.Debug("conversion complete",
		"kind", opts.Type,
		"size", units.HumanSize(float64(result.FileSize)),
		"mime", result.FileMime,
		"ext", result.FileExt,
	)
	return result, nil
}

func (c *Converter) convert(ctx context.Context, input any, opts Options) (*Result, error) {
	kind, err := ParseKind(opts.Type)
	if err != nil {
		return nil, err
	}

	if kind.Source == SourceAuto {
		kind.Source, err = resolveSource(input)
		if err != nil {
			return nil, err
		}
	}

	if kind.Source == SourceURL && kind.Target == TargetStream {
		return c.convertURLStream(ctx, input, opts)
	}

	filename := opts.Filename
	payload, err := c.decode(ctx, kind.Source, input)
	if err != nil {
		return nil, err
	}
	if kind.Source == SourcePath && filename == "" {
		filename = baseName(input.(string))
	}

	meta := c.identify(payload, filename)

	data, err := encoders[kind.Target](payload, meta.FileMime)
	if err != nil {
		return nil, err
	}

	result := newResult(opts.Type, meta, data)

	if opts.SaveFilePath != "" {
		if err := c.persist(ctx, result, opts.SaveFilePath); err != nil {
			return nil, err
		}
	}

	if opts.Inspect {
		result.Details = c.inspect(payload, meta.FileMime)
	}

	return result, nil
}

func (c *Converter) inspect(payload []byte, mime string) *Details {
	if c.inspector == nil {
		return nil
	}

	details, err := c.inspector.Inspect(payload, mime)
	if err != nil {
		c.logger.Warn("inspection incomplete", "mime", mime, "error", err)
	}
	return details
}
