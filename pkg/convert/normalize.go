package convert

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/docker/go-units"
	"golang.org/x/text/encoding/charmap"
)

type decoder func(ctx context.Context, c *Converter, input any) ([]byte, error)

var decoders = map[SourceForm]decoder{
	SourceBuffer:    decodeBuffer,
	SourceBase64:    decodeBase64,
	SourceBase64URL: decodeDataURI,
	SourceBinary:    decodeBinary,
	SourcePath:      decodePath,
	SourceStream:    decodeStream,
	SourceURL:       decodeURL,
}

var dataURIPattern = regexp.MustCompile(`^data:(.+);base64,(.*)$`)

func (c *Converter) decode(ctx context.Context, src SourceForm, input any) ([]byte, error) {
	dec, ok := decoders[src]
	if !ok {
		return nil, &UnsupportedConversionError{Kind: string(src)}
	}
	return dec(ctx, c, input)
}

func decodeBuffer(_ context.Context, _ *Converter, input any) ([]byte, error) {
	b, ok := input.([]byte)
	if !ok {
		return nil, inputTypeError(SourceBuffer, "[]byte", input)
	}
	return bytes.Clone(b), nil
}

func decodeBase64(_ context.Context, _ *Converter, input any) ([]byte, error) {
	s, err := stringInput(SourceBase64, input)
	if err != nil {
		return nil, err
	}
	return decodeBase64Text(s)
}

func decodeDataURI(_ context.Context, _ *Converter, input any) ([]byte, error) {
	s, err := stringInput(SourceBase64URL, input)
	if err != nil {
		return nil, err
	}

	m := dataURIPattern.FindStringSubmatch(s)
	if m == nil {
		return nil, fmt.Errorf("%w: invalid base64 data URI", ErrFormat)
	}
	return decodeBase64Text(m[2])
}

func decodeBinary(_ context.Context, _ *Converter, input any) ([]byte, error) {
	s, err := stringInput(SourceBinary, input)
	if err != nil {
		return nil, err
	}

	b, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("%w: binary string has characters above U+00FF", ErrDecode)
	}
	return b, nil
}

// decodePath reads the file at path. An empty path is malformed input; a
// missing file or a directory fails with ErrNotFound.
func decodePath(ctx context.Context, c *Converter, input any) ([]byte, error) {
	path, err := stringInput(SourcePath, input)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: empty path", ErrFormat)
	}

	f, err := c.fs.Open(ctx, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return c.drain(f)
}

func decodeStream(_ context.Context, c *Converter, input any) ([]byte, error) {
	r, ok := input.(io.Reader)
	if !ok || r == nil {
		return nil, inputTypeError(SourceStream, "io.Reader", input)
	}
	if closer, ok := r.(io.Closer); ok {
		defer closer.Close()
	}

	return c.drain(r)
}

// decodeURL buffers the response body. A declared length over the payload
// limit fails before the body is read; otherwise the read itself is bounded.
func decodeURL(ctx context.Context, c *Converter, input any) ([]byte, error) {
	url, err := stringInput(SourceURL, input)
	if err != nil {
		return nil, err
	}

	body, size, err := c.fetcher.Stream(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer body.Close()

	if c.maxPayload > 0 && size > c.maxPayload {
		return nil, c.tooLarge()
	}
	return c.drain(body)
}

// decodeBase64Text accepts padded and unpadded standard base64.
// Characters outside the alphabet and non-zero trailing bits are rejected.
func decodeBase64Text(s string) ([]byte, error) {
	// encoding/base64 skips CR and LF on its own.
	if strings.ContainsAny(s, "\r\n") {
		return nil, fmt.Errorf("%w: invalid base64: line breaks not allowed", ErrDecode)
	}

	enc := base64.StdEncoding.Strict()
	if len(s)%4 != 0 && !strings.HasSuffix(s, "=") {
		enc = base64.RawStdEncoding.Strict()
	}

	b, err := enc.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64: %v", ErrDecode, err)
	}
	return b, nil
}

// drain reads r to completion, bounded by the configured payload limit.
func (c *Converter) drain(r io.Reader) ([]byte, error) {
	if c.maxPayload <= 0 {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read payload: %w", err)
		}
		return data, nil
	}

	data, err := io.ReadAll(io.LimitReader(r, c.maxPayload+1))
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	if int64(len(data)) > c.maxPayload {
		return nil, c.tooLarge()
	}
	return data, nil
}

func (c *Converter) tooLarge() error {
	return fmt.Errorf("%w: max %s", ErrPayloadTooLarge, units.HumanSize(float64(c.maxPayload)))
}

// resolveSource picks a concrete source form from the shape of an auto input.
func resolveSource(input any) (SourceForm, error) {
	switch v := input.(type) {
	case []byte:
		return SourceBuffer, nil
	case string:
		switch {
		case strings.HasPrefix(v, "data:"):
			return SourceBase64URL, nil
		case strings.HasPrefix(v, "http://"), strings.HasPrefix(v, "https://"):
			return SourceURL, nil
		default:
			return SourcePath, nil
		}
	case io.Reader:
		return SourceStream, nil
	default:
		return "", fmt.Errorf("%w: unsupported input type %T", ErrFormat, input)
	}
}

func stringInput(src SourceForm, input any) (string, error) {
	s, ok := input.(string)
	if !ok {
		return "", inputTypeError(src, "string", input)
	}
	return s, nil
}

func inputTypeError(src SourceForm, want string, got any) error {
	return fmt.Errorf("%w: %s source expects %s, got %T", ErrFormat, src, want, got)
}

func baseName(path string) string {
	return filepath.Base(path)
}
