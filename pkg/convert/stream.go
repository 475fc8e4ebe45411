package convert

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
)

// SniffLimit is the number of leading bytes peeked from a live stream for
// content identification.
const SniffLimit = 3072

// convertURLStream serves urlToStream without buffering the response body.
// Identification runs on a peeked prefix that is replayed to the reader.
func (c *Converter) convertURLStream(ctx context.Context, input any, opts Options) (*Result, error) {
	url, err := stringInput(SourceURL, input)
	if err != nil {
		return nil, err
	}

	body, size, err := c.fetcher.Stream(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	if c.maxPayload > 0 && size > c.maxPayload {
		body.Close()
		return nil, c.tooLarge()
	}

	buffered := bufio.NewReaderSize(body, SniffLimit)
	head, err := buffered.Peek(SniffLimit)
	if err != nil && !errors.Is(err, io.EOF) {
		body.Close()
		return nil, fmt.Errorf("read stream head: %w", err)
	}

	meta := c.identify(head, opts.Filename)
	meta.FileSize = max(size, 0)

	stream := &liveStream{
		r:      &boundedReader{r: buffered, remaining: c.maxPayload, limit: c.maxPayload},
		closer: body,
	}
	result := newResult(opts.Type, meta, io.ReadCloser(stream))

	if opts.SaveFilePath != "" {
		if err := c.persist(ctx, result, opts.SaveFilePath); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// liveStream pairs a wrapped reader with the response body that must be closed.
type liveStream struct {
	r      io.Reader
	closer io.Closer
}

func (s *liveStream) Read(p []byte) (int, error) { return s.r.Read(p) }

func (s *liveStream) Close() error { return s.closer.Close() }

// boundedReader fails with ErrPayloadTooLarge once more than limit bytes have
// been read. A zero limit disables the bound.
type boundedReader struct {
	r         io.Reader
	remaining int64
	limit     int64
}

func (b *boundedReader) Read(p []byte) (int, error) {
	if b.limit <= 0 {
		return b.r.Read(p)
	}
	if b.remaining < 0 {
		return 0, fmt.Errorf("%w: stream exceeded %d bytes", ErrPayloadTooLarge, b.limit)
	}

	if int64(len(p)) > b.remaining+1 {
		p = p[:b.remaining+1]
	}
	n, err := b.r.Read(p)
	b.remaining -= int64(n)
	if b.remaining < 0 {
		return n + int(b.remaining), fmt.Errorf("%w: stream exceeded %d bytes", ErrPayloadTooLarge, b.limit)
	}
	return n, err
}
