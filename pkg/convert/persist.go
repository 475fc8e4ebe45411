package convert

import (
	"context"
	"fmt"
	"io"
)

// persist writes the rendered result to path. Byte and string results are
// written directly; stream results are piped to the file and replaced by a
// reader over the written file so the caller still receives a usable stream.
func (c *Converter) persist(ctx context.Context, result *Result, path string) error {
	switch data := result.FileData.(type) {
	case []byte:
		if err := c.fs.Write(ctx, path, data); err != nil {
			return fmt.Errorf("%w: %w", ErrPersistence, err)
		}
	case string:
		if err := c.fs.Write(ctx, path, []byte(data)); err != nil {
			return fmt.Errorf("%w: %w", ErrPersistence, err)
		}
	case io.ReadCloser:
		n, err := c.fs.Pipe(ctx, path, data)
		data.Close()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrPersistence, err)
		}

		reopened, err := c.fs.Open(ctx, path)
		if err != nil {
			return fmt.Errorf("%w: reopen %s: %w", ErrPersistence, path, err)
		}
		result.FileData = reopened
		if result.FileSize == 0 {
			result.FileSize = n
		}
	default:
		return fmt.Errorf("%w: unexpected result type %T", ErrPersistence, data)
	}

	c.logger.Debug("result persisted", "path", path, "kind", result.FileType)
	return nil
}
