package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Filesystem reads and writes files on local disk, optionally confined to a root.
type Filesystem struct {
	root   string
	logger *slog.Logger
}

// New creates a Filesystem from a finalized configuration.
// The root, when set, is resolved to an absolute path during construction.
func New(cfg *Config, logger *slog.Logger) (*Filesystem, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var root string
	if cfg.Root != "" {
		abs, err := filepath.Abs(cfg.Root)
		if err != nil {
			return nil, fmt.Errorf("resolve root: %w", err)
		}
		root = abs
	}

	return &Filesystem{
		root:   root,
		logger: logger.With("system", "storage"),
	}, nil
}

// Open returns a reader over the regular file at path. A directory is
// reported as ErrNotFound.
func (f *Filesystem) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	full, err := f.Path(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(full)
	if err != nil {
		return nil, mapError(err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("stat file: %w", err)
	}
	if info.IsDir() {
		file.Close()
		return nil, fmt.Errorf("%w: %s is a directory: %w", ErrNotFound, path, fs.ErrNotExist)
	}

	return file, nil
}

// Write stores data at path, replacing any existing file.
// Parent directories are created as needed.
func (f *Filesystem) Write(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	full, tmp, err := f.prepare(path)
	if err != nil {
		return err
	}

	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write temp file: %w", mapError(err))
	}

	if err := os.Rename(tmp, full); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp file: %w", err)
	}

	f.logger.Debug("file written", "path", full, "bytes", len(data))
	return nil
}

// Pipe copies r into the file at path and returns the number of bytes written.
// The file is only replaced once r is fully consumed.
func (f *Filesystem) Pipe(ctx context.Context, path string, r io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	full, tmp, err := f.prepare(path)
	if err != nil {
		return 0, err
	}

	out, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", mapError(err))
	}

	n, err := io.Copy(out, &contextReader{ctx: ctx, r: r})
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp)
		return 0, fmt.Errorf("copy to temp file: %w", err)
	}

	if err := os.Rename(tmp, full); err != nil {
		os.Remove(tmp)
		return 0, fmt.Errorf("rename temp file: %w", err)
	}

	f.logger.Debug("file piped", "path", full, "bytes", n)
	return n, nil
}

// Path resolves path against the configured root and rejects escapes.
// Without a root the cleaned path is returned unchanged.
func (f *Filesystem) Path(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", ErrInvalidPath
	}

	cleaned := filepath.Clean(path)
	if f.root == "" {
		return cleaned, nil
	}

	if !filepath.IsAbs(cleaned) {
		cleaned = filepath.Join(f.root, cleaned)
	}

	rel, err := filepath.Rel(f.root, cleaned)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s is outside %s", ErrInvalidPath, path, f.root)
	}

	return cleaned, nil
}

func (f *Filesystem) prepare(path string) (full, tmp string, err error) {
	full, err = f.Path(path)
	if err != nil {
		return "", "", err
	}

	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return "", "", fmt.Errorf("create directory: %w", mapError(err))
	}

	tmp = fmt.Sprintf("%s.%s.tmp", full, uuid.NewString())
	return full, tmp, nil
}

func mapError(err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	default:
		return err
	}
}

type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
