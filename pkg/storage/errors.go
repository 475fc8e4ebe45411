// Package storage provides the local filesystem primitives used to read path
// sources and persist conversion results. Writes are atomic: data lands in a
// temporary sibling file that is renamed into place.
package storage

import "errors"

// Storage errors returned by Filesystem methods.
var (
	// ErrNotFound indicates no regular file exists at the requested path.
	// Errors wrapping it also satisfy errors.Is(err, fs.ErrNotExist).
	ErrNotFound = errors.New("storage: file not found")

	// ErrPermissionDenied indicates insufficient permissions to access the file.
	ErrPermissionDenied = errors.New("storage: permission denied")

	// ErrInvalidPath indicates the path is empty or escapes the configured root.
	ErrInvalidPath = errors.New("storage: invalid path")
)
