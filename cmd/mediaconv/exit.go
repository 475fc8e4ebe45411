package main

import (
	"errors"

	"github.com/JaimeStill/mediaconv/pkg/convert"
)

// Process exit codes.
const (
	exitOK          = 0
	exitFailure     = 1
	exitInvalid     = 2
	exitNotFound    = 3
	exitPersistence = 4
)

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, convert.ErrPersistence):
		return exitPersistence
	case errors.Is(err, convert.ErrNotFound):
		return exitNotFound
	case errors.Is(err, convert.ErrUnsupportedConversion),
		errors.Is(err, convert.ErrFormat),
		errors.Is(err, convert.ErrDecode):
		return exitInvalid
	default:
		return exitFailure
	}
}
