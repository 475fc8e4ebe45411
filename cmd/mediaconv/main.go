package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/JaimeStill/mediaconv/internal/output"
)

// version is overridden at build time via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// execute runs the command line and returns the process exit code.
// Every outcome, including usage errors, is printed to stdout as an envelope.
func execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd(stdin, stdout, stderr)
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		output.Print(stdout, output.Error(err))
		return exitCode(err)
	}
	return exitOK
}
