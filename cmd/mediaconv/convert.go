package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/encoding/charmap"

	"github.com/JaimeStill/mediaconv/internal/config"
	"github.com/JaimeStill/mediaconv/internal/infrastructure"
	"github.com/JaimeStill/mediaconv/internal/output"
	"github.com/JaimeStill/mediaconv/pkg/convert"
	"github.com/JaimeStill/mediaconv/pkg/logging"
)

// stdinArg selects standard input as the conversion input.
const stdinArg = "-"

type convertFlags struct {
	kind        string
	filename    string
	save        string
	inspect     bool
	metricsFile string
}

func newConvertCmd(configPath *string) *cobra.Command {
	var flags convertFlags

	cmd := &cobra.Command{
		Use:   "convert <input>",
		Short: "Convert one input and print the result envelope",
		Long: `Convert one input according to --type, a kind name of the form <source>To<Target>.

Sources: buffer, base64, base64Url, binary, path, stream, url, auto.
Targets: Buffer, Base64, Base64Url, Binary, Stream.

Use "-" as input to read from standard input. Buffer and stream sources given
on the command line use the argument's bytes. A binary source read from
standard input maps each byte to the character with the same code point.
Stream results are drained and reported without data.`,
		Example: `  mediaconv convert ./photo.jpg --type pathToBase64Url
  mediaconv convert https://example.com/a.pdf --type urlToStream --save a.pdf
  cat clip.webm | mediaconv convert - --type streamToBase64 --inspect`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, *configPath, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.kind, "type", "t", "", "conversion kind, e.g. pathToBase64")
	cmd.Flags().StringVar(&flags.filename, "filename", "", "file name that determines the reported MIME type and extension")
	cmd.Flags().StringVar(&flags.save, "save", "", "write the rendered result to this path")
	cmd.Flags().BoolVar(&flags.inspect, "inspect", false, "include content hash, image dimensions and PDF page count")
	cmd.Flags().StringVar(&flags.metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile after converting")
	cmd.MarkFlagRequired("type")

	return cmd
}

func runConvert(cmd *cobra.Command, configPath, arg string, flags convertFlags) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Finalize(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger := logging.NewWithWriter(&cfg.Logging, cmd.ErrOrStderr())
	if cfg.Logging.File != "" {
		logger = logging.New(&cfg.Logging)
	}

	infra, err := infrastructure.NewWithLogger(cfg, logger)
	if err != nil {
		return err
	}

	input, err := prepareInput(flags.kind, arg, cmd.InOrStdin())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	result, err := infra.Converter.Convert(ctx, input, convert.Options{
		Type:         flags.kind,
		Filename:     flags.filename,
		SaveFilePath: flags.save,
		Inspect:      flags.inspect,
	})

	if werr := infra.Metrics.WriteTextfile(flags.metricsFile); werr != nil {
		logger.Warn("metrics export failed", "error", werr)
	}
	if err != nil {
		return err
	}

	if err := settle(ctx, result); err != nil {
		return err
	}

	return output.Print(cmd.OutOrStdout(), output.Success(result))
}

// prepareInput turns the command-line argument into the Go value the
// requested source form expects.
func prepareInput(kind, arg string, stdin io.Reader) (any, error) {
	k, err := convert.ParseKind(kind)
	if err != nil {
		// Convert reports the unsupported kind.
		return arg, nil
	}

	if arg != stdinArg {
		switch k.Source {
		case convert.SourceBuffer:
			return []byte(arg), nil
		case convert.SourceStream:
			return io.NopCloser(strings.NewReader(arg)), nil
		default:
			return arg, nil
		}
	}

	switch k.Source {
	case convert.SourceStream, convert.SourceAuto:
		return io.NopCloser(bufio.NewReader(stdin)), nil
	case convert.SourceBuffer:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	case convert.SourceBinary:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		text, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return string(text), nil
	default:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return strings.TrimRight(string(data), "\r\n"), nil
	}
}

// settle drains a stream result so the conversion completes before the
// envelope is printed. The envelope never embeds stream data.
func settle(ctx context.Context, result *convert.Result) error {
	rc, ok := result.Stream()
	if !ok {
		return nil
	}
	defer rc.Close()

	n, err := io.Copy(io.Discard, &contextReader{ctx: ctx, r: rc})
	if err != nil {
		return fmt.Errorf("drain stream: %w", err)
	}
	if result.FileSize == 0 {
		result.FileSize = n
	}
	result.FileData = nil
	return nil
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
