package main

import (
	"io"

	"github.com/spf13/cobra"
)

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "mediaconv",
		Short:         "Convert media between buffers, base64, data URIs, binary strings, files, streams and URLs",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&configPath, "config", "", "configuration file (default ./config.toml)")

	root.AddCommand(
		newConvertCmd(&configPath),
		newKindsCmd(),
		newVersionCmd(),
	)

	return root
}
