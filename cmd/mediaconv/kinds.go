package main

import (
	"github.com/spf13/cobra"

	"github.com/JaimeStill/mediaconv/internal/output"
	"github.com/JaimeStill/mediaconv/pkg/convert"
)

func newKindsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List recognized conversion kinds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kinds := convert.Kinds()
			names := make([]string, len(kinds))
			for i, k := range kinds {
				names[i] = k.String()
			}
			return output.Print(cmd.OutOrStdout(), output.Success(names))
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return output.Print(cmd.OutOrStdout(), output.Success(map[string]string{"version": version}))
		},
	}
}
