package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/regexprobe/version"
)

func newVersionCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "version",
		Args:  cobra.NoArgs,
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			if long, _ := cmd.Flags().GetBool("long"); long {
				fmt.Fprintln(cmd.OutOrStdout(), version.Full())
				return
			}
			fmt.Fprintln(cmd.OutOrStdout(), version.Short())
		},
	}
	c.Flags().Bool("long", false, "Show build details and engine module versions")
	return c
}
