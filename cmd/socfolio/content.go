package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pkt.systems/socfolio/internal/content"
)

func newContentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Inspect portfolio content",
	}
	cmd.AddCommand(newContentCheckCmd())
	return cmd
}

func newContentCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [path]",
		Short: "Validate a CUE content file (the built-in content when no path is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			cnt, err := content.Load(path)
			if err != nil {
				return err
			}
			if path == "" {
				path = "built-in"
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d projects, %d commands, %d intel briefs)\n",
				path, len(cnt.Projects), len(cnt.Terminal.Commands), len(cnt.Intel.Briefs))
			return err
		},
	}
}
