package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func versionCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(c.stdout, "snipvault version %s\n", version)
			fmt.Fprintf(c.stdout, "  commit: %s\n", commit)
			fmt.Fprintf(c.stdout, "  built:  %s\n", date)
		},
	}
}
