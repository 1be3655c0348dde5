package main

import (
	"fmt"

	"github.com/aretw0/devcraft"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of devcraft",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "devcraft version %s\n", devcraft.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
