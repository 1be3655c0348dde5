package main

import (
	"fmt"

	"github.com/aretw0/devcraft/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Print the site content as formatted markdown",
	RunE: func(cmd *cobra.Command, args []string) error {
		site, err := loadContent(cmd)
		if err != nil {
			return err
		}

		width, _ := cmd.Flags().GetInt("width")
		render, err := tui.NewRenderer(width)
		if err != nil {
			return err
		}
		if raw, _ := cmd.Flags().GetBool("raw"); raw {
			fmt.Fprint(cmd.OutOrStdout(), site.Markdown())
			return nil
		}

		out, err := render(site.Markdown())
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(contentCmd)
	contentCmd.Flags().Bool("raw", false, "Print markdown without terminal styling")
	contentCmd.Flags().Int("width", 0, "Wrap width (default: terminal width)")
	contentCmd.Flags().String("content", "", "Content file to use instead of the embedded one")
}
