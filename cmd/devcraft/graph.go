package main

import (
	"fmt"

	"github.com/aretw0/devcraft/internal/presentation/graph"
	"github.com/aretw0/devcraft/pkg/domain"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [sitemap|lifecycle]",
	Short: "Export a Mermaid diagram of the site or the contact form lifecycle",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := "sitemap"
		if len(args) > 0 {
			kind = args[0]
		}
		current, _ := cmd.Flags().GetString("current")
		overlay := &graph.Overlay{}

		switch kind {
		case "sitemap":
			site, err := loadContent(cmd)
			if err != nil {
				return err
			}
			overlay.CurrentPage = current
			fmt.Fprint(cmd.OutOrStdout(), graph.GenerateSitemap(site, overlay))
		case "lifecycle":
			overlay.CurrentState = domain.SubmissionState(current)
			fmt.Fprint(cmd.OutOrStdout(), graph.GenerateLifecycle(overlay))
		default:
			return fmt.Errorf("unknown graph %q: want sitemap or lifecycle", kind)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("current", "", "Page slug or submission state to highlight")
	graphCmd.Flags().String("content", "", "Content file to use instead of the embedded one")
}
