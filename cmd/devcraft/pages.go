package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/aretw0/devcraft/pkg/content"
	"github.com/spf13/cobra"
)

var pagesCmd = &cobra.Command{
	Use:   "pages",
	Short: "List the site's pages",
	RunE: func(cmd *cobra.Command, args []string) error {
		site, err := loadContent(cmd)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SLUG\tPATH\tTITLE")
		for _, p := range site.Pages {
			fmt.Fprintf(w, "%s\t%s\t%s\n", p.Slug, p.Path, p.Title)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(pagesCmd)
	pagesCmd.Flags().String("content", "", "Content file to use instead of the embedded one")
}

// loadContent returns the --content file when given, otherwise the embedded site.
func loadContent(cmd *cobra.Command) (*content.Site, error) {
	path, _ := cmd.Flags().GetString("content")
	if path == "" {
		return content.Load()
	}
	return content.LoadFile(path)
}
