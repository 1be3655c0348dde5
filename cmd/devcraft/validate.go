package main

import (
	"fmt"
	"io"

	"github.com/aretw0/devcraft/pkg/site"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check configuration, content and templates",
	Long: `Loads the configuration (defaults, --config, environment), parses the content
and renders every page once. Any problem is reported and the command fails.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadConfig(cmd); err != nil {
			return fmt.Errorf("configuration: %w", err)
		}
		data, err := loadContent(cmd)
		if err != nil {
			return fmt.Errorf("content: %w", err)
		}
		r, err := site.New(data)
		if err != nil {
			return fmt.Errorf("templates: %w", err)
		}
		for _, slug := range r.Slugs() {
			if err := r.Render(io.Discard, slug, nil); err != nil {
				return fmt.Errorf("page %s: %w", slug, err)
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration and %d pages are valid! ✅\n", len(r.Slugs()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().String("content", "", "Content file to use instead of the embedded one")
}
