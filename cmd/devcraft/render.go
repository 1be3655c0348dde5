package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/devcraft/pkg/content"
	"github.com/aretw0/devcraft/pkg/site"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render [slug]",
	Short: "Render pages to HTML",
	Long: `Renders one page to stdout, or with --out every page into a directory
(index.html for the home page, <slug>/index.html for the others).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := loadContent(cmd)
		if err != nil {
			return err
		}
		pretty, _ := cmd.Flags().GetBool("pretty")
		r, err := site.New(data, site.WithPretty(pretty))
		if err != nil {
			return err
		}

		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			slug := content.SlugHome
			if len(args) > 0 {
				slug = args[0]
			}
			return r.Render(cmd.OutOrStdout(), slug, nil)
		}

		slugs := r.Slugs()
		if len(args) > 0 {
			slugs = args
		}
		for _, slug := range slugs {
			page, ok := data.Page(slug)
			if !ok {
				return fmt.Errorf("unknown page %q", slug)
			}
			var buf bytes.Buffer
			if err := r.Render(&buf, slug, nil); err != nil {
				return err
			}
			target := filepath.Join(out, outputPath(page))
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(target, buf.Bytes(), 0o644); err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "wrote", target)
		}
		return nil
	},
}

func outputPath(p content.Page) string {
	switch {
	case p.Slug == content.SlugNotFound:
		return "404.html"
	case p.Path == "/":
		return "index.html"
	}
	return filepath.Join(filepath.FromSlash(p.Path[1:]), "index.html")
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().Bool("pretty", false, "Indent the generated HTML")
	renderCmd.Flags().StringP("out", "o", "", "Write every page into this directory")
	renderCmd.Flags().String("content", "", "Content file to use instead of the embedded one")
}
