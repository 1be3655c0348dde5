package content

import (
	"fmt"
	"strings"
)

// Markdown renders the document as a single markdown overview, for terminals.
func (s *Site) Markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n%s\n\n", s.Brand.Name, s.Brand.Blurb)

	b.WriteString("## Pages\n\n| Path | Title |\n|---|---|\n")
	for _, p := range s.Pages {
		fmt.Fprintf(&b, "| `%s` | %s |\n", p.Path, strings.ReplaceAll(p.Title, "|", "\\|"))
	}

	b.WriteString("\n## Services\n\n")
	for _, svc := range s.Services {
		fmt.Fprintf(&b, "### %s\n\n%s\n\n", svc.Title, svc.Description)
		for _, f := range svc.Features {
			fmt.Fprintf(&b, "- %s\n", f)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Process\n\n")
	for _, st := range s.Process {
		fmt.Fprintf(&b, "%s. **%s**: %s\n", strings.TrimLeft(st.Step, "0"), st.Title, st.Description)
	}

	b.WriteString("\n## Portfolio\n\n")
	for _, p := range s.Projects {
		star := ""
		if p.Featured {
			star = " ★"
		}
		fmt.Fprintf(&b, "- **%s**%s (%s): %s\n", p.Title, star, p.Category, strings.Join(p.Technologies, ", "))
	}
	fmt.Fprintf(&b, "\n### %s (%s)\n\n%s\n\n", s.Product.Title, s.Product.Status, s.Product.Tagline)

	b.WriteString("## Skills\n\n")
	for _, sk := range s.About.Skills {
		fmt.Fprintf(&b, "- %s: %d%%\n", sk.Name, sk.Level)
	}

	b.WriteString("\n## Contact\n\n")
	for _, info := range s.Contact.Info {
		if info.Href != "" {
			fmt.Fprintf(&b, "- %s: [%s](%s)\n", info.Label, info.Value, info.Href)
			continue
		}
		fmt.Fprintf(&b, "- %s: %s\n", info.Label, info.Value)
	}

	return b.String()
}
