package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/devcraft/pkg/content"
	"github.com/aretw0/devcraft/pkg/domain"
)

// Overlay contains dynamic data to highlight on a graph.
type Overlay struct {
	// CurrentPage is a page slug drawn as the current node of the site map.
	CurrentPage string
	// CurrentState is a submission state drawn as the current node of the lifecycle.
	CurrentState domain.SubmissionState
}

// Edge is one arrow of the contact form lifecycle.
type Edge struct {
	From, To domain.SubmissionState
	Label    string
}

// Lifecycle lists the contact form transitions in the order they are drawn.
var Lifecycle = []Edge{
	{domain.StateIdle, domain.StateIdle, "edit / invalid submit"},
	{domain.StateIdle, domain.StateSubmitting, "valid submit"},
	{domain.StateSubmitting, domain.StateSubmitted, "delivered"},
	{domain.StateSubmitting, domain.StateIdle, "delivery failed"},
	{domain.StateSubmitted, domain.StateIdle, "reset delay elapsed"},
}

// GenerateSitemap produces a Mermaid flowchart of the navigation: the brand
// root links to every nav entry, and pages outside the nav hang off it dotted.
// Node shapes:
// - Home: ((Circle))
// - Contact: [/Parallelogram/] since it takes input
// - Default: [Rectangle]
func GenerateSitemap(site *content.Site, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	linked := make(map[string]bool)
	for _, link := range site.Nav {
		page, ok := site.PageByPath(link.Path)
		if !ok {
			continue
		}
		linked[page.Slug] = true
	}

	for _, page := range site.Pages {
		id := sanitizeMermaidID(page.Slug)

		opener, closer := "[", "]"
		switch page.Slug {
		case content.SlugHome:
			opener, closer = "((", "))"
		case content.SlugContact:
			opener, closer = "[/", "/]"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s <br/> %s\"%s\n", id, opener, escape(page.Title), page.Path, closer))

		if page.Slug == content.SlugHome {
			continue
		}
		arrow := "-->"
		if !linked[page.Slug] {
			arrow = "-.->"
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", sanitizeMermaidID(content.SlugHome), arrow, id))
	}

	if overlay != nil && overlay.CurrentPage != "" {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(overlay.CurrentPage)))
	}

	return sb.String()
}

// GenerateLifecycle produces a Mermaid state diagram of the contact form.
// Disabled states carry a note, and the overlay highlights the current state.
func GenerateLifecycle(overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("stateDiagram-v2\n")
	sb.WriteString(fmt.Sprintf("    [*] --> %s\n", domain.StateIdle))

	for _, e := range Lifecycle {
		sb.WriteString(fmt.Sprintf("    %s --> %s: %s\n", e.From, e.To, e.Label))
	}
	for _, st := range []domain.SubmissionState{domain.StateSubmitting, domain.StateSubmitted} {
		if st.Disabled() {
			sb.WriteString(fmt.Sprintf("    note right of %s: inputs disabled\n", st))
		}
	}

	if overlay != nil && overlay.CurrentState != "" {
		sb.WriteString("\n    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000\n")
		sb.WriteString(fmt.Sprintf("    class %s current\n", overlay.CurrentState))
	}

	return sb.String()
}

func escape(label string) string {
	return strings.ReplaceAll(label, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
