package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/devcraft/internal/presentation/graph"
	"github.com/aretw0/devcraft/pkg/content"
	"github.com/aretw0/devcraft/pkg/domain"
)

func TestGenerateSitemap(t *testing.T) {
	site := &content.Site{
		Nav: []content.Link{
			{Name: "Home", Path: "/"},
			{Name: "Contact", Path: "/contact"},
		},
		Pages: []content.Page{
			{Slug: content.SlugHome, Path: "/", Title: "DevCraft"},
			{Slug: content.SlugContact, Path: "/contact", Title: `Say "hi"`},
			{Slug: content.SlugNotFound, Path: "/404", Title: "Not Found"},
		},
	}

	tests := []struct {
		name     string
		overlay  *graph.Overlay
		contains []string
		excludes []string
	}{
		{
			name: "Shapes and Edges",
			contains: []string{
				`home(("DevCraft <br/> /"))`,
				`contact[/"Say 'hi' <br/> /contact"/]`,
				"home --> contact",
				"home -.-> not_found",
			},
			excludes: []string{"classDef"},
		},
		{
			name:    "Overlay",
			overlay: &graph.Overlay{CurrentPage: content.SlugContact},
			contains: []string{
				"class contact current;",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateSitemap(site, tt.overlay)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateSitemap() = \n%v\nWant substring: %v", got, want)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("GenerateSitemap() = \n%v\nUnexpected substring: %v", got, unwanted)
				}
			}
		})
	}
}

func TestGenerateLifecycle(t *testing.T) {
	got := graph.GenerateLifecycle(&graph.Overlay{CurrentState: domain.StateSubmitting})

	for _, want := range []string{
		"stateDiagram-v2",
		"[*] --> idle",
		"idle --> submitting: valid submit",
		"submitting --> idle: delivery failed",
		"submitted --> idle: reset delay elapsed",
		"note right of submitted: inputs disabled",
		"class submitting current",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("GenerateLifecycle() = \n%v\nWant substring: %v", got, want)
		}
	}
}
