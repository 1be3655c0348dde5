package content_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/devcraft/pkg/content"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Embedded(t *testing.T) {
	site, err := content.Load()
	require.NoError(t, err)

	assert.Equal(t, "DevCraft", site.Brand.Name)
	assert.Len(t, site.Services, 5)
	for _, svc := range site.Services {
		assert.Len(t, svc.Features, 6, svc.Title)
	}
	assert.Len(t, site.Process, 4)
	assert.Len(t, site.Projects, 6)
	assert.Len(t, site.FeaturedProjects(), 2)
	assert.Len(t, site.OtherProjects(), 4)
	assert.Len(t, site.About.Skills, 5)
	assert.Len(t, site.About.Milestones, 6)
	assert.Len(t, site.Why.Reasons, 6)
	assert.Len(t, site.TechStack.Frontend, 4)
	assert.Len(t, site.TechStack.Backend, 4)
	assert.Equal(t, "Coming Soon", site.Product.Status)

	want := []content.ContactInfo{
		{Label: "Email", Value: "hello@devcraft.com", Href: "mailto:hello@devcraft.com"},
		{Label: "Phone", Value: "+1 (555) 123-4567", Href: "tel:+15551234567"},
		{Label: "Location", Value: "Remote-First Team"},
	}
	if diff := cmp.Diff(want, site.Contact.Info); diff != "" {
		t.Errorf("contact info mismatch (-want +got):\n%s", diff)
	}

	levels := make([]int, 0, len(site.About.Skills))
	for _, sk := range site.About.Skills {
		levels = append(levels, sk.Level)
	}
	if diff := cmp.Diff([]int{95, 90, 85, 80, 75}, levels); diff != "" {
		t.Errorf("skill levels mismatch (-want +got):\n%s", diff)
	}
}

func TestSite_PageLookup(t *testing.T) {
	site := content.Default()

	page, ok := site.Page(content.SlugContact)
	require.True(t, ok)
	assert.Equal(t, "/contact", page.Path)
	assert.Equal(t, "Contact Us - DevCraft | Get in Touch", page.Title)

	page, ok = site.PageByPath("/")
	require.True(t, ok)
	assert.Equal(t, content.SlugHome, page.Slug)
	assert.Equal(t, "DevCraft - Custom Software Development & ERP Solutions", page.Title)

	_, ok = site.PageByPath("/pricing")
	assert.False(t, ok)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name:    "Empty Document",
			doc:     "",
			wantErr: "empty",
		},
		{
			name:    "Unknown Field",
			doc:     "brand: {name: X}\nprices: []\n",
			wantErr: "field prices not found",
		},
		{
			name:    "Multiple Documents",
			doc:     "brand: {name: X}\n---\nbrand: {name: Y}\n",
			wantErr: "multiple YAML documents",
		},
		{
			name:    "Missing Pages",
			doc:     "brand: {name: X}\n",
			wantErr: `missing required page "contact"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := content.Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSite_Validate(t *testing.T) {
	site := content.Default()
	require.NoError(t, site.Validate())

	site.Pages = append(site.Pages, content.Page{Slug: "home", Path: "/", Title: "", Description: "x"})
	site.About.Skills[0].Level = 120
	site.TechStack.Backend[0].Color = "#512bd4"

	err := site.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, `duplicate slug "home"`)
	assert.Contains(t, msg, `duplicate path "/"`)
	assert.Contains(t, msg, "title is required")
	assert.Contains(t, msg, "out of range")
	assert.Contains(t, msg, "not a hex triplet")
}

func TestLoadFile(t *testing.T) {
	_, err := content.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	site := content.Default()
	path := filepath.Join(t.TempDir(), "site.yaml")
	raw, err := os.ReadFile("site.yaml")
	require.NoError(t, err)
	edited := strings.Replace(string(raw), "name: DevCraft", "name: DevCraft Labs", 1)
	require.NoError(t, os.WriteFile(path, []byte(edited), 0o644))

	loaded, err := content.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "DevCraft Labs", loaded.Brand.Name)
	assert.Equal(t, len(site.Pages), len(loaded.Pages))
}

func TestSite_Markdown(t *testing.T) {
	md := content.Default().Markdown()
	assert.True(t, strings.HasPrefix(md, "# DevCraft\n"))
	assert.Contains(t, md, "### Website Development")
	assert.Contains(t, md, "- Phone: [+1 (555) 123-4567](tel:+15551234567)")
	assert.Contains(t, md, "- Location: Remote-First Team")
	assert.Contains(t, md, "| `/contact` | Contact Us - DevCraft \\| Get in Touch |")
}
