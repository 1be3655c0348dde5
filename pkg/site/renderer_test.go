package site_test

import (
	"bytes"
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/devcraft/pkg/content"
	"github.com/aretw0/devcraft/pkg/domain"
	"github.com/aretw0/devcraft/pkg/site"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRenderer(t *testing.T, opts ...site.Option) *site.Renderer {
	t.Helper()
	opts = append([]site.Option{site.WithNow(func() time.Time {
		return time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	})}, opts...)
	r, err := site.New(content.Default(), opts...)
	require.NoError(t, err)
	return r
}

func render(t *testing.T, r *site.Renderer, slug string, form *domain.FormState) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, slug, form))
	return buf.String()
}

func TestRenderer_AllPages(t *testing.T) {
	r := newRenderer(t)
	assert.ElementsMatch(t, content.RequiredSlugs, r.Slugs())

	for _, slug := range r.Slugs() {
		t.Run(slug, func(t *testing.T) {
			page, ok := r.Site().Page(slug)
			require.True(t, ok)

			html := render(t, r, slug, nil)
			assert.Contains(t, html, "<title>"+template(page.Title)+"</title>")
			assert.Contains(t, html, `<meta name="description"`)
			assert.Contains(t, html, "&copy; 2026 DevCraft")
			assert.Contains(t, html, `href="/about"`)
		})
	}
}

// template mirrors html/template escaping for the characters used in titles.
func template(s string) string {
	return strings.NewReplacer("&", "&amp;", "'", "&#39;").Replace(s)
}

func TestRenderer_PageSections(t *testing.T) {
	r := newRenderer(t)

	home := render(t, r, content.SlugHome, nil)
	assert.Contains(t, home, "Website Redesign")
	assert.Contains(t, home, "Lightning Fast Delivery")
	assert.Contains(t, home, "background-color: #61dafb")

	portfolio := render(t, r, content.SlugPortfolio, nil)
	assert.Contains(t, portfolio, "DevCraft ERP")
	assert.Contains(t, portfolio, "Coming Soon")
	// Non-featured cards list at most three technologies.
	assert.NotContains(t, portfolio, "<li>Chart.js</li>")

	about := render(t, r, content.SlugAbout, nil)
	assert.Contains(t, about, "width: 95%")
	assert.Contains(t, about, "Building our own Product...")

	services := render(t, r, content.SlugServices, nil)
	assert.Contains(t, services, "24/7 monitoring")
	assert.Contains(t, services, "Discovery")
}

func TestRenderer_ContactForm(t *testing.T) {
	r := newRenderer(t)

	t.Run("Idle With Errors", func(t *testing.T) {
		st := domain.NewFormState("s")
		st.Input = domain.FormInput{Name: "", Email: "a@b.com", Message: "short"}
		st.Errors = domain.ValidationErrors{
			domain.FieldName:    {Field: domain.FieldName, Kind: domain.KindRequired, Message: "Name is required"},
			domain.FieldMessage: {Field: domain.FieldMessage, Kind: domain.KindTooShort, Message: "Message must be at least 10 characters"},
		}

		html := render(t, r, content.SlugContact, st)
		assert.Contains(t, html, `<p class="error">Name is required</p>`)
		assert.Contains(t, html, `<p class="error">Message must be at least 10 characters</p>`)
		assert.Contains(t, html, `value="a@b.com"`)
		assert.Contains(t, html, ">short</textarea>")
		assert.Contains(t, html, site.LabelSend)
		assert.NotContains(t, html, " disabled")
		assert.Contains(t, html, `href="tel:&#43;15551234567"`)
		assert.NotContains(t, html, "ZgotmplZ")
		assert.Contains(t, html, "<p>Remote-First Team</p>")
	})

	t.Run("Submitting Disables Inputs", func(t *testing.T) {
		st := domain.NewFormState("s")
		st.Status = domain.StateSubmitting
		html := render(t, r, content.SlugContact, st)
		assert.Contains(t, html, site.LabelSending)
		assert.Equal(t, 4, strings.Count(html, " disabled"))
	})

	t.Run("Submitted Keeps Values", func(t *testing.T) {
		st := domain.NewFormState("s")
		st.Status = domain.StateSubmitted
		st.Input = domain.FormInput{Name: "Grace Hopper", Email: "grace@example.com", Message: "Please build us a compiler."}
		html := render(t, r, content.SlugContact, st)
		assert.Contains(t, html, site.LabelSent)
		assert.Contains(t, html, `value="Grace Hopper"`)
		assert.Contains(t, html, "Please build us a compiler.")
		assert.Equal(t, 4, strings.Count(html, " disabled"))
	})

	t.Run("Escapes Input", func(t *testing.T) {
		st := domain.NewFormState("s")
		st.Input.Name = `"><script>alert(1)</script>`
		html := render(t, r, content.SlugContact, st)
		assert.NotContains(t, html, "<script>alert(1)</script>")
	})
}

func TestRenderer_Pretty(t *testing.T) {
	plain := render(t, newRenderer(t), content.SlugNotFound, nil)
	pretty := render(t, newRenderer(t, site.WithPretty(true)), content.SlugNotFound, nil)

	assert.NotEqual(t, plain, pretty)
	assert.Contains(t, pretty, "\n  ")
	assert.Contains(t, pretty, "404")
}

func TestRenderer_UnknownPage(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, newRenderer(t).Render(&buf, "pricing", nil))
}

func TestNew_MissingTemplate(t *testing.T) {
	s := content.Default()
	s.Pages = append(s.Pages, content.Page{Slug: "pricing", Path: "/pricing", Title: "Pricing", Description: "x"})
	_, err := site.New(s)
	assert.Error(t, err)
}

func TestAssets(t *testing.T) {
	for _, name := range []string{"app.js", "site.css"} {
		data, err := fs.ReadFile(site.Assets(), name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, data)
	}
}
