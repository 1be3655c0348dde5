package site

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/devcraft/pkg/content"
	"github.com/aretw0/devcraft/pkg/domain"
	"github.com/yosssi/gohtml"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Assets returns the static files served under /static/.
func Assets() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// PageData is what every page template receives.
type PageData struct {
	Site *content.Site
	Page content.Page
	Form *FormView
	Year int
}

// Renderer executes the layout around one template per page.
type Renderer struct {
	site   *content.Site
	pages  map[string]*template.Template
	pretty bool
	now    func() time.Time
}

// Option configures the Renderer.
type Option func(*Renderer)

// WithPretty indents the generated HTML.
func WithPretty(pretty bool) Option {
	return func(r *Renderer) {
		r.pretty = pretty
	}
}

// WithNow sets the time source for the footer year.
func WithNow(now func() time.Time) Option {
	return func(r *Renderer) {
		r.now = now
	}
}

var funcs = template.FuncMap{
	"first": func(n int, items []string) []string {
		if len(items) <= n {
			return items
		}
		return items[:n]
	},
	"href": href,
}

// href lets content links use tel: on top of the schemes html/template trusts.
func href(s string) template.URL {
	for _, prefix := range []string{"/", "#", "http://", "https://", "mailto:", "tel:"} {
		if strings.HasPrefix(s, prefix) {
			return template.URL(s)
		}
	}
	return template.URL("#")
}

// New parses the embedded templates. Every page slug in site must have a template.
func New(site *content.Site, opts ...Option) (*Renderer, error) {
	r := &Renderer{
		site:  site,
		pages: make(map[string]*template.Template, len(site.Pages)),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	base, err := template.New("layout").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/partials.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	for _, p := range site.Pages {
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(templateFS, "templates/pages/"+p.Slug+".html"); err != nil {
			return nil, fmt.Errorf("failed to parse page %s: %w", p.Slug, err)
		}
		r.pages[p.Slug] = t
	}
	return r, nil
}

// Site returns the content the renderer was built with.
func (r *Renderer) Site() *content.Site {
	return r.site
}

// Slugs lists the renderable pages, sorted.
func (r *Renderer) Slugs() []string {
	out := make([]string, 0, len(r.pages))
	for slug := range r.pages {
		out = append(out, slug)
	}
	sort.Strings(out)
	return out
}

// Render writes the page with the given slug. form is only used by the contact page.
func (r *Renderer) Render(w io.Writer, slug string, form *domain.FormState) error {
	t, ok := r.pages[slug]
	if !ok {
		return fmt.Errorf("unknown page %q", slug)
	}
	page, _ := r.site.Page(slug)

	data := PageData{
		Site: r.site,
		Page: page,
		Year: r.now().Year(),
	}
	if slug == content.SlugContact {
		data.Form = NewFormView(form)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("failed to render %s: %w", slug, err)
	}

	out := buf.Bytes()
	if r.pretty {
		out = gohtml.FormatBytes(out)
	}
	_, err := w.Write(out)
	return err
}
