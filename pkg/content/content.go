// Package content holds the static copy of the DevCraft site.
//
// The default document is embedded from site.yaml; LoadFile lets operators
// swap it without rebuilding.
package content

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed site.yaml
var defaultSite []byte

// Link is a named target, internal path or external URL.
type Link struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// Brand identifies the company in the page shell.
type Brand struct {
	Name  string `yaml:"name"`
	Blurb string `yaml:"blurb"`
}

// Page carries the per-route metadata and hero copy.
type Page struct {
	Slug        string `yaml:"slug"`
	Path        string `yaml:"path"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Heading     string `yaml:"heading"`
	Intro       string `yaml:"intro"`
}

// Service is one offering. Summary is the short copy used on the home grid.
type Service struct {
	Title       string   `yaml:"title"`
	ShortTitle  string   `yaml:"short_title"`
	Summary     string   `yaml:"summary"`
	Description string   `yaml:"description"`
	Features    []string `yaml:"features"`
}

// Step is a phase of the delivery process.
type Step struct {
	Step        string `yaml:"step"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// Project is a portfolio entry.
type Project struct {
	Title        string   `yaml:"title"`
	Category     string   `yaml:"category"`
	Description  string   `yaml:"description"`
	Technologies []string `yaml:"technologies"`
	DemoURL      string   `yaml:"demo_url"`
	Featured     bool     `yaml:"featured"`
}

// Product describes the in-house ERP.
type Product struct {
	Title       string   `yaml:"title"`
	Tagline     string   `yaml:"tagline"`
	Description string   `yaml:"description"`
	Status      string   `yaml:"status"`
	Features    []string `yaml:"features"`
}

// Skill is a competence bar on the about page. Level is a percentage.
type Skill struct {
	Name  string `yaml:"name"`
	Level int    `yaml:"level"`
}

// Milestone is a timeline entry.
type Milestone struct {
	Year  string `yaml:"year"`
	Event string `yaml:"event"`
}

// About groups the about page sections.
type About struct {
	Mission    string      `yaml:"mission"`
	Vision     string      `yaml:"vision"`
	Story      []string    `yaml:"story"`
	Skills     []Skill     `yaml:"skills"`
	Milestones []Milestone `yaml:"milestones"`
}

// Tech is a technology badge; Color is a six digit hex value without '#'.
type Tech struct {
	Name  string `yaml:"name"`
	Color string `yaml:"color"`
}

// TechStack splits badges by tier.
type TechStack struct {
	Frontend []Tech `yaml:"frontend"`
	Backend  []Tech `yaml:"backend"`
}

// Reason is a titled blurb.
type Reason struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// Why is the "why choose us" section.
type Why struct {
	Intro     string   `yaml:"intro"`
	Highlight Reason   `yaml:"highlight"`
	Reasons   []Reason `yaml:"reasons"`
}

// CTA is the call to action closing most pages.
type CTA struct {
	Heading   string   `yaml:"heading"`
	Body      string   `yaml:"body"`
	Primary   Link     `yaml:"primary"`
	Secondary Link     `yaml:"secondary"`
	Badges    []string `yaml:"badges"`
}

// ContactInfo is a reachable channel. Href is empty for channels that are not links.
type ContactInfo struct {
	Label string `yaml:"label"`
	Value string `yaml:"value"`
	Href  string `yaml:"href"`
}

// Contact is the copy around the contact form.
type Contact struct {
	Heading string        `yaml:"heading"`
	Intro   string        `yaml:"intro"`
	Info    []ContactInfo `yaml:"info"`
	Badge   Reason        `yaml:"badge"`
}

// Footer lists the shell's footer columns.
type Footer struct {
	Company  []Link `yaml:"company"`
	Services []Link `yaml:"services"`
	Social   []Link `yaml:"social"`
}

// Site is the whole content document.
type Site struct {
	Brand     Brand     `yaml:"brand"`
	Nav       []Link    `yaml:"nav"`
	Pages     []Page    `yaml:"pages"`
	Services  []Service `yaml:"services"`
	Process   []Step    `yaml:"process"`
	Projects  []Project `yaml:"projects"`
	Product   Product   `yaml:"product"`
	About     About     `yaml:"about"`
	TechStack TechStack `yaml:"tech_stack"`
	Why       Why       `yaml:"why"`
	CTA       CTA       `yaml:"cta"`
	Contact   Contact   `yaml:"contact"`
	Footer    Footer    `yaml:"footer"`
}

// Page slugs every site must define.
const (
	SlugHome      = "home"
	SlugAbout     = "about"
	SlugServices  = "services"
	SlugPortfolio = "portfolio"
	SlugContact   = "contact"
	SlugNotFound  = "not-found"
)

// RequiredSlugs lists the pages the router mounts.
var RequiredSlugs = []string{SlugHome, SlugAbout, SlugServices, SlugPortfolio, SlugContact, SlugNotFound}

// Load parses the embedded document.
func Load() (*Site, error) {
	return Parse(defaultSite)
}

// Default returns the embedded document and panics if it is invalid.
func Default() *Site {
	s, err := Load()
	if err != nil {
		panic(fmt.Sprintf("embedded site content is invalid: %v", err))
	}
	return s
}

// LoadFile parses and validates a document on disk.
func LoadFile(path string) (*Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read content file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a single YAML document, rejecting unknown keys, and validates it.
func Parse(data []byte) (*Site, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Site
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("content document is empty")
		}
		return nil, fmt.Errorf("failed to parse content: %w", err)
	}
	var extra any
	if err := dec.Decode(&extra); err == nil {
		return nil, errors.New("multiple YAML documents are not supported")
	} else if !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed after first YAML document: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

var hexColor = regexp.MustCompile(`^[0-9a-fA-F]{6}$`)

// Validate reports every structural problem in the document.
func (s *Site) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if strings.TrimSpace(s.Brand.Name) == "" {
		add("brand: name is required")
	}

	slugs := make(map[string]bool, len(s.Pages))
	paths := make(map[string]bool, len(s.Pages))
	for i, p := range s.Pages {
		switch {
		case p.Slug == "":
			add("pages[%d]: slug is required", i)
		case slugs[p.Slug]:
			add("pages[%d]: duplicate slug %q", i, p.Slug)
		}
		slugs[p.Slug] = true

		switch {
		case !strings.HasPrefix(p.Path, "/"):
			add("pages[%d] %s: path %q must start with /", i, p.Slug, p.Path)
		case paths[p.Path]:
			add("pages[%d] %s: duplicate path %q", i, p.Slug, p.Path)
		}
		paths[p.Path] = true

		if strings.TrimSpace(p.Title) == "" {
			add("pages[%d] %s: title is required", i, p.Slug)
		}
		if strings.TrimSpace(p.Description) == "" {
			add("pages[%d] %s: description is required", i, p.Slug)
		}
	}
	for _, slug := range RequiredSlugs {
		if !slugs[slug] {
			add("pages: missing required page %q", slug)
		}
	}

	for i, svc := range s.Services {
		if svc.Title == "" {
			add("services[%d]: title is required", i)
		}
	}
	for i, p := range s.Projects {
		if p.Title == "" {
			add("projects[%d]: title is required", i)
		}
	}
	for i, sk := range s.About.Skills {
		if sk.Level < 0 || sk.Level > 100 {
			add("about.skills[%d] %s: level %d out of range 0..100", i, sk.Name, sk.Level)
		}
	}
	for tier, techs := range map[string][]Tech{"frontend": s.TechStack.Frontend, "backend": s.TechStack.Backend} {
		for i, t := range techs {
			if !hexColor.MatchString(t.Color) {
				add("tech_stack.%s[%d] %s: color %q is not a hex triplet", tier, i, t.Name, t.Color)
			}
		}
	}
	for i, info := range s.Contact.Info {
		if info.Label == "" || info.Value == "" {
			add("contact.info[%d]: label and value are required", i)
		}
	}

	return errors.Join(errs...)
}

// Page returns the page with the given slug.
func (s *Site) Page(slug string) (Page, bool) {
	for _, p := range s.Pages {
		if p.Slug == slug {
			return p, true
		}
	}
	return Page{}, false
}

// PageByPath returns the page mounted at path.
func (s *Site) PageByPath(path string) (Page, bool) {
	for _, p := range s.Pages {
		if p.Path == path {
			return p, true
		}
	}
	return Page{}, false
}

// FeaturedProjects returns the projects flagged as featured, in document order.
func (s *Site) FeaturedProjects() []Project {
	return s.filterProjects(true)
}

// OtherProjects returns the remaining projects.
func (s *Site) OtherProjects() []Project {
	return s.filterProjects(false)
}

func (s *Site) filterProjects(featured bool) []Project {
	var out []Project
	for _, p := range s.Projects {
		if p.Featured == featured {
			out = append(out, p)
		}
	}
	return out
}
