// Package site assembles the per-page template context: navigation
// fragments, source links, sidebars and project metadata.
package site

import (
	"bytes"
	"html/template"
	"log/slog"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/linkcode"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/render"
	"git.home.luguber.info/inful/docsite/internal/toctree"
)

// Documents is what the hooks need from the document environment.
type Documents interface {
	Has(name string) bool
	Title(name string) (string, error)
}

// SourceLinker resolves a symbol to a source URL.
type SourceLinker interface {
	Resolve(domain, module, fullname string) (string, bool)
}

// NavLink is a main navigation link as seen from one page.
type NavLink struct {
	Title   string
	URL     string
	Current bool
}

// Hooks builds template contexts for pages.
type Hooks struct {
	cfg       *config.Config
	docs      Documents
	fragments *toctree.FragmentRenderer
	links     SourceLinker
}

// New creates Hooks. links may be nil when source links are not configured.
func New(cfg *config.Config, docs Documents, fragments *toctree.FragmentRenderer, links SourceLinker) *Hooks {
	return &Hooks{cfg: cfg, docs: docs, fragments: fragments, links: links}
}

// PageContext returns the template context for pagename.
func (h *Hooks) PageContext(pagename string) map[string]any {
	ctx := map[string]any{
		"pagename":       pagename,
		"project":        h.cfg.Project.Name,
		"author":         h.cfg.Project.Author,
		"copyright":      h.cfg.Project.Copyright,
		"docs_version":   h.cfg.DocsVersion(),
		"theme":          h.cfg.Theme,
		"opengraph":      h.cfg.OpenGraph,
		"css_files":      h.cfg.HTML.CSSFiles,
		"js_files":       h.cfg.HTML.JSFiles,
		"main_nav_links": h.navLinks(pagename),
		"sidebars":       MatchSidebars(h.cfg.HTML.Sidebars, pagename),
	}
	if h.docs.Has(pagename) {
		if title, err := h.docs.Title(pagename); err == nil {
			ctx["title"] = title
		}
	}
	for name, fn := range h.FuncMap(pagename) {
		ctx[name] = fn
	}
	return ctx
}

// FuncMap returns the template functions bound to pagename.
func (h *Hooks) FuncMap(pagename string) template.FuncMap {
	return template.FuncMap{
		"toctree_from_doc": func(docname string, kv ...any) (template.HTML, error) {
			return h.toctreeFromDoc(pagename, docname, kv...)
		},
		"source_link": func(module, fullname string) string {
			return h.sourceLink(module, fullname)
		},
	}
}

// RenderPage executes tmpl for pagename. The template may call the page
// functions directly; they are rebound on a clone, so tmpl can be shared.
func (h *Hooks) RenderPage(pagename string, tmpl *template.Template) (string, error) {
	bound, err := tmpl.Clone()
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryRender, "failed to clone page template").Build()
	}
	bound = bound.Funcs(h.FuncMap(pagename))

	var buf bytes.Buffer
	if err := bound.Execute(&buf, h.PageContext(pagename)); err != nil {
		return "", errors.WrapError(err, errors.CategoryRender, "failed to render page").
			WithContext("page", pagename).Build()
	}
	return buf.String(), nil
}

// ParseTemplate parses a page template with the page functions declared.
func (h *Hooks) ParseTemplate(name, text string) (*template.Template, error) {
	tmpl, err := template.New(name).Funcs(h.FuncMap("")).Parse(text)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRender, "invalid page template").
			WithContext("template", name).Build()
	}
	return tmpl, nil
}

func (h *Hooks) toctreeFromDoc(pagename, docname string, kv ...any) (template.HTML, error) {
	opts, err := ParseToctreeOptions(kv...)
	if err != nil {
		return "", err
	}
	out, err := h.fragments.RenderFragment(pagename, docname, opts)
	if err != nil {
		return "", err
	}
	// #nosec G203 -- the fragment is built from escaped html nodes
	return template.HTML(out), nil
}

func (h *Hooks) sourceLink(module, fullname string) string {
	if h.links == nil {
		return ""
	}
	url, ok := h.links.Resolve(linkcode.Domain, module, fullname)
	if !ok {
		return ""
	}
	return url
}

// navLinks resolves "/docname" targets relative to pagename. Other URLs are
// passed through.
func (h *Hooks) navLinks(pagename string) []NavLink {
	links := make([]NavLink, 0, len(h.cfg.Theme.MainNavLinks))
	suffix := h.cfg.HTML.LinkSuffix
	for _, l := range h.cfg.Theme.MainNavLinks {
		link := NavLink{Title: l.Title, URL: l.URL}
		if target := strings.TrimPrefix(l.URL, "/"); target != l.URL && h.docs.Has(target) {
			link.Current = target == pagename
			if link.Current {
				link.URL = "#"
			} else {
				link.URL = render.RelativeURI(render.TargetURI(pagename, suffix), render.TargetURI(target, suffix))
			}
		} else if strings.HasPrefix(l.URL, "/") {
			slog.Debug("Navigation link target is not a document", logfields.Page(pagename), logfields.Target(l.URL))
		}
		links = append(links, link)
	}
	return links
}
