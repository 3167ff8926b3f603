package toctree

import (
	"log/slog"
	"path"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/doctree"
	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/render"
)

// Environment is the read-only document lookup the resolver needs.
type Environment interface {
	Doctree(name string) (*doctree.Doctree, error)
	Docnames() []string
}

// Resolver turns toctree declarations into navigation trees for a page.
type Resolver struct {
	env        Environment
	linkSuffix string
}

// NewResolver creates a Resolver; linkSuffix is appended to document names
// to form their output URIs.
func NewResolver(env Environment, linkSuffix string) *Resolver {
	return &Resolver{env: env, linkSuffix: linkSuffix}
}

// node is an entry before it is pruned and given a URL.
type node struct {
	title    string
	docname  string
	anchor   string
	external string
	level    int
	current  bool
	onPath   bool
	children []*node
}

type resolution struct {
	sourceDoc   string
	currentPage string
	opts        effective
}

// Resolve builds the tree for decl, declared in sourceDoc, as seen from
// currentPage. It returns nil when the declaration contributes nothing:
// it is hidden, empty, or every entry was skipped.
func (r *Resolver) Resolve(decl *doctree.Declaration, sourceDoc, currentPage string, opts Options) (*render.Tree, error) {
	eff := opts.effectiveFor(decl.MaxDepth, decl.TitlesOnly, decl.IncludeHidden)
	if decl.Hidden && !eff.includeHidden {
		return nil, nil
	}

	res := &resolution{sourceDoc: sourceDoc, currentPage: currentPage, opts: eff}
	nodes, err := r.entries(res, decl, sourceDoc, 1, map[string]bool{sourceDoc: true})
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, nil
	}

	markPath(nodes, currentPage)
	nodes = prune(nodes, eff.depth, eff.collapse)

	items := make([]*render.Item, 0, len(nodes))
	for _, n := range nodes {
		items = append(items, r.toItem(n, currentPage))
	}
	return &render.Tree{Lists: []*render.List{{Caption: decl.Caption, Items: items}}}, nil
}

// entries resolves the entries of decl, which lives in owner, at level.
// visiting holds the documents on the current recursion path.
func (r *Resolver) entries(res *resolution, decl *doctree.Declaration, owner string, level int, visiting map[string]bool) ([]*node, error) {
	var out []*node
	for _, entry := range decl.Entries {
		target := strings.TrimSpace(entry.Target)
		switch {
		case isExternal(target):
			title := entry.Title
			if title == "" {
				title = target
			}
			out = append(out, &node{title: title, external: target, level: level})
			continue
		case target == doctree.SelfTarget:
			title, err := r.title(owner, entry.Title)
			if err != nil {
				return nil, err
			}
			out = append(out, &node{title: title, docname: owner, level: level})
			continue
		}

		var docnames []string
		if decl.Glob && hasMagic(target) {
			docnames = r.expandGlob(owner, target)
			if len(docnames) == 0 {
				slog.Warn("Toctree glob pattern matched no documents",
					logfields.Docname(owner), logfields.Target(target))
			}
		} else {
			docnames = []string{joinDocname(owner, target)}
		}

		for _, name := range docnames {
			n, err := r.document(res, name, entry.Title, owner, level, visiting)
			if err != nil {
				return nil, err
			}
			if n != nil {
				out = append(out, n)
			}
		}
	}
	return out, nil
}

// document resolves one document entry with its sections and nested toctrees.
// Missing and circular references are warned about and skipped.
func (r *Resolver) document(res *resolution, name, explicitTitle, owner string, level int, visiting map[string]bool) (*node, error) {
	if visiting[name] {
		slog.Warn("Circular toctree reference, skipping",
			logfields.Docname(owner), logfields.Target(name))
		return nil, nil
	}

	tree, err := r.env.Doctree(name)
	if err != nil {
		if errors.HasCategory(err, errors.CategoryNotFound) {
			slog.Warn("Toctree contains reference to nonexisting document",
				logfields.Docname(owner), logfields.Target(name))
			return nil, nil
		}
		// An unreadable document only loses its own entry.
		slog.Warn("Toctree entry could not be loaded, skipping",
			logfields.Docname(owner), logfields.Target(name), logfields.Error(err))
		return nil, nil
	}

	title := explicitTitle
	if title == "" {
		title = tree.Title
	}
	n := &node{title: title, docname: name, level: level}

	if !res.opts.titlesOnly {
		n.children = sectionNodes(name, tree.Sections, level+1)
	}

	visiting[name] = true
	defer delete(visiting, name)
	for _, decl := range tree.Declarations {
		if decl.Hidden && !res.opts.includeHidden {
			continue
		}
		children, err := r.entries(res, decl, name, level+1, visiting)
		if err != nil {
			return nil, err
		}
		n.children = append(n.children, children...)
	}
	return n, nil
}

func (r *Resolver) title(name, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	tree, err := r.env.Doctree(name)
	if err != nil {
		return "", err
	}
	return tree.Title, nil
}

func (r *Resolver) expandGlob(owner, pattern string) []string {
	full := joinDocname(owner, pattern)
	var matches []string
	for _, name := range r.env.Docnames() {
		if name == owner {
			continue
		}
		if ok, _ := path.Match(full, name); ok {
			matches = append(matches, name)
		}
	}
	return matches
}

func (r *Resolver) toItem(n *node, currentPage string) *render.Item {
	item := &render.Item{
		Title:    n.title,
		Level:    n.level,
		External: n.external != "",
		Current:  n.current,
		OnPath:   n.onPath,
	}
	switch {
	case n.external != "":
		item.URL = n.external
	case n.docname == currentPage:
		item.URL = "#" + n.anchor
	default:
		item.URL = render.RelativeURI(
			render.TargetURI(currentPage, r.linkSuffix),
			render.TargetURI(n.docname, r.linkSuffix))
		if n.anchor != "" {
			item.URL += "#" + n.anchor
		}
	}
	for _, c := range n.children {
		item.Children = append(item.Children, r.toItem(c, currentPage))
	}
	return item
}

func sectionNodes(docname string, sections []*doctree.Section, level int) []*node {
	var out []*node
	for _, s := range sections {
		out = append(out, &node{
			title:    s.Title,
			docname:  docname,
			anchor:   s.Anchor,
			level:    level,
			children: sectionNodes(docname, s.Children, level+1),
		})
	}
	return out
}

// markPath flags the entry for currentPage and its ancestors.
func markPath(nodes []*node, currentPage string) bool {
	found := false
	for _, n := range nodes {
		n.current = n.external == "" && n.anchor == "" && n.docname == currentPage
		below := markPath(n.children, currentPage)
		n.onPath = n.current || below
		found = found || n.onPath
	}
	return found
}

// prune drops levels deeper than depth (0 means unbounded) and, when
// collapsing, the children of entries off the current path.
func prune(nodes []*node, depth int, collapse bool) []*node {
	var out []*node
	for _, n := range nodes {
		if depth > 0 && n.level > depth {
			continue
		}
		if collapse && !n.onPath {
			n.children = nil
		} else {
			n.children = prune(n.children, depth, collapse)
		}
		out = append(out, n)
	}
	return out
}

// joinDocname resolves target against the directory of owner. A leading
// slash makes target relative to the source root.
func joinDocname(owner, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(path.Clean(target), "/")
	}
	return path.Clean(path.Join(path.Dir(owner), target))
}

func isExternal(target string) bool {
	return strings.Contains(target, "://") || strings.HasPrefix(target, "mailto:")
}

func hasMagic(s string) bool {
	return strings.ContainsAny(s, "*?[")
}
