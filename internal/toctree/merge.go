package toctree

import "git.home.luguber.info/inful/docsite/internal/render"

// Merge combines resolved trees in order. Nil trees are skipped; the first
// non-nil tree is the base and every later tree's lists are appended to it.
// It returns nil when no tree remains.
func Merge(trees ...*render.Tree) *render.Tree {
	var base *render.Tree
	for _, t := range trees {
		if t == nil {
			continue
		}
		if base == nil {
			base = &render.Tree{Lists: append([]*render.List(nil), t.Lists...)}
			continue
		}
		base.Lists = append(base.Lists, t.Lists...)
	}
	return base
}
