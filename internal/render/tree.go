// Package render turns resolved navigation trees into HTML fragments.
package render

// Tree is a resolved navigation tree: one or more captioned lists.
type Tree struct {
	Lists []*List
}

// List is a top-level bullet list with an optional caption.
type List struct {
	Caption string
	Items   []*Item
}

// Item is one navigation entry.
type Item struct {
	Title    string
	URL      string
	Level    int
	External bool
	// Current marks the link to the page being rendered.
	Current bool
	// OnPath marks the current page and all of its ancestors.
	OnPath   bool
	Children []*Item
}

// Empty reports whether the tree has nothing to render.
func (t *Tree) Empty() bool {
	return t == nil || len(t.Lists) == 0
}

func containsPath(items []*Item) bool {
	for _, it := range items {
		if it.OnPath {
			return true
		}
	}
	return false
}
