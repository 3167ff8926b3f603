package render

import (
	"bytes"
	"fmt"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Fragment renders t as a standalone HTML fragment. An empty tree renders
// as the empty string.
func Fragment(t *Tree) (string, error) {
	if t.Empty() {
		return "", nil
	}
	var buf bytes.Buffer
	for _, l := range t.Lists {
		for _, n := range listNodes(l) {
			if err := html.Render(&buf, n); err != nil {
				return "", fmt.Errorf("render toctree list: %w", err)
			}
		}
	}
	return buf.String(), nil
}

func listNodes(l *List) []*html.Node {
	var nodes []*html.Node
	if l.Caption != "" {
		p := element(atom.P, "class", "caption", "role", "heading")
		span := element(atom.Span, "class", "caption-text")
		span.AppendChild(textNode(l.Caption))
		p.AppendChild(span)
		nodes = append(nodes, p)
	}
	return append(nodes, bulletList(l.Items))
}

func bulletList(items []*Item) *html.Node {
	ul := element(atom.Ul)
	if containsPath(items) {
		setAttr(ul, "class", "current")
	}
	for _, it := range items {
		ul.AppendChild(listItem(it))
	}
	return ul
}

func listItem(it *Item) *html.Node {
	liClass := fmt.Sprintf("toctree-l%d", it.Level)
	if it.OnPath {
		liClass += " current"
	}
	li := element(atom.Li, "class", liClass)

	aClass := "reference internal"
	if it.External {
		aClass = "reference external"
	}
	if it.Current {
		aClass = "current " + aClass
	}
	a := element(atom.A, "class", aClass, "href", it.URL)
	a.AppendChild(textNode(it.Title))
	li.AppendChild(a)

	if len(it.Children) > 0 {
		li.AppendChild(bulletList(it.Children))
	}
	return li
}

func element(a atom.Atom, kv ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(kv); i += 2 {
		setAttr(n, kv[i], kv[i+1])
	}
	return n
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
