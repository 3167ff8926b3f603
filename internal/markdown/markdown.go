package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"git.home.luguber.info/inful/docsite/internal/doctree"
)

// Outline is the structural summary of a Markdown body.
type Outline struct {
	Title        string
	Sections     []*doctree.Section
	Declarations []*doctree.Declaration
}

// Parse parses a Markdown body (frontmatter already removed) and extracts the
// heading outline and toctree directives. lineOffset is added to reported
// declaration lines so they refer to the original file.
//
// This is an analysis API; it does not render Markdown.
func Parse(body []byte, lineOffset int) (*Outline, error) {
	md := goldmark.New(goldmark.WithParserOptions(
		parser.WithBlockParsers(util.Prioritized(colonFenceParser{}, 710)),
	))
	root := md.Parser().Parse(text.NewReader(body))

	out := &Outline{}
	anchors := newAnchorSet()
	var headings []*doctree.Section

	err := gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.Heading:
			title := strings.TrimSpace(inlineText(node, body))
			headings = append(headings, &doctree.Section{
				Title:  title,
				Anchor: anchors.add(title),
				Level:  node.Level,
			})
			return gmast.WalkSkipChildren, nil
		case *gmast.FencedCodeBlock:
			if !isToctreeFence(node, body) {
				return gmast.WalkSkipChildren, nil
			}
			lines := blockLines(node, body)
			line := lineOffset + blockStartLine(node, body)
			if decl := parseDirective(lines, line); decl != nil {
				out.Declarations = append(out.Declarations, decl)
			}
			return gmast.WalkSkipChildren, nil
		}
		return gmast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	out.Title, out.Sections = nestHeadings(headings)
	return out, nil
}

// nestHeadings builds the section tree. A leading H1 becomes the title and
// its subsections are lifted to the top level.
func nestHeadings(headings []*doctree.Section) (string, []*doctree.Section) {
	type frame struct {
		node  *doctree.Section
		level int
	}
	root := &doctree.Section{}
	stack := []frame{{node: root, level: 0}}
	for _, h := range headings {
		for len(stack) > 1 && stack[len(stack)-1].level >= h.Level {
			stack = stack[:len(stack)-1]
		}
		parent := stack[len(stack)-1].node
		parent.Children = append(parent.Children, h)
		stack = append(stack, frame{node: h, level: h.Level})
	}

	top := root.Children
	if len(top) == 0 || top[0].Level != 1 {
		return "", top
	}
	title := top[0]
	sections := append([]*doctree.Section{}, title.Children...)
	sections = append(sections, top[1:]...)
	title.Children = nil
	return title.Title, sections
}

func inlineText(n gmast.Node, src []byte) string {
	var buf bytes.Buffer
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *gmast.Text:
			buf.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *gmast.String:
			buf.Write(t.Value)
		}
		return gmast.WalkContinue, nil
	})
	return buf.String()
}

func isToctreeFence(n *gmast.FencedCodeBlock, src []byte) bool {
	return string(n.Language(src)) == "{toctree}"
}

func blockLines(n gmast.Node, src []byte) []string {
	segs := n.Lines()
	lines := make([]string, 0, segs.Len())
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		lines = append(lines, strings.TrimRight(string(seg.Value(src)), "\r\n"))
	}
	return lines
}

// blockStartLine returns the 1-based line of the opening fence.
func blockStartLine(n gmast.Node, src []byte) int {
	segs := n.Lines()
	if segs.Len() == 0 {
		if fenced, ok := n.(*gmast.FencedCodeBlock); ok && fenced.Info != nil {
			return bytes.Count(src[:fenced.Info.Segment.Start], []byte("\n")) + 1
		}
		return 0
	}
	// The fence sits on the line before the first content line.
	return bytes.Count(src[:segs.At(0).Start], []byte("\n"))
}
