package markdown

import (
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// colonFenceParser reads MyST colon fences (":::{name}" ... ":::") into
// FencedCodeBlock nodes, so a ":::{toctree}" block is handled exactly like
// its backtick form. Colon fences nest by length: the closing run must be
// at least as long as the opening one.
type colonFenceParser struct{}

type colonFenceData struct {
	indent int
	length int
	node   gmast.Node
}

var colonFenceKey = parser.NewContextKey()

func (colonFenceParser) Trigger() []byte {
	return []byte{':'}
}

func (colonFenceParser) Open(_ gmast.Node, reader text.Reader, pc parser.Context) (gmast.Node, parser.State) {
	line, segment := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || line[pos] != ':' {
		return nil, parser.NoChildren
	}
	i := pos
	for ; i < len(line) && line[i] == ':'; i++ {
	}
	length := i - pos
	if length < 3 {
		return nil, parser.NoChildren
	}

	rest := line[i:]
	left := util.TrimLeftSpaceLength(rest)
	right := util.TrimRightSpaceLength(rest)
	if left >= len(rest)-right {
		// A bare ":::" only closes a fence.
		return nil, parser.NoChildren
	}
	infoStart, infoStop := segment.Start-segment.Padding+i+left, segment.Stop-right
	node := gmast.NewFencedCodeBlock(gmast.NewTextSegment(text.NewSegment(infoStart, infoStop)))
	pc.Set(colonFenceKey, &colonFenceData{indent: pos, length: length, node: node})
	return node, parser.NoChildren
}

func (colonFenceParser) Continue(node gmast.Node, reader text.Reader, pc parser.Context) parser.State {
	line, segment := reader.PeekLine()
	fdata := pc.Get(colonFenceKey).(*colonFenceData)

	w, pos := util.IndentWidth(line, reader.LineOffset())
	if w < 4 {
		i := pos
		for ; i < len(line) && line[i] == ':'; i++ {
		}
		if i-pos >= fdata.length && util.IsBlank(line[i:]) {
			newline := 1
			if line[len(line)-1] != '\n' {
				newline = 0
			}
			reader.Advance(segment.Stop - segment.Start - newline + segment.Padding)
			return parser.Close
		}
	}

	pos, padding := util.IndentPositionPadding(line, reader.LineOffset(), segment.Padding, fdata.indent)
	if pos < 0 {
		pos = max(0, util.FirstNonSpacePosition(line)) - segment.Padding
		padding = 0
	}
	seg := text.NewSegmentPadding(segment.Start+pos, segment.Stop, padding)
	seg.ForceNewline = true
	node.Lines().Append(seg)
	reader.AdvanceAndSetPadding(segment.Stop-segment.Start-pos-1, padding)
	return parser.Continue | parser.NoChildren
}

func (colonFenceParser) Close(node gmast.Node, _ text.Reader, pc parser.Context) {
	if fdata, ok := pc.Get(colonFenceKey).(*colonFenceData); ok && fdata.node == node {
		pc.Set(colonFenceKey, nil)
	}
}

func (colonFenceParser) CanInterruptParagraph() bool { return true }

func (colonFenceParser) CanAcceptIndentedLine() bool { return false }
