package commands

import (
	"fmt"

	"git.home.luguber.info/inful/docsite/internal/toctree"
)

// FragmentCmd implements the 'fragment' command.
type FragmentCmd struct {
	Page          string `arg:"" help:"Page the fragment is rendered for"`
	Doc           string `short:"d" default:"index" help:"Document whose toctrees are rendered"`
	MaxDepth      int    `name:"maxdepth" help:"Maximum depth; 0 keeps each toctree's own maxdepth"`
	TitlesOnly    bool   `name:"titles-only" help:"Omit section entries of linked documents"`
	Collapse      bool   `help:"Hide children of entries not on the path to the page"`
	IncludeHidden bool   `name:"includehidden" help:"Include toctrees declared hidden"`
}

func (f *FragmentCmd) Run(g *Global, root *CLI) error {
	a, err := root.newApp(nil)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	out, err := a.fragments.RenderFragment(f.Page, f.Doc, toctree.Options{
		MaxDepth:      f.MaxDepth,
		TitlesOnly:    f.TitlesOnly,
		Collapse:      f.Collapse,
		IncludeHidden: f.IncludeHidden,
	})
	if err != nil {
		return err
	}
	if out != "" {
		_, _ = fmt.Fprintln(g.out(), out)
	}
	return nil
}
