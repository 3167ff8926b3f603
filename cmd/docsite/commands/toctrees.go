package commands

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/doctree"
)

// ToctreesCmd implements the 'toctrees' command.
type ToctreesCmd struct {
	Doc string `arg:"" optional:"" default:"index" help:"Document to inspect"`
}

func (t *ToctreesCmd) Run(g *Global, root *CLI) error {
	a, err := root.newApp(nil)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	tree, err := a.env.Doctree(t.Doc)
	if err != nil {
		return err
	}

	out := g.out()
	_, _ = fmt.Fprintf(out, "%s: %s\n", tree.Docname, tree.Title)
	for _, decl := range tree.Declarations {
		_, _ = fmt.Fprintf(out, "toctree (line %d)%s\n", decl.Line, declFlags(decl))
		for _, e := range decl.Entries {
			if e.Title != "" {
				_, _ = fmt.Fprintf(out, "  %s <%s>\n", e.Title, e.Target)
				continue
			}
			_, _ = fmt.Fprintf(out, "  %s\n", e.Target)
		}
	}
	return nil
}

func declFlags(d *doctree.Declaration) string {
	var flags []string
	if d.Caption != "" {
		flags = append(flags, fmt.Sprintf("caption=%q", d.Caption))
	}
	if d.MaxDepth > 0 {
		flags = append(flags, fmt.Sprintf("maxdepth=%d", d.MaxDepth))
	}
	if d.Hidden {
		flags = append(flags, "hidden")
	}
	if d.TitlesOnly {
		flags = append(flags, "titlesonly")
	}
	if d.IncludeHidden {
		flags = append(flags, "includehidden")
	}
	if d.Glob {
		flags = append(flags, "glob")
	}
	if len(flags) == 0 {
		return ""
	}
	return " " + strings.Join(flags, " ")
}
