package commands

import (
	"fmt"
	"io"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/symbols"
)

// SymbolsCmd implements the 'symbols' command.
type SymbolsCmd struct {
	Module string `arg:"" optional:"" help:"List the attributes of this module instead of all modules"`
}

func (s *SymbolsCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	reg, err := symbols.LoadGoModule(cfg.SourceLink.ModuleRoot)
	if err != nil {
		return err
	}

	out := g.out()
	if s.Module == "" {
		for _, name := range reg.Modules() {
			_, _ = fmt.Fprintln(out, name)
		}
		return nil
	}

	mod, ok := reg.Lookup(s.Module)
	if !ok {
		return errors.NotFoundError("module not loaded").WithContext("module", s.Module).Build()
	}
	printAttrs(out, mod, "")
	return nil
}

type attrLister interface {
	Attrs() []string
}

func printAttrs(out io.Writer, obj symbols.Object, prefix string) {
	lister, ok := obj.(attrLister)
	if !ok {
		return
	}
	for _, name := range lister.Attrs() {
		child, ok := obj.Attr(name)
		if !ok {
			continue
		}
		full := prefix + name
		_, _ = fmt.Fprintf(out, "%s\t%s\t%s\n", full, child.Kind(), describeLocation(child))
		printAttrs(out, child, full+".")
	}
}

func describeLocation(obj symbols.Object) string {
	loc, ok := symbols.Locate(obj)
	if !ok {
		return "-"
	}
	if !loc.HasLines {
		return loc.File
	}
	return fmt.Sprintf("%s:%d-%d", loc.File, loc.Start, loc.End())
}
