package commands

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
)

// PageCmd implements the 'page' command.
type PageCmd struct {
	Template string `arg:"" type:"existingfile" help:"html/template file to render"`
	Page     string `short:"p" default:"index" help:"Page name the template is rendered for"`
	Output   string `short:"o" help:"Write the rendered page to this file instead of stdout"`
}

func (p *PageCmd) Run(g *Global, root *CLI) error {
	a, err := root.newApp(nil)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	text, err := os.ReadFile(p.Template)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to read template").
			WithContext("path", p.Template).Build()
	}
	tmpl, err := a.hooks.ParseTemplate(filepath.Base(p.Template), string(text))
	if err != nil {
		return err
	}
	html, err := a.hooks.RenderPage(p.Page, tmpl)
	if err != nil {
		return err
	}

	if p.Output == "" {
		_, _ = fmt.Fprint(g.out(), html)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(p.Output), 0o750); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create output directory").
			WithContext("path", p.Output).Build()
	}
	if err := atomic.WriteFile(p.Output, bytes.NewReader([]byte(html))); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write page").
			WithContext("path", p.Output).Build()
	}
	slog.Info("Page written", logfields.Page(p.Page), logfields.Path(p.Output))
	return nil
}
