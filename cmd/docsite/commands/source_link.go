package commands

import (
	"fmt"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/linkcode"
)

// SourceLinkCmd implements the 'source-link' command.
type SourceLinkCmd struct {
	Domain   string `default:"go" help:"Object domain"`
	Module   string `arg:"" help:"Module (package import path) holding the object"`
	Fullname string `arg:"" help:"Dotted name of the object inside the module"`
}

func (s *SourceLinkCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	resolver, err := linkcode.FromConfig(cfg, nil)
	if err != nil {
		return err
	}

	url, ok := resolver.Resolve(s.Domain, s.Module, s.Fullname)
	if !ok {
		return errors.NotFoundError("no source link for object").
			WithContext("domain", s.Domain).
			WithContext("module", s.Module).
			WithContext("fullname", s.Fullname).
			Build()
	}
	_, _ = fmt.Fprintln(g.out(), url)
	return nil
}
