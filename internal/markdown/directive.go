package markdown

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docsite/internal/doctree"
	"git.home.luguber.info/inful/docsite/internal/logfields"
)

var (
	optionLine   = regexp.MustCompile(`^:([A-Za-z_-]+):\s*(.*)$`)
	titledTarget = regexp.MustCompile(`^(.*\S)\s*<([^<>]+)>$`)
)

// parseDirective reads the body of a {toctree} fence. Options come first,
// either as ":name: value" lines or as a "---" delimited YAML block, followed
// by one entry per non-empty line. Malformed options are logged and ignored;
// an unterminated option block drops the directive and returns nil.
func parseDirective(lines []string, line int) *doctree.Declaration {
	decl := &doctree.Declaration{Line: line}
	opts := map[string]string{}
	log := slog.With(slog.Int("line", line))

	i := 0
	if i < len(lines) && strings.TrimSpace(lines[i]) == "---" {
		end := -1
		for j := 1; j < len(lines); j++ {
			if strings.TrimSpace(lines[j]) == "---" {
				end = j
				break
			}
		}
		if end < 0 {
			log.Warn("Ignoring toctree with unterminated option block")
			return nil
		}
		var raw map[string]any
		if err := yaml.Unmarshal([]byte(strings.Join(lines[1:end], "\n")), &raw); err != nil {
			log.Warn("Ignoring malformed toctree options", logfields.Error(err))
		}
		for k, v := range raw {
			if v == nil {
				opts[k] = ""
				continue
			}
			opts[k] = fmt.Sprint(v)
		}
		i = end + 1
	} else {
		for ; i < len(lines); i++ {
			m := optionLine.FindStringSubmatch(strings.TrimSpace(lines[i]))
			if m == nil {
				break
			}
			opts[strings.ToLower(m[1])] = strings.TrimSpace(m[2])
		}
	}

	applyOptions(decl, opts, log)

	for ; i < len(lines); i++ {
		entry := strings.TrimSpace(lines[i])
		if entry == "" || strings.HasPrefix(entry, "#") {
			continue
		}
		decl.Entries = append(decl.Entries, parseEntry(entry))
	}
	return decl
}

func applyOptions(decl *doctree.Declaration, opts map[string]string, log *slog.Logger) {
	for key, val := range opts {
		switch key {
		case "maxdepth":
			n, err := strconv.Atoi(val)
			if err != nil || n < 0 {
				log.Warn("Ignoring invalid toctree maxdepth", slog.String("value", val))
				continue
			}
			decl.MaxDepth = n
		case "caption":
			decl.Caption = val
		case "hidden":
			decl.Hidden = flagValue(val)
		case "titlesonly":
			decl.TitlesOnly = flagValue(val)
		case "includehidden":
			decl.IncludeHidden = flagValue(val)
		case "glob":
			decl.Glob = flagValue(val)
		default:
			log.Debug("Ignoring unknown toctree option", slog.String("option", key))
		}
	}
}

// flagValue treats a bare option (":hidden:") as true.
func flagValue(v string) bool {
	if v == "" {
		return true
	}
	b, err := strconv.ParseBool(v)
	return err != nil || b
}

func parseEntry(s string) doctree.Entry {
	if m := titledTarget.FindStringSubmatch(s); m != nil {
		return doctree.Entry{Title: strings.TrimSpace(m[1]), Target: strings.TrimSpace(m[2])}
	}
	return doctree.Entry{Target: s}
}
