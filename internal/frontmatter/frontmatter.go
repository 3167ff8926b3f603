// Package frontmatter splits and decodes the YAML header of a source document.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document opened a YAML header but never closed it.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Meta holds the header fields the document environment understands.
// Unknown keys are kept in Fields.
type Meta struct {
	Title  string         `yaml:"title"`
	Orphan bool           `yaml:"orphan"`
	Fields map[string]any `yaml:"-"`
}

// Split separates `---` delimited YAML frontmatter from the Markdown body.
//
// If the document does not start with a delimiter, had is false and body is
// the full input. Line counting for body-relative positions is the caller's concern.
func Split(content []byte) (header []byte, body []byte, had bool, err error) {
	nl := detectNewline(content)
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}

	start := len(open)
	if bytes.HasPrefix(content[start:], open) {
		return []byte{}, content[start+len(open):], true, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(content[start:], closeSeq)
	if idx < 0 {
		// A header closed at EOF without a trailing newline.
		if bytes.HasSuffix(content, []byte(nl+"---")) {
			end := len(content) - len(nl+"---")
			if end >= start {
				return content[start:end], []byte{}, true, nil
			}
		}
		return nil, nil, false, ErrMissingClosingDelimiter
	}

	headerEnd := start + idx + len(nl)
	bodyStart := start + idx + len(closeSeq)
	return content[start:headerEnd], content[bodyStart:], true, nil
}

// Parse decodes a raw YAML header (without delimiters).
func Parse(header []byte) (Meta, error) {
	var meta Meta
	if len(bytes.TrimSpace(header)) == 0 {
		meta.Fields = map[string]any{}
		return meta, nil
	}
	if err := yaml.Unmarshal(header, &meta); err != nil {
		return Meta{}, err
	}
	if err := yaml.Unmarshal(header, &meta.Fields); err != nil {
		return Meta{}, err
	}
	if meta.Fields == nil {
		meta.Fields = map[string]any{}
	}
	return meta, nil
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
