// Package doctree defines the parsed form of a source document as held by the
// document environment: its title, section outline and toctree declarations.
package doctree

// Doctree is the parsed representation of one source document.
type Doctree struct {
	Docname      string         `json:"docname"`
	Title        string         `json:"title"`
	Orphan       bool           `json:"orphan,omitempty"`
	Sections     []*Section     `json:"sections,omitempty"`
	Declarations []*Declaration `json:"declarations,omitempty"`
	Fingerprint  string         `json:"fingerprint"`
}

// Section is a heading below the document title.
type Section struct {
	Title    string     `json:"title"`
	Anchor   string     `json:"anchor"`
	Level    int        `json:"level"`
	Children []*Section `json:"children,omitempty"`
}

// Declaration is a toctree directive embedded in a document.
type Declaration struct {
	Caption       string  `json:"caption,omitempty"`
	MaxDepth      int     `json:"maxdepth,omitempty"`
	Hidden        bool    `json:"hidden,omitempty"`
	TitlesOnly    bool    `json:"titlesonly,omitempty"`
	IncludeHidden bool    `json:"includehidden,omitempty"`
	Glob          bool    `json:"glob,omitempty"`
	Entries       []Entry `json:"entries"`
	Line          int     `json:"line"`
}

// Entry is one line of a toctree directive. Title is empty when the
// document's own title should be used.
type Entry struct {
	Title  string `json:"title,omitempty"`
	Target string `json:"target"`
}

// SelfTarget refers to the declaring document itself.
const SelfTarget = "self"
