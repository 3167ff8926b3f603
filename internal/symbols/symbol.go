// Package symbols models documented program objects and where their source
// lives. A Symbol is a tagged union over Kind; Locate dispatches on the tag
// once instead of probing for attributes.
package symbols

import "sort"

// Kind tags the variant a Symbol represents.
type Kind int

const (
	KindModule Kind = iota
	KindFunc
	KindMethod
	KindType
	KindValue
	KindField
	// KindWrapped is a value built around another function; its source is
	// the delegate's.
	KindWrapped
)

func (k Kind) String() string {
	switch k {
	case KindModule:
		return "module"
	case KindFunc:
		return "func"
	case KindMethod:
		return "method"
	case KindType:
		return "type"
	case KindValue:
		return "value"
	case KindField:
		return "field"
	case KindWrapped:
		return "wrapped"
	default:
		return "unknown"
	}
}

// Object is a documented object reachable by dotted attribute access.
type Object interface {
	Name() string
	Kind() Kind
	Attr(name string) (Object, bool)
}

// Locatable exposes where an object is defined.
type Locatable interface {
	SourceFile() (string, bool)
	// SourceLines returns the first line and the number of lines spanned.
	SourceLines() (start, count int, ok bool)
}

// Wrapper is implemented by objects that delegate their location.
type Wrapper interface {
	Delegate() (Object, bool)
}

// Symbol is the concrete Object produced by the loader.
type Symbol struct {
	name     string
	kind     Kind
	file     string
	start    int
	end      int
	attrs    map[string]*Symbol
	delegate *Symbol
}

// NewModule creates a module symbol. Modules have a file but no line range.
func NewModule(name, file string) *Symbol {
	return &Symbol{name: name, kind: KindModule, file: file}
}

// NewSymbol creates a symbol spanning lines start..end (1-based, inclusive).
// Zero lines mean the range is unknown.
func NewSymbol(name string, kind Kind, file string, start, end int) *Symbol {
	return &Symbol{name: name, kind: kind, file: file, start: start, end: end}
}

// NewWrapped creates a wrapped symbol whose location is that of delegate.
func NewWrapped(name, file string, start, end int, delegate *Symbol) *Symbol {
	return &Symbol{name: name, kind: KindWrapped, file: file, start: start, end: end, delegate: delegate}
}

func (s *Symbol) Name() string { return s.name }
func (s *Symbol) Kind() Kind   { return s.kind }

// Attr returns the named member.
func (s *Symbol) Attr(name string) (Object, bool) {
	child, ok := s.attrs[name]
	if !ok {
		return nil, false
	}
	return child, true
}

// AddAttr registers child as a member. The first registration of a name wins.
func (s *Symbol) AddAttr(child *Symbol) {
	if s.attrs == nil {
		s.attrs = make(map[string]*Symbol)
	}
	if _, exists := s.attrs[child.name]; exists {
		return
	}
	s.attrs[child.name] = child
}

// Attrs lists member names in sorted order.
func (s *Symbol) Attrs() []string {
	names := make([]string, 0, len(s.attrs))
	for n := range s.attrs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (s *Symbol) SourceFile() (string, bool) {
	return s.file, s.file != ""
}

func (s *Symbol) SourceLines() (int, int, bool) {
	if s.start <= 0 || s.end < s.start {
		return 0, 0, false
	}
	return s.start, s.end - s.start + 1, true
}

func (s *Symbol) Delegate() (Object, bool) {
	if s.delegate == nil {
		return nil, false
	}
	return s.delegate, true
}

var (
	_ Object    = (*Symbol)(nil)
	_ Locatable = (*Symbol)(nil)
	_ Wrapper   = (*Symbol)(nil)
)
