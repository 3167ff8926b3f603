package toctree

// Options are the caller-supplied overrides for resolving a document's
// toctrees. Zero values defer to each declaration.
type Options struct {
	// MaxDepth limits nesting; <= 0 falls back to the declaration's maxdepth,
	// and when that is unset the tree is unbounded.
	MaxDepth      int
	TitlesOnly    bool
	Collapse      bool
	IncludeHidden bool
}

type effective struct {
	depth         int
	titlesOnly    bool
	collapse      bool
	includeHidden bool
}

func (o Options) effectiveFor(declMaxDepth int, declTitlesOnly, declIncludeHidden bool) effective {
	depth := o.MaxDepth
	if depth <= 0 {
		depth = declMaxDepth
	}
	if depth < 0 {
		depth = 0
	}
	return effective{
		depth:         depth,
		titlesOnly:    o.TitlesOnly || declTitlesOnly,
		collapse:      o.Collapse,
		includeHidden: o.IncludeHidden || declIncludeHidden,
	}
}
