package symbols

// Location is where an object's source lives. Start and Count are only
// meaningful when HasLines is set.
type Location struct {
	File     string
	Start    int
	Count    int
	HasLines bool
}

// End is the last line of the range.
func (l Location) End() int {
	return l.Start + l.Count - 1
}

// Locate finds the source of obj. Wrapped objects are located through their
// delegate. It reports false when no source file is known; a missing line
// range still yields a location.
func Locate(obj Object) (Location, bool) {
	target := obj
	if obj.Kind() == KindWrapped {
		if w, ok := obj.(Wrapper); ok {
			if inner, ok := w.Delegate(); ok {
				target = inner
			}
		}
	}

	loc, ok := target.(Locatable)
	if !ok {
		return Location{}, false
	}
	file, ok := loc.SourceFile()
	if !ok {
		return Location{}, false
	}
	out := Location{File: file}
	if start, count, ok := loc.SourceLines(); ok {
		out.Start, out.Count, out.HasLines = start, count, true
	}
	return out, true
}
