package render

import "strings"

// TargetURI is the output URI of a document.
func TargetURI(docname, linkSuffix string) string {
	return docname + linkSuffix
}

// RelativeURI returns a URI for to that is relative to the page at base.
// Fragments on either side are ignored; an absolute to is returned as is.
func RelativeURI(base, to string) string {
	if strings.HasPrefix(to, "/") {
		return to
	}
	b := strings.Split(stripFragment(base), "/")
	t := strings.Split(stripFragment(to), "/")

	// Drop shared leading directories; the last segment is a file name.
	for len(b) > 1 && len(t) > 1 && b[0] == t[0] {
		b, t = b[1:], t[1:]
	}
	if equalSegments(b, t) {
		return ""
	}
	if len(b) == 1 && len(t) == 1 && t[0] == "" {
		return "./"
	}
	return strings.Repeat("../", len(b)-1) + strings.Join(t, "/")
}

func stripFragment(uri string) string {
	if i := strings.IndexByte(uri, '#'); i >= 0 {
		return uri[:i]
	}
	return uri
}

func equalSegments(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
