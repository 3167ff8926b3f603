package logfields

import "log/slog"

// Canonical log field names shared across packages.
const (
	KeyDocname    = "docname"
	KeyPage       = "page"
	KeyTarget     = "target"
	KeyModule     = "module"
	KeySymbol     = "symbol"
	KeyDomain     = "domain"
	KeyPath       = "path"
	KeyURL        = "url"
	KeyOutcome    = "outcome"
	KeyBuildID    = "build_id"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

func Docname(n string) slog.Attr      { return slog.String(KeyDocname, n) }
func Page(n string) slog.Attr         { return slog.String(KeyPage, n) }
func Target(t string) slog.Attr       { return slog.String(KeyTarget, t) }
func Module(m string) slog.Attr       { return slog.String(KeyModule, m) }
func Symbol(s string) slog.Attr       { return slog.String(KeySymbol, s) }
func Domain(d string) slog.Attr       { return slog.String(KeyDomain, d) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Outcome(o string) slog.Attr      { return slog.String(KeyOutcome, o) }
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
