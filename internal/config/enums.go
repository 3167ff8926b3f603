package config

import (
	"log/slog"

	"git.home.luguber.info/inful/docsite/internal/foundation/normalization"
)

// LogLevel enumerates supported logging levels.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var logLevelNormalizer = normalization.NewNormalizer("log level", map[string]LogLevel{
	"debug":   LogLevelDebug,
	"info":    LogLevelInfo,
	"warn":    LogLevelWarn,
	"warning": LogLevelWarn,
	"error":   LogLevelError,
}, LogLevelInfo)

// NormalizeLogLevel canonicalizes raw, falling back to info.
func NormalizeLogLevel(raw string) LogLevel {
	return logLevelNormalizer.Normalize(raw)
}

// SlogLevel maps the level onto slog.
func (l LogLevel) SlogLevel() slog.Level {
	switch NormalizeLogLevel(string(l)) {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// RootStrategy selects how absolute source paths are made repository-relative.
type RootStrategy string

const (
	// RootStrategyGit finds the enclosing git worktree, falling back to the marker.
	RootStrategyGit RootStrategy = "git"
	// RootStrategyMarker keeps the path after the last occurrence of RootMarker.
	RootStrategyMarker RootStrategy = "marker"
)

var rootStrategyNormalizer = normalization.NewNormalizer("root strategy", map[string]RootStrategy{
	"git":    RootStrategyGit,
	"marker": RootStrategyMarker,
}, RootStrategyGit)

// ForgeType enumerates supported forge providers.
type ForgeType string

const (
	ForgeGitHub  ForgeType = "github"
	ForgeGitLab  ForgeType = "gitlab"
	ForgeForgejo ForgeType = "forgejo"
)

var forgeTypeNormalizer = normalization.NewNormalizer("forge type", map[string]ForgeType{
	"github":  ForgeGitHub,
	"gitlab":  ForgeGitLab,
	"forgejo": ForgeForgejo,
	"gitea":   ForgeForgejo,
}, "")

// NormalizeForgeType canonicalizes a forge type string or returns empty if unknown.
func NormalizeForgeType(raw string) ForgeType {
	return forgeTypeNormalizer.Normalize(raw)
}
