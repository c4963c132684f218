package flowstack

import (
	"fmt"
	"log/slog"
)

// globalDebug mirrors the most recently set Stack debug flag so that code
// without a Stack pointer (registries, paths, links) can check it cheaply.
// Only valid with a single Stack; multiple Stacks with differing debug modes
// reflect whichever called SetDebugMode last.
var globalDebug bool

// SetDebugMode enables or disables debug mode. When enabled, programmer
// errors (unresolvable destinations, links used without a stack) panic with
// a descriptive message instead of degrading silently, and per-frame layer
// stats are logged at debug level.
func (s *Stack) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}

// debugStats holds per-frame layer counts. Only populated in debug mode.
type debugStats struct {
	live      int
	departing int
	tracking  bool
}

// debugLog logs layer stats when they change.
func (s *Stack) debugLog(stats debugStats) {
	if !s.debug || stats == s.lastStats {
		return
	}
	s.lastStats = stats
	Logger().Debug("flowstack: layers",
		slog.Int("live", stats.live),
		slog.Int("departing", stats.departing),
		slog.Bool("tracking", stats.tracking))
}

// debugCheckLink panics when a link is used without a path in debug mode.
func debugCheckLink(l *Link, op string) {
	if globalDebug && (l.env == nil || l.env.path() == nil) {
		panic(fmt.Sprintf("flowstack debug: %s on link for %v without a stack", op, l.value))
	}
}
