package sqlbase

import (
	"regexp"

	"github.com/exceedzhang/metabase/dialect"
)

// Pattern pairs a message regexp with the category it implies.
type Pattern struct {
	Match *regexp.Regexp
	Kind  dialect.ErrorKind
}

// basePatterns cover transport failures surfaced by the net package
// regardless of backend.
var basePatterns = []Pattern{
	{regexp.MustCompile(`connection refused`), dialect.KindCannotConnectHostPort},
	{regexp.MustCompile(`i/o timeout`), dialect.KindCannotConnectHostPort},
	{regexp.MustCompile(`network is unreachable`), dialect.KindCannotConnectHostPort},
	{regexp.MustCompile(`no such host`), dialect.KindInvalidHostname},
}

// Classify walks patterns in order and returns the category of the first
// match. Order is significant: specific backend messages must precede the
// generic transport ones. When nothing matches the category is
// KindUnclassified with the raw message preserved for display.
func Classify(patterns []Pattern, raw string) dialect.ErrorCategory {
	for _, p := range patterns {
		if p.Match.MatchString(raw) {
			return dialect.ErrorCategory{Kind: p.Kind, Raw: raw}
		}
	}
	return dialect.ErrorCategory{Kind: dialect.KindUnclassified, Raw: raw}
}

// BasePatterns returns the transport-level patterns so dialects can append
// them after their own.
func BasePatterns() []Pattern {
	out := make([]Pattern, len(basePatterns))
	copy(out, basePatterns)
	return out
}
