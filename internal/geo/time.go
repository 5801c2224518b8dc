package geo

import (
	"strconv"
	"strings"
	"time"
)

// timeLayouts are tried in order for the permissive §4.1 timestamp parser.
var timeLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05 MST",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseResult carries a normalized timestamp plus whether the input could
// not be parsed and had to be recovered to the current clock time.
type ParseResult struct {
	Time      time.Time
	Recovered bool
}

// ParseTimestamp accepts ISO-8601 (with or without an offset), the
// "YYYY-MM-DD HH:MM:SS [TZ]" form, or a numeric Unix-seconds string.
// Naive (offset-less) values are assumed UTC. Anything unparseable yields
// the current UTC clock time with Recovered set, per spec §4.1 — this
// function never returns an error.
func ParseTimestamp(raw string) ParseResult {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ParseResult{Time: time.Now().UTC(), Recovered: true}
	}

	if secs, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return ParseResult{Time: time.Unix(secs, 0).UTC()}
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		sec := int64(f)
		nsec := int64((f - float64(sec)) * 1e9)
		return ParseResult{Time: time.Unix(sec, nsec).UTC()}
	}

	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return ParseResult{Time: t.UTC()}
		}
	}

	return ParseResult{Time: time.Now().UTC(), Recovered: true}
}

// NormalizeISO8601 renders t as ISO-8601 UTC with an explicit offset, the
// canonical on-the-wire/at-rest representation for every timestamp this
// system stores or emits.
func NormalizeISO8601(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
