// Package stats is the pure aggregation core: it normalizes raw session
// records and computes per-user rollups and award winners for a period.
// It is synchronous, stateless and total - malformed input coerces to safe
// defaults instead of failing - and it knows nothing about storage or HTTP.
package stats

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/surftober/surftober-server/internal/domain"
)

// ParseDuration converts an "HH:MM" string to minutes. Missing or
// non-numeric parts count as 0, so "", "2", ":30" and "x:y" all parse
// without error.
func ParseDuration(hhmm string) int {
	if hhmm == "" {
		return 0
	}
	var h, m int
	parts := strings.SplitN(hhmm, ":", 2)
	h, _ = strconv.Atoi(strings.TrimSpace(parts[0]))
	if len(parts) > 1 {
		m, _ = strconv.Atoi(strings.TrimSpace(parts[1]))
	}
	return h*60 + m
}

// FormatDuration renders minutes as "H:MM" (unpadded hours, zero-padded
// minutes). For any valid input s, ParseDuration(FormatDuration(ParseDuration(s)))
// equals ParseDuration(s).
func FormatDuration(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%d:%02d", minutes/60, minutes%60)
}

// ParseFlag coerces a loosely-typed flag value to a bool. Accepts bool true,
// numeric 1, or the string "1" as truthy; everything else (including nil) is
// false.
func ParseFlag(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case int:
		return val == 1
	case int64:
		return val == 1
	case float64:
		return val == 1
	case string:
		return val == "1"
	default:
		return false
	}
}

// ParseCount coerces a loosely-typed numeric value to a non-negative int.
// Malformed or negative values become 0.
func ParseCount(v any) int {
	var n int
	switch val := v.(type) {
	case int:
		n = val
	case int64:
		n = int(val)
	case float64:
		n = int(val)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0
		}
		n = parsed
	default:
		return 0
	}
	if n < 0 {
		return 0
	}
	return n
}

// Normalize converts a raw session record into a canonical one. It never
// fails: text fields pass through unchanged, numeric and boolean coercions
// default to zero values.
func Normalize(raw domain.RawSession) domain.Session {
	s := domain.Session{
		User:         raw.User,
		Date:         raw.Date,
		Type:         domain.Activity(raw.Type),
		Duration:     raw.Duration,
		Location:     raw.Location,
		Board:        raw.Board,
		Notes:        raw.Notes,
		NoWetsuit:    ParseFlag(raw.NoWetsuit),
		Costume:      ParseFlag(raw.Costume),
		CleanupItems: ParseCount(raw.CleanupItems),
	}
	Canonicalize(&s)
	return s
}

// Canonicalize recomputes the derived scoring fields of a session from its
// Duration text and NoWetsuit flag. BaseMinutes is always derived from
// DurationMinutes, never from a prior BaseMinutes, which makes repeated
// normalization idempotent (the no-wetsuit multiplier cannot double-apply).
func Canonicalize(s *domain.Session) {
	s.DurationMinutes = ParseDuration(s.Duration)
	s.BaseMinutes = s.DurationMinutes
	if s.NoWetsuit {
		s.BaseMinutes *= 2
	}
	if s.CleanupItems < 0 {
		s.CleanupItems = 0
	}
}
