// Package domain contains the core types for the Surftober challenge tracker.
package domain

import "time"

// Activity is the kind of session being logged.
type Activity string

const (
	// ActivitySurf is a surf session.
	ActivitySurf Activity = "surf"
	// ActivitySwim is a swim session.
	ActivitySwim Activity = "swim"
	// ActivityKitesurf is a kitesurf session.
	ActivityKitesurf Activity = "kitesurf"
	// ActivityCleanup is a beach cleanup session.
	ActivityCleanup Activity = "cleanup"
)

// RawSession is an untrusted session record as supplied by clients or CSV
// import. Flag fields accept bool, numeric 0/1, or the string "1" as truthy;
// CleanupItems accepts any numeric-ish value. stats.Normalize coerces a
// RawSession into a canonical Session and never fails.
type RawSession struct {
	User         string `json:"user"`
	Date         string `json:"date"`     // YYYY-MM-DD, no time component
	Type         string `json:"type"`     // surf, swim, kitesurf, cleanup, or free text
	Duration     string `json:"duration"` // HH:MM
	Location     string `json:"location"`
	Board        string `json:"board"`
	Notes        string `json:"notes"`
	NoWetsuit    any    `json:"no_wetsuit"`
	Costume      any    `json:"costume"`
	CleanupItems any    `json:"cleanup_items"`
}

// Session is a canonical activity record. The derived fields
// (DurationMinutes, BaseMinutes) are always recomputed from Duration and
// NoWetsuit, never carried forward, so re-normalizing a Session is a no-op.
type Session struct {
	ID     string `json:"id,omitempty"`
	UserID string `json:"user_id,omitempty"` // owning account, used only for edit matching

	User         string   `json:"user"` // display name; the aggregation key
	Date         string   `json:"date"`
	Type         Activity `json:"type"`
	Duration     string   `json:"duration"`
	Location     string   `json:"location,omitempty"`
	Board        string   `json:"board,omitempty"`
	Notes        string   `json:"notes,omitempty"`
	NoWetsuit    bool     `json:"no_wetsuit"`
	Costume      bool     `json:"costume"`
	CleanupItems int      `json:"cleanup_items"`

	// Derived scoring fields.
	DurationMinutes int `json:"duration_minutes"`
	BaseMinutes     int `json:"base_minutes"`

	CreatedAt time.Time `json:"created_at,omitzero"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// Day returns the session's calendar date. The zero time and false are
// returned when Date is not a valid YYYY-MM-DD string.
func (s *Session) Day() (time.Time, bool) {
	t, err := time.Parse("2006-01-02", s.Date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Period restricts which sessions are aggregated. A zero Year matches any
// year; a zero Month matches any month within the matched year.
type Period struct {
	Year  int `json:"year,omitempty"`
	Month int `json:"month,omitempty"` // 1-12
}

// IsZero reports whether the period places no restriction at all.
func (p Period) IsZero() bool {
	return p.Year == 0 && p.Month == 0
}

// Matches reports whether a session dated by the given YYYY-MM-DD string
// falls inside the period. Unparseable dates never match a restricted
// period but always match the unrestricted one.
func (p Period) Matches(date string) bool {
	if p.IsZero() {
		return true
	}
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return false
	}
	if p.Year != 0 && t.Year() != p.Year {
		return false
	}
	if p.Month != 0 && int(t.Month()) != p.Month {
		return false
	}
	return true
}
