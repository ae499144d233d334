package stats

import (
	"math"
	"slices"
	"strings"
	"time"

	"github.com/surftober/surftober-server/internal/domain"
)

// costumeBonusMinutes is the flat one-time bonus a user earns for having at
// least one costumed session in the period.
const costumeBonusMinutes = 60

// userGroup holds one user's sessions in first-seen input order.
type userGroup struct {
	user     string
	sessions []domain.Session
}

// groupByUser filters sessions by period and groups them by trimmed user
// name, preserving first-seen order of both users and sessions. The
// iteration order of the result is what gives award tie-breaks their
// documented first-seen-in-input semantics.
func groupByUser(sessions []domain.Session, period domain.Period) []userGroup {
	index := make(map[string]int)
	var groups []userGroup
	for _, s := range sessions {
		if !period.Matches(s.Date) {
			continue
		}
		user := strings.TrimSpace(s.User)
		i, ok := index[user]
		if !ok {
			i = len(groups)
			index[user] = i
			groups = append(groups, userGroup{user: user})
		}
		groups[i].sessions = append(groups[i].sessions, s)
	}
	return groups
}

// distinctTrimmed counts the distinct non-empty values produced by get,
// after trimming whitespace.
func distinctTrimmed(sessions []domain.Session, get func(domain.Session) string) int {
	seen := make(map[string]struct{})
	for _, s := range sessions {
		v := strings.TrimSpace(get(s))
		if v == "" {
			continue
		}
		seen[v] = struct{}{}
	}
	return len(seen)
}

// populationStdDev returns the population standard deviation (divide by N,
// not N-1) of the session durations. A single session yields 0.
func populationStdDev(durations []int) float64 {
	if len(durations) == 0 {
		return 0
	}
	var sum float64
	for _, d := range durations {
		sum += float64(d)
	}
	mean := sum / float64(len(durations))
	var variance float64
	for _, d := range durations {
		diff := float64(d) - mean
		variance += diff * diff
	}
	variance /= float64(len(durations))
	return math.Sqrt(variance)
}

// rollupGroup computes one user's summary from their sessions in the period.
func rollupGroup(g userGroup) domain.UserRollup {
	var baseTotal int
	costumed := false
	durations := make([]int, 0, len(g.sessions))
	byDay := make(map[string]int)
	var weekdayMinutes, firstHalf, lastHalf int

	for _, s := range g.sessions {
		baseTotal += s.BaseMinutes
		if s.Costume {
			costumed = true
		}
		durations = append(durations, s.DurationMinutes)
		byDay[s.Date]++

		if day, ok := s.Day(); ok {
			if wd := day.Weekday(); wd != time.Saturday && wd != time.Sunday {
				weekdayMinutes += s.BaseMinutes
			}
			if day.Day() <= 15 {
				firstHalf += s.BaseMinutes
			} else {
				lastHalf += s.BaseMinutes
			}
		}
	}

	total := baseTotal
	if costumed {
		total += costumeBonusMinutes
	}
	hours := float64(total) / 60

	twoferDays := 0
	for _, n := range byDay {
		if n >= 2 {
			twoferDays++
		}
	}

	// Shares are over base minutes before the costume bonus; zero totals
	// fall back to 0 rather than dividing.
	var weekdayShare, weekendShare float64
	if baseTotal > 0 {
		weekdayShare = float64(weekdayMinutes) / float64(baseTotal)
		weekendShare = 1 - weekdayShare
	}
	var firstShare, lastShare float64
	if halves := firstHalf + lastHalf; halves > 0 {
		firstShare = float64(firstHalf) / float64(halves)
		lastShare = float64(lastHalf) / float64(halves)
	}

	return domain.UserRollup{
		User:           g.user,
		TotalMinutes:   total,
		TotalHours:     hours,
		Medal:          domain.MedalFor(hours),
		Boards:         distinctTrimmed(g.sessions, func(s domain.Session) string { return s.Board }),
		Locations:      distinctTrimmed(g.sessions, func(s domain.Session) string { return s.Location }),
		StdDev:         populationStdDev(durations),
		TwoferDays:     twoferDays,
		WeekdayShare:   weekdayShare,
		WeekendShare:   weekendShare,
		FirstHalfShare: firstShare,
		LastHalfShare:  lastShare,
	}
}

// Rollup computes per-user summaries for the sessions matching the period,
// sorted by total minutes descending. Ties keep first-seen user order so
// identical input always produces identical output. Users with no matching
// sessions do not appear. A nil session slice is treated as empty.
func Rollup(sessions []domain.Session, period domain.Period) []domain.UserRollup {
	groups := groupByUser(sessions, period)
	rollups := make([]domain.UserRollup, 0, len(groups))
	for _, g := range groups {
		rollups = append(rollups, rollupGroup(g))
	}
	// SortStableFunc keeps first-seen order for equal totals.
	slices.SortStableFunc(rollups, func(a, b domain.UserRollup) int {
		switch {
		case b.TotalMinutes > a.TotalMinutes:
			return 1
		case b.TotalMinutes < a.TotalMinutes:
			return -1
		default:
			return 0
		}
	})
	return rollups
}
