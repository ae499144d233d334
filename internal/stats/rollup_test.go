package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/surftober/surftober-server/internal/domain"
)

// mkSession builds a canonical session for engine tests.
func mkSession(user, date, duration string, mutate ...func(*domain.Session)) domain.Session {
	s := Normalize(domain.RawSession{User: user, Date: date, Type: "surf", Duration: duration})
	for _, fn := range mutate {
		fn(&s)
		Canonicalize(&s)
	}
	return s
}

func noWetsuit(s *domain.Session) { s.NoWetsuit = true }
func costume(s *domain.Session)   { s.Costume = true }

func TestMedalFor(t *testing.T) {
	assert.Equal(t, domain.MedalGold, domain.MedalFor(40.0))
	assert.Equal(t, domain.MedalSilver, domain.MedalFor(39.99))
	assert.Equal(t, domain.MedalSilver, domain.MedalFor(30.0))
	assert.Equal(t, domain.MedalBronze, domain.MedalFor(25.0))
	assert.Equal(t, domain.MedalParticipant, domain.MedalFor(24.99))
	assert.Equal(t, domain.MedalParticipant, domain.MedalFor(10.0))
	assert.Equal(t, domain.MedalObserver, domain.MedalFor(9.99))
}

func TestRollupTotalsAndMedal(t *testing.T) {
	sessions := []domain.Session{
		mkSession("A", "2025-10-01", "02:00"),
		mkSession("A", "2025-10-02", "01:00", noWetsuit),
	}

	rollups := Rollup(sessions, domain.Period{})
	require.Len(t, rollups, 1)

	r := rollups[0]
	assert.Equal(t, "A", r.User)
	assert.Equal(t, 240, r.TotalMinutes) // 120 + 120
	assert.InDelta(t, 4.0, r.TotalHours, 1e-9)
	assert.Equal(t, domain.MedalObserver, r.Medal)
}

func TestRollupCostumeBonusAppliedOnce(t *testing.T) {
	sessions := []domain.Session{
		mkSession("A", "2025-10-01", "01:00", costume),
		mkSession("A", "2025-10-02", "01:00", costume),
		mkSession("B", "2025-10-03", "01:00"),
	}

	rollups := Rollup(sessions, domain.Period{})
	require.Len(t, rollups, 2)

	// A: 120 base + 60 bonus, once. B: 60, no bonus.
	assert.Equal(t, 180, rollups[0].TotalMinutes)
	assert.Equal(t, "A", rollups[0].User)
	assert.Equal(t, 60, rollups[1].TotalMinutes)

	// Conservation: sum of totals == sum of base minutes + 60 per costumed user.
	var baseSum, totalSum int
	for _, s := range sessions {
		baseSum += s.BaseMinutes
	}
	for _, r := range rollups {
		totalSum += r.TotalMinutes
	}
	assert.Equal(t, baseSum+60, totalSum)
}

func TestRollupPeriodFilter(t *testing.T) {
	sessions := []domain.Session{
		mkSession("A", "2025-10-31", "01:00"),
		mkSession("A", "2025-11-01", "01:00"),
	}

	rollups := Rollup(sessions, domain.Period{Year: 2025, Month: 10})
	require.Len(t, rollups, 1)
	assert.Equal(t, 60, rollups[0].TotalMinutes, "2025-11-01 must be excluded")

	// Year-only filter takes both.
	rollups = Rollup(sessions, domain.Period{Year: 2025})
	require.Len(t, rollups, 1)
	assert.Equal(t, 120, rollups[0].TotalMinutes)

	// Non-matching year: nobody appears.
	assert.Empty(t, Rollup(sessions, domain.Period{Year: 2024}))
}

func TestRollupStdDev(t *testing.T) {
	equal := []domain.Session{
		mkSession("A", "2025-10-01", "01:00"),
		mkSession("A", "2025-10-02", "01:00"),
		mkSession("A", "2025-10-03", "01:00"),
	}
	rollups := Rollup(equal, domain.Period{})
	require.Len(t, rollups, 1)
	assert.Zero(t, rollups[0].StdDev)

	// Population stddev of 30, 60, 90 is sqrt(600).
	spread := []domain.Session{
		mkSession("B", "2025-10-01", "0:30"),
		mkSession("B", "2025-10-02", "1:00"),
		mkSession("B", "2025-10-03", "1:30"),
	}
	rollups = Rollup(spread, domain.Period{})
	require.Len(t, rollups, 1)
	assert.InDelta(t, math.Sqrt(600), rollups[0].StdDev, 1e-9)

	// Single session: stddev 0.
	single := Rollup([]domain.Session{mkSession("C", "2025-10-01", "2:00")}, domain.Period{})
	require.Len(t, single, 1)
	assert.Zero(t, single[0].StdDev)
}

func TestRollupTwoferDays(t *testing.T) {
	sessions := []domain.Session{
		mkSession("A", "2025-10-01", "01:00"),
		mkSession("A", "2025-10-01", "00:30"),
		mkSession("A", "2025-10-02", "01:00"),
		mkSession("A", "2025-10-03", "01:00"),
		mkSession("A", "2025-10-03", "01:00"),
	}
	rollups := Rollup(sessions, domain.Period{})
	require.Len(t, rollups, 1)
	assert.Equal(t, 2, rollups[0].TwoferDays)
}

func TestRollupWeekdayWeekendShares(t *testing.T) {
	// 2025-10-04 is a Saturday, 2025-10-06 a Monday.
	sessions := []domain.Session{
		mkSession("A", "2025-10-04", "01:00"),
		mkSession("A", "2025-10-06", "03:00"),
	}
	rollups := Rollup(sessions, domain.Period{})
	require.Len(t, rollups, 1)

	r := rollups[0]
	assert.InDelta(t, 0.75, r.WeekdayShare, 1e-9)
	assert.InDelta(t, 0.25, r.WeekendShare, 1e-9)
	assert.InDelta(t, 1.0, r.WeekdayShare+r.WeekendShare, 1e-9)
}

func TestRollupSharesIgnoreCostumeBonus(t *testing.T) {
	// One costumed weekday session: the +60 bonus raises the total but the
	// share denominator stays at base minutes, so weekday share is 1.
	sessions := []domain.Session{mkSession("A", "2025-10-06", "01:00", costume)}
	rollups := Rollup(sessions, domain.Period{})
	require.Len(t, rollups, 1)

	assert.Equal(t, 120, rollups[0].TotalMinutes)
	assert.InDelta(t, 1.0, rollups[0].WeekdayShare, 1e-9)
	assert.InDelta(t, 0.0, rollups[0].WeekendShare, 1e-9)
}

func TestRollupZeroMinutesShares(t *testing.T) {
	sessions := []domain.Session{mkSession("A", "2025-10-06", "")}
	rollups := Rollup(sessions, domain.Period{})
	require.Len(t, rollups, 1)

	r := rollups[0]
	assert.Zero(t, r.TotalMinutes)
	assert.Zero(t, r.WeekdayShare)
	assert.Zero(t, r.WeekendShare)
	assert.Zero(t, r.FirstHalfShare)
	assert.Zero(t, r.LastHalfShare)
}

func TestRollupHalfMonthShares(t *testing.T) {
	sessions := []domain.Session{
		mkSession("A", "2025-10-15", "01:00"), // on the 15th: first half
		mkSession("A", "2025-10-16", "03:00"),
	}
	rollups := Rollup(sessions, domain.Period{})
	require.Len(t, rollups, 1)

	assert.InDelta(t, 0.25, rollups[0].FirstHalfShare, 1e-9)
	assert.InDelta(t, 0.75, rollups[0].LastHalfShare, 1e-9)
}

func TestRollupDistinctBoardsAndLocations(t *testing.T) {
	sessions := []domain.Session{
		mkSession("A", "2025-10-01", "01:00", func(s *domain.Session) { s.Board = "Log"; s.Location = "OB" }),
		mkSession("A", "2025-10-02", "01:00", func(s *domain.Session) { s.Board = " Log "; s.Location = "OB - Kellys" }),
		mkSession("A", "2025-10-03", "01:00", func(s *domain.Session) { s.Board = ""; s.Location = "  " }),
		mkSession("A", "2025-10-04", "01:00", func(s *domain.Session) { s.Board = "Mid"; s.Location = "OB" }),
	}
	rollups := Rollup(sessions, domain.Period{})
	require.Len(t, rollups, 1)

	assert.Equal(t, 2, rollups[0].Boards, "trim then dedupe, drop empties")
	assert.Equal(t, 2, rollups[0].Locations)
}

func TestRollupOrderingAndTies(t *testing.T) {
	sessions := []domain.Session{
		mkSession("Low", "2025-10-01", "01:00"),
		mkSession("TieOne", "2025-10-02", "02:00"),
		mkSession("TieTwo", "2025-10-03", "02:00"),
		mkSession("High", "2025-10-04", "05:00"),
	}
	rollups := Rollup(sessions, domain.Period{})
	require.Len(t, rollups, 4)

	assert.Equal(t, "High", rollups[0].User)
	assert.Equal(t, "TieOne", rollups[1].User, "ties keep first-seen input order")
	assert.Equal(t, "TieTwo", rollups[2].User)
	assert.Equal(t, "Low", rollups[3].User)
}

func TestRollupTrimsUserNames(t *testing.T) {
	sessions := []domain.Session{
		mkSession("Pam", "2025-10-01", "01:00"),
		mkSession(" Pam ", "2025-10-02", "01:00"),
	}
	rollups := Rollup(sessions, domain.Period{})
	require.Len(t, rollups, 1)
	assert.Equal(t, "Pam", rollups[0].User)
	assert.Equal(t, 120, rollups[0].TotalMinutes)
}

func TestRollupNilInput(t *testing.T) {
	assert.Empty(t, Rollup(nil, domain.Period{}))
}
