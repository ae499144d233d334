package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/surftober/surftober-server/internal/domain"
)

func findAward(t *testing.T, outcome domain.AwardOutcome, name string) domain.Award {
	t.Helper()
	for _, a := range outcome.Awards {
		if a.Name == name {
			return a
		}
	}
	t.Fatalf("award %q not present", name)
	return domain.Award{}
}

func hasAward(outcome domain.AwardOutcome, name string) bool {
	for _, a := range outcome.Awards {
		if a.Name == name {
			return true
		}
	}
	return false
}

func TestComputeAwardsEmptyPeriod(t *testing.T) {
	sessions := []domain.Session{mkSession("A", "2025-10-01", "01:00")}

	outcome := ComputeAwards(sessions, domain.Period{Year: 2024})
	assert.NotNil(t, outcome.Awards)
	assert.Empty(t, outcome.Awards)
	assert.Empty(t, outcome.Totals)

	outcome = ComputeAwards(nil, domain.Period{})
	assert.NotNil(t, outcome.Awards)
	assert.Empty(t, outcome.Awards)
}

func TestCompetitionAward(t *testing.T) {
	sessions := []domain.Session{
		mkSession("A", "2025-10-01", "02:00"),
		mkSession("B", "2025-10-01", "04:00"),
	}
	outcome := ComputeAwards(sessions, domain.Period{})

	comp := findAward(t, outcome, "The Competition Award")
	assert.Equal(t, "B", comp.Winner)
	assert.Equal(t, "4.0 Hours", comp.Value)
}

func TestCompetitionAwardTieKeepsFirstSeen(t *testing.T) {
	sessions := []domain.Session{
		mkSession("Second", "2025-10-02", "02:00"),
		mkSession("First", "2025-10-01", "02:00"),
	}
	outcome := ComputeAwards(sessions, domain.Period{})

	// "Second" appears first in the input, so it wins the tie.
	comp := findAward(t, outcome, "The Competition Award")
	assert.Equal(t, "Second", comp.Winner)
}

func TestMarathonAward(t *testing.T) {
	sessions := []domain.Session{
		mkSession("A", "2025-10-01", "02:10"),
		mkSession("B", "2025-10-08", "03:48"),
		mkSession("C", "2025-10-09", "01:30"),
	}
	outcome := ComputeAwards(sessions, domain.Period{})

	marathon := findAward(t, outcome, "The Marathon Award")
	assert.Equal(t, "B", marathon.Winner)
	assert.Equal(t, "3:48 (hh:mm)", marathon.Value)
}

func TestSessionFloorAwardsRequireEligibility(t *testing.T) {
	// Two sessions: below the >=3 floor for Quickie/Monk/Author and the
	// >=5 floor for Minimalist/Board Hoarder/Localism. As the only user in
	// the period, those categories yield no winner at all.
	sessions := []domain.Session{
		mkSession("A", "2025-10-01", "01:00"),
		mkSession("A", "2025-10-02", "02:00"),
	}
	outcome := ComputeAwards(sessions, domain.Period{})

	for _, name := range []string{
		"The Quickie Lover Award",
		"The Monk Award",
		"The Author Award",
		"The Minimalist Award",
		"The Board Hoarder Award",
		"The Localism Award",
	} {
		assert.False(t, hasAward(outcome, name), "%s must have no winner", name)
	}

	// No-floor categories still resolve.
	assert.True(t, hasAward(outcome, "The Competition Award"))
	assert.True(t, hasAward(outcome, "The Marathon Award"))
}

func TestQuickieAndAuthorAwards(t *testing.T) {
	short := func(notes string) func(*domain.Session) {
		return func(s *domain.Session) { s.Notes = notes }
	}
	sessions := []domain.Session{
		mkSession("Quick", "2025-10-01", "00:30", short("ok")),
		mkSession("Quick", "2025-10-02", "00:30", short("fun")),
		mkSession("Quick", "2025-10-03", "00:30", short("")),
		mkSession("Wordy", "2025-10-01", "02:00", short("an epic tale of waves and wind")),
		mkSession("Wordy", "2025-10-02", "02:00", short("another long story about the ocean")),
		mkSession("Wordy", "2025-10-03", "02:00", short("so many words in this entry here")),
	}
	outcome := ComputeAwards(sessions, domain.Period{})

	quickie := findAward(t, outcome, "The Quickie Lover Award")
	assert.Equal(t, "Quick", quickie.Winner)
	assert.Equal(t, "0:30", quickie.Value)

	// Quick averages (1+1+0)/3 words; Wordy averages 7 (empty notes count 0
	// words but stay in the denominator).
	monk := findAward(t, outcome, "The Monk Award")
	assert.Equal(t, "Quick", monk.Winner)
	assert.Equal(t, "0.7 words/entry", monk.Value)

	author := findAward(t, outcome, "The Author Award")
	assert.Equal(t, "Wordy", author.Winner)
	assert.Equal(t, "6.7 words/entry", author.Value)
}

func TestBoardAndLocationAwards(t *testing.T) {
	withGear := func(board, loc string) func(*domain.Session) {
		return func(s *domain.Session) { s.Board = board; s.Location = loc }
	}
	var sessions []domain.Session
	boards := []string{"Log", "Mid", "Shortboard", "Fish", "Gun"}
	for i, b := range boards {
		date := "2025-10-0" + string(rune('1'+i))
		sessions = append(sessions, mkSession("Hoarder", date, "01:00", withGear(b, "OB")))
		sessions = append(sessions, mkSession("Loyal", date, "01:00", withGear("PPE", "OB - Lawton")))
	}
	outcome := ComputeAwards(sessions, domain.Period{})

	hoarder := findAward(t, outcome, "The Board Hoarder Award")
	assert.Equal(t, "Hoarder", hoarder.Winner)
	assert.Equal(t, "5", hoarder.Value)

	minimalist := findAward(t, outcome, "The Minimalist Award")
	assert.Equal(t, "Loyal", minimalist.Winner)
	assert.Equal(t, "1", minimalist.Value)

	localism := findAward(t, outcome, "The Localism Award")
	assert.Equal(t, "1", localism.Value)
}

func TestConsistencyAwardsSoleParticipant(t *testing.T) {
	// Equal-length sessions: stddev 0, and the sole participant takes both
	// Consistent and Inconsistent.
	sessions := []domain.Session{
		mkSession("A", "2025-10-01", "01:00"),
		mkSession("A", "2025-10-02", "01:00"),
		mkSession("A", "2025-10-03", "01:00"),
	}
	outcome := ComputeAwards(sessions, domain.Period{})

	consistent := findAward(t, outcome, "The Consistent Award")
	assert.Equal(t, "A", consistent.Winner)
	assert.Equal(t, "0 min std dev", consistent.Value)

	inconsistent := findAward(t, outcome, "The Inconsistent Award")
	assert.Equal(t, "A", inconsistent.Winner)
}

func TestTwoferAward(t *testing.T) {
	sessions := []domain.Session{
		mkSession("A", "2025-10-01", "01:00"),
		mkSession("A", "2025-10-01", "01:00"),
		mkSession("B", "2025-10-02", "01:00"),
	}
	outcome := ComputeAwards(sessions, domain.Period{})

	twofer := findAward(t, outcome, "The Twofer Award")
	assert.Equal(t, "A", twofer.Winner)
	assert.Equal(t, "1 days", twofer.Value)
}

func TestWeekendAndWeekdayAwards(t *testing.T) {
	// 2025-10-04/05 is a weekend; 2025-10-06 a Monday.
	sessions := []domain.Session{
		mkSession("Weekender", "2025-10-04", "02:00"),
		mkSession("Weekender", "2025-10-05", "02:00"),
		mkSession("Grinder", "2025-10-06", "02:00"),
	}
	outcome := ComputeAwards(sessions, domain.Period{})

	weekend := findAward(t, outcome, "The Weekend Warrior Award")
	assert.Equal(t, "Weekender", weekend.Winner)
	assert.Equal(t, "100%", weekend.Value)

	work := findAward(t, outcome, "The Work Allergic Award")
	assert.Equal(t, "Grinder", work.Winner)
	assert.Equal(t, "100%", work.Value)
}

func TestEarlyAndLateAwards(t *testing.T) {
	sessions := []domain.Session{
		mkSession("Early", "2025-10-03", "02:00"),
		mkSession("Late", "2025-10-28", "02:00"),
	}
	outcome := ComputeAwards(sessions, domain.Period{})

	early := findAward(t, outcome, "The Early Achiever Award")
	assert.Equal(t, "Early", early.Winner)
	assert.Equal(t, "100%", early.Value)

	late := findAward(t, outcome, "The Procrastinator Award")
	assert.Equal(t, "Late", late.Winner)
}

func TestBudgieSmugglerAward(t *testing.T) {
	sessions := []domain.Session{
		mkSession("Suited", "2025-10-01", "05:00"),
		mkSession("Brave", "2025-10-02", "01:30", noWetsuit),
	}
	outcome := ComputeAwards(sessions, domain.Period{})

	// Only users with a qualifying session are candidates, regardless of
	// total hours. 90 minutes doubled = 3.0 hours.
	budgie := findAward(t, outcome, "The Budgie Smuggler Award")
	assert.Equal(t, "Brave", budgie.Winner)
	assert.Equal(t, "3.0 hours", budgie.Value)
}

func TestBudgieSmugglerAbsentWithoutQualifyingSessions(t *testing.T) {
	sessions := []domain.Session{mkSession("Suited", "2025-10-01", "05:00")}
	outcome := ComputeAwards(sessions, domain.Period{})
	assert.False(t, hasAward(outcome, "The Budgie Smuggler Award"))
}

func TestFriendshipAndLoversAward(t *testing.T) {
	withNotes := func(notes string) func(*domain.Session) {
		return func(s *domain.Session) { s.Notes = notes }
	}
	sessions := []domain.Session{
		mkSession("Pam", "2025-10-05", "01:10", withNotes("With friends: Jason, Nic")),
		mkSession("Jason", "2025-10-03", "02:10", withNotes("Clean but a bit walled")),
		mkSession("Nic", "2025-10-09", "01:30", withNotes("Speedo sesh")),
	}
	outcome := ComputeAwards(sessions, domain.Period{})

	// Pam's one note mentions two other known users; each name counts once
	// per note via case-insensitive substring match.
	lovers := findAward(t, outcome, "The Friendship and Lovers Award")
	assert.Equal(t, "Pam", lovers.Winner)
	assert.Equal(t, "2 mentions", lovers.Value)
}

func TestMentionsAreSubstringMatches(t *testing.T) {
	withNotes := func(notes string) func(*domain.Session) {
		return func(s *domain.Session) { s.Notes = notes }
	}
	// "Nic" is a substring of "Nick": that counts, by design.
	sessions := []domain.Session{
		mkSession("Chase", "2025-10-12", "01:35", withNotes("high five with Nick")),
		mkSession("Nic", "2025-10-09", "01:30"),
	}
	outcome := ComputeAwards(sessions, domain.Period{})

	lovers := findAward(t, outcome, "The Friendship and Lovers Award")
	assert.Equal(t, "Chase", lovers.Winner)
	assert.Equal(t, "1 mentions", lovers.Value)
}

func TestMarineBiologistAward(t *testing.T) {
	withNotes := func(notes string) func(*domain.Session) {
		return func(s *domain.Session) { s.Notes = notes }
	}
	sessions := []domain.Session{
		mkSession("A", "2025-10-01", "01:00", withNotes("Saw a seal and a dolphin out back")),
		mkSession("A", "2025-10-02", "01:00", withNotes("jellyfish everywhere")),
		mkSession("B", "2025-10-03", "01:00", withNotes("flat and empty")),
	}
	outcome := ComputeAwards(sessions, domain.Period{})

	// seal + dolphin on day one, "jellyfish" contains "jelly" on day two.
	bio := findAward(t, outcome, "The Marine Biologist Award")
	assert.Equal(t, "A", bio.Winner)
	assert.Equal(t, "3", bio.Value)
}

func TestDrifterAward(t *testing.T) {
	withNotes := func(notes string) func(*domain.Session) {
		return func(s *domain.Session) { s.Notes = notes }
	}
	sessions := []domain.Session{
		mkSession("A", "2025-10-01", "01:00", withNotes("Got swept down the beach by the rip")),
		mkSession("B", "2025-10-02", "01:00", withNotes("mellow day")),
	}
	outcome := ComputeAwards(sessions, domain.Period{})

	drifter := findAward(t, outcome, "The Drifter Award")
	assert.Equal(t, "A", drifter.Winner)
	assert.Equal(t, "2", drifter.Value)
}

func TestComputeAwardsReturnsTotals(t *testing.T) {
	sessions := []domain.Session{
		mkSession("A", "2025-10-01", "02:00"),
		mkSession("B", "2025-10-01", "01:00"),
	}
	outcome := ComputeAwards(sessions, domain.Period{})

	require.Len(t, outcome.Totals, 2)
	assert.Equal(t, "A", outcome.Totals[0].User, "totals sorted by minutes desc")
}

func TestComputeAwardsInputsAreNotMutated(t *testing.T) {
	sessions := []domain.Session{
		mkSession("A", "2025-10-01", "02:00"),
		mkSession("B", "2025-10-02", "01:00", noWetsuit),
	}
	before := make([]domain.Session, len(sessions))
	copy(before, sessions)

	_ = ComputeAwards(sessions, domain.Period{})
	_ = Rollup(sessions, domain.Period{})

	assert.Equal(t, before, sessions)
}
