package stats

import (
	"fmt"
	"math"
	"strings"

	"github.com/surftober/surftober-server/internal/domain"
)

// Keyword lists for the notes-scanning awards. Matching is case-insensitive
// substring containment, not word-boundary - changing that would rewrite
// historical award outcomes.
var (
	wildlifeKeywords = []string{"dolphin", "seal", "whale", "otter", "shark", "pelican", "sea lion", "jelly", "ray"}
	driftKeywords    = []string{"drift", "current", "swept", "rip", "conveyor"}
)

// candidate is one user's value for a single award category.
type candidate struct {
	user  string
	value float64
}

// pickWinner selects the candidate with the maximal (or minimal) value.
// Ties keep the earliest candidate: iteration order is first-seen-in-input,
// and that order deciding ties is deliberate, documented behavior - not a
// bug to fix with an alphabetical sort. Non-finite values are skipped.
// Returns false when no candidate is eligible.
func pickWinner(cands []candidate, minimize bool) (candidate, bool) {
	var best candidate
	found := false
	for _, c := range cands {
		if math.IsNaN(c.value) || math.IsInf(c.value, 0) {
			continue
		}
		if !found {
			best = c
			found = true
			continue
		}
		if (minimize && c.value < best.value) || (!minimize && c.value > best.value) {
			best = c
		}
	}
	return best, found
}

// fromTotals builds candidates from the rollup rows using the given field.
func fromTotals(totals []domain.UserRollup, get func(domain.UserRollup) float64) []candidate {
	cands := make([]candidate, 0, len(totals))
	for _, t := range totals {
		cands = append(cands, candidate{user: t.User, value: get(t)})
	}
	return cands
}

// wordsPerEntry is the mean note word count over all of a group's sessions.
// Empty notes count 0 words but still count in the denominator.
func wordsPerEntry(g userGroup) float64 {
	if len(g.sessions) == 0 {
		return 0
	}
	words := 0
	for _, s := range g.sessions {
		words += len(strings.Fields(s.Notes))
	}
	return float64(words) / float64(len(g.sessions))
}

// countMentions counts how many of the given names appear (case-insensitive
// substring) in the note. Each name counts at most once per note.
func countMentions(note string, names []string) int {
	if note == "" {
		return 0
	}
	lc := strings.ToLower(note)
	n := 0
	for _, name := range names {
		if name != "" && strings.Contains(lc, strings.ToLower(name)) {
			n++
		}
	}
	return n
}

// countKeywords counts how many of the keywords appear in the note. Each
// keyword counts at most once per note.
func countKeywords(note string, keywords []string) int {
	lc := strings.ToLower(note)
	n := 0
	for _, kw := range keywords {
		if strings.Contains(lc, kw) {
			n++
		}
	}
	return n
}

// ComputeAwards ranks every award category over the sessions matching the
// period. Categories with no eligible candidate are simply absent from the
// result; an empty period yields an empty (non-nil) award list, never an
// error.
func ComputeAwards(sessions []domain.Session, period domain.Period) domain.AwardOutcome {
	var filtered []domain.Session
	for _, s := range sessions {
		if period.Matches(s.Date) {
			filtered = append(filtered, s)
		}
	}

	groups := groupByUser(filtered, domain.Period{})
	totals := Rollup(filtered, domain.Period{})
	awards := make([]domain.Award, 0, 19)

	if len(filtered) == 0 {
		return domain.AwardOutcome{Awards: awards, Totals: totals}
	}

	push := func(name, desc string, winner candidate, value string) {
		awards = append(awards, domain.Award{Name: name, Description: desc, Winner: winner.user, Value: value})
	}

	// Competition: most hours logged.
	if w, ok := pickWinner(fromTotals(totals, func(t domain.UserRollup) float64 { return t.TotalHours }), false); ok {
		push("The Competition Award", "Person with the most hours logged", w, fmt.Sprintf("%.1f Hours", w.value))
	}

	// Marathon: longest single session, first-seen in input order on ties.
	marathon := make([]candidate, 0, len(filtered))
	for _, s := range filtered {
		marathon = append(marathon, candidate{user: strings.TrimSpace(s.User), value: float64(s.DurationMinutes)})
	}
	if w, ok := pickWinner(marathon, false); ok {
		push("The Marathon Award", "Longest single session", w, FormatDuration(int(w.value))+" (hh:mm)")
	}

	// Mean session duration, minimum 3 sessions.
	var avgDur []candidate
	for _, g := range groups {
		if len(g.sessions) < 3 {
			continue
		}
		total := 0
		for _, s := range g.sessions {
			total += s.DurationMinutes
		}
		avgDur = append(avgDur, candidate{user: g.user, value: float64(total) / float64(len(g.sessions))})
	}
	if w, ok := pickWinner(avgDur, true); ok {
		push("The Quickie Lover Award", "Shortest average session time (min 3 sessions)", w,
			FormatDuration(int(math.Round(w.value))))
	}

	// Words per entry, minimum 3 sessions.
	var words []candidate
	for _, g := range groups {
		if len(g.sessions) < 3 {
			continue
		}
		words = append(words, candidate{user: g.user, value: wordsPerEntry(g)})
	}
	if w, ok := pickWinner(words, true); ok {
		push("The Monk Award", "Least words per entry", w, fmt.Sprintf("%.1f words/entry", w.value))
	}
	if w, ok := pickWinner(words, false); ok {
		push("The Author Award", "Most words per entry", w, fmt.Sprintf("%.1f words/entry", w.value))
	}

	// Distinct boards, minimum 5 sessions.
	var boards []candidate
	for _, g := range groups {
		if len(g.sessions) < 5 {
			continue
		}
		n := distinctTrimmed(g.sessions, func(s domain.Session) string { return s.Board })
		boards = append(boards, candidate{user: g.user, value: float64(n)})
	}
	if w, ok := pickWinner(boards, true); ok {
		push("The Minimalist Award", "Least number of boards used", w, fmt.Sprintf("%d", int(w.value)))
	}
	if w, ok := pickWinner(boards, false); ok {
		push("The Board Hoarder Award", "Most different boards used", w, fmt.Sprintf("%d", int(w.value)))
	}

	// Distinct locations, minimum 5 sessions.
	var locations []candidate
	for _, g := range groups {
		if len(g.sessions) < 5 {
			continue
		}
		n := distinctTrimmed(g.sessions, func(s domain.Session) string { return s.Location })
		locations = append(locations, candidate{user: g.user, value: float64(n)})
	}
	if w, ok := pickWinner(locations, true); ok {
		push("The Localism Award", "Least number of locations", w, fmt.Sprintf("%d", int(w.value)))
	}

	// Month-half shares.
	if w, ok := pickWinner(fromTotals(totals, func(t domain.UserRollup) float64 { return t.FirstHalfShare }), false); ok {
		push("The Early Achiever Award", "Most % hours in first half", w, formatPercent(w.value))
	}
	if w, ok := pickWinner(fromTotals(totals, func(t domain.UserRollup) float64 { return t.LastHalfShare }), false); ok {
		push("The Procrastinator Award", "Most % hours in last half", w, formatPercent(w.value))
	}

	// Session-length variance.
	stddevs := fromTotals(totals, func(t domain.UserRollup) float64 { return t.StdDev })
	if w, ok := pickWinner(stddevs, true); ok {
		push("The Consistent Award", "Smallest session length variance", w, fmt.Sprintf("%d min std dev", int(math.Round(w.value))))
	}
	if w, ok := pickWinner(stddevs, false); ok {
		push("The Inconsistent Award", "Largest session length variance", w, fmt.Sprintf("%d min std dev", int(math.Round(w.value))))
	}

	// Twofer days and weekday/weekend shares.
	if w, ok := pickWinner(fromTotals(totals, func(t domain.UserRollup) float64 { return float64(t.TwoferDays) }), false); ok {
		push("The Twofer Award", "Most days with 2+ sessions", w, fmt.Sprintf("%d days", int(w.value)))
	}
	if w, ok := pickWinner(fromTotals(totals, func(t domain.UserRollup) float64 { return t.WeekendShare }), false); ok {
		push("The Weekend Warrior Award", "Highest % of hours on Sat+Sun", w, formatPercent(w.value))
	}
	if w, ok := pickWinner(fromTotals(totals, func(t domain.UserRollup) float64 { return t.WeekdayShare }), false); ok {
		push("The Work Allergic Award", "Highest % of hours Mon-Fri", w, formatPercent(w.value))
	}

	// Budgie Smuggler: base minutes on no-wetsuit sessions. Only users with
	// at least one qualifying session are candidates.
	var budgie []candidate
	budgieIndex := make(map[string]int)
	for _, s := range filtered {
		if !s.NoWetsuit {
			continue
		}
		user := strings.TrimSpace(s.User)
		i, ok := budgieIndex[user]
		if !ok {
			i = len(budgie)
			budgieIndex[user] = i
			budgie = append(budgie, candidate{user: user})
		}
		budgie[i].value += float64(s.BaseMinutes)
	}
	if w, ok := pickWinner(budgie, false); ok {
		push("The Budgie Smuggler Award", "Most hours with no wetsuit", w, fmt.Sprintf("%.1f hours", w.value/60))
	}

	// Friendship and Lovers: mentions of other participants in notes.
	names := make([]string, 0, len(groups))
	for _, g := range groups {
		if g.user != "" {
			names = append(names, g.user)
		}
	}
	var mentions []candidate
	for _, g := range groups {
		others := make([]string, 0, len(names))
		for _, n := range names {
			if n != g.user {
				others = append(others, n)
			}
		}
		total := 0
		for _, s := range g.sessions {
			total += countMentions(s.Notes, others)
		}
		mentions = append(mentions, candidate{user: g.user, value: float64(total)})
	}
	if w, ok := pickWinner(mentions, false); ok {
		push("The Friendship and Lovers Award", "Mentions others the most", w, fmt.Sprintf("%d mentions", int(w.value)))
	}

	// Keyword awards.
	keywordCandidates := func(keywords []string) []candidate {
		cands := make([]candidate, 0, len(groups))
		for _, g := range groups {
			total := 0
			for _, s := range g.sessions {
				total += countKeywords(s.Notes, keywords)
			}
			cands = append(cands, candidate{user: g.user, value: float64(total)})
		}
		return cands
	}
	if w, ok := pickWinner(keywordCandidates(wildlifeKeywords), false); ok {
		push("The Marine Biologist Award", "Most wildlife mentions", w, fmt.Sprintf("%d", int(w.value)))
	}
	if w, ok := pickWinner(keywordCandidates(driftKeywords), false); ok {
		push("The Drifter Award", "Most drift/current mentions", w, fmt.Sprintf("%d", int(w.value)))
	}

	return domain.AwardOutcome{Awards: awards, Totals: totals}
}

// formatPercent renders a 0..1 share as a rounded percentage string.
func formatPercent(share float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(share*100)))
}
