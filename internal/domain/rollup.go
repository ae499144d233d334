package domain

// Medal is the tier a user earns for a period, by total hours.
type Medal string

const (
	// MedalGold is awarded at 40 hours or more.
	MedalGold Medal = "GOLD"
	// MedalSilver is awarded at 30 hours or more.
	MedalSilver Medal = "SILVER"
	// MedalBronze is awarded at 25 hours or more.
	MedalBronze Medal = "BRONZE"
	// MedalParticipant is awarded at 10 hours or more.
	MedalParticipant Medal = "PARTICIPANT"
	// MedalObserver is the tier below 10 hours.
	MedalObserver Medal = "OBSERVER"
)

// MedalFor returns the medal tier for a total-hours value.
// Thresholds are checked descending; the first match wins.
func MedalFor(hours float64) Medal {
	switch {
	case hours >= 40:
		return MedalGold
	case hours >= 30:
		return MedalSilver
	case hours >= 25:
		return MedalBronze
	case hours >= 10:
		return MedalParticipant
	default:
		return MedalObserver
	}
}

// UserRollup is the per-user summary for a period. TotalMinutes includes the
// one-time +60 costume bonus; the share fractions are computed over base
// minutes before the bonus.
type UserRollup struct {
	User           string  `json:"user"`
	TotalMinutes   int     `json:"total_minutes"`
	TotalHours     float64 `json:"total_hours"`
	Medal          Medal   `json:"medal"`
	Boards         int     `json:"boards"`
	Locations      int     `json:"locations"`
	StdDev         float64 `json:"stddev"` // population stddev of duration_minutes
	TwoferDays     int     `json:"twofer_days"`
	WeekdayShare   float64 `json:"weekday_share"`
	WeekendShare   float64 `json:"weekend_share"`
	FirstHalfShare float64 `json:"first_half_share"`
	LastHalfShare  float64 `json:"last_half_share"`
}

// Award names a single superlative winner for a period.
type Award struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Winner      string `json:"winner"`
	Value       string `json:"value"`
}

// AwardOutcome bundles the award winners with the rollup they were computed
// from. It serializes directly as the awards export format.
type AwardOutcome struct {
	Awards []Award      `json:"awards"`
	Totals []UserRollup `json:"totals"`
}
