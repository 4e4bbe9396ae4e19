package dca

// Profile names the two parameter regimes the adaptive overlay switches
// between.
type Profile int

const (
	ProfileConservative Profile = iota
	ProfileAggressive
)

func (p Profile) String() string {
	if p == ProfileAggressive {
		return "aggressive"
	}
	return "conservative"
}

// profileSwitchStreak is how many consecutive days the position status must
// sit in one region before the profile flips. The streak requirement is the
// hysteresis: a single day in the other region resets the counter instead
// of flipping back immediately.
const profileSwitchStreak = 3

type profileState struct {
	current    Profile
	lastStatus PositionStatus
	streak     int
}

// observe feeds one day's position status in and flips the profile after a
// full streak in the opposite region. Neutral days break streaks but never
// cause a switch.
func (ps *profileState) observe(status PositionStatus) {
	if status == ps.lastStatus {
		ps.streak++
	} else {
		ps.lastStatus = status
		ps.streak = 1
	}

	if ps.streak < profileSwitchStreak {
		return
	}
	switch status {
	case StatusWinning:
		ps.current = ProfileAggressive
	case StatusLosing:
		ps.current = ProfileConservative
	}
}
