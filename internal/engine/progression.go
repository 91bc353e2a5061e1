package engine

// UnlockThreshold is the batch accuracy needed to unlock the next level.
const UnlockThreshold = 0.85

// DefaultMaxLevel bounds adventure progression.
const DefaultMaxLevel = 9

// Progression gates which adventure levels may be started.
type Progression struct {
	Unlocked int
	MaxLevel int
}

// NewProgression clamps the stored values into a usable range.
func NewProgression(unlocked, maxLevel int) Progression {
	if maxLevel <= 0 {
		maxLevel = DefaultMaxLevel
	}
	if unlocked < 1 {
		unlocked = 1
	}
	if unlocked > maxLevel {
		unlocked = maxLevel
	}
	return Progression{Unlocked: unlocked, MaxLevel: maxLevel}
}

// CanPlay reports whether level may be started.
func (p Progression) CanPlay(level int) bool {
	if level < 1 || level > p.MaxLevel {
		return false
	}
	return level <= p.Unlocked+1
}

// Complete applies a finished batch and reports whether a new level unlocked.
// Only clearing the frontier level itself moves the frontier.
func (p *Progression) Complete(level int, accuracy float64) bool {
	if level != p.Unlocked || accuracy < UnlockThreshold {
		return false
	}
	if p.Unlocked >= p.MaxLevel {
		return false
	}
	p.Unlocked++
	return true
}
