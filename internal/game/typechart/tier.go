package typechart

// Tier classifies a final effectiveness multiplier for messaging.
type Tier int

const (
	TierImmune Tier = iota
	TierResisted
	TierNeutral
	TierSuper
)

// String returns the lower-case tier label.
func (t Tier) String() string {
	switch t {
	case TierImmune:
		return "immune"
	case TierResisted:
		return "resisted"
	case TierNeutral:
		return "neutral"
	case TierSuper:
		return "super"
	default:
		return "unknown"
	}
}

// TierFor classifies a multiplier: 0 is immune, below 1 resisted, above 1
// super-effective, exactly 1 neutral.
func TierFor(mult float64) Tier {
	switch {
	case mult == 0:
		return TierImmune
	case mult < 1:
		return TierResisted
	case mult > 1:
		return TierSuper
	default:
		return TierNeutral
	}
}
