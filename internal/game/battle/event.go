package battle

import "github.com/avoid201/untoldstory-engine/internal/game/typechart"

// EventKind classifies one display-ready event record.
type EventKind int

const (
	EventMessage EventKind = iota
	EventDamage
	EventFaint
	EventStatus
	EventSwitch
	EventDefend
	EventItem
	EventFlee
	EventChip
	EventSkip
)

// String returns the lower-case event kind name.
func (k EventKind) String() string {
	switch k {
	case EventMessage:
		return "message"
	case EventDamage:
		return "damage"
	case EventFaint:
		return "faint"
	case EventStatus:
		return "status"
	case EventSwitch:
		return "switch"
	case EventDefend:
		return "defend"
	case EventItem:
		return "item"
	case EventFlee:
		return "flee"
	case EventChip:
		return "chip"
	case EventSkip:
		return "skip"
	default:
		return "unknown"
	}
}

// Event is one ordered, display-ready record of something that happened
// during turn resolution. The structured fields are sufficient for a
// renderer to animate without re-deriving engine logic; Message is the
// fallback display string.
type Event struct {
	Kind       EventKind
	ActorID    string
	ActorName  string
	TargetID   string
	TargetName string
	// Amount is the damage or healing applied, 0 when not applicable.
	Amount int
	// Tier is the effectiveness classification for damage events.
	Tier typechart.Tier
	// Critical is true for critical-hit damage events.
	Critical bool
	Message  string
}
