package sortable

// Phase is the lifecycle position of a drag session.
type Phase int

const (
	// PhaseIdle means no session exists yet
	PhaseIdle Phase = iota
	// PhaseActive means the session accepted its start notification and
	// responds to move, drop and cancel
	PhaseActive
	// PhaseEnded is terminal; reached through drop or cancel
	PhaseEnded
)

// String returns the string representation of the phase
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseActive:
		return "active"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Key is an input key relevant to sessions and sensors.
type Key int

const (
	KeyNone Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeySpace
	KeyEscape
)

// String returns the configuration name of the key.
func (k Key) String() string {
	switch k {
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	case KeyEnter:
		return "enter"
	case KeySpace:
		return "space"
	case KeyEscape:
		return "escape"
	default:
		return "none"
	}
}

// ParseKey maps a configuration name back to a Key.
func ParseKey(s string) (Key, bool) {
	for k := KeyUp; k <= KeyEscape; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return KeyNone, false
}

func containsKey(keys []Key, k Key) bool {
	for _, candidate := range keys {
		if candidate == k {
			return true
		}
	}
	return false
}
