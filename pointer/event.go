package pointer

import (
	"fmt"
	"time"
)

// Kind identifies a pointer event.
type Kind int

const (
	KindDown Kind = iota + 1
	KindMove
	KindUp
)

func (k Kind) String() string {
	switch k {
	case KindDown:
		return "down"
	case KindMove:
		return "move"
	case KindUp:
		return "up"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind maps "down", "move" and "up" to their Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "down":
		return KindDown, nil
	case "move":
		return KindMove, nil
	case "up":
		return KindUp, nil
	}
	return 0, fmt.Errorf("pointer: unknown event kind %q", s)
}

// Event is a normalized mouse or touch event. Only the X coordinate is
// carried.
type Event struct {
	Kind Kind
	X    float64
	At   time.Time
}
