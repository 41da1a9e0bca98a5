package subscription

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidMode is returned when a subscription mode cannot be parsed.
var ErrInvalidMode = errors.New("invalid subscription mode")

// Mode selects how a channel is handled.
type Mode int

const (
	// ModeOff ignores the channel entirely: no handler is attached.
	ModeOff Mode = iota
	// ModeOn normalizes and emits announcements.
	ModeOn
	// ModeDetailed also fetches and emits the detail record of each announcement.
	ModeDetailed
)

// String returns the value written in configuration: "false", "true" or "detailed".
func (m Mode) String() string {
	switch m {
	case ModeOff:
		return "false"
	case ModeOn:
		return "true"
	case ModeDetailed:
		return "detailed"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Enabled reports whether the channel gets a handler at all.
func (m Mode) Enabled() bool {
	return m != ModeOff
}

func (m Mode) valid() bool {
	return m >= ModeOff && m <= ModeDetailed
}

// ParseMode parses "false"/"off", "true"/"on" or "detailed", case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "false", "off":
		return ModeOff, nil
	case "true", "on":
		return ModeOn, nil
	case "detailed":
		return ModeDetailed, nil
	default:
		return ModeOff, fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// MarshalJSON encodes the mode as false, true or "detailed".
func (m Mode) MarshalJSON() ([]byte, error) {
	switch m {
	case ModeOff:
		return []byte("false"), nil
	case ModeOn:
		return []byte("true"), nil
	case ModeDetailed:
		return []byte(`"detailed"`), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidMode, int(m))
	}
}

// UnmarshalJSON accepts a JSON boolean or any string ParseMode accepts.
func (m *Mode) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*m = ModeOff
		if b {
			*m = ModeOn
		}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidMode, data)
	}

	mode, err := ParseMode(s)
	if err != nil {
		return err
	}

	*m = mode
	return nil
}

// Subscriptions is the per-connection configuration of the two server channels.
type Subscriptions struct {
	Block Mode `json:"block"`
	Tx    Mode `json:"tx"`
}

// DefaultSubscriptions is used when Activate is called without a configuration:
// block announcements only, no transactions.
func DefaultSubscriptions() Subscriptions {
	return Subscriptions{Block: ModeOn, Tx: ModeOff}
}

// State is the lifecycle state of the engine.
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateConnected
	StateDisconnected
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateDisconnected:
		return "disconnected"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}
