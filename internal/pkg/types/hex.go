package types

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidHex is returned when a string contains anything other than hexadecimal digits.
var ErrInvalidHex = errors.New("invalid hex string")

// HexString is a non-empty string made only of hexadecimal digits (e.g., a block hash or a
// transaction id). Unlike RPC quantities it carries no "0x" prefix.
type HexString string

// IsHex reports whether s is a non-empty run of [0-9a-fA-F].
func IsHex(s string) bool {
	if s == "" {
		return false
	}

	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}

	return true
}

// HexStringFromString validates s and returns it as a HexString.
func HexStringFromString(s string) (HexString, error) {
	if !IsHex(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	return HexString(s), nil
}

// String returns the underlying string.
func (h HexString) String() string {
	return string(h)
}

// MarshalJSON encodes the HexString as a JSON string.
func (h HexString) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(h))
}

// UnmarshalJSON parses and validates a JSON-encoded hexadecimal string.
func (h *HexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidHex, err)
	}

	v, err := HexStringFromString(s)
	if err != nil {
		return err
	}

	*h = v
	return nil
}
