// Package message turns raw Insight payloads into validated, immutable message values.
//
// Every Parse function accepts the typed value itself, a JSON document as string, []byte or
// json.RawMessage, or an already decoded value (map, slice, string). Parsing an already parsed
// value returns an equal value.
package message

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrMalformedMessage is returned when a payload does not have the expected shape.
	ErrMalformedMessage = errors.New("malformed message")

	// ErrInvalidAddress is returned when an output address is rejected by an AddressValidator.
	ErrInvalidAddress = errors.New("invalid address")
)

// AddressValidator reports whether an address string is valid for the watched network.
type AddressValidator interface {
	IsValid(address string) bool
}

type parseConfig struct {
	addressValidator AddressValidator
}

// ParseOption configures the transaction announcement parser.
type ParseOption func(*parseConfig)

// WithAddressValidator rejects announcements whose output addresses are not accepted by v.
func WithAddressValidator(v AddressValidator) ParseOption {
	return func(c *parseConfig) {
		c.addressValidator = v
	}
}

// payload returns the JSON document carried by v.
//
// A JSON string literal wrapping a document (double encoding, as some servers broadcast it)
// is unwrapped once.
func payload(v any) ([]byte, error) {
	var data []byte
	switch x := v.(type) {
	case nil:
		return nil, fmt.Errorf("%w: empty payload", ErrMalformedMessage)
	case json.RawMessage:
		data = x
	case []byte:
		data = x
	case string:
		data = []byte(x)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedMessage, err)
		}
		data = b
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrMalformedMessage)
	}

	if data[0] == '"' {
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedMessage, err)
		}
		data = bytes.TrimSpace([]byte(inner))
	}

	return data, nil
}

// decode parses v into dst, wrapping any failure in ErrMalformedMessage.
func decode(v any, dst any) error {
	data, err := payload(v)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedMessage, err)
	}

	return nil
}

// missing builds the error for an absent required field.
func missing(field string) error {
	return fmt.Errorf("%w: missing field %q", ErrMalformedMessage, field)
}
