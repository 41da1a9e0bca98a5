package socketio

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrProtocol is returned for frames that do not follow the Engine.IO / Socket.IO framing.
	ErrProtocol = errors.New("socket.io protocol error")

	// ErrUnsupportedVersion is returned for an Engine.IO version other than 3 or 4.
	ErrUnsupportedVersion = errors.New("unsupported engine.io version")
)

// Engine.IO packet types.
const (
	engineOpen    = '0'
	engineClose   = '1'
	enginePing    = '2'
	enginePong    = '3'
	engineMessage = '4'
	engineNoop    = '6'
)

// Socket.IO packet types, carried inside an Engine.IO message.
const (
	socketConnect    = '0'
	socketDisconnect = '1'
	socketEvent      = '2'
	socketAck        = '3'
	socketError      = '4'
)

var (
	pingFrame    = []byte{enginePing}
	pongFrame    = []byte{enginePong}
	connectFrame = []byte{engineMessage, socketConnect}
)

// openPacket is the payload of the Engine.IO handshake.
type openPacket struct {
	SID          string `json:"sid"`
	PingInterval int64  `json:"pingInterval"`
	PingTimeout  int64  `json:"pingTimeout"`
}

func (p openPacket) interval() time.Duration { return time.Duration(p.PingInterval) * time.Millisecond }
func (p openPacket) timeout() time.Duration  { return time.Duration(p.PingTimeout) * time.Millisecond }

// socketURL turns the http(s) address of a Socket.IO server into its websocket transport URL.
func socketURL(raw string, version int) (string, error) {
	if version != 3 && version != 4 {
		return "", fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported scheme %q in %q", u.Scheme, raw)
	}

	u.Path = strings.TrimRight(u.Path, "/") + "/socket.io/"
	u.RawPath = ""

	q := u.Query()
	q.Set("EIO", strconv.Itoa(version))
	q.Set("transport", "websocket")
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// parseOpen decodes the handshake frame.
func parseOpen(frame []byte) (openPacket, error) {
	if len(frame) == 0 || frame[0] != engineOpen {
		return openPacket{}, fmt.Errorf("%w: expected open packet, got %q", ErrProtocol, frame)
	}

	var p openPacket
	if err := json.Unmarshal(frame[1:], &p); err != nil {
		return openPacket{}, fmt.Errorf("%w: open packet: %w", ErrProtocol, err)
	}

	if p.PingInterval <= 0 || p.PingTimeout <= 0 {
		return openPacket{}, fmt.Errorf("%w: open packet without heartbeat settings", ErrProtocol)
	}

	return p, nil
}

// encodeEvent builds the 42["event",payload] frame.
func encodeEvent(event string, payload any) ([]byte, error) {
	args := []any{event}
	if payload != nil {
		args = append(args, payload)
	}

	body, err := json.Marshal(args)
	if err != nil {
		return nil, err
	}

	return append([]byte{engineMessage, socketEvent}, body...), nil
}

// stripNamespace removes a leading "/nsp," from a Socket.IO packet body and reports the
// namespace. The default namespace is "/".
func stripNamespace(body []byte) (string, []byte) {
	if len(body) == 0 || body[0] != '/' {
		return "/", body
	}

	if i := bytes.IndexByte(body, ','); i >= 0 {
		return string(body[:i]), body[i+1:]
	}

	return string(body), nil
}

// decodeEvent splits an event body (optional ack id followed by a JSON array) into the
// event name and its first argument.
func decodeEvent(body []byte) (string, json.RawMessage, error) {
	i := 0
	for i < len(body) && body[i] >= '0' && body[i] <= '9' {
		i++
	}

	var args []json.RawMessage
	if err := json.Unmarshal(body[i:], &args); err != nil {
		return "", nil, fmt.Errorf("%w: event: %w", ErrProtocol, err)
	}

	if len(args) == 0 {
		return "", nil, fmt.Errorf("%w: event without a name", ErrProtocol)
	}

	var name string
	if err := json.Unmarshal(args[0], &name); err != nil {
		return "", nil, fmt.Errorf("%w: event name: %w", ErrProtocol, err)
	}

	if len(args) == 1 {
		return name, nil, nil
	}

	return name, args[1], nil
}
