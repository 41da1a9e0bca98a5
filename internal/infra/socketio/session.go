package socketio

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/gabapcia/insightwatch/internal/pkg/logger"
	"github.com/gabapcia/insightwatch/internal/pkg/x/chflow"
	"github.com/gabapcia/insightwatch/internal/subscription"

	"github.com/gorilla/websocket"
)

// session is one websocket connection. ctx is done once the session ends; its cause is the
// drop reason.
type session struct {
	id           string
	conn         *websocket.Conn
	out          chan []byte
	pingInterval time.Duration
	pingTimeout  time.Duration

	ctx    context.Context
	cancel context.CancelCauseFunc
}

// dial opens the websocket and performs the Engine.IO handshake.
func (c *client) dial(ctx context.Context) (*session, error) {
	conn, resp, err := c.cfg.dialer.DialContext(ctx, c.url, c.cfg.header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %s: %w", c.url, resp.Status, err)
		}
		return nil, fmt.Errorf("dial %s: %w", c.url, err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(c.cfg.handshakeTimeout))
	_, frame, err := conn.ReadMessage()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("read open packet: %w", err)
	}

	open, err := parseOpen(frame)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if c.cfg.version == 4 {
		_ = conn.SetWriteDeadline(time.Now().Add(c.cfg.writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, connectFrame); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("join namespace: %w", err)
		}
	}

	logger.Debug(ctx, "socket.io handshake done", "sid", open.SID, "ping_interval", open.interval(), "ping_timeout", open.timeout())

	return &session{
		id:           open.SID,
		conn:         conn,
		out:          make(chan []byte, c.cfg.outboundBuffer),
		pingInterval: open.interval(),
		pingTimeout:  open.timeout(),
	}, nil
}

// serve runs the session until it drops or ctx is done and returns the reason.
func (c *client) serve(ctx context.Context, s *session) error {
	s.ctx, s.cancel = context.WithCancelCause(ctx)
	defer s.cancel(nil)

	c.setSession(s)
	defer c.clearSession(s)

	go c.write(s)
	go func() {
		<-s.ctx.Done()
		closing := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = s.conn.WriteControl(websocket.CloseMessage, closing, time.Now().Add(time.Second))
		_ = s.conn.Close()
	}()

	for {
		// A handler may have closed the client.
		if err := context.Cause(s.ctx); err != nil {
			return err
		}

		if err := c.read(s); err != nil {
			s.cancel(err)
			return context.Cause(s.ctx)
		}
	}
}

// write drains the outbound queue. On Engine.IO 3 it also sends the client heartbeat.
func (c *client) write(s *session) {
	var heartbeat <-chan time.Time
	if c.cfg.version == 3 {
		ticker := time.NewTicker(s.pingInterval)
		defer ticker.Stop()
		heartbeat = ticker.C
	}

	for {
		var frame []byte
		select {
		case <-s.ctx.Done():
			return
		case <-heartbeat:
			frame = pingFrame
		case frame = <-s.out:
		}

		_ = s.conn.SetWriteDeadline(time.Now().Add(c.cfg.writeTimeout))
		if err := s.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			s.cancel(fmt.Errorf("write: %w", err))
			return
		}
	}
}

// read handles one inbound frame. A non-nil error ends the session.
func (c *client) read(s *session) error {
	_ = s.conn.SetReadDeadline(time.Now().Add(s.pingInterval + s.pingTimeout))
	kind, frame, err := s.conn.ReadMessage()
	if err != nil {
		return err
	}

	if kind != websocket.TextMessage || len(frame) == 0 {
		return nil
	}

	switch frame[0] {
	case enginePing:
		pong := append(slices.Clone(pongFrame), frame[1:]...)
		chflow.Send(s.ctx, s.out, pong)
	case enginePong, engineNoop:
	case engineClose:
		return ErrSessionClosed
	case engineMessage:
		return c.handlePacket(s, frame[1:])
	default:
		logger.Debug(s.ctx, "ignoring engine.io packet", "type", string(frame[0]))
	}

	return nil
}

// handlePacket dispatches a Socket.IO packet of the default namespace.
func (c *client) handlePacket(s *session, packet []byte) error {
	if len(packet) == 0 {
		return nil
	}

	nsp, body := stripNamespace(packet[1:])
	if nsp != "/" {
		logger.Debug(s.ctx, "ignoring packet for another namespace", "namespace", nsp)
		return nil
	}

	switch packet[0] {
	case socketConnect:
		c.fire(subscription.ChannelConnect, subscription.Message{})
	case socketDisconnect:
		return fmt.Errorf("%w: namespace disconnect", ErrSessionClosed)
	case socketEvent:
		name, data, err := decodeEvent(body)
		if err != nil {
			c.fire(subscription.ChannelError, subscription.Message{Err: err})
			return nil
		}

		if slices.Contains(reservedEvents, name) {
			logger.Debug(s.ctx, "ignoring reserved event from server", "event", name)
			return nil
		}

		c.fire(name, subscription.Message{Data: data})
	case socketError:
		msg := subscription.Message{Err: fmt.Errorf("%w: %s", ErrServer, body)}
		if json.Valid(body) {
			msg.Data = body
		}
		c.fire(subscription.ChannelError, msg)
	case socketAck:
	default:
		logger.Debug(s.ctx, "ignoring socket.io packet", "type", string(packet[0]))
	}

	return nil
}
