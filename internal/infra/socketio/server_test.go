package socketio

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

const defaultOpenPacket = `0{"sid":"sid-1","upgrades":[],"pingInterval":25000,"pingTimeout":5000}`

// fakeServer is a minimal Socket.IO server speaking the websocket transport.
type fakeServer struct {
	*httptest.Server

	version    int
	openPacket string
	refuse     atomic.Bool
	accepted   chan *serverConn
}

type serverConn struct {
	conn   *websocket.Conn
	mu     sync.Mutex
	frames chan string
}

func newFakeServer(t *testing.T, version int, openPacket string) *fakeServer {
	t.Helper()

	fs := &fakeServer{
		version:    version,
		openPacket: openPacket,
		accepted:   make(chan *serverConn, 8),
	}

	upgrader := websocket.Upgrader{}
	fs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != "/socket.io/" || q.Get("EIO") != strconv.Itoa(fs.version) || q.Get("transport") != "websocket" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		if fs.refuse.Load() {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}

		sc := &serverConn{conn: conn, frames: make(chan string, 64)}
		sc.send(fs.openPacket)
		if fs.version == 3 {
			sc.send("40")
		}

		go sc.readLoop(fs.version)
		fs.accepted <- sc
	}))
	t.Cleanup(fs.Close)

	return fs
}

// accept waits for the next websocket session.
func (fs *fakeServer) accept(t *testing.T) *serverConn {
	t.Helper()

	select {
	case sc := <-fs.accepted:
		return sc
	case <-time.After(2 * time.Second):
		require.FailNow(t, "no connection accepted")
		return nil
	}
}

func (sc *serverConn) send(frame string) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	_ = sc.conn.WriteMessage(websocket.TextMessage, []byte(frame))
}

func (sc *serverConn) readLoop(version int) {
	defer close(sc.frames)

	for {
		_, data, err := sc.conn.ReadMessage()
		if err != nil {
			return
		}

		frame := string(data)
		if version == 4 && frame == "40" {
			sc.send(`40{"sid":"nsp-1"}`)
		}

		select {
		case sc.frames <- frame:
		default:
		}
	}
}

// next waits for the next frame sent by the client.
func (sc *serverConn) next(t *testing.T) string {
	t.Helper()

	select {
	case frame, ok := <-sc.frames:
		require.True(t, ok, "connection closed")
		return frame
	case <-time.After(2 * time.Second):
		require.FailNow(t, "no frame received")
		return ""
	}
}

// drop closes the connection without a close handshake.
func (sc *serverConn) drop() {
	_ = sc.conn.Close()
}
