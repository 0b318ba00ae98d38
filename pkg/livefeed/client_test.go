package livefeed

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

type feedServer struct {
	server   *httptest.Server
	upgrader websocket.Upgrader
	dials    atomic.Int32

	mu    sync.Mutex
	conns []*websocket.Conn
}

func newFeedServer(t *testing.T) *feedServer {
	t.Helper()
	fs := &feedServer{}
	fs.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := fs.upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		fs.dials.Add(1)
		fs.mu.Lock()
		fs.conns = append(fs.conns, conn)
		fs.mu.Unlock()
		_ = conn.WriteJSON(map[string]interface{}{"type": "connected", "data": map[string]string{"message": "hi"}})
	}))
	t.Cleanup(fs.server.Close)
	return fs
}

func (fs *feedServer) url() string {
	return "ws" + strings.TrimPrefix(fs.server.URL, "http")
}

func (fs *feedServer) closeConns() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	for _, conn := range fs.conns {
		_ = conn.Close()
	}
	fs.conns = nil
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

func TestClientReceivesEvents(t *testing.T) {
	fs := newFeedServer(t)

	var received atomic.Int32
	var gotType atomic.Value
	client := NewClient(fs.url(), func(evt Event) {
		gotType.Store(evt.Type)
		received.Add(1)
	})
	go client.Run()
	defer client.Close()

	if !waitFor(t, 3*time.Second, func() bool { return received.Load() >= 1 }) {
		t.Fatal("no event received")
	}
	if typ, _ := gotType.Load().(string); typ != "connected" {
		t.Errorf("event type = %q, want connected", typ)
	}
}

func TestClientReconnectsAfterDrop(t *testing.T) {
	if testing.Short() {
		t.Skip("reconnect test waits out the redial delay")
	}
	fs := newFeedServer(t)

	client := NewClient(fs.url(), nil)
	go client.Run()
	defer client.Close()

	if !waitFor(t, 3*time.Second, func() bool { return fs.dials.Load() == 1 }) {
		t.Fatal("first connection never arrived")
	}

	fs.closeConns()

	// One redial after the fixed delay, not a burst.
	if !waitFor(t, reconnectDelay+3*time.Second, func() bool { return fs.dials.Load() >= 2 }) {
		t.Fatal("client did not reconnect after drop")
	}
	time.Sleep(200 * time.Millisecond)
	if got := fs.dials.Load(); got != 2 {
		t.Errorf("dials = %d, want exactly 2", got)
	}
}

func TestCloseCancelsPendingReconnect(t *testing.T) {
	// Point the client at a closed server so every dial fails and it sits in
	// the reconnect wait.
	fs := newFeedServer(t)
	url := fs.url()
	fs.server.Close()

	client := NewClient(url, nil)
	done := make(chan struct{})
	go func() {
		client.Run()
		close(done)
	}()

	// Give the first dial time to fail.
	time.Sleep(100 * time.Millisecond)
	client.Close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return promptly after Close")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	fs := newFeedServer(t)
	client := NewClient(fs.url(), nil)
	go client.Run()

	if !waitFor(t, 3*time.Second, func() bool { return fs.dials.Load() == 1 }) {
		t.Fatal("connection never arrived")
	}
	client.Close()
	client.Close()
}

func TestSendWithoutConnection(t *testing.T) {
	client := NewClient("ws://127.0.0.1:1/ws", nil)
	if err := client.Send("get_match_events", map[string]string{"matchId": "m-1"}); err == nil {
		t.Error("Send without connection should fail")
	}
}
