package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/draftwise/draftwise/internal/hub"
	"github.com/draftwise/draftwise/internal/session"
	"github.com/draftwise/draftwise/internal/types"
)

func newSessionServer(t *testing.T, code string) *httptest.Server {
	t.Helper()
	h := hub.NewHub(context.Background(), zap.NewNop())
	reply := make(chan *session.Session, 1)
	h.Inbox() <- hub.EnsureSession{Code: code, Reply: reply}
	if <-reply == nil {
		t.Fatalf("failed to create session")
	}
	srv := httptest.NewServer(Handler(h, zap.NewNop()))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?" + query
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "bye") })
	return conn
}

func readServerMessage(t *testing.T, conn *websocket.Conn, within time.Duration) types.ServerMessage {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), within)
	defer cancel()
	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg types.ServerMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return msg
}

func TestHandler_CodeIsCaseInsensitive(t *testing.T) {
	srv := newSessionServer(t, "ABC123")

	// The REST surface uppercases codes; the ws endpoint must accept the same
	// lowercased code instead of answering 404.
	conn := dial(t, srv, "code=abc123")

	msg := readServerMessage(t, conn, time.Second)
	if msg.Type != "StateSnapshot" || msg.Version != 0 {
		t.Fatalf("want join snapshot, got %+v", msg)
	}
}

func TestHandler_UnknownCodeIs404(t *testing.T) {
	srv := newSessionServer(t, "ABC123")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?code=ZZZZZZ"
	_, resp, err := websocket.Dial(ctx, url, nil)
	if err == nil {
		t.Fatalf("expected dial to fail for unknown code")
	}
	if resp == nil || resp.StatusCode != 404 {
		t.Fatalf("want 404, got %+v", resp)
	}
}

func TestHandler_IdleConnectionSurvivesPingCycles(t *testing.T) {
	old := pingInterval
	pingInterval = 50 * time.Millisecond
	t.Cleanup(func() { pingInterval = old })

	srv := newSessionServer(t, "PING01")
	conn := dial(t, srv, "code=PING01")
	_ = readServerMessage(t, conn, time.Second) // join snapshot

	// Keep a Read in flight so the client answers the server's pings.
	next := make(chan types.ServerMessage, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		var msg types.ServerMessage
		if json.Unmarshal(data, &msg) == nil {
			next <- msg
		}
	}()

	// Idle across several ping cycles; the connection must stay up.
	time.Sleep(300 * time.Millisecond)

	payload, err := json.Marshal(types.ClientMessage{Type: "BanChampion", Team: "blue", ChampionKey: 7})
	if err != nil {
		t.Fatal(err)
	}
	wctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := conn.Write(wctx, websocket.MessageText, payload); err != nil {
		t.Fatalf("write after idle: %v", err)
	}

	select {
	case msg := <-next:
		if msg.Type != "StateSnapshot" || msg.Version != 1 {
			t.Fatalf("want snapshot version 1, got %+v", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no snapshot after idle period; connection dropped")
	}
}
