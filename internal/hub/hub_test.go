package hub

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/draftwise/draftwise/internal/session"
)

func TestHub_Create_Get_SamePointer(t *testing.T) {
	ctx := context.Background()
	h := NewHub(ctx, zap.NewNop())
	reply := make(chan *session.Session, 1)

	h.Inbox() <- CreateSession{Code: "ZED123", Reply: reply}
	s1 := <-reply

	h.Inbox() <- GetSession{Code: "ZED123", Reply: reply}
	s2 := <-reply

	if s1 == nil || s2 == nil || s1 != s2 {
		t.Fatalf("expected same session pointer")
	}
}

func TestHub_GetUnknownCodeIsNil(t *testing.T) {
	h := NewHub(context.Background(), zap.NewNop())
	reply := make(chan *session.Session, 1)

	h.Inbox() <- GetSession{Code: "NOPE00", Reply: reply}
	if s := <-reply; s != nil {
		t.Fatalf("expected nil for unknown code, got %v", s)
	}
}

func TestHub_RemoveShutsSessionDown(t *testing.T) {
	h := NewHub(context.Background(), zap.NewNop())
	reply := make(chan *session.Session, 1)

	h.Inbox() <- EnsureSession{Code: "AAA111", Reply: reply}
	s := <-reply

	out := make(chan session.Snapshot, 2)
	s.Inbox() <- session.Join{ClientID: "c1", Outbox: out}
	<-out // join snapshot

	h.Inbox() <- RemoveSession{Code: "AAA111"}

	// The session closes client outboxes on shutdown.
	select {
	case _, ok := <-out:
		if ok {
			t.Fatalf("expected closed outbox, got a snapshot")
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("timed out waiting for session shutdown")
	}

	h.Inbox() <- GetSession{Code: "AAA111", Reply: reply}
	if got := <-reply; got != nil {
		t.Fatalf("expected session to be gone after remove")
	}
}
