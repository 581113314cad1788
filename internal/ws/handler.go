package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/draftwise/draftwise/internal/draft"
	"github.com/draftwise/draftwise/internal/hub"
	"github.com/draftwise/draftwise/internal/session"
	"github.com/draftwise/draftwise/internal/types"
)

// pingInterval is how often idle connections are probed. A failed ping tears the
// connection down; a healthy picker can otherwise stay connected indefinitely.
var pingInterval = 25 * time.Second

// Handler upgrades the picker connection and streams versioned draft snapshots. Each
// accepted command is answered either by a new snapshot broadcast or an Error message
// for that client alone.
func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Codes are stored uppercased; accept whatever casing the client sends,
		// same as the REST surface.
		code := strings.ToUpper(r.URL.Query().Get("code"))
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}

		reply := make(chan *session.Session, 1)
		h.Inbox() <- hub.GetSession{Code: code, Reply: reply}
		s := <-reply
		if s == nil {
			http.Error(w, "draft not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan session.Snapshot, 8)
		clientID := uuid.NewString()

		s.Inbox() <- session.Join{ClientID: clientID, Outbox: out}
		defer func() { s.Inbox() <- session.Leave{ClientID: clientID} }()

		connCtx, connCancel := context.WithCancel(r.Context())
		defer connCancel()

		// Writer goroutine
		go func() {
			for snap := range out {
				msg := types.ServerMessage{Type: "StateSnapshot", Version: snap.Version, State: snap.State}
				payload, _ := json.Marshal(msg)
				ctx, cancel := context.WithTimeout(connCtx, 3*time.Second)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		// Keepalive: probe the peer instead of imposing a read deadline, so an idle
		// picker stays connected. The pong is consumed by the blocked Read below.
		go func() {
			ticker := time.NewTicker(pingInterval)
			defer ticker.Stop()
			for {
				select {
				case <-connCtx.Done():
					return
				case <-ticker.C:
					ctx, cancel := context.WithTimeout(connCtx, 10*time.Second)
					err := conn.Ping(ctx)
					cancel()
					if err != nil {
						connCancel() // dead peer; unblock the reader
						return
					}
				}
			}
		}()

		// Reader loop
		for {
			_, data, err := conn.Read(connCtx)
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				writeError(r.Context(), conn, "bad json")
				continue
			}

			cmd, ok := toSessionCommand(cm)
			if !ok {
				writeError(r.Context(), conn, "unknown type")
				continue
			}

			errReply := make(chan error, 1)
			s.Inbox() <- session.Apply{Cmd: cmd, Reply: errReply}
			if err := <-errReply; err != nil {
				log.Debug("ws command rejected", zap.String("session", code), zap.Error(err))
				writeError(r.Context(), conn, err.Error())
			}
		}
	}
}

func writeError(ctx context.Context, conn *websocket.Conn, msg string) {
	payload, _ := json.Marshal(types.ServerMessage{Type: "Error", Error: msg})
	wctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_ = conn.Write(wctx, websocket.MessageText, payload)
}

func toSessionCommand(m types.ClientMessage) (session.Command, bool) {
	switch session.CommandType(m.Type) {
	case session.CmdAssign:
		return session.Command{
			Type: session.CmdAssign, Team: draft.Team(m.Team),
			Role: draft.Role(m.Role), ChampionKey: m.ChampionKey,
		}, true
	case session.CmdUnassign:
		return session.Command{
			Type: session.CmdUnassign, Team: draft.Team(m.Team), Role: draft.Role(m.Role),
		}, true
	case session.CmdBan:
		return session.Command{
			Type: session.CmdBan, Team: draft.Team(m.Team), ChampionKey: m.ChampionKey,
		}, true
	case session.CmdUnban:
		return session.Command{
			Type: session.CmdUnban, Team: draft.Team(m.Team), ChampionKey: m.ChampionKey,
		}, true
	case session.CmdSetSettings:
		return session.Command{
			Type: session.CmdSetSettings, Elo: draft.Elo(m.Elo), Patch: m.Patch,
		}, true
	case session.CmdReset:
		return session.Command{Type: session.CmdReset}, true
	default:
		return session.Command{}, false
	}
}
