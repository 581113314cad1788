// Package session runs one draft session as an actor goroutine. The session owns its
// DraftState outright; every mutation goes through the inbox, so there is no locking
// and no shared mutable draft anywhere else in the process.
package session

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/draftwise/draftwise/internal/draft"
)

var ErrUnknownCommand = errors.New("unsupported command")

type Msg interface{ isSessionMsg() }

type CommandType string

const (
	CmdAssign      CommandType = "AssignChampion"
	CmdUnassign    CommandType = "RemoveChampion"
	CmdBan         CommandType = "BanChampion"
	CmdUnban       CommandType = "UnbanChampion"
	CmdSetSettings CommandType = "SetSettings"
	CmdReset       CommandType = "ResetDraft"
)

type Command struct {
	Type        CommandType
	Team        draft.Team
	Role        draft.Role
	ChampionKey int
	Elo         draft.Elo
	Patch       string
}

// Apply carries one draft mutation. Reply, when non-nil, receives the outcome so the
// caller can report rejections (duplicate selection, full ban list) to the user.
type Apply struct {
	Cmd   Command
	Reply chan error
}

func (Apply) isSessionMsg() {}

type Join struct {
	ClientID string
	Outbox   chan Snapshot
}

func (Join) isSessionMsg() {}

type Leave struct{ ClientID string }

func (Leave) isSessionMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isSessionMsg() {}

type Shutdown struct{}

func (Shutdown) isSessionMsg() {}

// Snapshot is a versioned copy of the draft. State never aliases the session's live
// maps, so receivers may read it from any goroutine.
type Snapshot struct {
	Version int
	State   *draft.State
}

type View struct {
	Version    int
	NumClients int
	State      *draft.State
}

type Session struct {
	inbox   chan Msg
	state   *draft.State
	version int
	clients map[string]chan Snapshot
	ctx     context.Context
	cancel  context.CancelFunc
	log     *zap.Logger
}

func New(parent context.Context, log *zap.Logger) *Session {
	ctx, cancel := context.WithCancel(parent)
	s := &Session{
		inbox:   make(chan Msg, 64),
		state:   draft.NewState(),
		clients: make(map[string]chan Snapshot),
		ctx:     ctx,
		cancel:  cancel,
		log:     log,
	}
	go s.loop()
	return s
}

func (s *Session) Inbox() chan<- Msg { return s.inbox }

func (s *Session) loop() {
	for {
		select {
		case <-s.ctx.Done():
			s.shutdown()
			return

		case m := <-s.inbox:
			switch msg := m.(type) {
			case Join:
				s.clients[msg.ClientID] = msg.Outbox
				msg.Outbox <- s.snapshot()

			case Leave:
				// Close so the client's writer loop terminates. A slow client
				// dropped by broadcast was already closed and removed, so a late
				// Leave finds no entry here.
				if ch, ok := s.clients[msg.ClientID]; ok {
					close(ch)
					delete(s.clients, msg.ClientID)
				}

			case Apply:
				err := s.apply(msg.Cmd)
				if msg.Reply != nil {
					msg.Reply <- err
				}
				if err != nil {
					s.log.Debug("draft command rejected",
						zap.String("cmd", string(msg.Cmd.Type)), zap.Error(err))
					break
				}
				s.version++
				s.broadcast(s.snapshot())

			case GetState:
				msg.Reply <- View{
					Version:    s.version,
					NumClients: len(s.clients),
					State:      s.state.Clone(),
				}

			case Shutdown:
				s.shutdown()
				return
			}
		}
	}
}

func (s *Session) apply(cmd Command) error {
	switch cmd.Type {
	case CmdAssign:
		return s.state.Assign(cmd.Team, cmd.Role, cmd.ChampionKey)
	case CmdUnassign:
		return s.state.Unassign(cmd.Team, cmd.Role)
	case CmdBan:
		return s.state.AddBan(cmd.Team, cmd.ChampionKey)
	case CmdUnban:
		return s.state.RemoveBan(cmd.Team, cmd.ChampionKey)
	case CmdSetSettings:
		if err := s.state.SetElo(cmd.Elo); err != nil {
			return err
		}
		s.state.SetPatch(cmd.Patch)
		return nil
	case CmdReset:
		s.state.Reset()
		return nil
	default:
		return ErrUnknownCommand
	}
}

func (s *Session) snapshot() Snapshot {
	return Snapshot{Version: s.version, State: s.state.Clone()}
}

func (s *Session) broadcast(snap Snapshot) {
	for id, ch := range s.clients {
		select {
		case ch <- snap:
		default:
			// Client is slow/full - drop them.
			close(ch)
			delete(s.clients, id)
		}
	}
}

func (s *Session) shutdown() {
	for id, ch := range s.clients {
		close(ch)
		delete(s.clients, id)
	}
	s.cancel()
}
