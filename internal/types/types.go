package types

import "github.com/draftwise/draftwise/internal/draft"

// ClientMessage is one picker command sent over the websocket.
type ClientMessage struct {
	Type        string `json:"type"`
	Team        string `json:"team,omitempty"`
	Role        string `json:"role,omitempty"`
	ChampionKey int    `json:"champion_key,omitempty"`
	Elo         string `json:"elo,omitempty"`
	Patch       string `json:"patch,omitempty"`
}

type ServerMessage struct {
	Type    string       `json:"type"` // "StateSnapshot" | "Error"
	Version int          `json:"version,omitempty"`
	State   *draft.State `json:"state,omitempty"`
	Error   string       `json:"error,omitempty"`
}
