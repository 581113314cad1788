package types

// Client -> Server (websocket, see internal/types.ClientMessage)
// AssignChampion:
//   team: "blue" | "red"
//   role: "TOP" | "JUNGLE" | "MID" | "ADC" | "SUPPORT"
//   champion_key: number
//
// RemoveChampion:
//   team: "blue" | "red"
//   role: "TOP" | "JUNGLE" | "MID" | "ADC" | "SUPPORT"
//
// BanChampion:
//   team: "blue" | "red"
//   champion_key: number
//
// UnbanChampion:
//   team: "blue" | "red"
//   champion_key: number
//
// SetSettings:
//   elo: "low" | "mid" | "high"
//   patch: string
//
// ResetDraft: {}

// Server -> Client
// StateSnapshot:
//   version: number
//   state: DraftState (see snapshot.go)
//
// Error:
//   error: string
