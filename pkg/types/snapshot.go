package types

// DraftState (internal/draft.State on the wire):
//   picks: { blue: { [role]: champion_key }, red: { [role]: champion_key } }
//   bans:  { blue: number[], red: number[] } // selection order
//   elo:   "low" | "mid" | "high" // optional
//   patch: string // optional
//
// Prediction envelope (POST /drafts/{code}/prediction):
//   request_key: string // uuid; the UI drops responses that no longer match
//   draft_version: number // version the prediction was computed for
//   prediction:
//     blue_win_probability: number
//     red_win_probability: number
//     confidence: number
//     factors: [{ name, impact, description }] // impact signed, positive favors blue
//     model_version: string
//     elo_group: string // optional
//     patch: string // optional
