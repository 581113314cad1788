package draft

import "slices"

// Request is the POST /predict/draft body. Team slices hold champion keys in fixed
// role order with empty slots omitted, never zero-filled; bans keep selection order.
type Request struct {
	BlueTeam []int  `json:"blue_team"`
	RedTeam  []int  `json:"red_team"`
	BlueBans []int  `json:"blue_bans,omitempty"`
	RedBans  []int  `json:"red_bans,omitempty"`
	Elo      string `json:"elo,omitempty"`
	Patch    string `json:"patch,omitempty"`
}

// Request projects the draft into its wire form. It is a pure read: the same state
// always produces the same request.
func (s *State) Request() Request {
	return Request{
		BlueTeam: s.teamKeys(TeamBlue),
		RedTeam:  s.teamKeys(TeamRed),
		BlueBans: slices.Clone(s.Bans[TeamBlue]),
		RedBans:  slices.Clone(s.Bans[TeamRed]),
		Elo:      string(s.Elo),
		Patch:    s.Patch,
	}
}

func (s *State) teamKeys(team Team) []int {
	keys := make([]int, 0, len(s.Picks[team]))
	for _, role := range Roles {
		if key, ok := s.Picks[team][role]; ok {
			keys = append(keys, key)
		}
	}
	return keys
}
