package draft

import "slices"

// ChampionTags is the closed set of display-filter attributes the picker recognizes.
// Scores are 0-10; zero values mean the backend reported nothing for that attribute.
type ChampionTags struct {
	DamageType string `json:"damage_type,omitempty"`
	Mobility   int    `json:"mobility,omitempty"`
	Engage     int    `json:"engage,omitempty"`
	CC         int    `json:"cc,omitempty"`
	Sustain    int    `json:"sustain,omitempty"`
}

// Champion is one pickable champion as described by the backend feature map. Key is
// the numeric Riot champion key used on the wire; ID is the string identifier.
type Champion struct {
	ID    string       `json:"id"`
	Key   int          `json:"key"`
	Name  string       `json:"name"`
	Roles []Role       `json:"roles"`
	Tags  ChampionTags `json:"tags"`
}

// PlaysRole reports whether the champion is eligible for the given role slot.
func (c Champion) PlaysRole(role Role) bool {
	return slices.Contains(c.Roles, role)
}
