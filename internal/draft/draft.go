package draft

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/multierr"
)

var ErrDuplicateSelection = errors.New("champion already selected in this draft")
var ErrBanListFull = errors.New("ban list is full")
var ErrUnknownTeam = errors.New("unknown team")
var ErrUnknownRole = errors.New("unknown role")

type Team string

const (
	TeamBlue Team = "blue"
	TeamRed  Team = "red"
)

var Teams = []Team{TeamBlue, TeamRed}

type Role string

const (
	RoleTop     Role = "TOP"
	RoleJungle  Role = "JUNGLE"
	RoleMid     Role = "MID"
	RoleADC     Role = "ADC"
	RoleSupport Role = "SUPPORT"
)

// Roles is the fixed slot order. Serialization and the picker grid both depend on it.
var Roles = []Role{RoleTop, RoleJungle, RoleMid, RoleADC, RoleSupport}

type Elo string

const (
	EloLow  Elo = "low"
	EloMid  Elo = "mid"
	EloHigh Elo = "high"
)

// MaxBans is the per-team ban limit.
const MaxBans = 5

// State is the in-memory representation of one in-progress draft. It is owned by a
// single session and never shared; there is no process-wide draft.
type State struct {
	Picks map[Team]map[Role]int `json:"picks"`
	Bans  map[Team][]int        `json:"bans"`
	Elo   Elo                   `json:"elo,omitempty"`
	Patch string                `json:"patch,omitempty"`
}

func NewState() *State {
	return &State{
		Picks: map[Team]map[Role]int{TeamBlue: {}, TeamRed: {}},
		Bans:  map[Team][]int{TeamBlue: {}, TeamRed: {}},
	}
}

// Clone returns a deep copy, so snapshots handed to other goroutines never alias the
// session's live maps.
func (s *State) Clone() *State {
	c := NewState()
	for _, team := range Teams {
		for role, key := range s.Picks[team] {
			c.Picks[team][role] = key
		}
		c.Bans[team] = append(c.Bans[team], s.Bans[team]...)
	}
	c.Elo = s.Elo
	c.Patch = s.Patch
	return c
}

// Selected reports whether the champion key appears anywhere in the draft: either
// team's picks or either team's bans.
func (s *State) Selected(key int) bool {
	for _, team := range Teams {
		for _, picked := range s.Picks[team] {
			if picked == key {
				return true
			}
		}
		if slices.Contains(s.Bans[team], key) {
			return true
		}
	}
	return false
}

// Assign places a champion in a role slot. A champion already present anywhere in the
// draft is rejected with ErrDuplicateSelection. A different champion already occupying
// the slot is silently replaced and becomes unselected.
func (s *State) Assign(team Team, role Role, key int) error {
	if err := checkTeamRole(team, role); err != nil {
		return err
	}
	if s.Selected(key) {
		return ErrDuplicateSelection
	}
	s.Picks[team][role] = key
	return nil
}

// Unassign clears a role slot. Clearing an empty slot is a no-op.
func (s *State) Unassign(team Team, role Role) error {
	if err := checkTeamRole(team, role); err != nil {
		return err
	}
	delete(s.Picks[team], role)
	return nil
}

// AddBan appends a champion to a team's ban list, preserving selection order.
func (s *State) AddBan(team Team, key int) error {
	if !slices.Contains(Teams, team) {
		return ErrUnknownTeam
	}
	if len(s.Bans[team]) >= MaxBans {
		return ErrBanListFull
	}
	if s.Selected(key) {
		return ErrDuplicateSelection
	}
	s.Bans[team] = append(s.Bans[team], key)
	return nil
}

// RemoveBan drops a champion from a team's ban list. Absent champions are a no-op.
func (s *State) RemoveBan(team Team, key int) error {
	if !slices.Contains(Teams, team) {
		return ErrUnknownTeam
	}
	if i := slices.Index(s.Bans[team], key); i >= 0 {
		s.Bans[team] = slices.Delete(s.Bans[team], i, i+1)
	}
	return nil
}

// SetElo records the skill bracket the prediction model should be selected for.
func (s *State) SetElo(elo Elo) error {
	switch elo {
	case EloLow, EloMid, EloHigh, "":
		s.Elo = elo
		return nil
	default:
		return fmt.Errorf("unknown elo tier %q", elo)
	}
}

func (s *State) SetPatch(patch string) {
	s.Patch = patch
}

// Reset clears all slots and ban lists back to the initial empty state.
func (s *State) Reset() {
	*s = *NewState()
}

// PickCount returns the total number of filled slots across both teams.
func (s *State) PickCount() int {
	return len(s.Picks[TeamBlue]) + len(s.Picks[TeamRed])
}

// Validate checks the draft is submittable and aggregates every issue instead of
// failing on the first, so the UI can show all of them at once.
func (s *State) Validate() error {
	var err error
	if s.PickCount() == 0 {
		err = multierr.Append(err, errors.New("at least one champion must be picked"))
	}
	for _, team := range Teams {
		if n := len(s.Bans[team]); n > MaxBans {
			err = multierr.Append(err, fmt.Errorf("%s team has %d bans, maximum is %d", team, n, MaxBans))
		}
	}
	seen := map[int]bool{}
	for _, team := range Teams {
		for _, role := range Roles {
			key, ok := s.Picks[team][role]
			if !ok {
				continue
			}
			if seen[key] {
				err = multierr.Append(err, fmt.Errorf("champion %d selected more than once", key))
			}
			seen[key] = true
		}
		for _, key := range s.Bans[team] {
			if seen[key] {
				err = multierr.Append(err, fmt.Errorf("champion %d selected more than once", key))
			}
			seen[key] = true
		}
	}
	return err
}

func checkTeamRole(team Team, role Role) error {
	if !slices.Contains(Teams, team) {
		return ErrUnknownTeam
	}
	if !slices.Contains(Roles, role) {
		return ErrUnknownRole
	}
	return nil
}
