package draft

import (
	"errors"
	"reflect"
	"testing"

	"go.uber.org/multierr"
)

func TestAssign_RejectsDuplicateAnywhere(t *testing.T) {
	cases := []struct {
		name    string
		setup   func(s *State)
		team    Team
		role    Role
		key     int
		wantErr error
	}{
		{
			name:  "legal first pick",
			setup: func(s *State) {},
			team:  TeamBlue, role: RoleTop, key: 266,
		},
		{
			name: "blocked by own team pick in another role",
			setup: func(s *State) {
				if err := s.Assign(TeamBlue, RoleJungle, 64); err != nil {
					t.Fatal(err)
				}
			},
			team: TeamBlue, role: RoleTop, key: 64,
			wantErr: ErrDuplicateSelection,
		},
		{
			name: "blocked by enemy pick",
			setup: func(s *State) {
				if err := s.Assign(TeamBlue, RoleTop, 266); err != nil {
					t.Fatal(err)
				}
			},
			team: TeamRed, role: RoleTop, key: 266,
			wantErr: ErrDuplicateSelection,
		},
		{
			name: "blocked by own ban",
			setup: func(s *State) {
				if err := s.AddBan(TeamBlue, 157); err != nil {
					t.Fatal(err)
				}
			},
			team: TeamBlue, role: RoleMid, key: 157,
			wantErr: ErrDuplicateSelection,
		},
		{
			name: "blocked by enemy ban",
			setup: func(s *State) {
				if err := s.AddBan(TeamRed, 157); err != nil {
					t.Fatal(err)
				}
			},
			team: TeamBlue, role: RoleMid, key: 157,
			wantErr: ErrDuplicateSelection,
		},
		{
			name:  "unknown team",
			setup: func(s *State) {},
			team:  "purple", role: RoleTop, key: 1,
			wantErr: ErrUnknownTeam,
		},
		{
			name:  "unknown role",
			setup: func(s *State) {},
			team:  TeamBlue, role: "FEEDER", key: 1,
			wantErr: ErrUnknownRole,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewState()
			tc.setup(s)
			err := s.Assign(tc.team, tc.role, tc.key)
			if tc.wantErr == nil && err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Fatalf("want %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestAssign_FailedAssignLeavesStateUnchanged(t *testing.T) {
	s := NewState()
	if err := s.Assign(TeamBlue, RoleTop, 1); err != nil {
		t.Fatal(err)
	}
	if err := s.Assign(TeamBlue, RoleJungle, 2); err != nil {
		t.Fatal(err)
	}

	before := s.Clone()
	err := s.Assign(TeamRed, RoleTop, 1)
	if !errors.Is(err, ErrDuplicateSelection) {
		t.Fatalf("want ErrDuplicateSelection, got %v", err)
	}
	if !reflect.DeepEqual(s, before) {
		t.Fatalf("state mutated by failed assign: %+v != %+v", s, before)
	}
}

func TestAssign_ReplacesSlotOccupant(t *testing.T) {
	s := NewState()
	if err := s.Assign(TeamBlue, RoleTop, 266); err != nil {
		t.Fatal(err)
	}
	if err := s.Assign(TeamBlue, RoleTop, 86); err != nil {
		t.Fatalf("replacing a slot occupant should succeed, got %v", err)
	}
	if got := s.Picks[TeamBlue][RoleTop]; got != 86 {
		t.Fatalf("want 86 in top slot, got %d", got)
	}
	// The replaced champion is unselected again, not banned.
	if s.Selected(266) {
		t.Fatalf("replaced champion should be selectable again")
	}
	if err := s.Assign(TeamRed, RoleMid, 266); err != nil {
		t.Fatalf("replaced champion should be assignable elsewhere, got %v", err)
	}
}

func TestUnassign_EmptySlotIsNoop(t *testing.T) {
	s := NewState()
	if err := s.Unassign(TeamRed, RoleSupport); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := s.Assign(TeamRed, RoleSupport, 412); err != nil {
		t.Fatal(err)
	}
	if err := s.Unassign(TeamRed, RoleSupport); err != nil {
		t.Fatal(err)
	}
	if s.Selected(412) {
		t.Fatalf("champion should be unselected after unassign")
	}
}

func TestAddBan_FifthSucceedsSixthFails(t *testing.T) {
	s := NewState()
	for key := 1; key <= MaxBans; key++ {
		if err := s.AddBan(TeamBlue, key); err != nil {
			t.Fatalf("ban %d: unexpected err %v", key, err)
		}
	}
	err := s.AddBan(TeamBlue, 6)
	if !errors.Is(err, ErrBanListFull) {
		t.Fatalf("want ErrBanListFull, got %v", err)
	}
	if got := len(s.Bans[TeamBlue]); got != MaxBans {
		t.Fatalf("want %d bans, got %d", MaxBans, got)
	}
}

func TestAddBan_RejectsDuplicate(t *testing.T) {
	s := NewState()
	if err := s.Assign(TeamBlue, RoleTop, 266); err != nil {
		t.Fatal(err)
	}
	if err := s.AddBan(TeamRed, 266); !errors.Is(err, ErrDuplicateSelection) {
		t.Fatalf("want ErrDuplicateSelection, got %v", err)
	}
}

func TestRemoveBan_PreservesSelectionOrder(t *testing.T) {
	s := NewState()
	for _, key := range []int{10, 20, 30} {
		if err := s.AddBan(TeamRed, key); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.RemoveBan(TeamRed, 20); err != nil {
		t.Fatal(err)
	}
	want := []int{10, 30}
	if !reflect.DeepEqual(s.Bans[TeamRed], want) {
		t.Fatalf("want %v, got %v", want, s.Bans[TeamRed])
	}
	// Removing an absent champion is a no-op.
	if err := s.RemoveBan(TeamRed, 99); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(s.Bans[TeamRed], want) {
		t.Fatalf("no-op remove changed bans: %v", s.Bans[TeamRed])
	}
}

func TestUniqueness_HoldsAcrossOperationSequences(t *testing.T) {
	s := NewState()
	ops := []func() error{
		func() error { return s.Assign(TeamBlue, RoleTop, 1) },
		func() error { return s.AddBan(TeamRed, 2) },
		func() error { return s.Assign(TeamRed, RoleMid, 3) },
		func() error { return s.Assign(TeamBlue, RoleTop, 4) }, // replaces 1
		func() error { return s.AddBan(TeamBlue, 1) },          // 1 free again
		func() error { return s.Assign(TeamRed, RoleTop, 2) },  // dup: banned
		func() error { return s.AddBan(TeamBlue, 3) },          // dup: picked
		func() error { return s.Unassign(TeamRed, RoleMid) },
		func() error { return s.AddBan(TeamBlue, 3) },
	}
	for i, op := range ops {
		_ = op()
		assertNoDuplicates(t, s, i)
	}
}

func assertNoDuplicates(t *testing.T, s *State, step int) {
	t.Helper()
	seen := map[int]int{}
	for _, team := range Teams {
		for _, key := range s.Picks[team] {
			seen[key]++
		}
		for _, key := range s.Bans[team] {
			seen[key]++
		}
	}
	for key, n := range seen {
		if n > 1 {
			t.Fatalf("after op %d champion %d appears %d times", step, key, n)
		}
	}
}

func TestValidate_AggregatesAllIssues(t *testing.T) {
	s := NewState()
	// Empty draft: exactly one issue, the missing-pick one.
	errs := multierr.Errors(s.Validate())
	if len(errs) != 1 {
		t.Fatalf("empty draft: want 1 issue, got %d: %v", len(errs), errs)
	}

	// One pick on either side is enough to submit a partial draft.
	if err := s.Assign(TeamRed, RoleADC, 22); err != nil {
		t.Fatal(err)
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("partial draft should validate, got %v", err)
	}

	// Force two independent violations past the mutation guards and check both are
	// reported at once.
	s.Bans[TeamBlue] = []int{1, 2, 3, 4, 5, 6}
	s.Picks[TeamBlue][RoleTop] = 22
	errs = multierr.Errors(s.Validate())
	if len(errs) != 2 {
		t.Fatalf("want 2 issues, got %d: %v", len(errs), errs)
	}
}

func TestRequest_DeterministicAndOmitsEmptySlots(t *testing.T) {
	s := NewState()
	if err := s.Assign(TeamBlue, RoleSupport, 412); err != nil {
		t.Fatal(err)
	}
	if err := s.Assign(TeamBlue, RoleTop, 266); err != nil {
		t.Fatal(err)
	}
	if err := s.AddBan(TeamRed, 157); err != nil {
		t.Fatal(err)
	}
	if err := s.SetElo(EloHigh); err != nil {
		t.Fatal(err)
	}
	s.SetPatch("14.3")

	want := Request{
		BlueTeam: []int{266, 412}, // role order, jungle/mid/adc omitted
		RedTeam:  []int{},
		BlueBans: []int{},
		RedBans:  []int{157},
		Elo:      "high",
		Patch:    "14.3",
	}
	got := s.Request()
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("want %+v, got %+v", want, got)
	}
	// Same state, same projection.
	if again := s.Request(); !reflect.DeepEqual(again, got) {
		t.Fatalf("projection not deterministic: %+v vs %+v", again, got)
	}
}

func TestReset_ClearsEverything(t *testing.T) {
	s := NewState()
	for i, role := range Roles {
		if err := s.Assign(TeamBlue, role, 100+i); err != nil {
			t.Fatal(err)
		}
		if err := s.Assign(TeamRed, role, 200+i); err != nil {
			t.Fatal(err)
		}
	}
	for i := 0; i < MaxBans; i++ {
		if err := s.AddBan(TeamBlue, 300+i); err != nil {
			t.Fatal(err)
		}
		if err := s.AddBan(TeamRed, 400+i); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.SetElo(EloMid); err != nil {
		t.Fatal(err)
	}

	s.Reset()
	if !reflect.DeepEqual(s, NewState()) {
		t.Fatalf("reset did not restore the empty state: %+v", s)
	}
}

func TestClone_DoesNotAliasLiveMaps(t *testing.T) {
	s := NewState()
	if err := s.Assign(TeamBlue, RoleTop, 266); err != nil {
		t.Fatal(err)
	}
	if err := s.AddBan(TeamRed, 1); err != nil {
		t.Fatal(err)
	}

	c := s.Clone()
	if err := s.Assign(TeamBlue, RoleTop, 86); err != nil {
		t.Fatal(err)
	}
	if err := s.AddBan(TeamRed, 2); err != nil {
		t.Fatal(err)
	}

	if c.Picks[TeamBlue][RoleTop] != 266 {
		t.Fatalf("clone picked up later mutation: %+v", c.Picks)
	}
	if len(c.Bans[TeamRed]) != 1 {
		t.Fatalf("clone picked up later ban: %v", c.Bans[TeamRed])
	}
}
