package game

import (
	"errors"
	"testing"
)

func TestParseMemberKey(t *testing.T) {
	valid := map[string]MemberKey{
		"main":    {Main: true},
		"MAIN":    {Main: true},
		"mate1":   {Slot: 1},
		" mate4 ": {Slot: 4},
	}
	for raw, want := range valid {
		got, err := ParseMemberKey(raw)
		if err != nil {
			t.Fatalf("expected %q to parse: %v", raw, err)
		}
		if got != want {
			t.Fatalf("%q: got %+v want %+v", raw, got, want)
		}
	}

	invalid := []string{"", "mate0", "mate5", "mateone", "drummer"}
	for _, raw := range invalid {
		if _, err := ParseMemberKey(raw); !errors.Is(err, ErrInvalidMember) {
			t.Fatalf("expected %q to fail with ErrInvalidMember, got %v", raw, err)
		}
	}
}

func TestMemberKeyString(t *testing.T) {
	if s := (MemberKey{Main: true}).String(); s != "main" {
		t.Fatalf("got %q", s)
	}
	if s := (MemberKey{Slot: 3}).String(); s != "mate3" {
		t.Fatalf("got %q", s)
	}
}

func TestRepairCost(t *testing.T) {
	tests := []struct {
		power      int
		durability int
		want       int
	}{
		{power: 30, durability: 100, want: 0},
		{power: 30, durability: 60, want: 100},
		{power: 48, durability: 0, want: 400},
		{power: 24, durability: 50, want: 100},
	}
	for _, tc := range tests {
		got := RepairCost(tc.power, tc.durability)
		if got != tc.want {
			t.Fatalf("power=%d durability=%d got=%d want=%d", tc.power, tc.durability, got, tc.want)
		}
	}
}

func TestClampMental(t *testing.T) {
	if got := clampMental(-5); got != 0 {
		t.Fatalf("got %d", got)
	}
	if got := clampMental(140); got != MentalMax {
		t.Fatalf("got %d", got)
	}
	if got := clampMental(55); got != 55 {
		t.Fatalf("got %d", got)
	}
}
