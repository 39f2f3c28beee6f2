package session

import (
	"reflect"
	"testing"
)

func TestMergeProfileFromNothingAppliesDefaults(t *testing.T) {
	got := MergeProfile(nil, ProfilePatch{})

	if got.EnergyLevel != EnergyNormal {
		t.Fatalf("expected default energy level, got %q", got.EnergyLevel)
	}
	if got.MessTolerance != MessToleranceLow {
		t.Fatalf("expected default mess tolerance, got %q", got.MessTolerance)
	}
	if got.Siblings == nil || got.Pets == nil || got.Interests == nil {
		t.Fatal("list fields must come out non-nil")
	}
}

func TestMergeProfileSilentPatchNeverRegresses(t *testing.T) {
	age := 6
	existing := &Profile{
		ChildName:     "Maya",
		AgeYears:      &age,
		Vibe:          VibeKind,
		Interests:     []string{"dinosaurs", "drawing"},
		EnergyLevel:   EnergySome,
		MessTolerance: MessToleranceMedium,
	}

	got := MergeProfile(existing, ProfilePatch{Notes: strPtr("loves glitter")})

	if got.ChildName != "Maya" || got.Vibe != VibeKind {
		t.Fatalf("scalars regressed: %+v", got)
	}
	if got.AgeYears == nil || *got.AgeYears != 6 {
		t.Fatalf("age regressed: %v", got.AgeYears)
	}
	if !reflect.DeepEqual(got.Interests, []string{"dinosaurs", "drawing"}) {
		t.Fatalf("interests regressed: %v", got.Interests)
	}
	if got.EnergyLevel != EnergySome || got.MessTolerance != MessToleranceMedium {
		t.Fatalf("enums regressed: %+v", got)
	}
	if got.Notes != "loves glitter" {
		t.Fatalf("patch value not applied: %q", got.Notes)
	}
}

func TestMergeProfileNewValueWins(t *testing.T) {
	existing := &Profile{ChildName: "Maya", Interests: []string{"dinosaurs"}}

	got := MergeProfile(existing, ProfilePatch{
		ChildName: strPtr("Maya-Lynn"),
		Interests: []string{"space"},
	})

	if got.ChildName != "Maya-Lynn" {
		t.Fatalf("expected new name, got %q", got.ChildName)
	}
	if !reflect.DeepEqual(got.Interests, []string{"space"}) {
		t.Fatalf("expected replaced interests, got %v", got.Interests)
	}
}

func TestMergeProfileExplicitEmptyListHonored(t *testing.T) {
	existing := &Profile{Pets: []string{"a very old cat"}}

	// nil means "no new information"; an empty non-nil slice means
	// "we now know there are none".
	kept := MergeProfile(existing, ProfilePatch{})
	if len(kept.Pets) != 1 {
		t.Fatalf("nil patch list must preserve, got %v", kept.Pets)
	}

	cleared := MergeProfile(existing, ProfilePatch{Pets: []string{}})
	if len(cleared.Pets) != 0 {
		t.Fatalf("explicit empty list must clear, got %v", cleared.Pets)
	}
	if cleared.Pets == nil {
		t.Fatal("cleared list must still be non-nil")
	}
}

func TestMergeProfileEmptyStringDoesNotClear(t *testing.T) {
	existing := &Profile{ChildName: "Maya"}

	got := MergeProfile(existing, ProfilePatch{ChildName: strPtr("")})
	if got.ChildName != "Maya" {
		t.Fatalf("empty string must not clear a known value, got %q", got.ChildName)
	}
}
