package plan

import (
	"reflect"
	"testing"
	"time"
)

func TestAnchorsFrom(t *testing.T) {
	start := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC) // a Monday
	anchors := AnchorsFrom(start, MonthLength)

	if len(anchors) != MonthLength {
		t.Fatalf("expected %d anchors, got %d", MonthLength, len(anchors))
	}
	if anchors[0].DayNumber != 1 || anchors[0].Date != "2025-12-01" || anchors[0].Weekday != "Monday" {
		t.Fatalf("unexpected first anchor: %+v", anchors[0])
	}
	if anchors[29].DayNumber != 30 || anchors[29].Date != "2025-12-30" || anchors[29].Weekday != "Tuesday" {
		t.Fatalf("unexpected last anchor: %+v", anchors[29])
	}
}

func TestAnchorsFromCrossesMonthBoundary(t *testing.T) {
	start := time.Date(2025, 11, 20, 0, 0, 0, 0, time.UTC)
	anchors := AnchorsFrom(start, MonthLength)

	if anchors[11].Date != "2025-12-01" {
		t.Fatalf("day 12 should land on Dec 1, got %s", anchors[11].Date)
	}
}

func TestWithAnchorOverridesOracleValues(t *testing.T) {
	d := Day{DayNumber: 99, Date: "1999-01-01", Weekday: "Friday", Title: "socks everywhere"}
	a := Anchor{DayNumber: 7, Date: "2025-12-07", Weekday: "Sunday"}

	got := d.WithAnchor(a)
	if got.DayNumber != 7 || got.Date != "2025-12-07" || got.Weekday != "Sunday" {
		t.Fatalf("anchor not applied: %+v", got)
	}
	if got.Title != "socks everywhere" {
		t.Fatalf("content must survive anchoring, got %q", got.Title)
	}
}

func TestReplaceDay(t *testing.T) {
	p := &Plan{Days: []Day{
		{DayNumber: 1, Title: "a"},
		{DayNumber: 2, Title: "b"},
		{DayNumber: 3, Title: "c"},
	}}

	if !p.ReplaceDay(Day{DayNumber: 2, Title: "swapped"}) {
		t.Fatal("expected replacement to succeed")
	}
	if p.Days[1].Title != "swapped" {
		t.Fatalf("slot 2 not replaced: %+v", p.Days[1])
	}
	if p.Days[0].Title != "a" || p.Days[2].Title != "c" {
		t.Fatal("other slots must be untouched")
	}

	if p.ReplaceDay(Day{DayNumber: 31}) {
		t.Fatal("replacing an unknown day number must fail")
	}
}

func TestMaterialsDedupedAndSorted(t *testing.T) {
	p := &Plan{Days: []Day{
		{DayNumber: 1, Materials: []string{"tape", "flour"}},
		{DayNumber: 2, Materials: []string{"flour", "candy canes"}},
		{DayNumber: 3, Materials: []string{}},
	}}

	got := p.Materials()
	want := []string{"candy canes", "flour", "tape"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestMaterialsEmptyPlan(t *testing.T) {
	p := &Plan{}
	if got := p.Materials(); len(got) != 0 || got == nil {
		t.Fatalf("expected empty non-nil list, got %v", got)
	}
}
