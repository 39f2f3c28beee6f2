package plan

import (
	"strings"
	"testing"
	"time"
)

func validPlan(t *testing.T) *Plan {
	t.Helper()
	start := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	anchors := AnchorsFrom(start, MonthLength)

	p := &Plan{Overview: "a month of mischief", Days: make([]Day, MonthLength)}
	for i, a := range anchors {
		p.Days[i] = Day{
			DayNumber: a.DayNumber,
			Date:      a.Date,
			Weekday:   a.Weekday,
			Title:     "night",
			Materials: []string{},
			NightType: NightMischief,
			Effort:    EffortLow,
			Mess:      MessLow,
			Tags:      []string{},
		}
	}
	return p
}

func TestValidateAcceptsWellFormedPlan(t *testing.T) {
	if err := Validate(validPlan(t), MonthLength); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsWrongDayCount(t *testing.T) {
	p := validPlan(t)
	p.Days = p.Days[:29]

	err := Validate(p, MonthLength)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "expected 30 days") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestValidateRejectsNonContiguousDayNumbers(t *testing.T) {
	p := validPlan(t)
	p.Days[4].DayNumber = 42

	if err := Validate(p, MonthLength); err == nil {
		t.Fatal("expected error")
	}
}

func TestValidateRejectsWeekdayDateMismatch(t *testing.T) {
	p := validPlan(t)
	p.Days[0].Weekday = "Friday" // 2025-12-01 is a Monday

	err := Validate(p, MonthLength)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "does not match date") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestValidateRejectsUnknownEnumValues(t *testing.T) {
	p := validPlan(t)
	p.Days[2].NightType = "chaotic"
	p.Days[3].Effort = "herculean"
	p.Days[4].Mess = "apocalyptic"

	err := Validate(p, MonthLength)
	if err == nil {
		t.Fatal("expected error")
	}
	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if len(verr.Problems) != 3 {
		t.Fatalf("expected 3 problems, got %d: %v", len(verr.Problems), verr.Problems)
	}
}

func TestValidateDay(t *testing.T) {
	good := Day{
		DayNumber: 5, Date: "2025-12-05", Weekday: "Friday",
		NightType: NightCozy, Effort: EffortMinimal, Mess: MessNone,
	}
	if err := ValidateDay(good); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := good
	bad.Weekday = "Monday"
	if err := ValidateDay(bad); err == nil {
		t.Fatal("expected error for inconsistent weekday")
	}
}
