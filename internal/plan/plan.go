// Package plan defines the generated 30-day activity plan and the
// structural invariants a valid plan must satisfy.
package plan

import (
	"sort"
	"time"
)

// MonthLength is the contractual number of day slots in a full plan.
const MonthLength = 30

// DateLayout is the calendar date format used throughout the plan
// ("2025-12-01").
const DateLayout = "2006-01-02"

// Plan is the generated content aggregate: an overview narrative and an
// ordered sequence of day slots, one per calendar day.
type Plan struct {
	Overview string `json:"overview"`
	Days     []Day  `json:"days"`
}

// Day is a single calendar-anchored entry in a plan. DayNumber, Date and
// Weekday form the calendar anchor and never change after the plan is
// created; everything else is content and may be replaced by a swap.
type Day struct {
	DayNumber     int         `json:"dayNumber"`
	Date          string      `json:"date"`
	Weekday       string      `json:"weekday"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	MorningMoment string      `json:"morningMoment,omitempty"`
	EasyVariant   string      `json:"easyVariant,omitempty"`
	NoteFromElf   string      `json:"noteFromElf,omitempty"`
	Materials     []string    `json:"materials"`
	NightType     NightType   `json:"nightType"`
	Effort        EffortLevel `json:"effort"`
	Mess          MessLevel   `json:"mess"`
	Tags          []string    `json:"tags"`
	ImagePrompt   string      `json:"imagePrompt"`
	ImageRef      string      `json:"imageRef,omitempty"`
}

// NightType classifies the kind of scene the elf sets up overnight.
type NightType string

const (
	NightMischief NightType = "mischief"
	NightKindness NightType = "kindness"
	NightGame     NightType = "game"
	NightCozy     NightType = "cozy"
	NightCraft    NightType = "craft"
)

// EffortLevel is the parent-side setup effort for a day.
type EffortLevel string

const (
	EffortMinimal EffortLevel = "minimal"
	EffortLow     EffortLevel = "low"
	EffortMedium  EffortLevel = "medium"
	EffortHigh    EffortLevel = "high"
)

// MessLevel is how much cleanup a day's scene leaves behind.
type MessLevel string

const (
	MessNone   MessLevel = "none"
	MessLow    MessLevel = "low"
	MessMedium MessLevel = "medium"
	MessHigh   MessLevel = "high"
)

// NightTypes lists every valid NightType.
func NightTypes() []NightType {
	return []NightType{NightMischief, NightKindness, NightGame, NightCozy, NightCraft}
}

// EffortLevels lists every valid EffortLevel.
func EffortLevels() []EffortLevel {
	return []EffortLevel{EffortMinimal, EffortLow, EffortMedium, EffortHigh}
}

// MessLevels lists every valid MessLevel.
func MessLevels() []MessLevel {
	return []MessLevel{MessNone, MessLow, MessMedium, MessHigh}
}

// Anchor is the immutable (day number, date, weekday) triple identifying a
// day slot's position in the month.
type Anchor struct {
	DayNumber int
	Date      string
	Weekday   string
}

// Anchor returns the day's calendar anchor.
func (d Day) Anchor() Anchor {
	return Anchor{DayNumber: d.DayNumber, Date: d.Date, Weekday: d.Weekday}
}

// WithAnchor returns a copy of the day with its anchor fields forcibly set.
// Used after a swap so that whatever the oracle echoed back for the anchor
// is discarded.
func (d Day) WithAnchor(a Anchor) Day {
	d.DayNumber = a.DayNumber
	d.Date = a.Date
	d.Weekday = a.Weekday
	return d
}

// DayByNumber returns the day slot with the given day number, or ok=false.
func (p *Plan) DayByNumber(n int) (Day, bool) {
	for _, d := range p.Days {
		if d.DayNumber == n {
			return d, true
		}
	}
	return Day{}, false
}

// ReplaceDay replaces the slot with candidate's day number. Returns false
// when no slot has that number; the plan is unmodified in that case.
func (p *Plan) ReplaceDay(candidate Day) bool {
	for i, d := range p.Days {
		if d.DayNumber == candidate.DayNumber {
			p.Days[i] = candidate
			return true
		}
	}
	return false
}

// Materials returns every material mentioned across the month, deduplicated
// and sorted, for the one-time shopping summary.
func (p *Plan) Materials() []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, d := range p.Days {
		for _, m := range d.Materials {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			out = append(out, m)
		}
	}
	sort.Strings(out)
	return out
}

// AnchorsFrom builds n calendar anchors starting at start: day 1 falls on
// the start date, weekdays are derived from the date.
func AnchorsFrom(start time.Time, n int) []Anchor {
	anchors := make([]Anchor, n)
	for i := range anchors {
		d := start.AddDate(0, 0, i)
		anchors[i] = Anchor{
			DayNumber: i + 1,
			Date:      d.Format(DateLayout),
			Weekday:   d.Weekday().String(),
		}
	}
	return anchors
}

// WeekdayName returns the weekday for a DateLayout date string.
func WeekdayName(date string) (string, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", err
	}
	return t.Weekday().String(), nil
}
