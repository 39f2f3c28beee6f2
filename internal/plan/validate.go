package plan

import (
	"fmt"
	"strings"
)

// ValidationError reports every structural violation found in a plan.
// A plan failing validation is a data-contract violation: the caller logs
// it and rejects the plan, never repairs it.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid plan: %s", strings.Join(e.Problems, "; "))
}

// Validate checks the structural invariants of a plan: expected day count,
// contiguous 1..N day numbers matching array position, date/weekday
// consistency, and closed-set enum values.
func Validate(p *Plan, wantDays int) error {
	var problems []string

	if len(p.Days) != wantDays {
		problems = append(problems, fmt.Sprintf("expected %d days, got %d", wantDays, len(p.Days)))
	}

	for i, d := range p.Days {
		if d.DayNumber != i+1 {
			problems = append(problems, fmt.Sprintf("day at position %d has dayNumber %d", i, d.DayNumber))
		}
		wd, err := WeekdayName(d.Date)
		if err != nil {
			problems = append(problems, fmt.Sprintf("day %d: unparsable date %q", d.DayNumber, d.Date))
		} else if wd != d.Weekday {
			problems = append(problems, fmt.Sprintf("day %d: weekday %q does not match date %s (%s)", d.DayNumber, d.Weekday, d.Date, wd))
		}
		problems = append(problems, validateEnums(d)...)
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// ValidateDay checks a single day slot's enum fields and date/weekday
// consistency, without positional checks. Used for swap candidates.
func ValidateDay(d Day) error {
	var problems []string

	wd, err := WeekdayName(d.Date)
	if err != nil {
		problems = append(problems, fmt.Sprintf("unparsable date %q", d.Date))
	} else if wd != d.Weekday {
		problems = append(problems, fmt.Sprintf("weekday %q does not match date %s (%s)", d.Weekday, d.Date, wd))
	}
	problems = append(problems, validateEnums(d)...)

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func validateEnums(d Day) []string {
	var problems []string
	if !contains(NightTypes(), d.NightType) {
		problems = append(problems, fmt.Sprintf("day %d: unknown night type %q", d.DayNumber, d.NightType))
	}
	if !contains(EffortLevels(), d.Effort) {
		problems = append(problems, fmt.Sprintf("day %d: unknown effort level %q", d.DayNumber, d.Effort))
	}
	if !contains(MessLevels(), d.Mess) {
		problems = append(problems, fmt.Sprintf("day %d: unknown mess level %q", d.DayNumber, d.Mess))
	}
	return problems
}

func contains[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
