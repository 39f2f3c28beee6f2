package session

// EnergyLevel describes how much energy the parents have for setups.
type EnergyLevel string

const (
	EnergyExhausted EnergyLevel = "exhausted"
	EnergyNormal    EnergyLevel = "normal-tired"
	EnergySome      EnergyLevel = "has-some-energy"
)

// MessTolerance describes how much cleanup the family will accept.
type MessTolerance string

const (
	MessToleranceVeryLow MessTolerance = "very-low"
	MessToleranceLow     MessTolerance = "low"
	MessToleranceMedium  MessTolerance = "medium"
	MessToleranceHigh    MessTolerance = "high"
)

// Profile is the accumulated structured understanding of a family, built
// incrementally from conversational turns. Once a profile exists its list
// fields are never nil and its enum fields always carry a usable value,
// so a profile is always "complete enough to use".
type Profile struct {
	ChildName      string        `json:"childName,omitempty"`
	AgeYears       *int          `json:"ageYears,omitempty"`
	AgeRange       string        `json:"ageRange,omitempty"`
	Vibe           Vibe          `json:"vibe,omitempty"`
	Siblings       []string      `json:"siblings"`
	Pets           []string      `json:"pets"`
	Interests      []string      `json:"interests"`
	EnergyLevel    EnergyLevel   `json:"energyLevel"`
	MessTolerance  MessTolerance `json:"messTolerance"`
	BannedProps    []string      `json:"bannedProps"`
	AvailableProps []string      `json:"availableProps"`
	Notes          string        `json:"notes,omitempty"`
}

// ProfilePatch is a sparse profile update from one conversational turn.
// Nil scalar pointers mean "no new information". Nil slices mean the same;
// a non-nil empty slice is an explicit "we now know there are none" and is
// honored.
type ProfilePatch struct {
	ChildName      *string        `json:"childName"`
	AgeYears       *int           `json:"ageYears"`
	AgeRange       *string        `json:"ageRange"`
	Vibe           *Vibe          `json:"vibe"`
	Siblings       []string       `json:"siblings"`
	Pets           []string       `json:"pets"`
	Interests      []string       `json:"interests"`
	EnergyLevel    *EnergyLevel   `json:"energyLevel"`
	MessTolerance  *MessTolerance `json:"messTolerance"`
	BannedProps    []string       `json:"bannedProps"`
	AvailableProps []string       `json:"availableProps"`
	Notes          *string        `json:"notes"`
}

// MergeProfile merges a sparse patch into an existing profile, field by
// field: a new value wins, otherwise the existing value is kept, otherwise
// the documented default applies. This is deliberately different from the
// session-level merge, which replaces nested objects wholesale — profile
// facts accrete across many short turns and must never regress when a
// later turn is silent on a topic already established.
func MergeProfile(existing *Profile, patch ProfilePatch) Profile {
	var base Profile
	if existing != nil {
		base = *existing
	}

	out := Profile{
		ChildName:      mergeString(patch.ChildName, base.ChildName),
		AgeYears:       mergeIntPtr(patch.AgeYears, base.AgeYears),
		AgeRange:       mergeString(patch.AgeRange, base.AgeRange),
		Vibe:           Vibe(mergeString((*string)(patch.Vibe), string(base.Vibe))),
		Siblings:       mergeList(patch.Siblings, base.Siblings),
		Pets:           mergeList(patch.Pets, base.Pets),
		Interests:      mergeList(patch.Interests, base.Interests),
		BannedProps:    mergeList(patch.BannedProps, base.BannedProps),
		AvailableProps: mergeList(patch.AvailableProps, base.AvailableProps),
		Notes:          mergeString(patch.Notes, base.Notes),
	}

	out.EnergyLevel = EnergyLevel(mergeString((*string)(patch.EnergyLevel), string(base.EnergyLevel)))
	if out.EnergyLevel == "" {
		out.EnergyLevel = EnergyNormal
	}
	out.MessTolerance = MessTolerance(mergeString((*string)(patch.MessTolerance), string(base.MessTolerance)))
	if out.MessTolerance == "" {
		out.MessTolerance = MessToleranceLow
	}

	return out
}

func mergeString(patch *string, existing string) string {
	if patch != nil && *patch != "" {
		return *patch
	}
	return existing
}

func mergeIntPtr(patch *int, existing *int) *int {
	if patch != nil {
		v := *patch
		return &v
	}
	return existing
}

// mergeList keeps the distinction between "caller said nothing" (nil) and
// "caller supplied an empty list" (non-nil, honored).
func mergeList(patch, existing []string) []string {
	if patch != nil {
		return append([]string{}, patch...)
	}
	if existing != nil {
		return existing
	}
	return []string{}
}
