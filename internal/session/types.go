// Package session holds the root aggregate of a family's planning journey
// and the merge protocol through which every touchpoint mutates it. A
// record is created implicitly on first patch, is mutated exclusively
// through Service.Patch, and is never deleted in-band (it expires via the
// store's TTL).
package session

import "github.com/abhisek/elfplan/internal/plan"

// Vibe is the requested overall tone for the month.
type Vibe string

const (
	VibeSilly Vibe = "silly"
	VibeKind  Vibe = "kind"
	VibeCalm  Vibe = "calm"
)

// Speaker tags a hotline or intro-chat utterance.
type Speaker string

const (
	SpeakerElf    Speaker = "elf"
	SpeakerParent Speaker = "parent"
)

// ChatTurn is one timestamped utterance in a conversation log.
type ChatTurn struct {
	Role Speaker `json:"role"`
	Text string  `json:"text"`
	At   int64   `json:"at"` // epoch milliseconds
}

// Record is the canonical session state. Zero values stand in for
// "not yet known": empty string for unset text fields, 0 for unset
// timestamps, nil for the profile and plan until they first exist.
// List fields are always non-nil after decoding.
type Record struct {
	SessionID string

	// Basic intake.
	ChildName string
	AgeRange  string
	AgeYears  string // free-form, e.g. "almost 7"
	Vibe      Vibe
	StartDate string // plan.DateLayout, optional

	// Conversation artifacts.
	IntroChat []ChatTurn
	Hotline   []ChatTurn

	// Derived and generated content.
	Profile         *Profile
	Plan            *plan.Plan
	PlanGeneratedAt int64 // epoch ms, 0 until first generation
	PDFRef          string

	// Commerce / identity linkage.
	UserEmail   string
	PayerEmail  string
	CommittedAt int64 // epoch ms, 0 until committed; first commit wins

	// Reminder configuration.
	ReminderEmail string
	ReminderTZ    string // IANA timezone name
	ReminderHour  int    // local delivery hour, 0-23

	// Delivery idempotency marker: last local date (plan.DateLayout) a day
	// was delivered for. Empty until the first delivery.
	LastDeliveredDate string

	// Lifecycle. UpdatedAt >= CreatedAt always; refreshed on every merge,
	// never on read.
	CreatedAt int64
	UpdatedAt int64
}

// newDefaultRecord synthesizes an all-defaults record for an id that has
// never been written: every optional field unset, every list empty.
func newDefaultRecord(id string, nowMillis int64) *Record {
	return &Record{
		SessionID: id,
		IntroChat: []ChatTurn{},
		Hotline:   []ChatTurn{},
		CreatedAt: nowMillis,
		UpdatedAt: nowMillis,
	}
}
