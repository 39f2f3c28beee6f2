package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/abhisek/elfplan/internal/kv"
	"github.com/abhisek/elfplan/internal/plan"
)

// ErrNotFound is returned by Get when no record exists for the id.
var ErrNotFound = errors.New("session not found")

// DefaultTTL is how long a session survives without being touched.
const DefaultTTL = 90 * 24 * time.Hour

const keyPrefix = "elf:session:"

// Patch is a sparse session update. Nil pointer fields are preserved from
// the existing record. The nested aggregates (chat logs, Profile, Plan)
// are replaced wholesale when present — the merge is shallow at the
// session level. Callers that want field-level profile accretion build
// the replacement with MergeProfile first.
type Patch struct {
	ChildName *string
	AgeRange  *string
	AgeYears  *string
	Vibe      *Vibe
	StartDate *string

	IntroChat []ChatTurn
	Hotline   []ChatTurn

	Profile *Profile
	Plan    *plan.Plan

	PlanGeneratedAt *int64
	PDFRef          *string

	UserEmail   *string
	PayerEmail  *string
	CommittedAt *int64

	ReminderEmail *string
	ReminderTZ    *string
	ReminderHour  *int

	LastDeliveredDate *string
}

// Service is the session merge engine. It performs unlocked
// read-modify-write: concurrent patches to the same session race and the
// last writer wins in full. That is the accepted policy for a
// single-household resource, not a bug.
type Service struct {
	store kv.Store
	ttl   time.Duration
	now   func() time.Time
	log   zerolog.Logger
}

// NewService creates a session service on the given store.
func NewService(store kv.Store, log zerolog.Logger) *Service {
	return &Service{
		store: store,
		ttl:   DefaultTTL,
		now:   time.Now,
		log:   log.With().Str("component", "session").Logger(),
	}
}

// WithClock substitutes the wall clock. Tests only.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Get loads a session record, or ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (*Record, error) {
	fields, err := s.store.HGetAll(ctx, keyPrefix+id)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	if len(fields) == 0 {
		return nil, ErrNotFound
	}
	return decodeRecord(id, fields), nil
}

// Patch applies a sparse update to the session, creating an all-defaults
// record first if none exists. Fields absent from the patch are preserved
// verbatim. UpdatedAt is always refreshed. The full record is persisted
// back, not just the changed fields.
//
// No semantic validation happens here — upstream touchpoints are varied
// and independently evolving, so this engine is structurally permissive
// by design.
func (s *Service) Patch(ctx context.Context, id string, p Patch) (*Record, error) {
	key := keyPrefix + id
	nowMillis := s.now().UnixMilli()

	fields, err := s.store.HGetAll(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}

	var rec *Record
	if len(fields) == 0 {
		rec = newDefaultRecord(id, nowMillis)
	} else {
		rec = decodeRecord(id, fields)
	}

	applyPatch(rec, p)
	rec.UpdatedAt = nowMillis

	if err := s.store.HSet(ctx, key, encodeRecord(rec), s.ttl); err != nil {
		return nil, fmt.Errorf("persist session %s: %w", id, err)
	}

	s.log.Debug().Str("session", id).Msg("session patched")
	return rec, nil
}

// applyPatch shallow-overlays the patch onto the record. Aggregates
// present in the patch replace the existing value wholesale.
func applyPatch(rec *Record, p Patch) {
	setString(&rec.ChildName, p.ChildName)
	setString(&rec.AgeRange, p.AgeRange)
	setString(&rec.AgeYears, p.AgeYears)
	if p.Vibe != nil {
		rec.Vibe = *p.Vibe
	}
	setString(&rec.StartDate, p.StartDate)

	if p.IntroChat != nil {
		rec.IntroChat = p.IntroChat
	}
	if p.Hotline != nil {
		rec.Hotline = p.Hotline
	}
	if p.Profile != nil {
		rec.Profile = p.Profile
	}
	if p.Plan != nil {
		rec.Plan = p.Plan
	}
	if p.PlanGeneratedAt != nil {
		rec.PlanGeneratedAt = *p.PlanGeneratedAt
	}
	setString(&rec.PDFRef, p.PDFRef)
	setString(&rec.UserEmail, p.UserEmail)
	setString(&rec.PayerEmail, p.PayerEmail)
	if p.CommittedAt != nil {
		rec.CommittedAt = *p.CommittedAt
	}
	setString(&rec.ReminderEmail, p.ReminderEmail)
	setString(&rec.ReminderTZ, p.ReminderTZ)
	if p.ReminderHour != nil {
		rec.ReminderHour = *p.ReminderHour
	}
	setString(&rec.LastDeliveredDate, p.LastDeliveredDate)
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// AppendHotline is a convenience for conversational touchpoints: append
// turns to the hotline log without the caller re-reading the record first.
func (s *Service) AppendHotline(ctx context.Context, id string, turns ...ChatTurn) (*Record, error) {
	rec, err := s.Get(ctx, id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	log := []ChatTurn{}
	if rec != nil {
		log = rec.Hotline
	}
	return s.Patch(ctx, id, Patch{Hotline: append(log, turns...)})
}

// AppendIntroChat appends turns to the intro-chat log.
func (s *Service) AppendIntroChat(ctx context.Context, id string, turns ...ChatTurn) (*Record, error) {
	rec, err := s.Get(ctx, id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	log := []ChatTurn{}
	if rec != nil {
		log = rec.IntroChat
	}
	return s.Patch(ctx, id, Patch{IntroChat: append(log, turns...)})
}
