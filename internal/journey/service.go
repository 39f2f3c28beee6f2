// Package journey orchestrates the plan lifecycle on top of the session
// merge engine: generating the month, swapping single nights, and
// committing the plan for scheduled delivery. Every mutation goes through
// session.Service.Patch; this package holds the sequencing and the
// preconditions, never its own storage.
package journey

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/abhisek/elfplan/internal/identity"
	"github.com/abhisek/elfplan/internal/mailer"
	"github.com/abhisek/elfplan/internal/plan"
	"github.com/abhisek/elfplan/internal/plangen"
	"github.com/abhisek/elfplan/internal/reminder"
	"github.com/abhisek/elfplan/internal/session"
)

// Service drives plan generation, swap and commit for a session.
type Service struct {
	sessions  *session.Service
	gen       *plangen.Service
	reminders *reminder.Service
	identity  identity.Resolver
	sender    mailer.Sender
	now       func() time.Time
	log       zerolog.Logger
}

// NewService wires the lifecycle orchestrator. identity may be a
// identity.Null when auth is not configured.
func NewService(sessions *session.Service, gen *plangen.Service, reminders *reminder.Service, ident identity.Resolver, sender mailer.Sender, log zerolog.Logger) *Service {
	return &Service{
		sessions:  sessions,
		gen:       gen,
		reminders: reminders,
		identity:  ident,
		sender:    sender,
		now:       time.Now,
		log:       log.With().Str("component", "journey").Logger(),
	}
}

// WithClock substitutes the wall clock. Tests only.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// ErrOracleUnavailable means no generation provider is configured; the
// oracle-backed operations fail fast with it.
var ErrOracleUnavailable = errors.New("generation oracle not configured")

func (s *Service) requireOracle() error {
	if s.gen == nil {
		return ErrOracleUnavailable
	}
	return nil
}

// GeneratePlan produces the full month for a session and persists it. The
// oracle supplies content only; calendar anchors are derived here from the
// session's start date. Requires a profile; regenerating over an existing
// plan replaces it wholesale.
func (s *Service) GeneratePlan(ctx context.Context, sessionID string) (*session.Record, error) {
	if err := s.requireOracle(); err != nil {
		return nil, err
	}
	rec, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if rec.Profile == nil {
		return nil, fmt.Errorf("%w: session %s has no profile yet", ErrPrecondition, sessionID)
	}

	start, err := s.resolveStart(rec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPrecondition, err)
	}

	p, err := s.gen.GeneratePlan(ctx, *rec.Profile, start)
	if err != nil {
		return nil, err
	}

	generatedAt := s.now().UnixMilli()
	startDate := start.Format(plan.DateLayout)
	rec, err = s.sessions.Patch(ctx, sessionID, session.Patch{
		Plan:            p,
		PlanGeneratedAt: &generatedAt,
		StartDate:       &startDate,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("session", sessionID).Str("start", startDate).Msg("plan generated")
	return rec, nil
}

// resolveStart picks the plan's first calendar day: the session's start
// date when set, otherwise December 1st of the current year, or tomorrow
// when the season is already underway.
func (s *Service) resolveStart(rec *session.Record) (time.Time, error) {
	if rec.StartDate != "" {
		t, err := time.Parse(plan.DateLayout, rec.StartDate)
		if err != nil {
			return time.Time{}, fmt.Errorf("bad start date %q: %v", rec.StartDate, err)
		}
		return t, nil
	}

	now := s.now().UTC()
	dec1 := time.Date(now.Year(), time.December, 1, 0, 0, 0, 0, time.UTC)
	if now.Before(dec1) {
		return dec1, nil
	}
	return now.AddDate(0, 0, 1).Truncate(24 * time.Hour), nil
}

// SwapDay replaces one night's content with a fresh candidate from the
// oracle. The slot's calendar anchor is held fixed no matter what the
// oracle returns, exactly one slot changes, and any failure leaves the
// plan untouched.
func (s *Service) SwapDay(ctx context.Context, sessionID string, dayNumber int, reasons []string) (*session.Record, error) {
	if err := s.requireOracle(); err != nil {
		return nil, err
	}
	rec, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if rec.Plan == nil {
		return nil, fmt.Errorf("%w: session %s has no plan to swap in", ErrPrecondition, sessionID)
	}
	if rec.Profile == nil {
		return nil, fmt.Errorf("%w: session %s has no profile", ErrPrecondition, sessionID)
	}

	existing, ok := rec.Plan.DayByNumber(dayNumber)
	if !ok {
		return nil, fmt.Errorf("%w: day %d not in plan", ErrNotFound, dayNumber)
	}

	candidate, err := s.gen.SwapCandidate(ctx, *rec.Profile, existing, reasons)
	if err != nil {
		return nil, err
	}

	updated := *rec.Plan
	updated.Days = append([]plan.Day{}, rec.Plan.Days...)
	if !updated.ReplaceDay(candidate) {
		return nil, fmt.Errorf("%w: day %d not in plan", ErrNotFound, dayNumber)
	}

	rec, err = s.sessions.Patch(ctx, sessionID, session.Patch{Plan: &updated})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("session", sessionID).Int("day", dayNumber).Msg("day swapped")
	return rec, nil
}

// Commit finalizes the plan for scheduled delivery: resolves the delivery
// email through the fallback chain, records the commit timestamp (first
// commit wins), sends the one-time materials summary, persists the
// reminder configuration, and enrolls the session. Safe to call
// redundantly — the UI fires it from both an explicit action and a
// page-closing signal.
func (s *Service) Commit(ctx context.Context, sessionID, email, timezone string, hourLocal int) (int64, error) {
	rec, err := s.load(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	if rec.Plan == nil || len(rec.Plan.Days) == 0 {
		return 0, fmt.Errorf("%w: session %s has no plan to commit", ErrPrecondition, sessionID)
	}

	deliverTo, err := s.resolveEmail(ctx, rec, email)
	if err != nil {
		return 0, err
	}

	committedAt := rec.CommittedAt
	firstCommit := committedAt == 0
	if firstCommit {
		committedAt = s.now().UnixMilli()
	}

	p := session.Patch{
		CommittedAt:   &committedAt,
		ReminderEmail: &deliverTo,
	}
	if timezone != "" {
		p.ReminderTZ = &timezone
	}
	if hourLocal > 0 {
		p.ReminderHour = &hourLocal
	}
	if _, err := s.sessions.Patch(ctx, sessionID, p); err != nil {
		return 0, err
	}

	if err := s.reminders.Enroll(ctx, sessionID); err != nil {
		return 0, err
	}

	if firstCommit {
		materials := rec.Plan.Materials()
		if err := s.sender.SendSummary(ctx, deliverTo, rec.ChildName, materials); err != nil {
			// Commit already happened; a later call must not resend, so the
			// summary is best-effort.
			s.log.Warn().Err(err).Str("session", sessionID).Msg("summary send failed")
		}
	}

	s.log.Info().Str("session", sessionID).Bool("first", firstCommit).Msg("plan committed")
	return committedAt, nil
}

// resolveEmail evaluates the delivery-email candidates in fixed priority
// order: explicit argument, configured reminder email, authenticated user
// email, payment payer email. First non-empty wins.
func (s *Service) resolveEmail(ctx context.Context, rec *session.Record, explicit string) (string, error) {
	authed := rec.UserEmail
	if authed == "" && s.identity != nil {
		e, ok, err := s.identity.EmailFor(ctx, rec.SessionID)
		if err != nil {
			s.log.Warn().Err(err).Str("session", rec.SessionID).Msg("identity lookup failed")
		} else if ok {
			authed = e
		}
	}

	for _, candidate := range []string{explicit, rec.ReminderEmail, authed, rec.PayerEmail} {
		if candidate != "" {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: no delivery email resolvable for session %s", ErrPrecondition, rec.SessionID)
}

// HotlineTurn runs one parent question through the elf hotline: appends
// both utterances to the conversation log, merges any profile facts the
// exchange revealed, and returns the elf's reply.
func (s *Service) HotlineTurn(ctx context.Context, sessionID, question string) (string, *session.Record, error) {
	if err := s.requireOracle(); err != nil {
		return "", nil, err
	}
	rec, err := s.sessions.Get(ctx, sessionID)
	if err != nil && !errors.Is(err, session.ErrNotFound) {
		return "", nil, err
	}

	var prof *session.Profile
	history := []session.ChatTurn{}
	if rec != nil {
		prof = rec.Profile
		history = rec.Hotline
	}

	reply, fragment, err := s.gen.HotlineReply(ctx, prof, history, question)
	if err != nil {
		return "", nil, err
	}

	nowMillis := s.now().UnixMilli()
	p := session.Patch{
		Hotline: append(append([]session.ChatTurn{}, history...),
			session.ChatTurn{Role: session.SpeakerParent, Text: question, At: nowMillis},
			session.ChatTurn{Role: session.SpeakerElf, Text: reply, At: nowMillis},
		),
	}
	if fragment != nil {
		merged := session.MergeProfile(prof, *fragment)
		p.Profile = &merged
	}

	rec, err = s.sessions.Patch(ctx, sessionID, p)
	if err != nil {
		return "", nil, err
	}
	return reply, rec, nil
}

// InferProfileFromIntro runs profile inference over the intro-chat
// transcript and merges the result field-level into the session's profile.
func (s *Service) InferProfileFromIntro(ctx context.Context, sessionID string) (*session.Record, error) {
	if err := s.requireOracle(); err != nil {
		return nil, err
	}
	rec, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(rec.IntroChat) == 0 {
		return nil, fmt.Errorf("%w: session %s has no intro conversation", ErrPrecondition, sessionID)
	}

	patch, err := s.gen.InferProfile(ctx, rec.IntroChat)
	if err != nil {
		return nil, err
	}

	merged := session.MergeProfile(rec.Profile, patch)
	return s.sessions.Patch(ctx, sessionID, session.Patch{Profile: &merged})
}

func (s *Service) load(ctx context.Context, sessionID string) (*session.Record, error) {
	rec, err := s.sessions.Get(ctx, sessionID)
	if errors.Is(err, session.ErrNotFound) {
		return nil, fmt.Errorf("%w: session %s", ErrNotFound, sessionID)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}
