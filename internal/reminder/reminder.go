// Package reminder tracks which sessions are enrolled for nightly
// delivery and resolves which day slot to send for a given instant.
// "Today" is an exact date match between the session-local calendar date
// and a slot's date, so resolution itself is naturally idempotent; the
// last-delivered-date marker on the session keeps repeated sweeps within
// the same local day from resending.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/abhisek/elfplan/internal/imagegen"
	"github.com/abhisek/elfplan/internal/kv"
	"github.com/abhisek/elfplan/internal/mailer"
	"github.com/abhisek/elfplan/internal/plan"
	"github.com/abhisek/elfplan/internal/session"
)

const enrolledSetKey = "elf:reminder:enrolled"

// Service manages enrollment and the nightly delivery sweep.
type Service struct {
	store    kv.Store
	sessions *session.Service
	images   imagegen.Oracle // nil disables image enrichment
	sender   mailer.Sender
	log      zerolog.Logger
}

// NewService creates a reminder service. images may be nil.
func NewService(store kv.Store, sessions *session.Service, images imagegen.Oracle, sender mailer.Sender, log zerolog.Logger) *Service {
	return &Service{
		store:    store,
		sessions: sessions,
		images:   images,
		sender:   sender,
		log:      log.With().Str("component", "reminder").Logger(),
	}
}

// Enroll adds a session to the delivery set. Idempotent; safe to call
// from every commit.
func (s *Service) Enroll(ctx context.Context, sessionID string) error {
	if err := s.store.SAdd(ctx, enrolledSetKey, sessionID); err != nil {
		return fmt.Errorf("enroll %s: %w", sessionID, err)
	}
	return nil
}

// Enrolled lists every enrolled session id.
func (s *Service) Enrolled(ctx context.Context) ([]string, error) {
	return s.store.SMembers(ctx, enrolledSetKey)
}

// ResolveToday returns the day slot whose date equals the session-local
// calendar date for nowUTC, or ok=false when no slot matches (month over,
// or not started yet). An unknown timezone is an error; a missing plan is
// simply "nothing to deliver".
func ResolveToday(rec *session.Record, nowUTC time.Time) (plan.Day, bool, error) {
	if rec.Plan == nil {
		return plan.Day{}, false, nil
	}

	localDate, err := localDateFor(rec, nowUTC)
	if err != nil {
		return plan.Day{}, false, err
	}

	for _, d := range rec.Plan.Days {
		if d.Date == localDate {
			return d, true, nil
		}
	}
	return plan.Day{}, false, nil
}

func localDateFor(rec *session.Record, nowUTC time.Time) (string, error) {
	tz := rec.ReminderTZ
	if tz == "" {
		tz = "UTC"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return "", fmt.Errorf("session %s: bad timezone %q: %w", rec.SessionID, tz, err)
	}
	return nowUTC.In(loc).Format(plan.DateLayout), nil
}

// SweepResult summarizes one delivery sweep.
type SweepResult struct {
	Delivered int
	Skipped   int
	Failed    int
}

// Sweep walks the enrollment set and delivers tonight's slot to every
// session whose local date matches one. Failures are isolated per
// session: one bad record never blocks the rest of the batch.
func (s *Service) Sweep(ctx context.Context, nowUTC time.Time) (SweepResult, error) {
	ids, err := s.Enrolled(ctx)
	if err != nil {
		return SweepResult{}, fmt.Errorf("list enrolled sessions: %w", err)
	}

	var res SweepResult
	for _, id := range ids {
		switch err := s.deliverOne(ctx, id, nowUTC); {
		case err == nil:
			res.Delivered++
		case errors.Is(err, errNothingToDeliver):
			res.Skipped++
		default:
			res.Failed++
			s.log.Error().Err(err).Str("session", id).Msg("delivery failed")
		}
	}

	s.log.Info().
		Int("delivered", res.Delivered).
		Int("skipped", res.Skipped).
		Int("failed", res.Failed).
		Msg("delivery sweep done")
	return res, nil
}

var errNothingToDeliver = errors.New("nothing to deliver")

func (s *Service) deliverOne(ctx context.Context, id string, nowUTC time.Time) error {
	rec, err := s.sessions.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if rec.ReminderEmail == "" {
		return errNothingToDeliver
	}

	localDate, err := localDateFor(rec, nowUTC)
	if err != nil {
		return err
	}
	if rec.LastDeliveredDate == localDate {
		return errNothingToDeliver
	}

	day, ok, err := ResolveToday(rec, nowUTC)
	if err != nil {
		return err
	}
	if !ok {
		return errNothingToDeliver
	}

	day = s.enrichImage(ctx, rec, day)

	if err := s.sender.SendDay(ctx, rec.ReminderEmail, rec.ChildName, day); err != nil {
		return fmt.Errorf("send day %d: %w", day.DayNumber, err)
	}

	if _, err := s.sessions.Patch(ctx, id, session.Patch{LastDeliveredDate: &localDate}); err != nil {
		// The email is out; a failed marker write means the next sweep may
		// resend. Surface it so the failure is visible.
		return fmt.Errorf("record delivery marker: %w", err)
	}
	return nil
}

// enrichImage lazily attaches an image reference to a day that has a
// prompt but no image yet, persisting it back into the plan so the same
// day is never billed twice. Enrichment failure still delivers the day,
// just without an image.
func (s *Service) enrichImage(ctx context.Context, rec *session.Record, day plan.Day) plan.Day {
	if s.images == nil || day.ImageRef != "" || day.ImagePrompt == "" {
		return day
	}

	ref, err := s.images.Generate(ctx, day.ImagePrompt)
	if err != nil {
		s.log.Warn().Err(err).Str("session", rec.SessionID).Int("day", day.DayNumber).Msg("image enrichment failed")
		return day
	}
	day.ImageRef = ref

	updated := *rec.Plan
	updated.Days = append([]plan.Day{}, rec.Plan.Days...)
	if updated.ReplaceDay(day) {
		if _, err := s.sessions.Patch(ctx, rec.SessionID, session.Patch{Plan: &updated}); err != nil {
			s.log.Warn().Err(err).Str("session", rec.SessionID).Msg("persisting image ref failed")
		}
	}
	return day
}
