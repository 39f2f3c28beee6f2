package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/abhisek/elfplan/internal/imagegen"
	"github.com/abhisek/elfplan/internal/kv"
	"github.com/abhisek/elfplan/internal/mailer"
	"github.com/abhisek/elfplan/internal/plan"
	"github.com/abhisek/elfplan/internal/session"
)

func strPtr(s string) *string { return &s }

func decemberPlan() *plan.Plan {
	start := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	anchors := plan.AnchorsFrom(start, plan.MonthLength)
	p := &plan.Plan{Overview: "mischief", Days: make([]plan.Day, plan.MonthLength)}
	for i, a := range anchors {
		p.Days[i] = plan.Day{
			DayNumber: a.DayNumber, Date: a.Date, Weekday: a.Weekday,
			Title: "night", Materials: []string{}, Tags: []string{},
			NightType: plan.NightMischief, Effort: plan.EffortLow, Mess: plan.MessLow,
			ImagePrompt: "an elf",
		}
	}
	return p
}

func seedSession(t *testing.T, sessions *session.Service, id, tz string) {
	t.Helper()
	p := decemberPlan()
	_, err := sessions.Patch(context.Background(), id, session.Patch{
		ChildName:     strPtr("Maya"),
		Plan:          p,
		ReminderEmail: strPtr(id + "@example.com"),
		ReminderTZ:    strPtr(tz),
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestResolveTodayExactDateMatch(t *testing.T) {
	rec := &session.Record{ReminderTZ: "UTC", Plan: decemberPlan()}

	day, ok, err := ResolveToday(rec, time.Date(2025, 12, 5, 23, 30, 0, 0, time.UTC))
	if err != nil || !ok {
		t.Fatalf("got (%v, %v)", ok, err)
	}
	if day.DayNumber != 5 || day.Date != "2025-12-05" {
		t.Fatalf("wrong day: %+v", day)
	}
}

func TestResolveTodayUsesSessionTimezone(t *testing.T) {
	rec := &session.Record{ReminderTZ: "Pacific/Auckland", Plan: decemberPlan()}

	// 2025-12-05 13:00 UTC is already Dec 6 in Auckland.
	day, ok, err := ResolveToday(rec, time.Date(2025, 12, 5, 13, 0, 0, 0, time.UTC))
	if err != nil || !ok {
		t.Fatalf("got (%v, %v)", ok, err)
	}
	if day.DayNumber != 6 {
		t.Fatalf("expected day 6 in Auckland, got %d", day.DayNumber)
	}
}

func TestResolveTodayAbsentCases(t *testing.T) {
	noPlan := &session.Record{ReminderTZ: "UTC"}
	if _, ok, err := ResolveToday(noPlan, time.Now()); ok || err != nil {
		t.Fatalf("missing plan must be absent, got (%v, %v)", ok, err)
	}

	monthOver := &session.Record{ReminderTZ: "UTC", Plan: decemberPlan()}
	if _, ok, err := ResolveToday(monthOver, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)); ok || err != nil {
		t.Fatalf("finished month must be absent, got (%v, %v)", ok, err)
	}
}

func TestResolveTodayBadTimezone(t *testing.T) {
	rec := &session.Record{SessionID: "s1", ReminderTZ: "Mars/Olympus_Mons", Plan: decemberPlan()}
	if _, _, err := ResolveToday(rec, time.Now()); err == nil {
		t.Fatal("expected error for unknown timezone")
	}
}

func TestEnrollIsIdempotent(t *testing.T) {
	store := kv.NewMemoryStore()
	sessions := session.NewService(store, zerolog.Nop())
	svc := NewService(store, sessions, nil, &mailer.LogSender{Log: zerolog.Nop()}, zerolog.Nop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := svc.Enroll(ctx, "s1"); err != nil {
			t.Fatalf("enroll: %v", err)
		}
	}
	ids, err := svc.Enrolled(ctx)
	if err != nil {
		t.Fatalf("enrolled: %v", err)
	}
	if len(ids) != 1 || ids[0] != "s1" {
		t.Fatalf("expected single enrollment, got %v", ids)
	}
}

func TestSweepDeliversOncePerLocalDay(t *testing.T) {
	store := kv.NewMemoryStore()
	sessions := session.NewService(store, zerolog.Nop())
	sender := &mailer.LogSender{Log: zerolog.Nop()}
	svc := NewService(store, sessions, nil, sender, zerolog.Nop())
	ctx := context.Background()

	seedSession(t, sessions, "s1", "UTC")
	if err := svc.Enroll(ctx, "s1"); err != nil {
		t.Fatalf("enroll: %v", err)
	}

	at := time.Date(2025, 12, 10, 21, 0, 0, 0, time.UTC)
	res, err := svc.Sweep(ctx, at)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if res.Delivered != 1 {
		t.Fatalf("expected 1 delivery, got %+v", res)
	}

	res, err = svc.Sweep(ctx, at.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if res.Delivered != 0 || res.Skipped != 1 {
		t.Fatalf("second sweep must skip, got %+v", res)
	}
	if len(sender.Days) != 1 {
		t.Fatalf("expected 1 sent day, got %d", len(sender.Days))
	}

	// Next local day delivers again.
	res, err = svc.Sweep(ctx, at.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if res.Delivered != 1 {
		t.Fatalf("next day must deliver, got %+v", res)
	}
}

// failingSender rejects one recipient and accepts everything else.
type failingSender struct {
	mailer.LogSender
	rejectTo string
}

func (f *failingSender) SendDay(ctx context.Context, to, childName string, day plan.Day) error {
	if to == f.rejectTo {
		return errors.New("mailbox on fire")
	}
	return f.LogSender.SendDay(ctx, to, childName, day)
}

func TestSweepIsolatesPerSessionFailures(t *testing.T) {
	store := kv.NewMemoryStore()
	sessions := session.NewService(store, zerolog.Nop())
	sender := &failingSender{LogSender: mailer.LogSender{Log: zerolog.Nop()}, rejectTo: "bad@example.com"}
	svc := NewService(store, sessions, nil, sender, zerolog.Nop())
	ctx := context.Background()

	seedSession(t, sessions, "good", "UTC")
	seedSession(t, sessions, "other", "UTC")
	_, err := sessions.Patch(ctx, "other", session.Patch{ReminderEmail: strPtr("bad@example.com")})
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	for _, id := range []string{"good", "other"} {
		if err := svc.Enroll(ctx, id); err != nil {
			t.Fatalf("enroll: %v", err)
		}
	}

	res, err := svc.Sweep(ctx, time.Date(2025, 12, 10, 21, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if res.Delivered != 1 || res.Failed != 1 {
		t.Fatalf("expected one delivery and one isolated failure, got %+v", res)
	}
	if len(sender.Days) != 1 || sender.Days[0].To != "good@example.com" {
		t.Fatalf("wrong deliveries: %+v", sender.Days)
	}
}

func TestSweepPersistsLazyImage(t *testing.T) {
	store := kv.NewMemoryStore()
	sessions := session.NewService(store, zerolog.Nop())
	sender := &mailer.LogSender{Log: zerolog.Nop()}
	images := &imagegen.MockOracle{Ref: "https://img.example/day.png"}
	svc := NewService(store, sessions, images, sender, zerolog.Nop())
	ctx := context.Background()

	seedSession(t, sessions, "s1", "UTC")
	if err := svc.Enroll(ctx, "s1"); err != nil {
		t.Fatalf("enroll: %v", err)
	}

	at := time.Date(2025, 12, 10, 21, 0, 0, 0, time.UTC)
	if _, err := svc.Sweep(ctx, at); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	if len(images.Prompts) != 1 {
		t.Fatalf("expected one image generation, got %d", len(images.Prompts))
	}
	if sender.Days[0].Day.ImageRef != "https://img.example/day.png" {
		t.Fatalf("delivered day missing image: %+v", sender.Days[0].Day)
	}

	rec, err := sessions.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	day, _ := rec.Plan.DayByNumber(10)
	if day.ImageRef != "https://img.example/day.png" {
		t.Fatalf("image ref not persisted at day 10: %+v", day)
	}

	// The same day never regenerates; the next day does.
	if _, err := svc.Sweep(ctx, at.AddDate(0, 0, 1)); err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if len(images.Prompts) != 2 {
		t.Fatalf("expected exactly one generation per day, got %d", len(images.Prompts))
	}
}

func TestSweepDeliversWithoutImageWhenOracleFails(t *testing.T) {
	store := kv.NewMemoryStore()
	sessions := session.NewService(store, zerolog.Nop())
	sender := &mailer.LogSender{Log: zerolog.Nop()}
	images := &imagegen.MockOracle{Err: errors.New("quota exhausted")}
	svc := NewService(store, sessions, images, sender, zerolog.Nop())
	ctx := context.Background()

	seedSession(t, sessions, "s1", "UTC")
	if err := svc.Enroll(ctx, "s1"); err != nil {
		t.Fatalf("enroll: %v", err)
	}

	res, err := svc.Sweep(ctx, time.Date(2025, 12, 10, 21, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if res.Delivered != 1 {
		t.Fatalf("enrichment failure must not block delivery, got %+v", res)
	}
	if sender.Days[0].Day.ImageRef != "" {
		t.Fatalf("day should have gone out without an image: %+v", sender.Days[0].Day)
	}
}
