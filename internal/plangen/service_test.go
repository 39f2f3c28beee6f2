package plangen

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/elfplan/internal/llm"
	"github.com/abhisek/elfplan/internal/plan"
	"github.com/abhisek/elfplan/internal/session"
)

func testProfile() session.Profile {
	return session.MergeProfile(nil, session.ProfilePatch{
		ChildName: ptr("Maya"),
		Interests: []string{"dinosaurs"},
	})
}

func ptr[T any](v T) *T { return &v }

func oracleDay(title string) dayContent {
	return dayContent{
		Title:       title,
		Description: "set the scene after bedtime",
		Materials:   []string{"tape"},
		NightType:   "mischief",
		Effort:      "low",
		Mess:        "low",
		Tags:        []string{"classic"},
		ImagePrompt: "an elf up to no good",
	}
}

func oraclePlanJSON(t *testing.T, days int) json.RawMessage {
	t.Helper()
	out := struct {
		Overview string       `json:"overview"`
		Days     []dayContent `json:"days"`
	}{Overview: "a month of mischief"}
	for i := 0; i < days; i++ {
		out.Days = append(out.Days, oracleDay("night"))
	}
	b, err := json.Marshal(out)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}

func TestGeneratePlanAnchorsDaysToCalendar(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: oraclePlanJSON(t, plan.MonthLength)})
	svc := NewService(mock, DefaultConfig())

	start := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	p, err := svc.GeneratePlan(context.Background(), testProfile(), start)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(p.Days) != plan.MonthLength {
		t.Fatalf("expected %d days, got %d", plan.MonthLength, len(p.Days))
	}
	if p.Days[0].Date != "2025-12-01" || p.Days[0].Weekday != "Monday" {
		t.Fatalf("first anchor wrong: %+v", p.Days[0])
	}
	if p.Days[29].DayNumber != 30 || p.Days[29].Date != "2025-12-30" {
		t.Fatalf("last anchor wrong: %+v", p.Days[29])
	}
	if p.Overview != "a month of mischief" {
		t.Fatalf("overview lost: %q", p.Overview)
	}
}

func TestGeneratePlanRejectsWrongDayCount(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: oraclePlanJSON(t, 12)})
	svc := NewService(mock, DefaultConfig())

	_, err := svc.GeneratePlan(context.Background(), testProfile(), time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "12 days") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestGeneratePlanRejectsBadEnum(t *testing.T) {
	raw := oraclePlanJSON(t, plan.MonthLength)
	bad := json.RawMessage(strings.Replace(string(raw), `"mischief"`, `"chaotic"`, 1))

	mock := llm.NewMockProvider(llm.MockResponse{Content: bad})
	svc := NewService(mock, DefaultConfig())

	_, err := svc.GeneratePlan(context.Background(), testProfile(), time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC))
	if err == nil {
		t.Fatal("out-of-set enum must be rejected, not coerced")
	}
}

func TestSwapCandidateForcesExistingAnchor(t *testing.T) {
	// Oracle echoes back a wrong anchor; the existing slot's anchor must
	// win regardless.
	c := oracleDay("new idea")
	b, _ := json.Marshal(c)
	raw := json.RawMessage(strings.Replace(string(b), `"title":"new idea"`,
		`"title":"new idea","dayNumber":99,"date":"1999-01-01","weekday":"Friday"`, 1))

	mock := llm.NewMockProvider(llm.MockResponse{Content: raw})
	svc := NewService(mock, DefaultConfig())

	existing := plan.Day{DayNumber: 7, Date: "2025-12-07", Weekday: "Sunday", Title: "old idea"}
	got, err := svc.SwapCandidate(context.Background(), testProfile(), existing, []string{"too messy"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.DayNumber != 7 || got.Date != "2025-12-07" || got.Weekday != "Sunday" {
		t.Fatalf("anchor not preserved: %+v", got)
	}
	if got.Title != "new idea" {
		t.Fatalf("content not taken from candidate: %q", got.Title)
	}
}

func TestSwapCandidatePropagatesOracleFailure(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`not json`)})
	svc := NewService(mock, DefaultConfig())

	existing := plan.Day{DayNumber: 7, Date: "2025-12-07", Weekday: "Sunday"}
	if _, err := svc.SwapCandidate(context.Background(), testProfile(), existing, nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestHotlineReplyReturnsProfileFragment(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"reply":"ho ho, hide the cookies","profile":{"pets":["goldfish"]}}`),
	})
	svc := NewService(mock, DefaultConfig())

	reply, frag, err := svc.HotlineReply(context.Background(), nil, nil, "we got a goldfish")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply == "" {
		t.Fatal("empty reply")
	}
	if frag == nil || len(frag.Pets) != 1 || frag.Pets[0] != "goldfish" {
		t.Fatalf("fragment lost: %+v", frag)
	}
}

func TestHotlineReplyRejectsEmptyReply(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"reply":""}`)})
	svc := NewService(mock, DefaultConfig())

	if _, _, err := svc.HotlineReply(context.Background(), nil, nil, "hi"); err == nil {
		t.Fatal("expected error")
	}
}

func TestInferProfileDistinguishesAbsentFromEmpty(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"childName":"Maya","pets":[]}`),
	})
	svc := NewService(mock, DefaultConfig())

	patch, err := svc.InferProfile(context.Background(), []session.ChatTurn{{Role: session.SpeakerParent, Text: "no pets"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if patch.ChildName == nil || *patch.ChildName != "Maya" {
		t.Fatalf("name lost: %+v", patch)
	}
	if patch.Pets == nil || len(patch.Pets) != 0 {
		t.Fatalf("explicit empty list must stay non-nil empty: %#v", patch.Pets)
	}
	if patch.Siblings != nil {
		t.Fatalf("absent list must stay nil: %#v", patch.Siblings)
	}
}
