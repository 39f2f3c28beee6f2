// Package plangen is the boundary to the generation oracle. It turns
// family profiles into schema-validated plan content. Any response that
// fails its schema or structural contract is surfaced as an error, never
// patched up — the oracle's output is either usable or rejected whole.
package plangen

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/abhisek/elfplan/internal/llm"
	"github.com/abhisek/elfplan/internal/plan"
	"github.com/abhisek/elfplan/internal/session"
)

// Service generates plan content through an llm.Provider.
type Service struct {
	provider llm.Provider
	cfg      Config
}

// NewService creates a plan generation service.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg}
}

// dayContent is the oracle's content-only view of a day. Anchors are
// assigned by this service, never taken from the oracle.
type dayContent struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	MorningMoment string   `json:"morningMoment"`
	EasyVariant   string   `json:"easyVariant"`
	NoteFromElf   string   `json:"noteFromElf"`
	Materials     []string `json:"materials"`
	NightType     string   `json:"nightType"`
	Effort        string   `json:"effort"`
	Mess          string   `json:"mess"`
	Tags          []string `json:"tags"`
	ImagePrompt   string   `json:"imagePrompt"`
}

func (c dayContent) toDay(a plan.Anchor) plan.Day {
	return plan.Day{
		DayNumber:     a.DayNumber,
		Date:          a.Date,
		Weekday:       a.Weekday,
		Title:         c.Title,
		Description:   c.Description,
		MorningMoment: c.MorningMoment,
		EasyVariant:   c.EasyVariant,
		NoteFromElf:   c.NoteFromElf,
		Materials:     orEmpty(c.Materials),
		NightType:     plan.NightType(c.NightType),
		Effort:        plan.EffortLevel(c.Effort),
		Mess:          plan.MessLevel(c.Mess),
		Tags:          orEmpty(c.Tags),
		ImagePrompt:   c.ImagePrompt,
	}
}

// GeneratePlan asks the oracle for a full month of content and anchors it
// to the calendar starting at start. The returned plan has passed
// structural validation.
func (s *Service) GeneratePlan(ctx context.Context, prof session.Profile, start time.Time) (*plan.Plan, error) {
	ctx = llm.WithPurpose(ctx, "plan")

	req := llm.Request{
		System: planSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildPlanUserMessage(prof, plan.MonthLength)},
		},
		Schema:      PlanSchema,
		MaxTokens:   s.cfg.PlanMaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("plan generation: %w", err)
	}

	var out struct {
		Overview string       `json:"overview"`
		Days     []dayContent `json:"days"`
	}
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse plan response: %w", err)
	}
	if len(out.Days) != plan.MonthLength {
		return nil, fmt.Errorf("plan generation: oracle returned %d days, want %d", len(out.Days), plan.MonthLength)
	}

	anchors := plan.AnchorsFrom(start, plan.MonthLength)
	p := &plan.Plan{Overview: out.Overview, Days: make([]plan.Day, plan.MonthLength)}
	for i, c := range out.Days {
		p.Days[i] = c.toDay(anchors[i])
	}

	if err := plan.Validate(p, plan.MonthLength); err != nil {
		return nil, fmt.Errorf("plan generation: %w", err)
	}
	return p, nil
}

// SwapCandidate asks the oracle for a replacement scene for one night.
// The candidate comes back carrying the existing slot's calendar anchor
// regardless of anything the oracle produced.
func (s *Service) SwapCandidate(ctx context.Context, prof session.Profile, existing plan.Day, reasons []string) (plan.Day, error) {
	ctx = llm.WithPurpose(ctx, "swap")

	req := llm.Request{
		System: swapSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildSwapUserMessage(prof, existing, reasons)},
		},
		Schema:      DaySchema,
		MaxTokens:   s.cfg.DayMaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return plan.Day{}, fmt.Errorf("swap generation: %w", err)
	}

	var c dayContent
	if err := json.Unmarshal(resp.Content, &c); err != nil {
		return plan.Day{}, fmt.Errorf("parse swap response: %w", err)
	}

	candidate := c.toDay(existing.Anchor())
	if err := plan.ValidateDay(candidate); err != nil {
		return plan.Day{}, fmt.Errorf("swap generation: %w", err)
	}
	return candidate, nil
}

// HotlineReply answers a parent's hotline question in the elf's voice and
// returns any profile facts the exchange revealed.
func (s *Service) HotlineReply(ctx context.Context, prof *session.Profile, history []session.ChatTurn, question string) (string, *session.ProfilePatch, error) {
	ctx = llm.WithPurpose(ctx, "hotline")

	req := llm.Request{
		System: hotlineSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildHotlineUserMessage(prof, history, question)},
		},
		Schema:      HotlineSchema,
		MaxTokens:   s.cfg.ChatMaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return "", nil, fmt.Errorf("hotline generation: %w", err)
	}

	var out struct {
		Reply   string                `json:"reply"`
		Profile *session.ProfilePatch `json:"profile"`
	}
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return "", nil, fmt.Errorf("parse hotline response: %w", err)
	}
	if out.Reply == "" {
		return "", nil, fmt.Errorf("hotline generation: empty reply")
	}
	return out.Reply, out.Profile, nil
}

// InferProfile extracts a sparse profile patch from a conversation
// transcript.
func (s *Service) InferProfile(ctx context.Context, turns []session.ChatTurn) (session.ProfilePatch, error) {
	ctx = llm.WithPurpose(ctx, "infer-profile")

	req := llm.Request{
		System: inferSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildInferUserMessage(turns)},
		},
		Schema:      ProfileSchema,
		MaxTokens:   s.cfg.ChatMaxTokens,
		Temperature: 0.2,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return session.ProfilePatch{}, fmt.Errorf("profile inference: %w", err)
	}

	var patch session.ProfilePatch
	if err := json.Unmarshal(resp.Content, &patch); err != nil {
		return session.ProfilePatch{}, fmt.Errorf("parse profile response: %w", err)
	}
	return patch, nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
