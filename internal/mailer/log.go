package mailer

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/abhisek/elfplan/internal/plan"
)

// LogSender logs instead of sending. Used in development and as a test
// double; it records every delivery for assertions.
type LogSender struct {
	Log zerolog.Logger

	mu        sync.Mutex
	Days      []SentDay
	Summaries []SentSummary
}

// SentDay records one SendDay call.
type SentDay struct {
	To        string
	ChildName string
	Day       plan.Day
}

// SentSummary records one SendSummary call.
type SentSummary struct {
	To        string
	ChildName string
	Materials []string
}

func (s *LogSender) SendDay(_ context.Context, to, childName string, day plan.Day) error {
	s.mu.Lock()
	s.Days = append(s.Days, SentDay{To: to, ChildName: childName, Day: day})
	s.mu.Unlock()
	s.Log.Info().Str("to", to).Int("day", day.DayNumber).Str("title", day.Title).Msg("would send day email")
	return nil
}

func (s *LogSender) SendSummary(_ context.Context, to, childName string, materials []string) error {
	s.mu.Lock()
	s.Summaries = append(s.Summaries, SentSummary{To: to, ChildName: childName, Materials: materials})
	s.mu.Unlock()
	s.Log.Info().Str("to", to).Int("materials", len(materials)).Msg("would send summary email")
	return nil
}
