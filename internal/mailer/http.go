package mailer

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/abhisek/elfplan/internal/plan"
)

// HTTPSender posts messages to a mail-API endpoint (Mailgun-style
// messages resource authenticated with an API key).
type HTTPSender struct {
	client *resty.Client
	from   string
}

// NewHTTPSender creates a sender against the given mail API base URL.
func NewHTTPSender(baseURL, apiKey, from string) *HTTPSender {
	client := resty.New().
		SetBaseURL(baseURL).
		SetBasicAuth("api", apiKey)
	return &HTTPSender{client: client, from: from}
}

func (s *HTTPSender) SendDay(ctx context.Context, to, childName string, day plan.Day) error {
	subject := fmt.Sprintf("Tonight's elf idea for %s: %s", childName, day.Title)

	var b strings.Builder
	fmt.Fprintf(&b, "Day %d — %s, %s\n\n", day.DayNumber, day.Weekday, day.Date)
	fmt.Fprintf(&b, "%s\n\n%s\n", day.Title, day.Description)
	if len(day.Materials) > 0 {
		fmt.Fprintf(&b, "\nYou'll need: %s\n", strings.Join(day.Materials, ", "))
	}
	if day.EasyVariant != "" {
		fmt.Fprintf(&b, "\nLow-energy version: %s\n", day.EasyVariant)
	}
	if day.NoteFromElf != "" {
		fmt.Fprintf(&b, "\nNote from the elf: %s\n", day.NoteFromElf)
	}
	if day.MorningMoment != "" {
		fmt.Fprintf(&b, "\nIn the morning: %s\n", day.MorningMoment)
	}
	if day.ImageRef != "" {
		fmt.Fprintf(&b, "\nScene preview: %s\n", day.ImageRef)
	}

	return s.post(ctx, to, subject, b.String())
}

func (s *HTTPSender) SendSummary(ctx context.Context, to, childName string, materials []string) error {
	subject := fmt.Sprintf("Your elf plan for %s is ready", childName)

	var b strings.Builder
	b.WriteString("Your month of elf ideas is locked in. Nightly reminders start tonight.\n")
	if len(materials) > 0 {
		b.WriteString("\nEverything the month will use:\n")
		for _, m := range materials {
			fmt.Fprintf(&b, "- %s\n", m)
		}
	}

	return s.post(ctx, to, subject, b.String())
}

func (s *HTTPSender) post(ctx context.Context, to, subject, text string) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"from":    s.from,
			"to":      to,
			"subject": subject,
			"text":    text,
		}).
		Post("/messages")
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("send mail: status %d", resp.StatusCode())
	}
	return nil
}
