// Package mailer is the delivery boundary. Rendering is a stateless
// transform owned by the template service behind the HTTP API; the core
// hands over plan data and an address, nothing more.
package mailer

import (
	"context"

	"github.com/abhisek/elfplan/internal/plan"
)

// Sender delivers plan content by email.
type Sender interface {
	// SendDay delivers one night's scene for tonight's setup.
	SendDay(ctx context.Context, to, childName string, day plan.Day) error

	// SendSummary delivers the one-time commit summary with the
	// deduplicated materials list for the whole month.
	SendSummary(ctx context.Context, to, childName string, materials []string) error
}
