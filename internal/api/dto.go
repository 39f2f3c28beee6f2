package api

import (
	"github.com/abhisek/elfplan/internal/plan"
	"github.com/abhisek/elfplan/internal/session"
)

// recordDTO is the wire shape of a session record. Storage encoding is the
// session package's business; this is the shape clients see.
type recordDTO struct {
	SessionID string `json:"sessionId"`

	ChildName string       `json:"childName,omitempty"`
	AgeRange  string       `json:"ageRange,omitempty"`
	AgeYears  string       `json:"ageYears,omitempty"`
	Vibe      session.Vibe `json:"vibe,omitempty"`
	StartDate string       `json:"startDate,omitempty"`

	IntroChat []session.ChatTurn `json:"introChat"`
	Hotline   []session.ChatTurn `json:"hotline"`

	Profile         *session.Profile `json:"profile,omitempty"`
	Plan            *plan.Plan       `json:"plan,omitempty"`
	PlanGeneratedAt int64            `json:"planGeneratedAt,omitempty"`
	PDFRef          string           `json:"pdfRef,omitempty"`

	CommittedAt int64 `json:"committedAt,omitempty"`

	ReminderEmail string `json:"reminderEmail,omitempty"`
	ReminderTZ    string `json:"reminderTz,omitempty"`
	ReminderHour  int    `json:"reminderHour,omitempty"`

	CreatedAt int64 `json:"createdAt"`
	UpdatedAt int64 `json:"updatedAt"`
}

func toRecordDTO(rec *session.Record) recordDTO {
	return recordDTO{
		SessionID:       rec.SessionID,
		ChildName:       rec.ChildName,
		AgeRange:        rec.AgeRange,
		AgeYears:        rec.AgeYears,
		Vibe:            rec.Vibe,
		StartDate:       rec.StartDate,
		IntroChat:       rec.IntroChat,
		Hotline:         rec.Hotline,
		Profile:         rec.Profile,
		Plan:            rec.Plan,
		PlanGeneratedAt: rec.PlanGeneratedAt,
		PDFRef:          rec.PDFRef,
		CommittedAt:     rec.CommittedAt,
		ReminderEmail:   rec.ReminderEmail,
		ReminderTZ:      rec.ReminderTZ,
		ReminderHour:    rec.ReminderHour,
		CreatedAt:       rec.CreatedAt,
		UpdatedAt:       rec.UpdatedAt,
	}
}

// patchRequest is the sparse PATCH body. Absent fields stay untouched;
// nested objects present in the body replace wholesale, matching the merge
// engine's shallow semantics. Payer email and the delivery marker are not
// client-writable.
type patchRequest struct {
	ChildName *string       `json:"childName"`
	AgeRange  *string       `json:"ageRange"`
	AgeYears  *string       `json:"ageYears"`
	Vibe      *session.Vibe `json:"vibe"`
	StartDate *string       `json:"startDate"`

	IntroChat []session.ChatTurn `json:"introChat"`
	Hotline   []session.ChatTurn `json:"hotline"`

	Profile *session.Profile `json:"profile"`

	PDFRef *string `json:"pdfRef"`

	UserEmail *string `json:"userEmail"`

	ReminderEmail *string `json:"reminderEmail"`
	ReminderTZ    *string `json:"reminderTz"`
	ReminderHour  *int    `json:"reminderHour"`
}

func (p patchRequest) toPatch() session.Patch {
	return session.Patch{
		ChildName:     p.ChildName,
		AgeRange:      p.AgeRange,
		AgeYears:      p.AgeYears,
		Vibe:          p.Vibe,
		StartDate:     p.StartDate,
		IntroChat:     p.IntroChat,
		Hotline:       p.Hotline,
		Profile:       p.Profile,
		PDFRef:        p.PDFRef,
		UserEmail:     p.UserEmail,
		ReminderEmail: p.ReminderEmail,
		ReminderTZ:    p.ReminderTZ,
		ReminderHour:  p.ReminderHour,
	}
}
