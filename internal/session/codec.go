package session

import (
	"encoding/json"
	"strconv"

	"github.com/abhisek/elfplan/internal/plan"
)

// Hash field names. Scalars are stored as strings, aggregates (chat logs,
// profile, plan) as JSON blobs. Decoding is defensive: a malformed or
// legacy payload in any field reads as "absent" rather than failing the
// whole record.
const (
	fieldChildName         = "child_name"
	fieldAgeRange          = "age_range"
	fieldAgeYears          = "age_years"
	fieldVibe              = "vibe"
	fieldStartDate         = "start_date"
	fieldIntroChat         = "intro_chat"
	fieldHotline           = "hotline"
	fieldProfile           = "profile"
	fieldPlan              = "plan"
	fieldPlanGeneratedAt   = "plan_generated_at"
	fieldPDFRef            = "pdf_ref"
	fieldUserEmail         = "user_email"
	fieldPayerEmail        = "payer_email"
	fieldCommittedAt       = "committed_at"
	fieldReminderEmail     = "reminder_email"
	fieldReminderTZ        = "reminder_tz"
	fieldReminderHour      = "reminder_hour"
	fieldLastDeliveredDate = "last_delivered"
	fieldCreatedAt         = "created_at"
	fieldUpdatedAt         = "updated_at"
)

// encodeRecord flattens a record into hash fields. The full record is
// always written, never a partial field set, so the stored encoding stays
// internally consistent.
func encodeRecord(r *Record) map[string]string {
	fields := map[string]string{
		fieldChildName:         r.ChildName,
		fieldAgeRange:          r.AgeRange,
		fieldAgeYears:          r.AgeYears,
		fieldVibe:              string(r.Vibe),
		fieldStartDate:         r.StartDate,
		fieldIntroChat:         encodeJSON(r.IntroChat),
		fieldHotline:           encodeJSON(r.Hotline),
		fieldPlanGeneratedAt:   encodeInt(r.PlanGeneratedAt),
		fieldPDFRef:            r.PDFRef,
		fieldUserEmail:         r.UserEmail,
		fieldPayerEmail:        r.PayerEmail,
		fieldCommittedAt:       encodeInt(r.CommittedAt),
		fieldReminderEmail:     r.ReminderEmail,
		fieldReminderTZ:        r.ReminderTZ,
		fieldReminderHour:      strconv.Itoa(r.ReminderHour),
		fieldLastDeliveredDate: r.LastDeliveredDate,
		fieldCreatedAt:         encodeInt(r.CreatedAt),
		fieldUpdatedAt:         encodeInt(r.UpdatedAt),
	}
	if r.Profile != nil {
		fields[fieldProfile] = encodeJSON(r.Profile)
	} else {
		fields[fieldProfile] = ""
	}
	if r.Plan != nil {
		fields[fieldPlan] = encodeJSON(r.Plan)
	} else {
		fields[fieldPlan] = ""
	}
	return fields
}

// decodeRecord rebuilds a record from hash fields. The result is always
// structurally complete: list fields non-nil, unknown fields at their
// defaults.
func decodeRecord(id string, fields map[string]string) *Record {
	r := &Record{
		SessionID:         id,
		ChildName:         fields[fieldChildName],
		AgeRange:          fields[fieldAgeRange],
		AgeYears:          fields[fieldAgeYears],
		Vibe:              Vibe(fields[fieldVibe]),
		StartDate:         fields[fieldStartDate],
		IntroChat:         decodeTurns(fields[fieldIntroChat]),
		Hotline:           decodeTurns(fields[fieldHotline]),
		PlanGeneratedAt:   decodeInt(fields[fieldPlanGeneratedAt]),
		PDFRef:            fields[fieldPDFRef],
		UserEmail:         fields[fieldUserEmail],
		PayerEmail:        fields[fieldPayerEmail],
		CommittedAt:       decodeInt(fields[fieldCommittedAt]),
		ReminderEmail:     fields[fieldReminderEmail],
		ReminderTZ:        fields[fieldReminderTZ],
		ReminderHour:      int(decodeInt(fields[fieldReminderHour])),
		LastDeliveredDate: fields[fieldLastDeliveredDate],
		CreatedAt:         decodeInt(fields[fieldCreatedAt]),
		UpdatedAt:         decodeInt(fields[fieldUpdatedAt]),
	}

	if raw := fields[fieldProfile]; raw != "" {
		var p Profile
		if err := json.Unmarshal([]byte(raw), &p); err == nil {
			// Run the decoded profile through the merge so legacy payloads
			// with missing lists or enums come out normalized.
			normalized := MergeProfile(&p, ProfilePatch{})
			r.Profile = &normalized
		}
	}
	if raw := fields[fieldPlan]; raw != "" {
		var p plan.Plan
		if err := json.Unmarshal([]byte(raw), &p); err == nil && len(p.Days) > 0 {
			r.Plan = &p
		}
	}

	return r
}

func encodeJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

func encodeInt(v int64) string {
	return strconv.FormatInt(v, 10)
}

func decodeInt(s string) int64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func decodeTurns(raw string) []ChatTurn {
	if raw == "" {
		return []ChatTurn{}
	}
	var turns []ChatTurn
	if err := json.Unmarshal([]byte(raw), &turns); err != nil || turns == nil {
		return []ChatTurn{}
	}
	return turns
}
