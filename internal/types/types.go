package types

import (
	"fmt"
	"strings"
	"time"
)

// DateFormat is the canonical format for day keys.
// Every core operation takes the date explicitly in this format; there is
// no implicit "current date" cursor.
const DateFormat = "2006-01-02"

// ValidDate reports whether s is a well-formed YYYY-MM-DD day key.
func ValidDate(s string) bool {
	_, err := time.Parse(DateFormat, s)
	return err == nil
}

// ActivityRecord is one raw observation from the time-tracking source:
// how long a given document/window title was active in a given application
// on a given day. Records are immutable once stored; a date's records are
// replaced wholesale on re-fetch so aggregation never double counts.
type ActivityRecord struct {
	Date         string `json:"log_date"`
	Application  string `json:"application"`
	Title        string `json:"title"`
	Seconds      int    `json:"seconds"`
	Category     string `json:"category,omitempty"`
	Productivity int    `json:"productivity,omitempty"`
}

// Validate checks a record at the ingestion boundary. Malformed rows are
// rejected here rather than propagated into aggregation.
func (r *ActivityRecord) Validate() error {
	if !ValidDate(r.Date) {
		return &ValidationError{Field: "log_date", Reason: fmt.Sprintf("not a YYYY-MM-DD date: %q", r.Date)}
	}
	if strings.TrimSpace(r.Application) == "" {
		return &ValidationError{Field: "application", Reason: "is required"}
	}
	if r.Seconds < 0 {
		return &ValidationError{Field: "seconds", Reason: fmt.Sprintf("cannot be negative (got %d)", r.Seconds)}
	}
	return nil
}

// DraftEntry is a reviewable candidate time entry produced by aggregation.
// Units and Seconds are owned by the reconciler and refreshed on every
// reprocess; Status, Notes and a manually entered MatterCode are owned by
// the reviewer and survive reprocessing.
type DraftEntry struct {
	Fingerprint string    `json:"fingerprint"`
	Date        string    `json:"entry_date"`
	Application string    `json:"application"`
	Task        string    `json:"task_description"`
	Seconds     int       `json:"total_seconds"`
	Units       float64   `json:"time_units"`
	MatterCode  string    `json:"matter_code,omitempty"`
	Status      Status    `json:"status"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Validate checks field values before a draft is written.
func (e *DraftEntry) Validate() error {
	if e.Fingerprint == "" {
		return &ValidationError{Field: "fingerprint", Reason: "is required"}
	}
	if !ValidDate(e.Date) {
		return &ValidationError{Field: "entry_date", Reason: fmt.Sprintf("not a YYYY-MM-DD date: %q", e.Date)}
	}
	if strings.TrimSpace(e.Task) == "" {
		return &ValidationError{Field: "task_description", Reason: "is required"}
	}
	if e.Units < 0 {
		return &ValidationError{Field: "time_units", Reason: "cannot be negative"}
	}
	if !e.Status.IsValid() {
		return &ValidationError{Field: "status", Reason: fmt.Sprintf("invalid status: %s", e.Status)}
	}
	return validMatterCode(e.MatterCode)
}

// ConfirmedEntry is an immutable snapshot taken when a reviewer confirms a
// draft. It carries the edited values at confirmation time, so reprocessing
// raw data never mutates what was confirmed. Fingerprint is a back-link to
// the originating draft, not ownership.
type ConfirmedEntry struct {
	ID          string    `json:"confirmed_id"`
	Fingerprint string    `json:"fingerprint"`
	Date        string    `json:"entry_date"`
	Application string    `json:"application"`
	Task        string    `json:"task_description"`
	Units       float64   `json:"time_units"`
	MatterCode  string    `json:"matter_code,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// Status represents the review state of an entry.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusSubmitted  Status = "submitted"
	StatusIgnored    Status = "ignored"
)

// IsValid checks if the status value is valid.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusSubmitted, StatusIgnored:
		return true
	}
	return false
}

// EntryEdits carries reviewer-edited values applied at confirm time.
// Nil fields keep the draft's current value.
type EntryEdits struct {
	Task       *string
	Units      *float64
	MatterCode *string
	Notes      *string
}

// Validate rejects malformed edits before any store is touched.
func (e *EntryEdits) Validate() error {
	if e == nil {
		return nil
	}
	if e.Task != nil && strings.TrimSpace(*e.Task) == "" {
		return &ValidationError{Field: "task_description", Reason: "cannot be blank"}
	}
	if e.Units != nil {
		if *e.Units <= 0 {
			return &ValidationError{Field: "time_units", Reason: "must be positive"}
		}
		// Units are billed in tenths; anything finer is a typo.
		tenths := *e.Units * 10
		rounded := float64(int(tenths + 0.5))
		if diff := tenths - rounded; diff > 1e-9 || diff < -1e-9 {
			return &ValidationError{Field: "time_units", Reason: fmt.Sprintf("must be a multiple of 0.1 (got %g)", *e.Units)}
		}
	}
	if e.MatterCode != nil {
		return validMatterCode(*e.MatterCode)
	}
	return nil
}

func validMatterCode(code string) error {
	if code == "" {
		return nil
	}
	if len(code) != 5 {
		return &ValidationError{Field: "matter_code", Reason: fmt.Sprintf("must be exactly 5 digits (got %q)", code)}
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			return &ValidationError{Field: "matter_code", Reason: fmt.Sprintf("must be exactly 5 digits (got %q)", code)}
		}
	}
	return nil
}

// RefreshState records when the current day was last fetched. It survives
// across runs and only advances after a fetch+process succeeds.
type RefreshState struct {
	Date      string    `json:"date"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DraftFilter is used to filter draft entry queries.
type DraftFilter struct {
	Date   string
	Status *Status
	Limit  int
}
