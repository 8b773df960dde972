package db

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// StudyType constants for where a study takes place
const (
	StudyTypeRemote   = "Remote"
	StudyTypeInPerson = "In-Person"
	StudyTypeUnknown  = "Unknown"
)

// Log severities accepted by AppendLog
const (
	SeverityInfo    = "info"
	SeveritySuccess = "success"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// Settings interval bounds (minutes)
const (
	MinIntervalMinutes = 1
	MaxIntervalMinutes = 60
)

// Study represents a discovered research study listing.
// ExternalID is the site-assigned identity and never changes once stored.
type Study struct {
	ID          uuid.UUID `json:"id"`
	ExternalID  string    `json:"external_id"`
	Title       string    `json:"title"`
	Payout      int       `json:"payout"` // whole currency units, 0 when unparseable
	Duration    string    `json:"duration"`
	StudyType   string    `json:"study_type"`
	FormatTag   string    `json:"format_tag,omitempty"`
	Score       *float64  `json:"score,omitempty"`
	PostedText  string    `json:"posted_text,omitempty"`
	Link        string    `json:"link,omitempty"`
	Description string    `json:"description,omitempty"`
	Delivered   bool      `json:"delivered"`
	CreatedAt   time.Time `json:"created_at"`
}

// StudyCreateInput is used when inserting a newly discovered study
type StudyCreateInput struct {
	ExternalID  string
	Title       string
	Payout      int
	Duration    string
	StudyType   string
	FormatTag   string
	Score       *float64
	PostedText  string
	Link        string
	Description string
}

// StudyUpdateInput holds the mutable fields for an explicit update.
// Nil pointers leave the stored value untouched. Delivered is deliberately
// absent: that flag only moves through MarkStudyDelivered.
type StudyUpdateInput struct {
	Title       *string
	Payout      *int
	Duration    *string
	StudyType   *string
	FormatTag   *string
	Score       *float64
	PostedText  *string
	Link        *string
	Description *string
}

// Recipient is a digest destination. Deactivating keeps the row.
type Recipient struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// Settings is the singleton run configuration, lazily created on first read.
type Settings struct {
	IntervalMinutes int        `json:"interval_minutes"`
	Enabled         bool       `json:"enabled"`
	LastRunAt       *time.Time `json:"last_run_at,omitempty"`
}

// LogEntry is an append-only observability record
type LogEntry struct {
	ID        uuid.UUID `json:"id"`
	Message   string    `json:"message"`
	Severity  string    `json:"severity"`
	CreatedAt time.Time `json:"created_at"`
}

// ValidSeverity reports whether s is one of the accepted log severities
func ValidSeverity(s string) bool {
	switch s {
	case SeverityInfo, SeveritySuccess, SeverityWarning, SeverityError:
		return true
	}
	return false
}

// NormalizeEmail lowercases and trims a recipient address for storage
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
