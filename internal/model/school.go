package model

import (
	"time"

	"github.com/google/uuid"
)

// SchoolConfig keeps the human-readable resumption date per section.
type SchoolConfig struct {
	SectionType    string    `db:"section_type"     json:"section_type"` // Primary | Secondary
	NextTermBegins string    `db:"next_term_begins" json:"next_term_begins"`
	UpdatedAt      time.Time `db:"updated_at"       json:"updated_at"`
}

// SchoolSettings is a singleton row naming the active term and session.
type SchoolSettings struct {
	ID             uuid.UUID `db:"id"              json:"id"`
	CurrentTerm    string    `db:"current_term"    json:"current_term"`
	CurrentSession string    `db:"current_session" json:"current_session"`
	UpdatedAt      time.Time `db:"updated_at"      json:"updated_at"`
}

type UpdateSettingsRequest struct {
	CurrentTerm    string `json:"current_term"`
	CurrentSession string `json:"current_session"`
}

type UpdateConfigRequest struct {
	NextTermBegins string `json:"next_term_begins"`
}

// SchoolUpdate is a dated announcement shown on dashboards.
type SchoolUpdate struct {
	ID        uuid.UUID `db:"id"         json:"id"`
	Title     string    `db:"title"      json:"title"`
	Body      string    `db:"body"       json:"body"`
	EventDate time.Time `db:"event_date" json:"event_date"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type CreateUpdateRequest struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	EventDate string `json:"event_date"` // format: YYYY-MM-DD
}

// DashboardStats is the counter block shown on the admin landing page. All
// figures are computed on demand, never stored.
type DashboardStats struct {
	StudentsPrimary   int64   `json:"students_primary"`
	StudentsSecondary int64   `json:"students_secondary"`
	TeachersPrimary   int64   `json:"teachers_primary"`
	TeachersSecondary int64   `json:"teachers_secondary"`
	PendingResults    int64   `json:"pending_results"`
	PinsSoldThisTerm  int64   `json:"pins_sold_this_term"`
	CollectedToday    float64 `json:"collected_today"`
	PaymentsToday     int     `json:"payments_today"`
}

type Subject struct {
	ID      int     `db:"id"      json:"id"`
	Name    string  `db:"name"    json:"name"`
	Section Section `db:"section" json:"section"` // General | Primary | Secondary
}

type CreateSubjectRequest struct {
	Name    string  `json:"name"`
	Section Section `json:"section"`
}
