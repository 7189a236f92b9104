package model

import (
	"time"

	"github.com/google/uuid"
)

type ResultStatus string

const (
	StatusPending  ResultStatus = "pending"
	StatusApproved ResultStatus = "approved"
	StatusRejected ResultStatus = "rejected"
)

// Result is one score row keyed by (student, subject, term, session).
// Submitting again for the same key overwrites the row and resets it to pending.
type Result struct {
	ID              uuid.UUID    `db:"id"               json:"id"`
	StudentID       uuid.UUID    `db:"student_id"       json:"student_id"`
	StudentName     string       `db:"student_name"     json:"student_name"`
	AdmissionNumber string       `db:"admission_number" json:"admission_number"`
	Subject         string       `db:"subject"          json:"subject"`
	ClassLevel      string       `db:"class_level"      json:"class_level"`
	Term            string       `db:"term"             json:"term"`
	Session         string       `db:"session"          json:"session"`
	TeacherID       uuid.UUID    `db:"teacher_id"       json:"teacher_id"`
	TeacherName     string       `db:"teacher_name"     json:"teacher_name"`
	CA1Score        int          `db:"ca1_score"        json:"ca1_score"`
	CA2Score        int          `db:"ca2_score"        json:"ca2_score"`
	ExamScore       int          `db:"exam_score"       json:"exam_score"`
	TotalScore      int          `db:"total_score"      json:"total_score"`
	Grade           string       `db:"grade"            json:"grade"`
	Position        string       `db:"position"         json:"position"` // ordinal snapshot taken at submission
	Remarks         string       `db:"remarks"          json:"remarks"`
	Status          ResultStatus `db:"status"           json:"status"`
	CreatedAt       time.Time    `db:"created_at"       json:"created_at"`
	UpdatedAt       time.Time    `db:"updated_at"       json:"updated_at"`
}

type ScoreEntry struct {
	StudentID string `json:"student_id"`
	CA1Score  int    `json:"ca1_score"`
	CA2Score  int    `json:"ca2_score"`
	ExamScore int    `json:"exam_score"`
	Remarks   string `json:"remarks"`
}

type SubmitScoresRequest struct {
	Subject    string       `json:"subject"`
	ClassLevel string       `json:"class_level"`
	Term       string       `json:"term"`
	Session    string       `json:"session"`
	Entries    []ScoreEntry `json:"entries"`
}

// ResultBatch groups pending rows sharing (class, subject). It is a projection
// computed on every read, never persisted.
type ResultBatch struct {
	ID           string    `json:"id"`
	ClassLevel   string    `json:"class_level"`
	Subject      string    `json:"subject"`
	TeacherName  string    `json:"teacher_name"`
	StudentCount int       `json:"student_count"`
	Results      []*Result `json:"results"`
}

type DecideBatchRequest struct {
	ClassLevel string `json:"class_level"`
	Subject    string `json:"subject"`
	Decision   string `json:"decision"` // approve | reject
}
