package model

// StudentReport is the compiled, printable view of one student's term:
// approved scores joined with entitlement, attendance and remarks.
type StudentReport struct {
	Student     *Student       `json:"student"`
	Term        string         `json:"term"`
	Session     string         `json:"session"`
	Scores      []*Result      `json:"scores"`
	TotalScore  int            `json:"total_score"`
	Average     int            `json:"average"`
	GradeCounts map[string]int `json:"grade_counts"`

	// TermReport is optional; a missing row renders as placeholders.
	TermReport *TermReport `json:"term_report,omitempty"`

	NextTermBegins string `json:"next_term_begins,omitempty"`
}

// VerifySummary is the public answer behind the QR code on a result sheet.
type VerifySummary struct {
	Valid           bool   `json:"valid"`
	StudentName     string `json:"student_name,omitempty"`
	AdmissionNumber string `json:"admission_number,omitempty"`
	ClassLevel      string `json:"class_level,omitempty"`
	Term            string `json:"term,omitempty"`
	Session         string `json:"session,omitempty"`
	SubjectCount    int    `json:"subject_count,omitempty"`
	Average         int    `json:"average,omitempty"`
}
