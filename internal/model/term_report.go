package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RatingMap stores skill/trait ratings (1-5) as JSONB.
type RatingMap map[string]int

func (m RatingMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

func (m *RatingMap) Scan(src interface{}) error {
	if src == nil {
		*m = RatingMap{}
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into RatingMap", src)
	}
	return json.Unmarshal(b, m)
}

// TermReport holds the non-score half of a result sheet: attendance counters,
// skill ratings and the class teacher's remark. One row per (student, term,
// session), upserted by the homeroom teacher.
type TermReport struct {
	ID                uuid.UUID `db:"id"                   json:"id"`
	StudentID         uuid.UUID `db:"student_id"           json:"student_id"`
	Term              string    `db:"term"                 json:"term"`
	Session           string    `db:"session"              json:"session"`
	ClassLevel        string    `db:"class_level"          json:"class_level"`
	DaysSchoolOpen    int       `db:"days_school_open"     json:"days_school_open"`
	DaysPresent       int       `db:"days_present"         json:"days_present"`
	DaysAbsent        int       `db:"days_absent"          json:"days_absent"`
	Psychomotor       RatingMap `db:"psychomotor_skills"   json:"psychomotor_skills"`
	Affective         RatingMap `db:"affective_skills"     json:"affective_skills"`
	ClassTeacherRemark string   `db:"class_teacher_remark" json:"class_teacher_remark"`
	CreatedAt         time.Time `db:"created_at"           json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"           json:"updated_at"`
}

type UpsertTermReportRequest struct {
	StudentID          string    `json:"student_id"`
	Term               string    `json:"term"`
	Session            string    `json:"session"`
	ClassLevel         string    `json:"class_level"`
	DaysSchoolOpen     int       `json:"days_school_open"`
	DaysPresent        int       `json:"days_present"`
	DaysAbsent         int       `json:"days_absent"`
	Psychomotor        RatingMap `json:"psychomotor_skills"`
	Affective          RatingMap `json:"affective_skills"`
	ClassTeacherRemark string    `json:"class_teacher_remark"`
}
