package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/citadelschools/school-portal/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type TermReportRepository interface {
	Upsert(ctx context.Context, report *model.TermReport) error
	Find(ctx context.Context, studentID uuid.UUID, term, session string) (*model.TermReport, error)
}

type termReportRepository struct {
	db *sqlx.DB
}

func NewTermReportRepository(db *sqlx.DB) TermReportRepository {
	return &termReportRepository{db: db}
}

func (r *termReportRepository) Upsert(ctx context.Context, report *model.TermReport) error {
	query := `
		INSERT INTO term_reports (id, student_id, term, session, class_level, days_school_open,
		                          days_present, days_absent, psychomotor_skills, affective_skills,
		                          class_teacher_remark, created_at, updated_at)
		VALUES (:id, :student_id, :term, :session, :class_level, :days_school_open,
		        :days_present, :days_absent, :psychomotor_skills, :affective_skills,
		        :class_teacher_remark, NOW(), NOW())
		ON CONFLICT (student_id, term, session) DO UPDATE SET
			class_level = EXCLUDED.class_level,
			days_school_open = EXCLUDED.days_school_open,
			days_present = EXCLUDED.days_present,
			days_absent = EXCLUDED.days_absent,
			psychomotor_skills = EXCLUDED.psychomotor_skills,
			affective_skills = EXCLUDED.affective_skills,
			class_teacher_remark = EXCLUDED.class_teacher_remark,
			updated_at = NOW()
	`
	_, err := r.db.NamedExecContext(ctx, query, report)
	return err
}

func (r *termReportRepository) Find(ctx context.Context, studentID uuid.UUID, term, session string) (*model.TermReport, error) {
	var report model.TermReport
	query := "SELECT * FROM term_reports WHERE student_id = $1 AND term = $2 AND session = $3"
	err := r.db.GetContext(ctx, &report, query, studentID, term, session)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // absence is not an error; fields render as placeholders
		}
		return nil, err
	}
	return &report, nil
}
