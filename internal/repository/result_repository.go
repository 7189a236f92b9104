package repository

import (
	"context"
	"github.com/citadelschools/school-portal/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type ResultRepository interface {
	// UpsertBatch writes each row independently; a failure partway leaves the
	// rows already written in place. Spreadsheet-style submissions retry the
	// whole class upload.
	UpsertBatch(ctx context.Context, results []*model.Result) error
	FindByStudent(ctx context.Context, studentID uuid.UUID, term, session string, status model.ResultStatus) ([]*model.Result, error)
	FindPending(ctx context.Context) ([]*model.Result, error)
	FindPendingIDs(ctx context.Context, classLevel, subject string) ([]uuid.UUID, error)
	UpdateStatus(ctx context.Context, ids []uuid.UUID, status model.ResultStatus) (int64, error)
	FindApprovedByClass(ctx context.Context, classLevel, term, session string) ([]*model.Result, error)
	CountByStatus(ctx context.Context, status model.ResultStatus) (int64, error)
}

type resultRepository struct {
	db *sqlx.DB
}

func NewResultRepository(db *sqlx.DB) ResultRepository {
	return &resultRepository{db: db}
}

const upsertResultQuery = `
	INSERT INTO results (id, student_id, student_name, admission_number, subject, class_level,
	                     term, session, teacher_id, teacher_name, ca1_score, ca2_score,
	                     exam_score, total_score, grade, position, remarks, status, created_at, updated_at)
	VALUES (:id, :student_id, :student_name, :admission_number, :subject, :class_level,
	        :term, :session, :teacher_id, :teacher_name, :ca1_score, :ca2_score,
	        :exam_score, :total_score, :grade, :position, :remarks, :status, NOW(), NOW())
	ON CONFLICT (student_id, subject, term, session) DO UPDATE SET
		student_name = EXCLUDED.student_name,
		admission_number = EXCLUDED.admission_number,
		class_level = EXCLUDED.class_level,
		teacher_id = EXCLUDED.teacher_id,
		teacher_name = EXCLUDED.teacher_name,
		ca1_score = EXCLUDED.ca1_score,
		ca2_score = EXCLUDED.ca2_score,
		exam_score = EXCLUDED.exam_score,
		total_score = EXCLUDED.total_score,
		grade = EXCLUDED.grade,
		position = EXCLUDED.position,
		remarks = EXCLUDED.remarks,
		status = EXCLUDED.status,
		updated_at = NOW()
`

func (r *resultRepository) UpsertBatch(ctx context.Context, results []*model.Result) error {
	for _, res := range results {
		if _, err := r.db.NamedExecContext(ctx, upsertResultQuery, res); err != nil {
			return err
		}
	}
	return nil
}

func (r *resultRepository) FindByStudent(ctx context.Context, studentID uuid.UUID, term, session string, status model.ResultStatus) ([]*model.Result, error) {
	query := `
		SELECT * FROM results
		WHERE student_id = $1 AND term = $2 AND session = $3
	`
	args := []interface{}{studentID, term, session}
	if status != "" {
		query += " AND status = $4"
		args = append(args, status)
	}
	query += " ORDER BY subject ASC"

	var results []*model.Result
	if err := r.db.SelectContext(ctx, &results, query, args...); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *resultRepository) FindPending(ctx context.Context) ([]*model.Result, error) {
	var results []*model.Result
	query := `
		SELECT * FROM results
		WHERE status = 'pending'
		ORDER BY class_level ASC, subject ASC, student_name ASC
	`
	if err := r.db.SelectContext(ctx, &results, query); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *resultRepository) FindPendingIDs(ctx context.Context, classLevel, subject string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	query := `
		SELECT id FROM results
		WHERE status = 'pending' AND class_level = $1 AND subject = $2
	`
	if err := r.db.SelectContext(ctx, &ids, query, classLevel, subject); err != nil {
		return nil, err
	}
	return ids, nil
}

// UpdateStatus flips every listed row in one transaction; either all of the
// batch transitions or none of it does.
func (r *resultRepository) UpdateStatus(ctx context.Context, ids []uuid.UUID, status model.ResultStatus) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query, args, err := sqlx.In("UPDATE results SET status = ?, updated_at = NOW() WHERE id IN (?)", status, ids)
	if err != nil {
		return 0, err
	}
	query = r.db.Rebind(query)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		tx.Rollback()
		return 0, err
	}

	count, err := res.RowsAffected()
	if err != nil {
		tx.Rollback()
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *resultRepository) FindApprovedByClass(ctx context.Context, classLevel, term, session string) ([]*model.Result, error) {
	var results []*model.Result
	query := `
		SELECT * FROM results
		WHERE status = 'approved' AND class_level = $1 AND term = $2 AND session = $3
		ORDER BY student_name ASC, subject ASC
	`
	if err := r.db.SelectContext(ctx, &results, query, classLevel, term, session); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *resultRepository) CountByStatus(ctx context.Context, status model.ResultStatus) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM results WHERE status = $1", status).Scan(&count)
	return count, err
}
