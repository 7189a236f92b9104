package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/citadelschools/school-portal/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type StudentRepository interface {
	FindAll(ctx context.Context, filter model.StudentFilter) ([]*model.Student, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Student, error)
	FindByAdmissionNumber(ctx context.Context, admissionNumber string) (*model.Student, error)
	FindByClass(ctx context.Context, class string) ([]*model.Student, error)
	Create(ctx context.Context, student *model.Student) error
	Update(ctx context.Context, student *model.Student) error
	Delete(ctx context.Context, id uuid.UUID) error
	UpdatePhoto(ctx context.Context, id uuid.UUID, photoURL string) error
	UpdatePinHash(ctx context.Context, id uuid.UUID, pinHash string) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Promote(ctx context.Context, fromClass, toClass string) (int64, error)
	CountBySection(ctx context.Context, section model.Section) (int64, error)
}

type studentRepository struct {
	db *sqlx.DB
}

func NewStudentRepository(db *sqlx.DB) StudentRepository {
	return &studentRepository{db: db}
}

// sectionPredicate mirrors the class-name convention: any class containing
// "JSS" or "SS" is Secondary, everything else is Primary. The match is
// case-sensitive, the same as the in-process classification.
func sectionPredicate(section model.Section) string {
	if section == model.SectionSecondary {
		return "(current_class LIKE '%JSS%' OR current_class LIKE '%SS%')"
	}
	return "current_class NOT LIKE '%JSS%' AND current_class NOT LIKE '%SS%'"
}

func (r *studentRepository) FindAll(ctx context.Context, filter model.StudentFilter) ([]*model.Student, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 20
	}

	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(full_name ILIKE $%d OR admission_number ILIKE $%d)", argIdx, argIdx+1))
		search := "%" + filter.Search + "%"
		args = append(args, search, search)
		argIdx += 2
	}

	if filter.Class != "" {
		conditions = append(conditions, fmt.Sprintf("current_class = $%d", argIdx))
		args = append(args, filter.Class)
		argIdx++
	}

	if filter.Section != "" {
		conditions = append(conditions, sectionPredicate(model.Section(filter.Section)))
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM students WHERE %s", where)
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.PerPage
	query := fmt.Sprintf(`
		SELECT * FROM students
		WHERE %s
		ORDER BY current_class ASC, full_name ASC
		LIMIT $%d OFFSET $%d
	`, where, argIdx, argIdx+1)

	args = append(args, filter.PerPage, offset)

	var students []*model.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, err
	}

	return students, total, nil
}

func (r *studentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	var student model.Student
	err := r.db.GetContext(ctx, &student, "SELECT * FROM students WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &student, nil
}

func (r *studentRepository) FindByAdmissionNumber(ctx context.Context, admissionNumber string) (*model.Student, error) {
	var student model.Student
	err := r.db.GetContext(ctx, &student, "SELECT * FROM students WHERE admission_number = $1", admissionNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &student, nil
}

func (r *studentRepository) FindByClass(ctx context.Context, class string) ([]*model.Student, error) {
	var students []*model.Student
	query := "SELECT * FROM students WHERE current_class = $1 AND is_active = true ORDER BY full_name ASC"
	if err := r.db.SelectContext(ctx, &students, query, class); err != nil {
		return nil, err
	}
	return students, nil
}

func (r *studentRepository) Create(ctx context.Context, student *model.Student) error {
	query := `
		INSERT INTO students (id, admission_number, full_name, gender, date_of_birth, current_class,
		                      parent_phone, parent_phone_2, pin_hash, passport_url, is_active, created_at, updated_at)
		VALUES (:id, :admission_number, :full_name, :gender, :date_of_birth, :current_class,
		        :parent_phone, :parent_phone_2, :pin_hash, :passport_url, :is_active, NOW(), NOW())
	`
	_, err := r.db.NamedExecContext(ctx, query, student)
	return err
}

func (r *studentRepository) Update(ctx context.Context, student *model.Student) error {
	query := `
		UPDATE students SET
			full_name = :full_name, gender = :gender, date_of_birth = :date_of_birth,
			current_class = :current_class, parent_phone = :parent_phone,
			parent_phone_2 = :parent_phone_2, updated_at = NOW()
		WHERE id = :id
	`
	_, err := r.db.NamedExecContext(ctx, query, student)
	return err
}

func (r *studentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM students WHERE id = $1", id)
	return err
}

func (r *studentRepository) UpdatePhoto(ctx context.Context, id uuid.UUID, photoURL string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE students SET passport_url = $1, updated_at = NOW() WHERE id = $2",
		photoURL, id,
	)
	return err
}

func (r *studentRepository) UpdatePinHash(ctx context.Context, id uuid.UUID, pinHash string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE students SET pin_hash = $1, updated_at = NOW() WHERE id = $2",
		pinHash, id,
	)
	return err
}

func (r *studentRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE students SET is_active = $1, updated_at = NOW() WHERE id = $2",
		active, id,
	)
	return err
}

// Promote moves the entire cohort, access withdrawn or not, in one
// statement. The prior class value is not archived anywhere; the operation
// cannot be undone automatically.
func (r *studentRepository) Promote(ctx context.Context, fromClass, toClass string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE students SET current_class = $1, updated_at = NOW() WHERE current_class = $2",
		toClass, fromClass,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *studentRepository) CountBySection(ctx context.Context, section model.Section) (int64, error) {
	var count int64
	query := fmt.Sprintf("SELECT COUNT(*) FROM students WHERE %s", sectionPredicate(section))
	err := r.db.QueryRowContext(ctx, query).Scan(&count)
	return count, err
}
