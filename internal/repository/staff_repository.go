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

type StaffRepository interface {
	FindAll(ctx context.Context, filter model.StaffFilter) ([]*model.Staff, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Staff, error)
	FindByEmail(ctx context.Context, email string) (*model.Staff, error)
	Create(ctx context.Context, staff *model.Staff) error
	Update(ctx context.Context, staff *model.Staff) error
	Delete(ctx context.Context, id uuid.UUID) error
	UpdatePhoto(ctx context.Context, id uuid.UUID, photoURL string) error
	UpdatePinHash(ctx context.Context, id uuid.UUID, pinHash string) error
	CountTeachers(ctx context.Context, section model.Section) (int64, error)
}

type staffRepository struct {
	db *sqlx.DB
}

func NewStaffRepository(db *sqlx.DB) StaffRepository {
	return &staffRepository{db: db}
}

func (r *staffRepository) FindAll(ctx context.Context, filter model.StaffFilter) ([]*model.Staff, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 20
	}

	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.Role != "" {
		conditions = append(conditions, fmt.Sprintf("role = $%d", argIdx))
		args = append(args, filter.Role)
		argIdx++
	}
	if filter.Section != "" {
		conditions = append(conditions, fmt.Sprintf("section = $%d", argIdx))
		args = append(args, filter.Section)
		argIdx++
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(full_name ILIKE $%d OR email ILIKE $%d)", argIdx, argIdx+1))
		search := "%" + filter.Search + "%"
		args = append(args, search, search)
		argIdx += 2
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM staff WHERE %s", where)
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.PerPage
	query := fmt.Sprintf(`
		SELECT * FROM staff
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, argIdx, argIdx+1)

	args = append(args, filter.PerPage, offset)

	var staff []*model.Staff
	if err := r.db.SelectContext(ctx, &staff, query, args...); err != nil {
		return nil, 0, err
	}

	return staff, total, nil
}

func (r *staffRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Staff, error) {
	var st model.Staff
	err := r.db.GetContext(ctx, &st, "SELECT * FROM staff WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &st, nil
}

func (r *staffRepository) FindByEmail(ctx context.Context, email string) (*model.Staff, error) {
	var st model.Staff
	err := r.db.GetContext(ctx, &st, "SELECT * FROM staff WHERE email = $1 LIMIT 1", email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &st, nil
}

func (r *staffRepository) Create(ctx context.Context, staff *model.Staff) error {
	query := `
		INSERT INTO staff (id, full_name, email, role, section, assigned_class, pin_hash,
		                   passport_url, is_active, created_at, updated_at)
		VALUES (:id, :full_name, :email, :role, :section, :assigned_class, :pin_hash,
		        :passport_url, :is_active, NOW(), NOW())
	`
	_, err := r.db.NamedExecContext(ctx, query, staff)
	return err
}

func (r *staffRepository) Update(ctx context.Context, staff *model.Staff) error {
	query := `
		UPDATE staff SET
			full_name = :full_name, email = :email, role = :role, section = :section,
			assigned_class = :assigned_class, is_active = :is_active, updated_at = NOW()
		WHERE id = :id
	`
	_, err := r.db.NamedExecContext(ctx, query, staff)
	return err
}

func (r *staffRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM staff WHERE id = $1", id)
	return err
}

func (r *staffRepository) UpdatePhoto(ctx context.Context, id uuid.UUID, photoURL string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE staff SET passport_url = $1, updated_at = NOW() WHERE id = $2",
		photoURL, id,
	)
	return err
}

func (r *staffRepository) UpdatePinHash(ctx context.Context, id uuid.UUID, pinHash string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE staff SET pin_hash = $1, updated_at = NOW() WHERE id = $2",
		pinHash, id,
	)
	return err
}

func (r *staffRepository) CountTeachers(ctx context.Context, section model.Section) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM staff WHERE role = 'Teacher' AND section = $1", section,
	).Scan(&count)
	return count, err
}
