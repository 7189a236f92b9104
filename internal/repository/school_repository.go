package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/citadelschools/school-portal/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type SchoolRepository interface {
	GetSettings(ctx context.Context) (*model.SchoolSettings, error)
	UpdateSettings(ctx context.Context, term, session string) error
	GetConfig(ctx context.Context, sectionType string) (*model.SchoolConfig, error)
	UpsertConfig(ctx context.Context, sectionType, nextTermBegins string) error
	ListUpdates(ctx context.Context) ([]*model.SchoolUpdate, error)
	CreateUpdate(ctx context.Context, update *model.SchoolUpdate) error
	DeleteUpdate(ctx context.Context, id uuid.UUID) error
	ListSubjects(ctx context.Context, sections []model.Section) ([]*model.Subject, error)
	CreateSubject(ctx context.Context, subject *model.Subject) error
	DeleteSubject(ctx context.Context, id int) error
}

type schoolRepository struct {
	db *sqlx.DB
}

func NewSchoolRepository(db *sqlx.DB) SchoolRepository {
	return &schoolRepository{db: db}
}

func (r *schoolRepository) GetSettings(ctx context.Context) (*model.SchoolSettings, error) {
	var settings model.SchoolSettings
	err := r.db.GetContext(ctx, &settings, "SELECT * FROM school_settings LIMIT 1")
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &settings, nil
}

func (r *schoolRepository) UpdateSettings(ctx context.Context, term, session string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE school_settings SET current_term = $1, current_session = $2, updated_at = NOW()",
		term, session,
	)
	return err
}

func (r *schoolRepository) GetConfig(ctx context.Context, sectionType string) (*model.SchoolConfig, error) {
	var cfg model.SchoolConfig
	err := r.db.GetContext(ctx, &cfg, "SELECT * FROM school_config WHERE section_type = $1", sectionType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &cfg, nil
}

func (r *schoolRepository) UpsertConfig(ctx context.Context, sectionType, nextTermBegins string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO school_config (section_type, next_term_begins, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (section_type) DO UPDATE SET
			next_term_begins = EXCLUDED.next_term_begins,
			updated_at = NOW()
	`, sectionType, nextTermBegins)
	return err
}

func (r *schoolRepository) ListUpdates(ctx context.Context) ([]*model.SchoolUpdate, error) {
	var updates []*model.SchoolUpdate
	query := "SELECT * FROM school_updates ORDER BY event_date ASC"
	if err := r.db.SelectContext(ctx, &updates, query); err != nil {
		return nil, err
	}
	return updates, nil
}

func (r *schoolRepository) CreateUpdate(ctx context.Context, update *model.SchoolUpdate) error {
	query := `
		INSERT INTO school_updates (id, title, body, event_date, created_at)
		VALUES (:id, :title, :body, :event_date, NOW())
	`
	_, err := r.db.NamedExecContext(ctx, query, update)
	return err
}

func (r *schoolRepository) DeleteUpdate(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM school_updates WHERE id = $1", id)
	return err
}

func (r *schoolRepository) ListSubjects(ctx context.Context, sections []model.Section) ([]*model.Subject, error) {
	var subjects []*model.Subject
	if len(sections) == 0 {
		if err := r.db.SelectContext(ctx, &subjects, "SELECT * FROM subjects ORDER BY name ASC"); err != nil {
			return nil, err
		}
		return subjects, nil
	}

	query, args, err := sqlx.In("SELECT * FROM subjects WHERE section IN (?) ORDER BY name ASC", sections)
	if err != nil {
		return nil, err
	}
	query = r.db.Rebind(query)
	if err := r.db.SelectContext(ctx, &subjects, query, args...); err != nil {
		return nil, err
	}
	return subjects, nil
}

func (r *schoolRepository) CreateSubject(ctx context.Context, subject *model.Subject) error {
	return r.db.QueryRowContext(ctx,
		"INSERT INTO subjects (name, section) VALUES ($1, $2) RETURNING id",
		subject.Name, subject.Section,
	).Scan(&subject.ID)
}

func (r *schoolRepository) DeleteSubject(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM subjects WHERE id = $1", id)
	return err
}
