package repository

import (
	"context"
	"time"

	"github.com/citadelschools/school-portal/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	FindRecent(ctx context.Context, limit int) ([]*model.Payment, error)
	FindByStudent(ctx context.Context, studentID uuid.UUID) ([]*model.Payment, error)
	// HasPinPurchase answers the entitlement question for exactly one
	// (student, term, session) triple.
	HasPinPurchase(ctx context.Context, studentID uuid.UUID, term, session string) (bool, error)
	PinPurchasedStudents(ctx context.Context, term, session string) ([]uuid.UUID, error)
	StatsSince(ctx context.Context, since time.Time) (*model.PaymentStats, error)
}

type paymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	query := `
		INSERT INTO payments (id, student_id, student_name, admission_number, amount_paid,
		                      purpose, payment_method, term, session, recorded_by, created_at)
		VALUES (:id, :student_id, :student_name, :admission_number, :amount_paid,
		        :purpose, :payment_method, :term, :session, :recorded_by, NOW())
	`
	_, err := r.db.NamedExecContext(ctx, query, payment)
	return err
}

func (r *paymentRepository) FindRecent(ctx context.Context, limit int) ([]*model.Payment, error) {
	if limit <= 0 {
		limit = 50
	}
	var payments []*model.Payment
	query := "SELECT * FROM payments ORDER BY created_at DESC LIMIT $1"
	if err := r.db.SelectContext(ctx, &payments, query, limit); err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *paymentRepository) FindByStudent(ctx context.Context, studentID uuid.UUID) ([]*model.Payment, error) {
	var payments []*model.Payment
	query := "SELECT * FROM payments WHERE student_id = $1 ORDER BY created_at DESC"
	if err := r.db.SelectContext(ctx, &payments, query, studentID); err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *paymentRepository) HasPinPurchase(ctx context.Context, studentID uuid.UUID, term, session string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM payments
			WHERE student_id = $1 AND term = $2 AND session = $3 AND purpose = $4
		)
	`, studentID, term, session, model.PurposePinPurchase).Scan(&exists)
	return exists, err
}

func (r *paymentRepository) PinPurchasedStudents(ctx context.Context, term, session string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	query := `
		SELECT DISTINCT student_id FROM payments
		WHERE term = $1 AND session = $2 AND purpose = $3
	`
	if err := r.db.SelectContext(ctx, &ids, query, term, session, model.PurposePinPurchase); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *paymentRepository) StatsSince(ctx context.Context, since time.Time) (*model.PaymentStats, error) {
	var stats model.PaymentStats
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount_paid), 0), COUNT(*)
		FROM payments WHERE created_at >= $1
	`, since).Scan(&stats.CollectedToday, &stats.PaymentsToday)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
