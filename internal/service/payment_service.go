package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/citadelschools/school-portal/internal/model"
	"github.com/citadelschools/school-portal/internal/repository"
	"github.com/citadelschools/school-portal/internal/utils"
	"github.com/google/uuid"
)

var (
	ErrPinAlreadySold = errors.New("a result PIN was already sold to this student for this term")
	ErrInvalidAmount  = errors.New("amount must be greater than zero")
)

type PaymentService interface {
	RecordPayment(ctx context.Context, req *model.RecordPaymentRequest, recordedBy string) (*model.Payment, error)
	SellPin(ctx context.Context, req *model.SellPinRequest, recordedBy string) (*model.Payment, error)
	RecentPayments(ctx context.Context, limit int) ([]*model.Payment, error)
	StudentHistory(ctx context.Context, studentID string) ([]*model.Payment, error)
	TodayStats(ctx context.Context) (*model.PaymentStats, error)
	HistoryPDF(ctx context.Context, studentID string) ([]byte, string, error)
	PinStatus(ctx context.Context, studentID string, term, session string) (bool, error)
}

type paymentService struct {
	repo        repository.PaymentRepository
	studentRepo repository.StudentRepository
	schoolName  string
}

func NewPaymentService(repo repository.PaymentRepository, studentRepo repository.StudentRepository, schoolName string) PaymentService {
	return &paymentService{repo: repo, studentRepo: studentRepo, schoolName: schoolName}
}

// RecordPayment appends a ledger row. Rows are never updated or removed;
// corrections are new rows.
func (s *paymentService) RecordPayment(ctx context.Context, req *model.RecordPaymentRequest, recordedBy string) (*model.Payment, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	student, err := s.findStudent(ctx, req.StudentID)
	if err != nil {
		return nil, err
	}

	// PIN sales go through SellPin so the duplicate guard always runs
	if req.Purpose == model.PurposePinPurchase {
		return s.SellPin(ctx, &model.SellPinRequest{
			StudentID: req.StudentID,
			Amount:    req.Amount,
			Method:    req.Method,
			Term:      req.Term,
			Session:   req.Session,
		}, recordedBy)
	}

	payment := &model.Payment{
		ID:              uuid.New(),
		StudentID:       student.ID,
		StudentName:     student.FullName,
		AdmissionNumber: student.AdmissionNumber,
		AmountPaid:      req.Amount,
		Purpose:         req.Purpose,
		Method:          req.Method,
		Term:            req.Term,
		Session:         req.Session,
		RecordedBy:      recordedBy,
	}
	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// SellPin records a PIN Purchase, the row that unlocks the student's result
// for (term, session). A second sale for the same key is refused here and,
// should two bursars race, by the partial unique index underneath.
func (s *paymentService) SellPin(ctx context.Context, req *model.SellPinRequest, recordedBy string) (*model.Payment, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	student, err := s.findStudent(ctx, req.StudentID)
	if err != nil {
		return nil, err
	}

	sold, err := s.repo.HasPinPurchase(ctx, student.ID, req.Term, req.Session)
	if err != nil {
		return nil, err
	}
	if sold {
		return nil, ErrPinAlreadySold
	}

	payment := &model.Payment{
		ID:              uuid.New(),
		StudentID:       student.ID,
		StudentName:     student.FullName,
		AdmissionNumber: student.AdmissionNumber,
		AmountPaid:      req.Amount,
		Purpose:         model.PurposePinPurchase,
		Method:          req.Method,
		Term:            req.Term,
		Session:         req.Session,
		RecordedBy:      recordedBy,
	}
	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *paymentService) RecentPayments(ctx context.Context, limit int) ([]*model.Payment, error) {
	return s.repo.FindRecent(ctx, limit)
}

func (s *paymentService) StudentHistory(ctx context.Context, studentID string) ([]*model.Payment, error) {
	student, err := s.findStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByStudent(ctx, student.ID)
}

func (s *paymentService) TodayStats(ctx context.Context) (*model.PaymentStats, error) {
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return s.repo.StatsSince(ctx, midnight)
}

// HistoryPDF renders a student's full payment ledger as a printable receipt
// history.
func (s *paymentService) HistoryPDF(ctx context.Context, studentID string) ([]byte, string, error) {
	student, err := s.findStudent(ctx, studentID)
	if err != nil {
		return nil, "", err
	}
	payments, err := s.repo.FindByStudent(ctx, student.ID)
	if err != nil {
		return nil, "", err
	}

	rows := make([]utils.PaymentHistoryRow, 0, len(payments))
	for _, p := range payments {
		rows = append(rows, utils.PaymentHistoryRow{
			Date:       p.CreatedAt,
			Student:    p.StudentName,
			Purpose:    p.Purpose,
			Amount:     p.AmountPaid,
			Method:     p.Method,
			RecordedBy: p.RecordedBy,
		})
	}

	pdfBytes, err := utils.GeneratePaymentHistoryPDF(s.schoolName, rows, time.Now())
	if err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("payments-%s.pdf", student.ID)
	return pdfBytes, filename, nil
}

func (s *paymentService) PinStatus(ctx context.Context, studentID string, term, session string) (bool, error) {
	student, err := s.findStudent(ctx, studentID)
	if err != nil {
		return false, err
	}
	return s.repo.HasPinPurchase(ctx, student.ID, term, session)
}

func (s *paymentService) findStudent(ctx context.Context, id string) (*model.Student, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidStudentID
	}
	student, err := s.studentRepo.FindByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, ErrStudentNotFound
	}
	return student, nil
}
