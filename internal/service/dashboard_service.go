package service

import (
	"context"
	"time"

	"github.com/citadelschools/school-portal/internal/model"
	"github.com/citadelschools/school-portal/internal/repository"
)

type DashboardService interface {
	Stats(ctx context.Context) (*model.DashboardStats, error)
}

type dashboardService struct {
	studentRepo repository.StudentRepository
	staffRepo   repository.StaffRepository
	resultRepo  repository.ResultRepository
	paymentRepo repository.PaymentRepository
	schoolRepo  repository.SchoolRepository
}

func NewDashboardService(
	studentRepo repository.StudentRepository,
	staffRepo repository.StaffRepository,
	resultRepo repository.ResultRepository,
	paymentRepo repository.PaymentRepository,
	schoolRepo repository.SchoolRepository,
) DashboardService {
	return &dashboardService{
		studentRepo: studentRepo,
		staffRepo:   staffRepo,
		resultRepo:  resultRepo,
		paymentRepo: paymentRepo,
		schoolRepo:  schoolRepo,
	}
}

// Stats assembles the landing-page counters. PIN sales are counted against
// the school's active term; while settings are missing that figure stays 0.
func (s *dashboardService) Stats(ctx context.Context) (*model.DashboardStats, error) {
	stats := &model.DashboardStats{}

	var err error
	if stats.StudentsPrimary, err = s.studentRepo.CountBySection(ctx, model.SectionPrimary); err != nil {
		return nil, err
	}
	if stats.StudentsSecondary, err = s.studentRepo.CountBySection(ctx, model.SectionSecondary); err != nil {
		return nil, err
	}
	if stats.TeachersPrimary, err = s.staffRepo.CountTeachers(ctx, model.SectionPrimary); err != nil {
		return nil, err
	}
	if stats.TeachersSecondary, err = s.staffRepo.CountTeachers(ctx, model.SectionSecondary); err != nil {
		return nil, err
	}
	if stats.PendingResults, err = s.resultRepo.CountByStatus(ctx, model.StatusPending); err != nil {
		return nil, err
	}

	settings, err := s.schoolRepo.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	if settings != nil {
		sold, err := s.paymentRepo.PinPurchasedStudents(ctx, settings.CurrentTerm, settings.CurrentSession)
		if err != nil {
			return nil, err
		}
		stats.PinsSoldThisTerm = int64(len(sold))
	}

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	today, err := s.paymentRepo.StatsSince(ctx, midnight)
	if err != nil {
		return nil, err
	}
	stats.CollectedToday = today.CollectedToday
	stats.PaymentsToday = today.PaymentsToday

	return stats, nil
}
