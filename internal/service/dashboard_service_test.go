package service

import (
	"context"
	"testing"
	"time"

	"github.com/citadelschools/school-portal/internal/model"
	"github.com/google/uuid"
)

func TestDashboardStats(t *testing.T) {
	studentRepo := &fakeStudentRepo{students: []*model.Student{
		{ID: uuid.New(), CurrentClass: "Pry 3", IsActive: true},
		{ID: uuid.New(), CurrentClass: "Pry 5", IsActive: true},
		{ID: uuid.New(), CurrentClass: "JSS 1", IsActive: true},
	}}
	staffRepo := &fakeStaffRepo{staff: []*model.Staff{
		{ID: uuid.New(), Role: model.RoleTeacher, Section: model.SectionPrimary},
		{ID: uuid.New(), Role: model.RoleTeacher, Section: model.SectionSecondary},
		{ID: uuid.New(), Role: model.RoleBursar, Section: model.SectionPrimary},
	}}
	resultRepo := &fakeResultRepo{results: []*model.Result{
		{ID: uuid.New(), Status: model.StatusPending},
		{ID: uuid.New(), Status: model.StatusPending},
		{ID: uuid.New(), Status: model.StatusApproved},
	}}
	paymentRepo := &fakePaymentRepo{payments: []*model.Payment{
		{ID: uuid.New(), StudentID: studentRepo.students[0].ID, Purpose: model.PurposePinPurchase,
			Term: "1st Term", Session: "2025/2026", AmountPaid: 500, CreatedAt: time.Now()},
		{ID: uuid.New(), StudentID: studentRepo.students[1].ID, Purpose: "School Fees",
			Term: "1st Term", Session: "2025/2026", AmountPaid: 25000, CreatedAt: time.Now()},
	}}
	schoolRepo := &fakeSchoolRepo{}

	svc := NewDashboardService(studentRepo, staffRepo, resultRepo, paymentRepo, schoolRepo)

	// before settings exist the PIN counter stays zero
	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.PinsSoldThisTerm != 0 {
		t.Errorf("pins sold before settings: got %d, want 0", stats.PinsSoldThisTerm)
	}

	if err := schoolRepo.UpdateSettings(context.Background(), "1st Term", "2025/2026"); err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}
	stats, err = svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}

	if stats.StudentsPrimary != 2 || stats.StudentsSecondary != 1 {
		t.Errorf("headcounts: got %d/%d, want 2/1", stats.StudentsPrimary, stats.StudentsSecondary)
	}
	if stats.TeachersPrimary != 1 || stats.TeachersSecondary != 1 {
		t.Errorf("teacher counts: got %d/%d, want 1/1", stats.TeachersPrimary, stats.TeachersSecondary)
	}
	if stats.PendingResults != 2 {
		t.Errorf("pending results: got %d, want 2", stats.PendingResults)
	}
	if stats.PinsSoldThisTerm != 1 {
		t.Errorf("pins sold: got %d, want 1", stats.PinsSoldThisTerm)
	}
	if stats.CollectedToday != 25500 || stats.PaymentsToday != 2 {
		t.Errorf("today's collections: got %.0f over %d payments, want 25500 over 2",
			stats.CollectedToday, stats.PaymentsToday)
	}
}
