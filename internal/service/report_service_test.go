package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/citadelschools/school-portal/internal/config"
	"github.com/citadelschools/school-portal/internal/model"
	"github.com/google/uuid"
)

type reportFixture struct {
	students *fakeStudentRepo
	results  *fakeResultRepo
	payments *fakePaymentRepo
	reports  *fakeTermReportRepo
	school   *fakeSchoolRepo
	svc      ReportService
	student  *model.Student
}

func newReportFixture(t *testing.T) *reportFixture {
	t.Helper()
	f := &reportFixture{
		students: &fakeStudentRepo{},
		results:  &fakeResultRepo{},
		payments: &fakePaymentRepo{},
		reports:  &fakeTermReportRepo{},
		school:   &fakeSchoolRepo{},
	}
	f.student = &model.Student{
		ID:              uuid.New(),
		AdmissionNumber: "CKIS/JSS/1001",
		FullName:        "Ada Obi",
		CurrentClass:    "JSS 2",
		IsActive:        true,
	}
	f.students.students = append(f.students.students, f.student)

	cfg := &config.Config{}
	cfg.App.BaseURL = "http://localhost:8080"
	cfg.School.Name = "Citadel of Knowledge International School"
	f.svc = NewReportService(f.students, f.results, f.payments, f.reports, f.school, nil, cfg)
	return f
}

func (f *reportFixture) addApprovedScore(subject string, total int) {
	f.results.results = append(f.results.results, &model.Result{
		ID:              uuid.New(),
		StudentID:       f.student.ID,
		StudentName:     f.student.FullName,
		AdmissionNumber: f.student.AdmissionNumber,
		Subject:         subject,
		ClassLevel:      f.student.CurrentClass,
		Term:            "1st Term",
		Session:         "2025/2026",
		TotalScore:      total,
		Grade:           GradeFor(total),
		Position:        "1st",
		Status:          model.StatusApproved,
	})
}

func (f *reportFixture) sellPin(term, session string) {
	f.payments.payments = append(f.payments.payments, &model.Payment{
		ID:        uuid.New(),
		StudentID: f.student.ID,
		Purpose:   model.PurposePinPurchase,
		Term:      term,
		Session:   session,
	})
}

func TestCompileLockedWithoutPin(t *testing.T) {
	f := newReportFixture(t)
	f.addApprovedScore("Mathematics", 80)

	_, err := f.svc.Compile(context.Background(), f.student.ID.String(), "1st Term", "2025/2026")
	if !errors.Is(err, ErrReportLocked) {
		t.Fatalf("got %v, want ErrReportLocked", err)
	}
}

func TestCompileWrongTermPinStaysLocked(t *testing.T) {
	f := newReportFixture(t)
	f.addApprovedScore("Mathematics", 80)
	f.sellPin("2nd Term", "2025/2026")
	f.sellPin("1st Term", "2024/2025")

	_, err := f.svc.Compile(context.Background(), f.student.ID.String(), "1st Term", "2025/2026")
	if !errors.Is(err, ErrReportLocked) {
		t.Fatalf("a PIN for another term must not unlock this one, got %v", err)
	}
}

func TestCompileAggregates(t *testing.T) {
	f := newReportFixture(t)
	f.addApprovedScore("Mathematics", 80)
	f.addApprovedScore("English", 45)
	f.addApprovedScore("Basic Science", 60)
	f.sellPin("1st Term", "2025/2026")

	report, err := f.svc.Compile(context.Background(), f.student.ID.String(), "1st Term", "2025/2026")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if report.TotalScore != 185 {
		t.Errorf("TotalScore = %d, want 185", report.TotalScore)
	}
	if report.Average != 62 {
		t.Errorf("Average = %d, want 62 (round half up)", report.Average)
	}
	wantCounts := map[string]int{"A": 1, "B": 1, "D": 1}
	for grade, n := range wantCounts {
		if report.GradeCounts[grade] != n {
			t.Errorf("GradeCounts[%q] = %d, want %d", grade, report.GradeCounts[grade], n)
		}
	}
	if report.TermReport != nil {
		t.Error("no term report row was written; compiled view should carry nil")
	}
}

func TestCompileEmptyScores(t *testing.T) {
	f := newReportFixture(t)
	f.sellPin("1st Term", "2025/2026")

	report, err := f.svc.Compile(context.Background(), f.student.ID.String(), "1st Term", "2025/2026")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if report.TotalScore != 0 || report.Average != 0 {
		t.Errorf("empty scores: total=%d average=%d, want 0/0", report.TotalScore, report.Average)
	}
}

func TestCompileIgnoresPendingAndRejected(t *testing.T) {
	f := newReportFixture(t)
	f.sellPin("1st Term", "2025/2026")
	f.addApprovedScore("Mathematics", 80)

	for _, status := range []model.ResultStatus{model.StatusPending, model.StatusRejected} {
		f.results.results = append(f.results.results, &model.Result{
			ID:         uuid.New(),
			StudentID:  f.student.ID,
			Subject:    "English " + string(status),
			ClassLevel: f.student.CurrentClass,
			Term:       "1st Term",
			Session:    "2025/2026",
			TotalScore: 50,
			Grade:      "C",
			Status:     status,
		})
	}

	report, err := f.svc.Compile(context.Background(), f.student.ID.String(), "1st Term", "2025/2026")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(report.Scores) != 1 {
		t.Errorf("only approved rows belong on the sheet, got %d", len(report.Scores))
	}
}

func TestCompilePicksUpTermReportAndNextTermDate(t *testing.T) {
	f := newReportFixture(t)
	f.sellPin("1st Term", "2025/2026")
	f.addApprovedScore("Mathematics", 70)
	f.reports.reports = append(f.reports.reports, &model.TermReport{
		ID:             uuid.New(),
		StudentID:      f.student.ID,
		Term:           "1st Term",
		Session:        "2025/2026",
		DaysSchoolOpen: 120,
		DaysPresent:    115,
		DaysAbsent:     5,
	})
	f.school.UpsertConfig(context.Background(), "Secondary", "8th January 2026")

	report, err := f.svc.Compile(context.Background(), f.student.ID.String(), "1st Term", "2025/2026")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if report.TermReport == nil || report.TermReport.DaysPresent != 115 {
		t.Errorf("term report not joined: %+v", report.TermReport)
	}
	if report.NextTermBegins != "8th January 2026" {
		t.Errorf("NextTermBegins = %q", report.NextTermBegins)
	}
}

func TestRenderPDFSmoke(t *testing.T) {
	f := newReportFixture(t)
	f.sellPin("1st Term", "2025/2026")
	f.addApprovedScore("Mathematics", 80)
	f.addApprovedScore("English", 55)

	data, filename, err := f.svc.RenderPDF(context.Background(), f.student.ID.String(), "1st Term", "2025/2026")
	if err != nil {
		t.Fatalf("RenderPDF: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("output does not start with a PDF header")
	}
	if filename == "" {
		t.Error("empty filename")
	}
}

func TestVerify(t *testing.T) {
	f := newReportFixture(t)

	// unknown admission number
	summary, err := f.svc.Verify(context.Background(), "CKIS/GEN/9999", "1st Term", "2025/2026")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if summary.Valid {
		t.Error("unknown admission number must not verify")
	}

	// known student, no entitlement
	summary, err = f.svc.Verify(context.Background(), f.student.AdmissionNumber, "1st Term", "2025/2026")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if summary.Valid {
		t.Error("locked report must not verify")
	}

	// entitled with approved scores
	f.sellPin("1st Term", "2025/2026")
	f.addApprovedScore("Mathematics", 80)
	f.addApprovedScore("English", 60)

	summary, err = f.svc.Verify(context.Background(), f.student.AdmissionNumber, "1st Term", "2025/2026")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !summary.Valid {
		t.Fatal("issued report should verify")
	}
	if summary.SubjectCount != 2 || summary.Average != 70 {
		t.Errorf("summary = %+v", summary)
	}
	if summary.StudentName != f.student.FullName {
		t.Errorf("StudentName = %q", summary.StudentName)
	}
}
