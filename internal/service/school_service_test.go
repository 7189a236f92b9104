package service

import (
	"context"
	"errors"
	"testing"

	"github.com/citadelschools/school-portal/internal/model"
	"github.com/google/uuid"
)

func newSchoolService() (*fakeSchoolRepo, *fakeTermReportRepo, SchoolService) {
	schoolRepo := &fakeSchoolRepo{}
	termReportRepo := &fakeTermReportRepo{}
	return schoolRepo, termReportRepo, NewSchoolService(schoolRepo, termReportRepo)
}

func TestSettingsLifecycle(t *testing.T) {
	_, _, svc := newSchoolService()
	ctx := context.Background()

	if _, err := svc.GetSettings(ctx); !errors.Is(err, ErrSettingsMissing) {
		t.Errorf("got %v, want ErrSettingsMissing", err)
	}
	if _, err := svc.UpdateSettings(ctx, &model.UpdateSettingsRequest{CurrentTerm: "2nd Term"}); err == nil {
		t.Error("missing session accepted")
	}

	settings, err := svc.UpdateSettings(ctx, &model.UpdateSettingsRequest{CurrentTerm: "2nd Term", CurrentSession: "2025/2026"})
	if err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}
	if settings.CurrentTerm != "2nd Term" || settings.CurrentSession != "2025/2026" {
		t.Errorf("settings not applied: %+v", settings)
	}
}

func TestSectionConfig(t *testing.T) {
	_, _, svc := newSchoolService()
	ctx := context.Background()

	if _, err := svc.GetConfig(ctx, "Nursery"); !errors.Is(err, ErrInvalidSection) {
		t.Errorf("got %v, want ErrInvalidSection", err)
	}

	// no row yet: empty resumption date, not an error
	cfg, err := svc.GetConfig(ctx, "Primary")
	if err != nil {
		t.Fatalf("GetConfig: %v", err)
	}
	if cfg.NextTermBegins != "" {
		t.Errorf("expected empty next_term_begins, got %q", cfg.NextTermBegins)
	}

	if err := svc.SetNextTermBegins(ctx, "Secondary", "2026-01-05"); err != nil {
		t.Fatalf("SetNextTermBegins: %v", err)
	}
	cfg, err = svc.GetConfig(ctx, "Secondary")
	if err != nil {
		t.Fatalf("GetConfig: %v", err)
	}
	if cfg.NextTermBegins != "2026-01-05" {
		t.Errorf("got %q, want 2026-01-05", cfg.NextTermBegins)
	}
}

func TestUpdatesLifecycle(t *testing.T) {
	_, _, svc := newSchoolService()
	ctx := context.Background()

	if _, err := svc.CreateUpdate(ctx, &model.CreateUpdateRequest{Body: "no title", EventDate: "2026-02-01"}); err == nil {
		t.Error("update without title accepted")
	}
	if _, err := svc.CreateUpdate(ctx, &model.CreateUpdateRequest{Title: "Open Day", EventDate: "next friday"}); err == nil {
		t.Error("bad event_date accepted")
	}

	created, err := svc.CreateUpdate(ctx, &model.CreateUpdateRequest{Title: "Open Day", Body: "All parents welcome", EventDate: "2026-02-01"})
	if err != nil {
		t.Fatalf("CreateUpdate: %v", err)
	}

	updates, _ := svc.ListUpdates(ctx)
	if len(updates) != 1 {
		t.Fatalf("got %d updates, want 1", len(updates))
	}

	if err := svc.DeleteUpdate(ctx, created.ID.String()); err != nil {
		t.Fatalf("DeleteUpdate: %v", err)
	}
	updates, _ = svc.ListUpdates(ctx)
	if len(updates) != 0 {
		t.Error("update not deleted")
	}
}

func TestListSubjectsBySection(t *testing.T) {
	schoolRepo, _, svc := newSchoolService()
	ctx := context.Background()

	schoolRepo.subjects = []*model.Subject{
		{ID: 1, Name: "English", Section: model.SectionGeneral},
		{ID: 2, Name: "Phonics", Section: model.SectionPrimary},
		{ID: 3, Name: "Physics", Section: model.SectionSecondary},
	}

	primary, err := svc.ListSubjects(ctx, model.SectionPrimary)
	if err != nil {
		t.Fatalf("ListSubjects: %v", err)
	}
	if len(primary) != 2 {
		t.Errorf("primary list has %d subjects, want 2", len(primary))
	}
	for _, s := range primary {
		if s.Section == model.SectionSecondary {
			t.Errorf("secondary subject %q leaked into primary list", s.Name)
		}
	}

	all, _ := svc.ListSubjects(ctx, "")
	if len(all) != 3 {
		t.Errorf("unfiltered list has %d subjects, want 3", len(all))
	}
}

func TestCreateSubjectDefaultsToGeneral(t *testing.T) {
	_, _, svc := newSchoolService()

	subject, err := svc.CreateSubject(context.Background(), &model.CreateSubjectRequest{Name: "Civic Education"})
	if err != nil {
		t.Fatalf("CreateSubject: %v", err)
	}
	if subject.Section != model.SectionGeneral {
		t.Errorf("got section %q, want General", subject.Section)
	}
}

func TestUpsertTermReport(t *testing.T) {
	_, termReportRepo, svc := newSchoolService()
	ctx := context.Background()
	studentID := uuid.New()

	if _, err := svc.UpsertTermReport(ctx, &model.UpsertTermReportRequest{StudentID: "nope"}); !errors.Is(err, ErrInvalidStudentID) {
		t.Errorf("got %v, want ErrInvalidStudentID", err)
	}
	if _, err := svc.UpsertTermReport(ctx, &model.UpsertTermReportRequest{
		StudentID: studentID.String(), DaysSchoolOpen: 50, DaysPresent: 40, DaysAbsent: 20,
	}); err == nil {
		t.Error("impossible attendance accepted")
	}

	req := &model.UpsertTermReportRequest{
		StudentID:          studentID.String(),
		Term:               "1st Term",
		Session:            "2025/2026",
		ClassLevel:         "Pry 4",
		DaysSchoolOpen:     58,
		DaysPresent:        55,
		DaysAbsent:         3,
		ClassTeacherRemark: "A diligent pupil.",
	}
	if _, err := svc.UpsertTermReport(ctx, req); err != nil {
		t.Fatalf("UpsertTermReport: %v", err)
	}

	// revising the same (student, term, session) replaces, not duplicates
	req.ClassTeacherRemark = "An excellent pupil."
	if _, err := svc.UpsertTermReport(ctx, req); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if len(termReportRepo.reports) != 1 {
		t.Fatalf("got %d report rows, want 1", len(termReportRepo.reports))
	}

	got, err := svc.GetTermReport(ctx, studentID.String(), "1st Term", "2025/2026")
	if err != nil {
		t.Fatalf("GetTermReport: %v", err)
	}
	if got.ClassTeacherRemark != "An excellent pupil." {
		t.Errorf("remark not revised: %q", got.ClassTeacherRemark)
	}
}
