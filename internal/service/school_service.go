package service

import (
	"context"
	"errors"
	"time"

	"github.com/citadelschools/school-portal/internal/model"
	"github.com/citadelschools/school-portal/internal/repository"
	"github.com/citadelschools/school-portal/internal/utils"
	"github.com/google/uuid"
)

var (
	ErrSettingsMissing = errors.New("school settings have not been initialised")
	ErrInvalidSection  = errors.New("section must be Primary or Secondary")
	ErrUpdateNotFound  = errors.New("announcement not found")
)

type SchoolService interface {
	GetSettings(ctx context.Context) (*model.SchoolSettings, error)
	UpdateSettings(ctx context.Context, req *model.UpdateSettingsRequest) (*model.SchoolSettings, error)
	GetConfig(ctx context.Context, sectionType string) (*model.SchoolConfig, error)
	SetNextTermBegins(ctx context.Context, sectionType, nextTermBegins string) error
	ListUpdates(ctx context.Context) ([]*model.SchoolUpdate, error)
	CreateUpdate(ctx context.Context, req *model.CreateUpdateRequest) (*model.SchoolUpdate, error)
	DeleteUpdate(ctx context.Context, id string) error
	ListSubjects(ctx context.Context, section model.Section) ([]*model.Subject, error)
	CreateSubject(ctx context.Context, req *model.CreateSubjectRequest) (*model.Subject, error)
	DeleteSubject(ctx context.Context, id int) error
	UpsertTermReport(ctx context.Context, req *model.UpsertTermReportRequest) (*model.TermReport, error)
	GetTermReport(ctx context.Context, studentID, term, session string) (*model.TermReport, error)
}

type schoolService struct {
	repo           repository.SchoolRepository
	termReportRepo repository.TermReportRepository
}

func NewSchoolService(repo repository.SchoolRepository, termReportRepo repository.TermReportRepository) SchoolService {
	return &schoolService{repo: repo, termReportRepo: termReportRepo}
}

func (s *schoolService) GetSettings(ctx context.Context) (*model.SchoolSettings, error) {
	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return nil, ErrSettingsMissing
	}
	return settings, nil
}

// UpdateSettings moves the whole school to a new active term/session. It
// does not touch existing results or payments; those stay keyed to the
// term they were written in.
func (s *schoolService) UpdateSettings(ctx context.Context, req *model.UpdateSettingsRequest) (*model.SchoolSettings, error) {
	if req.CurrentTerm == "" || req.CurrentSession == "" {
		return nil, errors.New("current_term and current_session are required")
	}
	if err := s.repo.UpdateSettings(ctx, req.CurrentTerm, req.CurrentSession); err != nil {
		return nil, err
	}
	return s.GetSettings(ctx)
}

func (s *schoolService) GetConfig(ctx context.Context, sectionType string) (*model.SchoolConfig, error) {
	if sectionType != string(model.SectionPrimary) && sectionType != string(model.SectionSecondary) {
		return nil, ErrInvalidSection
	}
	cfg, err := s.repo.GetConfig(ctx, sectionType)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		// sections without a row render an empty resumption date
		return &model.SchoolConfig{SectionType: sectionType}, nil
	}
	return cfg, nil
}

func (s *schoolService) SetNextTermBegins(ctx context.Context, sectionType, nextTermBegins string) error {
	if sectionType != string(model.SectionPrimary) && sectionType != string(model.SectionSecondary) {
		return ErrInvalidSection
	}
	return s.repo.UpsertConfig(ctx, sectionType, utils.SanitizeString(nextTermBegins))
}

func (s *schoolService) ListUpdates(ctx context.Context) ([]*model.SchoolUpdate, error) {
	return s.repo.ListUpdates(ctx)
}

func (s *schoolService) CreateUpdate(ctx context.Context, req *model.CreateUpdateRequest) (*model.SchoolUpdate, error) {
	if req.Title == "" {
		return nil, errors.New("title is required")
	}
	eventDate, err := time.Parse("2006-01-02", req.EventDate)
	if err != nil {
		return nil, errors.New("event_date must be in YYYY-MM-DD format")
	}

	update := &model.SchoolUpdate{
		ID:        uuid.New(),
		Title:     utils.SanitizeString(req.Title),
		Body:      req.Body,
		EventDate: eventDate,
	}
	if err := s.repo.CreateUpdate(ctx, update); err != nil {
		return nil, err
	}
	return update, nil
}

func (s *schoolService) DeleteUpdate(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrUpdateNotFound
	}
	return s.repo.DeleteUpdate(ctx, uid)
}

// ListSubjects returns General subjects plus the section's own. Passing
// SectionGeneral (or empty) returns everything.
func (s *schoolService) ListSubjects(ctx context.Context, section model.Section) ([]*model.Subject, error) {
	switch section {
	case model.SectionPrimary, model.SectionSecondary:
		return s.repo.ListSubjects(ctx, []model.Section{model.SectionGeneral, section})
	default:
		return s.repo.ListSubjects(ctx, nil)
	}
}

func (s *schoolService) CreateSubject(ctx context.Context, req *model.CreateSubjectRequest) (*model.Subject, error) {
	if req.Name == "" {
		return nil, errors.New("subject name is required")
	}
	section := req.Section
	if section == "" {
		section = model.SectionGeneral
	}
	subject := &model.Subject{Name: utils.SanitizeString(req.Name), Section: section}
	if err := s.repo.CreateSubject(ctx, subject); err != nil {
		return nil, err
	}
	return subject, nil
}

func (s *schoolService) DeleteSubject(ctx context.Context, id int) error {
	return s.repo.DeleteSubject(ctx, id)
}

// UpsertTermReport writes the non-score half of a result sheet. One row per
// (student, term, session); the homeroom teacher can revise it until the
// sheet is printed.
func (s *schoolService) UpsertTermReport(ctx context.Context, req *model.UpsertTermReportRequest) (*model.TermReport, error) {
	uid, err := uuid.Parse(req.StudentID)
	if err != nil {
		return nil, ErrInvalidStudentID
	}
	if req.DaysPresent+req.DaysAbsent > req.DaysSchoolOpen && req.DaysSchoolOpen > 0 {
		return nil, errors.New("attendance days exceed the days school was open")
	}

	report := &model.TermReport{
		ID:                 uuid.New(),
		StudentID:          uid,
		Term:               req.Term,
		Session:            req.Session,
		ClassLevel:         req.ClassLevel,
		DaysSchoolOpen:     req.DaysSchoolOpen,
		DaysPresent:        req.DaysPresent,
		DaysAbsent:         req.DaysAbsent,
		Psychomotor:        req.Psychomotor,
		Affective:          req.Affective,
		ClassTeacherRemark: req.ClassTeacherRemark,
	}
	if err := s.termReportRepo.Upsert(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *schoolService) GetTermReport(ctx context.Context, studentID, term, session string) (*model.TermReport, error) {
	uid, err := uuid.Parse(studentID)
	if err != nil {
		return nil, ErrInvalidStudentID
	}
	return s.termReportRepo.Find(ctx, uid, term, session)
}
