package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/citadelschools/school-portal/internal/model"
	"github.com/citadelschools/school-portal/internal/repository"
	"github.com/citadelschools/school-portal/internal/utils"
	"github.com/google/uuid"
)

var (
	ErrEmptySubmission = errors.New("submission contains no score entries")
	ErrScoreOutOfRange = errors.New("score out of range: CA scores must be 0-40, exam 0-60")
	ErrUnknownStudent  = errors.New("submission references a student not in the selected class")
	ErrInvalidDecision = errors.New("decision must be approve or reject")
	ErrBatchNotFound   = errors.New("no pending results for that class and subject")
	ErrSectionMismatch = errors.New("batch belongs to a different section")
	ErrNotAnApprover   = errors.New("role cannot approve results")
)

type ResultService interface {
	SubmitScores(ctx context.Context, req model.SubmitScoresRequest, teacher *model.JWTClaims) ([]*model.Result, error)
	GetStudentResults(ctx context.Context, studentID string, term, session string, status model.ResultStatus) ([]*model.Result, error)
	ListPendingBatches(ctx context.Context, approverRole model.Role) ([]*model.ResultBatch, error)
	DecideBatch(ctx context.Context, req model.DecideBatchRequest, approverRole model.Role) (int64, error)
	Broadsheet(ctx context.Context, classLevel, term, session string) ([]byte, string, error)
	PendingCount(ctx context.Context) (int64, error)
}

type resultService struct {
	repo        repository.ResultRepository
	studentRepo repository.StudentRepository
}

func NewResultService(repo repository.ResultRepository, studentRepo repository.StudentRepository) ResultService {
	return &resultService{repo: repo, studentRepo: studentRepo}
}

// SubmitScores writes one class+subject upload. Totals, grades and positions
// are computed here, on the server, across the submitted batch: the position
// is a snapshot taken now and is not recomputed when rows change later.
// Every row enters (or re-enters) the queue as pending.
func (s *resultService) SubmitScores(ctx context.Context, req model.SubmitScoresRequest, teacher *model.JWTClaims) ([]*model.Result, error) {
	if len(req.Entries) == 0 {
		return nil, ErrEmptySubmission
	}

	for _, e := range req.Entries {
		if e.CA1Score < 0 || e.CA1Score > 40 || e.CA2Score < 0 || e.CA2Score > 40 ||
			e.ExamScore < 0 || e.ExamScore > 60 {
			return nil, ErrScoreOutOfRange
		}
	}

	students, err := s.studentRepo.FindByClass(ctx, req.ClassLevel)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*model.Student, len(students))
	for _, st := range students {
		byID[st.ID.String()] = st
	}

	totals := make([]int, len(req.Entries))
	for i, e := range req.Entries {
		totals[i] = e.CA1Score + e.CA2Score + e.ExamScore
	}
	positions := RankPositions(totals)

	teacherID, err := uuid.Parse(teacher.SubjectID)
	if err != nil {
		return nil, fmt.Errorf("invalid teacher id: %w", err)
	}

	results := make([]*model.Result, 0, len(req.Entries))
	for i, e := range req.Entries {
		student, ok := byID[e.StudentID]
		if !ok {
			return nil, ErrUnknownStudent
		}

		results = append(results, &model.Result{
			ID:              uuid.New(),
			StudentID:       student.ID,
			StudentName:     student.FullName,
			AdmissionNumber: student.AdmissionNumber,
			Subject:         req.Subject,
			ClassLevel:      req.ClassLevel,
			Term:            req.Term,
			Session:         req.Session,
			TeacherID:       teacherID,
			TeacherName:     teacher.Name,
			CA1Score:        e.CA1Score,
			CA2Score:        e.CA2Score,
			ExamScore:       e.ExamScore,
			TotalScore:      totals[i],
			Grade:           GradeFor(totals[i]),
			Position:        positions[i],
			Remarks:         e.Remarks,
			Status:          model.StatusPending,
		})
	}

	if err := s.repo.UpsertBatch(ctx, results); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *resultService) GetStudentResults(ctx context.Context, studentID string, term, session string, status model.ResultStatus) ([]*model.Result, error) {
	uid, err := uuid.Parse(studentID)
	if err != nil {
		return nil, errors.New("invalid student ID")
	}
	return s.repo.FindByStudent(ctx, uid, term, session, status)
}

// ListPendingBatches projects pending rows into (class, subject) batches for
// the approver's own section. The grouping is recomputed on every call and
// never stored.
func (s *resultService) ListPendingBatches(ctx context.Context, approverRole model.Role) ([]*model.ResultBatch, error) {
	section, ok := ApproverSection(approverRole)
	if !ok {
		return nil, ErrNotAnApprover
	}

	rows, err := s.repo.FindPending(ctx)
	if err != nil {
		return nil, err
	}

	groups := map[string]*model.ResultBatch{}
	for _, row := range rows {
		if SectionForClass(row.ClassLevel) != section {
			continue
		}
		key := row.ClassLevel + "-" + row.Subject
		batch, ok := groups[key]
		if !ok {
			batch = &model.ResultBatch{
				ID:          key,
				ClassLevel:  row.ClassLevel,
				Subject:     row.Subject,
				TeacherName: row.TeacherName,
			}
			groups[key] = batch
		}
		batch.Results = append(batch.Results, row)
		batch.StudentCount++
	}

	batches := make([]*model.ResultBatch, 0, len(groups))
	for _, batch := range groups {
		batches = append(batches, batch)
	}
	sort.Slice(batches, func(i, j int) bool { return batches[i].ID < batches[j].ID })
	return batches, nil
}

// DecideBatch flips every pending row of the batch in one transaction: after
// a successful return, no row of the batch is left half-approved.
func (s *resultService) DecideBatch(ctx context.Context, req model.DecideBatchRequest, approverRole model.Role) (int64, error) {
	section, ok := ApproverSection(approverRole)
	if !ok {
		return 0, ErrNotAnApprover
	}
	if SectionForClass(req.ClassLevel) != section {
		return 0, ErrSectionMismatch
	}

	var status model.ResultStatus
	switch req.Decision {
	case "approve":
		status = model.StatusApproved
	case "reject":
		status = model.StatusRejected
	default:
		return 0, ErrInvalidDecision
	}

	ids, err := s.repo.FindPendingIDs(ctx, req.ClassLevel, req.Subject)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, ErrBatchNotFound
	}

	return s.repo.UpdateStatus(ctx, ids, status)
}

func (s *resultService) Broadsheet(ctx context.Context, classLevel, term, session string) ([]byte, string, error) {
	rows, err := s.repo.FindApprovedByClass(ctx, classLevel, term, session)
	if err != nil {
		return nil, "", err
	}

	byStudent := map[string]*broadsheetEntry{}
	order := []string{}
	for _, row := range rows {
		entry, ok := byStudent[row.AdmissionNumber]
		if !ok {
			entry = &broadsheetEntry{
				admissionNumber: row.AdmissionNumber,
				studentName:     row.StudentName,
				scores:          map[string]int{},
			}
			byStudent[row.AdmissionNumber] = entry
			order = append(order, row.AdmissionNumber)
		}
		entry.scores[row.Subject] = row.TotalScore
	}

	sheetRows := make([]utils.BroadsheetRow, 0, len(order))
	for _, adm := range order {
		e := byStudent[adm]
		sheetRows = append(sheetRows, utils.BroadsheetRow{
			AdmissionNumber: e.admissionNumber,
			StudentName:     e.studentName,
			Scores:          e.scores,
		})
	}

	data, err := utils.GenerateBroadsheetXLSX(classLevel, term, session, sheetRows)
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("broadsheet_%s_%s.xlsx",
		strings.ReplaceAll(classLevel, " ", "_"), strings.ReplaceAll(term, " ", "_"))
	return data, filename, nil
}

func (s *resultService) PendingCount(ctx context.Context) (int64, error) {
	return s.repo.CountByStatus(ctx, model.StatusPending)
}

type broadsheetEntry struct {
	admissionNumber string
	studentName     string
	scores          map[string]int
}
