package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/citadelschools/school-portal/internal/config"
	"github.com/citadelschools/school-portal/internal/model"
	"github.com/citadelschools/school-portal/internal/repository"
	"github.com/citadelschools/school-portal/internal/utils"
	"github.com/google/uuid"
)

// ErrReportLocked is the entitlement-denied state: not a failure, just an
// unpaid result. No score data leaves the service while it holds.
var ErrReportLocked = errors.New("result is locked until a result PIN is purchased for this term")

type ReportService interface {
	Compile(ctx context.Context, studentID string, term, session string) (*model.StudentReport, error)
	RenderPDF(ctx context.Context, studentID string, term, session string) ([]byte, string, error)
	Verify(ctx context.Context, admissionNumber, term, session string) (*model.VerifySummary, error)
}

type reportService struct {
	studentRepo    repository.StudentRepository
	resultRepo     repository.ResultRepository
	paymentRepo    repository.PaymentRepository
	termReportRepo repository.TermReportRepository
	schoolRepo     repository.SchoolRepository
	storage        *utils.StorageService
	cfg            *config.Config
}

func NewReportService(
	studentRepo repository.StudentRepository,
	resultRepo repository.ResultRepository,
	paymentRepo repository.PaymentRepository,
	termReportRepo repository.TermReportRepository,
	schoolRepo repository.SchoolRepository,
	storage *utils.StorageService,
	cfg *config.Config,
) ReportService {
	return &reportService{
		studentRepo:    studentRepo,
		resultRepo:     resultRepo,
		paymentRepo:    paymentRepo,
		termReportRepo: termReportRepo,
		schoolRepo:     schoolRepo,
		storage:        storage,
		cfg:            cfg,
	}
}

// Compile joins approved scores, entitlement and the auxiliary term report
// into one printable view. The entitlement check runs first: without a PIN
// purchase for this exact (student, term, session), the caller gets
// ErrReportLocked and nothing else.
func (s *reportService) Compile(ctx context.Context, studentID string, term, session string) (*model.StudentReport, error) {
	uid, err := uuid.Parse(studentID)
	if err != nil {
		return nil, errors.New("invalid student ID")
	}

	student, err := s.studentRepo.FindByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, ErrStudentNotFound
	}

	paid, err := s.paymentRepo.HasPinPurchase(ctx, uid, term, session)
	if err != nil {
		return nil, err
	}
	if !paid {
		return nil, ErrReportLocked
	}

	scores, err := s.resultRepo.FindByStudent(ctx, uid, term, session, model.StatusApproved)
	if err != nil {
		return nil, err
	}

	termReport, err := s.termReportRepo.Find(ctx, uid, term, session)
	if err != nil {
		return nil, err
	}

	report := &model.StudentReport{
		Student:     student,
		Term:        term,
		Session:     session,
		Scores:      scores,
		GradeCounts: map[string]int{},
		TermReport:  termReport,
	}

	for _, score := range scores {
		report.TotalScore += score.TotalScore
		report.GradeCounts[score.Grade]++
	}
	// round half up: 61.67 -> 62
	report.Average = utils.RoundAverage(report.TotalScore, len(scores))

	section := SectionForClass(student.CurrentClass)
	if cfg, err := s.schoolRepo.GetConfig(ctx, string(section)); err == nil && cfg != nil {
		report.NextTermBegins = cfg.NextTermBegins
	}

	return report, nil
}

// RenderPDF compiles the report and renders the paginated result sheet. A
// copy is archived to object storage on a best-effort basis.
func (s *reportService) RenderPDF(ctx context.Context, studentID string, term, session string) ([]byte, string, error) {
	report, err := s.Compile(ctx, studentID, term, session)
	if err != nil {
		return nil, "", err
	}

	verifyURL := utils.VerifyURL(s.cfg.App.BaseURL, report.Student.AdmissionNumber, term, session)
	qrPNG, err := utils.GenerateQRCodePNG(verifyURL, 256)
	if err != nil {
		// the sheet is still valid without the QR
		log.Printf("Failed to generate verification QR: %v", err)
		qrPNG = nil
	}

	data := utils.ResultSheetData{
		SchoolName:     s.cfg.School.Name,
		SchoolAddress:  s.cfg.School.Address,
		SchoolMotto:    s.cfg.School.Motto,
		Term:           term,
		Session:        session,
		NextTermBegins: report.NextTermBegins,
		Student: utils.SheetStudent{
			FullName:        report.Student.FullName,
			AdmissionNumber: report.Student.AdmissionNumber,
			ClassLevel:      report.Student.CurrentClass,
			Gender:          report.Student.Gender,
		},
		TotalScore:  report.TotalScore,
		Average:     report.Average,
		GeneratedAt: time.Now(),
		QRCodePNG:   qrPNG,
	}

	for _, score := range report.Scores {
		data.Scores = append(data.Scores, utils.SheetScore{
			Subject:  score.Subject,
			CA1:      score.CA1Score,
			CA2:      score.CA2Score,
			Exam:     score.ExamScore,
			Total:    score.TotalScore,
			Grade:    score.Grade,
			Position: score.Position,
			Remark:   score.Remarks,
		})
	}

	if tr := report.TermReport; tr != nil {
		data.Attendance = utils.SheetAttendance{
			DaysOpen:    tr.DaysSchoolOpen,
			DaysPresent: tr.DaysPresent,
			DaysAbsent:  tr.DaysAbsent,
		}
		data.Psychomotor = tr.Psychomotor
		data.Affective = tr.Affective
		data.TeacherRemark = tr.ClassTeacherRemark
	}

	pdfBytes, err := utils.GenerateResultSheetPDF(data)
	if err != nil {
		return nil, "", err
	}

	name := fmt.Sprintf("%s-%s-%s", report.Student.AdmissionNumber, term, session)
	if s.storage != nil {
		if _, err := s.storage.UploadPDF(ctx, "result-sheets", pdfBytes, name); err != nil {
			log.Printf("Failed to archive result sheet: %v", err)
		}
	}

	filename := strings.ReplaceAll(name, "/", "-") + ".pdf"
	return pdfBytes, filename, nil
}

// Verify answers the QR code on a printed sheet: it confirms that an entitled,
// approved result exists for the admission number and term, and returns only
// summary figures.
func (s *reportService) Verify(ctx context.Context, admissionNumber, term, session string) (*model.VerifySummary, error) {
	student, err := s.studentRepo.FindByAdmissionNumber(ctx, admissionNumber)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return &model.VerifySummary{Valid: false}, nil
	}

	report, err := s.Compile(ctx, student.ID.String(), term, session)
	if err != nil {
		if errors.Is(err, ErrReportLocked) {
			return &model.VerifySummary{Valid: false}, nil
		}
		return nil, err
	}
	if len(report.Scores) == 0 {
		return &model.VerifySummary{Valid: false}, nil
	}

	return &model.VerifySummary{
		Valid:           true,
		StudentName:     student.FullName,
		AdmissionNumber: student.AdmissionNumber,
		ClassLevel:      student.CurrentClass,
		Term:            term,
		Session:         session,
		SubjectCount:    len(report.Scores),
		Average:         report.Average,
	}, nil
}
