package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/citadelschools/school-portal/internal/model"
	"github.com/citadelschools/school-portal/internal/repository"
	"github.com/citadelschools/school-portal/internal/utils"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrStudentNotFound        = errors.New("student not found")
	ErrInvalidStudentID       = errors.New("invalid student ID")
	ErrInvalidDateOfBirth     = errors.New("date of birth must be in YYYY-MM-DD format")
	ErrPromoteSameClass       = errors.New("source and destination class must differ")
	ErrNoStudentsInClass      = errors.New("no students in the source class")
	ErrUnsupportedPhotoFormat = errors.New("unsupported photo format, use JPEG or PNG")
)

// admissionRetries bounds the collision retry loop when minting numbers.
const admissionRetries = 5

type StudentService interface {
	Create(ctx context.Context, req *model.CreateStudentRequest) (*model.CreatedStudent, error)
	GetAll(ctx context.Context, filter model.StudentFilter) ([]*model.Student, int64, error)
	GetByID(ctx context.Context, id string) (*model.Student, error)
	GetByClass(ctx context.Context, classLevel string) ([]*model.Student, error)
	Update(ctx context.Context, id string, req *model.UpdateStudentRequest) (*model.Student, error)
	Delete(ctx context.Context, id string) error
	SetAccess(ctx context.Context, id string, active bool) error
	ResetPin(ctx context.Context, id string) (string, error)
	Promote(ctx context.Context, req *model.PromoteRequest) (int64, error)
	UploadPhoto(ctx context.Context, id string, data []byte, contentType string) (string, error)
}

type studentService struct {
	repo    repository.StudentRepository
	storage *utils.StorageService
}

func NewStudentService(repo repository.StudentRepository, storage *utils.StorageService) StudentService {
	return &studentService{repo: repo, storage: storage}
}

// Create enrols a student, minting an admission number and a 4-digit PIN.
// The plaintext PIN appears exactly once, in the return value; only the
// bcrypt hash is stored.
func (s *studentService) Create(ctx context.Context, req *model.CreateStudentRequest) (*model.CreatedStudent, error) {
	dob, err := parseDateOfBirth(req.DateOfBirth)
	if err != nil {
		return nil, err
	}

	pin, err := utils.GeneratePin()
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	student := &model.Student{
		ID:           uuid.New(),
		FullName:     utils.SanitizeString(req.FullName),
		Gender:       req.Gender,
		DateOfBirth:  dob,
		CurrentClass: req.CurrentClass,
		ParentPhone:  req.ParentPhone,
		PinHash:      string(hash),
		IsActive:     true,
	}
	if req.ParentPhone2 != "" {
		student.ParentPhone2 = &req.ParentPhone2
	}

	// generated numbers can collide with existing rows; retry a few times
	for attempt := 0; attempt < admissionRetries; attempt++ {
		number, err := utils.GenerateAdmissionNumber(req.CurrentClass)
		if err != nil {
			return nil, err
		}
		existing, err := s.repo.FindByAdmissionNumber(ctx, number)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			continue
		}
		student.AdmissionNumber = number
		if err := s.repo.Create(ctx, student); err != nil {
			return nil, err
		}
		return &model.CreatedStudent{Student: student, Pin: pin}, nil
	}
	return nil, fmt.Errorf("could not allocate a unique admission number after %d attempts", admissionRetries)
}

func (s *studentService) GetAll(ctx context.Context, filter model.StudentFilter) ([]*model.Student, int64, error) {
	return s.repo.FindAll(ctx, filter)
}

func (s *studentService) GetByID(ctx context.Context, id string) (*model.Student, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidStudentID
	}
	student, err := s.repo.FindByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, ErrStudentNotFound
	}
	return student, nil
}

func (s *studentService) GetByClass(ctx context.Context, classLevel string) ([]*model.Student, error) {
	return s.repo.FindByClass(ctx, classLevel)
}

func (s *studentService) Update(ctx context.Context, id string, req *model.UpdateStudentRequest) (*model.Student, error) {
	student, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FullName != "" {
		student.FullName = utils.SanitizeString(req.FullName)
	}
	if req.Gender != "" {
		student.Gender = req.Gender
	}
	if req.DateOfBirth != "" {
		dob, err := parseDateOfBirth(req.DateOfBirth)
		if err != nil {
			return nil, err
		}
		student.DateOfBirth = dob
	}
	if req.CurrentClass != "" {
		student.CurrentClass = req.CurrentClass
	}
	if req.ParentPhone != "" {
		student.ParentPhone = req.ParentPhone
	}
	if req.ParentPhone2 != "" {
		student.ParentPhone2 = &req.ParentPhone2
	}

	if err := s.repo.Update(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

func (s *studentService) Delete(ctx context.Context, id string) error {
	student, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, student.ID)
}

// SetAccess flips portal access without touching any other record. A
// disabled student keeps every score and payment row.
func (s *studentService) SetAccess(ctx context.Context, id string, active bool) error {
	student, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.SetActive(ctx, student.ID, active)
}

// ResetPin mints a fresh PIN and returns it in plaintext, once.
func (s *studentService) ResetPin(ctx context.Context, id string) (string, error) {
	student, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	pin, err := utils.GeneratePin()
	if err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	if err := s.repo.UpdatePinHash(ctx, student.ID, string(hash)); err != nil {
		return "", err
	}
	return pin, nil
}

// Promote moves every student of the source class, disabled ones included,
// to the destination class in a single statement. Results are keyed by the
// term they were written in, so history is untouched.
func (s *studentService) Promote(ctx context.Context, req *model.PromoteRequest) (int64, error) {
	if req.FromClass == req.ToClass {
		return 0, ErrPromoteSameClass
	}
	moved, err := s.repo.Promote(ctx, req.FromClass, req.ToClass)
	if err != nil {
		return 0, err
	}
	if moved == 0 {
		return 0, ErrNoStudentsInClass
	}
	return moved, nil
}

func (s *studentService) UploadPhoto(ctx context.Context, id string, data []byte, contentType string) (string, error) {
	student, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if _, ok := utils.AllowedPhotoTypes[contentType]; !ok {
		return "", ErrUnsupportedPhotoFormat
	}
	upload, err := s.storage.UploadPhoto(ctx, "passports", data, contentType)
	if err != nil {
		return "", err
	}
	if err := s.repo.UpdatePhoto(ctx, student.ID, upload.FileURL); err != nil {
		return "", err
	}
	if student.PassportURL != nil && *student.PassportURL != "" {
		if err := s.storage.DeleteFile(ctx, *student.PassportURL); err != nil {
			log.Printf("Warning: could not remove replaced passport %s: %v", *student.PassportURL, err)
		}
	}
	return upload.FileURL, nil
}

func parseDateOfBirth(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, ErrInvalidDateOfBirth
	}
	return &t, nil
}
