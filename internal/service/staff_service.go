package service

import (
	"context"
	"errors"
	"log"

	"github.com/citadelschools/school-portal/internal/model"
	"github.com/citadelschools/school-portal/internal/repository"
	"github.com/citadelschools/school-portal/internal/utils"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrStaffNotFound    = errors.New("staff not found")
	ErrInvalidStaffID   = errors.New("invalid staff ID")
	ErrEmailTaken       = errors.New("email already registered")
	ErrUnknownRole      = errors.New("unknown staff role")
	ErrCannotDeleteSelf = errors.New("cannot delete your own account")
)

var staffRoles = map[model.Role]bool{
	model.RoleProprietor:  true,
	model.RolePrincipal:   true,
	model.RoleHeadTeacher: true,
	model.RoleBursar:      true,
	model.RoleTeacher:     true,
}

type StaffService interface {
	Create(ctx context.Context, req *model.CreateStaffRequest) (*model.CreatedStaff, error)
	GetAll(ctx context.Context, filter model.StaffFilter) ([]*model.Staff, int64, error)
	GetByID(ctx context.Context, id string) (*model.Staff, error)
	Update(ctx context.Context, id string, req *model.UpdateStaffRequest) (*model.Staff, error)
	Delete(ctx context.Context, id, callerID string) error
	ResetPin(ctx context.Context, id string) (string, error)
	UploadPhoto(ctx context.Context, id string, data []byte, contentType string) (string, error)
}

type staffService struct {
	repo    repository.StaffRepository
	storage *utils.StorageService
}

func NewStaffService(repo repository.StaffRepository, storage *utils.StorageService) StaffService {
	return &staffService{repo: repo, storage: storage}
}

func (s *staffService) Create(ctx context.Context, req *model.CreateStaffRequest) (*model.CreatedStaff, error) {
	if !utils.IsValidEmail(req.Email) {
		return nil, errors.New("invalid email address")
	}
	if !staffRoles[req.Role] {
		return nil, ErrUnknownRole
	}

	existing, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	pin, err := utils.GeneratePin()
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	staff := &model.Staff{
		ID:       uuid.New(),
		FullName: utils.SanitizeString(req.FullName),
		Email:    req.Email,
		Role:     req.Role,
		Section:  req.Section,
		PinHash:  string(hash),
		IsActive: true,
	}
	if req.AssignedClass != "" {
		staff.AssignedClass = &req.AssignedClass
	}
	if staff.Section == "" {
		staff.Section = model.SectionPrimary
	}

	if err := s.repo.Create(ctx, staff); err != nil {
		return nil, err
	}
	return &model.CreatedStaff{Staff: staff, Pin: pin}, nil
}

func (s *staffService) GetAll(ctx context.Context, filter model.StaffFilter) ([]*model.Staff, int64, error) {
	return s.repo.FindAll(ctx, filter)
}

func (s *staffService) GetByID(ctx context.Context, id string) (*model.Staff, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidStaffID
	}
	staff, err := s.repo.FindByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		return nil, ErrStaffNotFound
	}
	return staff, nil
}

func (s *staffService) Update(ctx context.Context, id string, req *model.UpdateStaffRequest) (*model.Staff, error) {
	staff, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FullName != "" {
		staff.FullName = utils.SanitizeString(req.FullName)
	}
	if req.Email != "" && req.Email != staff.Email {
		if !utils.IsValidEmail(req.Email) {
			return nil, errors.New("invalid email address")
		}
		existing, err := s.repo.FindByEmail(ctx, req.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrEmailTaken
		}
		staff.Email = req.Email
	}
	if req.Role != "" {
		if !staffRoles[req.Role] {
			return nil, ErrUnknownRole
		}
		staff.Role = req.Role
	}
	if req.Section != "" {
		staff.Section = req.Section
	}
	if req.AssignedClass != "" {
		staff.AssignedClass = &req.AssignedClass
	}
	if req.IsActive != nil {
		staff.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, staff); err != nil {
		return nil, err
	}
	return staff, nil
}

func (s *staffService) Delete(ctx context.Context, id, callerID string) error {
	if id == callerID {
		return ErrCannotDeleteSelf
	}
	staff, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, staff.ID)
}

func (s *staffService) ResetPin(ctx context.Context, id string) (string, error) {
	staff, err := s.GetByID(ctx, id)
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
	if err := s.repo.UpdatePinHash(ctx, staff.ID, string(hash)); err != nil {
		return "", err
	}
	return pin, nil
}

func (s *staffService) UploadPhoto(ctx context.Context, id string, data []byte, contentType string) (string, error) {
	staff, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if _, ok := utils.AllowedPhotoTypes[contentType]; !ok {
		return "", ErrUnsupportedPhotoFormat
	}
	upload, err := s.storage.UploadPhoto(ctx, "staff-passports", data, contentType)
	if err != nil {
		return "", err
	}
	if err := s.repo.UpdatePhoto(ctx, staff.ID, upload.FileURL); err != nil {
		return "", err
	}
	if staff.PassportURL != nil && *staff.PassportURL != "" {
		if err := s.storage.DeleteFile(ctx, *staff.PassportURL); err != nil {
			log.Printf("Warning: could not remove replaced passport %s: %v", *staff.PassportURL, err)
		}
	}
	return upload.FileURL, nil
}
