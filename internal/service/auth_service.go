package service

import (
	"context"
	"errors"

	"github.com/citadelschools/school-portal/internal/config"
	"github.com/citadelschools/school-portal/internal/model"
	"github.com/citadelschools/school-portal/internal/repository"
	"github.com/citadelschools/school-portal/internal/utils"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

type StaffLoginResult struct {
	Staff  *model.Staff     `json:"staff"`
	Tokens *utils.TokenPair `json:"tokens"`
}

type StudentLoginResult struct {
	Student *model.Student   `json:"student"`
	Tokens  *utils.TokenPair `json:"tokens"`
}

type AuthService interface {
	StaffLogin(ctx context.Context, email, pin string) (*StaffLoginResult, error)
	StudentLogin(ctx context.Context, admissionNumber, pin string) (*StudentLoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (*utils.TokenPair, error)
}

type authService struct {
	staffRepo   repository.StaffRepository
	studentRepo repository.StudentRepository
	cfg         *config.Config
}

func NewAuthService(staffRepo repository.StaffRepository, studentRepo repository.StudentRepository, cfg *config.Config) AuthService {
	return &authService{staffRepo: staffRepo, studentRepo: studentRepo, cfg: cfg}
}

// StaffLogin authenticates by email and PIN. A missing account and a wrong
// PIN return the same error so probing cannot tell them apart.
func (s *authService) StaffLogin(ctx context.Context, email, pin string) (*StaffLoginResult, error) {
	staff, err := s.staffRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(staff.PinHash), []byte(pin)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !staff.IsActive {
		return nil, ErrAccountDisabled
	}

	claims := model.JWTClaims{
		SubjectID: staff.ID.String(),
		Name:      staff.FullName,
		Role:      string(staff.Role),
		Section:   string(staff.Section),
		Kind:      "staff",
	}
	tokens, err := utils.GenerateTokenPair(claims, s.cfg.JWT.Secret, s.cfg.JWT.ExpireHours, s.cfg.JWT.RefreshExpHours)
	if err != nil {
		return nil, err
	}
	return &StaffLoginResult{Staff: staff, Tokens: tokens}, nil
}

// StudentLogin authenticates by admission number and the result PIN.
func (s *authService) StudentLogin(ctx context.Context, admissionNumber, pin string) (*StudentLoginResult, error) {
	student, err := s.studentRepo.FindByAdmissionNumber(ctx, admissionNumber)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(student.PinHash), []byte(pin)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !student.IsActive {
		return nil, ErrAccountDisabled
	}

	claims := model.JWTClaims{
		SubjectID: student.ID.String(),
		Name:      student.FullName,
		Role:      string(model.RoleStudent),
		Section:   string(SectionForClass(student.CurrentClass)),
		Kind:      "student",
	}
	tokens, err := utils.GenerateTokenPair(claims, s.cfg.JWT.Secret, s.cfg.JWT.ExpireHours, s.cfg.JWT.RefreshExpHours)
	if err != nil {
		return nil, err
	}
	return &StudentLoginResult{Student: student, Tokens: tokens}, nil
}

// Refresh exchanges a valid refresh token for a fresh pair. The subject is
// re-read so a disabled account cannot keep refreshing its way in.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*utils.TokenPair, error) {
	claims, err := utils.ValidateRefreshToken(refreshToken, s.cfg.JWT.Secret)
	if err != nil {
		return nil, ErrInvalidToken
	}

	uid, err := uuid.Parse(claims.SubjectID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	switch claims.Kind {
	case "staff":
		staff, err := s.staffRepo.FindByID(ctx, uid)
		if err != nil {
			return nil, err
		}
		if staff == nil || !staff.IsActive {
			return nil, ErrAccountDisabled
		}
	case "student":
		student, err := s.studentRepo.FindByID(ctx, uid)
		if err != nil {
			return nil, err
		}
		if student == nil || !student.IsActive {
			return nil, ErrAccountDisabled
		}
	default:
		return nil, ErrInvalidToken
	}

	return utils.GenerateTokenPair(*claims, s.cfg.JWT.Secret, s.cfg.JWT.ExpireHours, s.cfg.JWT.RefreshExpHours)
}
