package service

import (
	"context"
	"errors"
	"testing"

	"github.com/citadelschools/school-portal/internal/config"
	"github.com/citadelschools/school-portal/internal/model"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func authFixture(t *testing.T) (*fakeStaffRepo, *fakeStudentRepo, AuthService) {
	t.Helper()
	staffRepo := &fakeStaffRepo{}
	studentRepo := &fakeStudentRepo{}

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpireHours = 1
	cfg.JWT.RefreshExpHours = 24

	return staffRepo, studentRepo, NewAuthService(staffRepo, studentRepo, cfg)
}

func hashPin(t *testing.T, pin string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return string(hash)
}

func TestStaffLogin(t *testing.T) {
	staffRepo, _, svc := authFixture(t)
	staffRepo.staff = append(staffRepo.staff, &model.Staff{
		ID:       uuid.New(),
		FullName: "Mrs. Bello",
		Email:    "bello@citadelschools.ng",
		Role:     model.RolePrincipal,
		Section:  model.SectionSecondary,
		PinHash:  hashPin(t, "4321"),
		IsActive: true,
	})

	result, err := svc.StaffLogin(context.Background(), "bello@citadelschools.ng", "4321")
	if err != nil {
		t.Fatalf("StaffLogin: %v", err)
	}
	if result.Tokens.AccessToken == "" {
		t.Error("no access token issued")
	}
	if result.Staff.Email != "bello@citadelschools.ng" {
		t.Errorf("wrong staff returned: %s", result.Staff.Email)
	}

	if _, err := svc.StaffLogin(context.Background(), "bello@citadelschools.ng", "0000"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong PIN: got %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.StaffLogin(context.Background(), "nobody@citadelschools.ng", "4321"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: got %v, want ErrInvalidCredentials", err)
	}
}

func TestStaffLoginDisabledAccount(t *testing.T) {
	staffRepo, _, svc := authFixture(t)
	staffRepo.staff = append(staffRepo.staff, &model.Staff{
		ID:       uuid.New(),
		Email:    "gone@citadelschools.ng",
		Role:     model.RoleTeacher,
		PinHash:  hashPin(t, "1111"),
		IsActive: false,
	})

	if _, err := svc.StaffLogin(context.Background(), "gone@citadelschools.ng", "1111"); !errors.Is(err, ErrAccountDisabled) {
		t.Errorf("got %v, want ErrAccountDisabled", err)
	}
}

func TestStudentLogin(t *testing.T) {
	_, studentRepo, svc := authFixture(t)
	studentRepo.students = append(studentRepo.students, &model.Student{
		ID:              uuid.New(),
		AdmissionNumber: "CKIS/SS/2001",
		FullName:        "Chidi Okeke",
		CurrentClass:    "SS 1",
		PinHash:         hashPin(t, "7777"),
		IsActive:        true,
	})

	result, err := svc.StudentLogin(context.Background(), "CKIS/SS/2001", "7777")
	if err != nil {
		t.Fatalf("StudentLogin: %v", err)
	}
	if result.Tokens.AccessToken == "" {
		t.Error("no access token issued")
	}

	if _, err := svc.StudentLogin(context.Background(), "CKIS/SS/2001", "1234"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong PIN: got %v, want ErrInvalidCredentials", err)
	}
}

func TestRefreshReChecksAccount(t *testing.T) {
	_, studentRepo, svc := authFixture(t)
	student := &model.Student{
		ID:              uuid.New(),
		AdmissionNumber: "CKIS/SS/2001",
		FullName:        "Chidi Okeke",
		CurrentClass:    "SS 1",
		PinHash:         hashPin(t, "7777"),
		IsActive:        true,
	}
	studentRepo.students = append(studentRepo.students, student)

	result, err := svc.StudentLogin(context.Background(), "CKIS/SS/2001", "7777")
	if err != nil {
		t.Fatalf("StudentLogin: %v", err)
	}

	if _, err := svc.Refresh(context.Background(), result.Tokens.RefreshToken); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	// disabling the account kills its refresh tokens
	student.IsActive = false
	if _, err := svc.Refresh(context.Background(), result.Tokens.RefreshToken); !errors.Is(err, ErrAccountDisabled) {
		t.Errorf("got %v, want ErrAccountDisabled", err)
	}

	if _, err := svc.Refresh(context.Background(), "not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("got %v, want ErrInvalidToken", err)
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	_, studentRepo, svc := authFixture(t)
	studentRepo.students = append(studentRepo.students, &model.Student{
		ID:              uuid.New(),
		AdmissionNumber: "CKIS/SS/2001",
		FullName:        "Chidi Okeke",
		CurrentClass:    "SS 1",
		PinHash:         hashPin(t, "7777"),
		IsActive:        true,
	})

	result, err := svc.StudentLogin(context.Background(), "CKIS/SS/2001", "7777")
	if err != nil {
		t.Fatalf("StudentLogin: %v", err)
	}

	if _, err := svc.Refresh(context.Background(), result.Tokens.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("got %v, want ErrInvalidToken", err)
	}
}
