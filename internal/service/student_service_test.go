package service

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/citadelschools/school-portal/internal/model"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func TestCreateStudentMintsCredentials(t *testing.T) {
	repo := &fakeStudentRepo{}
	svc := NewStudentService(repo, nil)

	created, err := svc.Create(context.Background(), &model.CreateStudentRequest{
		FullName:     "Ada Obi",
		Gender:       "Female",
		DateOfBirth:  "2012-03-14",
		CurrentClass: "JSS 1",
		ParentPhone:  "08030000000",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if !regexp.MustCompile(`^CKIS/JSS/\d{4}$`).MatchString(created.Student.AdmissionNumber) {
		t.Errorf("admission number %q does not match CKIS/JSS/NNNN", created.Student.AdmissionNumber)
	}
	if !regexp.MustCompile(`^\d{4}$`).MatchString(created.Pin) {
		t.Errorf("PIN %q is not 4 digits", created.Pin)
	}
	if created.Student.PinHash == created.Pin || created.Student.PinHash == "" {
		t.Error("stored PIN must be a hash, not the plaintext")
	}
	if !created.Student.IsActive {
		t.Error("new students start active")
	}
	if created.Student.DateOfBirth == nil || created.Student.DateOfBirth.Year() != 2012 {
		t.Errorf("date of birth not parsed: %v", created.Student.DateOfBirth)
	}
}

func TestCreateStudentRejectsBadDate(t *testing.T) {
	svc := NewStudentService(&fakeStudentRepo{}, nil)

	_, err := svc.Create(context.Background(), &model.CreateStudentRequest{
		FullName:     "Ada Obi",
		DateOfBirth:  "14/03/2012",
		CurrentClass: "JSS 1",
	})
	if !errors.Is(err, ErrInvalidDateOfBirth) {
		t.Errorf("got %v, want ErrInvalidDateOfBirth", err)
	}
}

func TestPromoteMovesWholeClass(t *testing.T) {
	repo := &fakeStudentRepo{}
	svc := NewStudentService(repo, nil)

	seedClass(repo, "Primary 5", "Ada", "Bola", "Chidi")
	seedClass(repo, "Primary 4", "Dike")
	// disabled students move with their class; access and class are separate
	disabled := &model.Student{ID: uuid.New(), FullName: "Efe", CurrentClass: "Primary 5", IsActive: false}
	repo.students = append(repo.students, disabled)

	moved, err := svc.Promote(context.Background(), &model.PromoteRequest{
		FromClass: "Primary 5",
		ToClass:   "Primary 6",
	})
	if err != nil {
		t.Fatalf("Promote: %v", err)
	}
	if moved != 4 {
		t.Errorf("moved = %d, want 4", moved)
	}

	for _, s := range repo.students {
		switch s.FullName {
		case "Ada", "Bola", "Chidi", "Efe":
			if s.CurrentClass != "Primary 6" {
				t.Errorf("%s in %q, want Primary 6", s.FullName, s.CurrentClass)
			}
		case "Dike":
			if s.CurrentClass != "Primary 4" {
				t.Errorf("Dike moved to %q, other classes must not move", s.CurrentClass)
			}
		}
	}
	if disabled.IsActive {
		t.Error("promotion must not re-enable access")
	}
}

func TestPromoteEdgeCases(t *testing.T) {
	repo := &fakeStudentRepo{}
	svc := NewStudentService(repo, nil)
	seedClass(repo, "SS 3", "Ada")

	if _, err := svc.Promote(context.Background(), &model.PromoteRequest{FromClass: "SS 3", ToClass: "SS 3"}); !errors.Is(err, ErrPromoteSameClass) {
		t.Errorf("same class: got %v, want ErrPromoteSameClass", err)
	}
	if _, err := svc.Promote(context.Background(), &model.PromoteRequest{FromClass: "JSS 9", ToClass: "SS 1"}); !errors.Is(err, ErrNoStudentsInClass) {
		t.Errorf("empty class: got %v, want ErrNoStudentsInClass", err)
	}

	// promotion to Graduated is just another class name
	moved, err := svc.Promote(context.Background(), &model.PromoteRequest{FromClass: "SS 3", ToClass: "Graduated"})
	if err != nil || moved != 1 {
		t.Errorf("graduation: moved=%d err=%v", moved, err)
	}
}

func TestSetAccessFlipsOnlyTheFlag(t *testing.T) {
	repo := &fakeStudentRepo{}
	svc := NewStudentService(repo, nil)
	class := seedClass(repo, "JSS 2", "Ada")

	if err := svc.SetAccess(context.Background(), class[0].ID.String(), false); err != nil {
		t.Fatalf("SetAccess: %v", err)
	}
	if class[0].IsActive {
		t.Error("student should be disabled")
	}
	if class[0].AdmissionNumber == "" || class[0].CurrentClass != "JSS 2" {
		t.Error("disabling access must not touch the record")
	}

	if err := svc.SetAccess(context.Background(), uuid.NewString(), false); !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("unknown id: got %v, want ErrStudentNotFound", err)
	}
}

func TestGetByIDDistinctNotFound(t *testing.T) {
	svc := NewStudentService(&fakeStudentRepo{}, nil)

	if _, err := svc.GetByID(context.Background(), "not-a-uuid"); !errors.Is(err, ErrInvalidStudentID) {
		t.Errorf("bad id: got %v, want ErrInvalidStudentID", err)
	}
	if _, err := svc.GetByID(context.Background(), uuid.NewString()); !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("missing id: got %v, want ErrStudentNotFound", err)
	}
}

func TestResetPinReplacesHash(t *testing.T) {
	repo := &fakeStudentRepo{}
	svc := NewStudentService(repo, nil)
	class := seedClass(repo, "Primary 2", "Ada")
	class[0].PinHash = "old-hash"

	pin, err := svc.ResetPin(context.Background(), class[0].ID.String())
	if err != nil {
		t.Fatalf("ResetPin: %v", err)
	}
	if !regexp.MustCompile(`^\d{4}$`).MatchString(pin) {
		t.Errorf("PIN %q is not 4 digits", pin)
	}
	if class[0].PinHash == "old-hash" || class[0].PinHash == pin {
		t.Error("hash not replaced, or plaintext stored")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(class[0].PinHash), []byte(pin)); err != nil {
		t.Error("stored hash does not match the issued PIN")
	}
}
