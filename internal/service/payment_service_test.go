package service

import (
	"context"
	"errors"
	"testing"

	"github.com/citadelschools/school-portal/internal/model"
)

func newPaymentFixture() (*fakePaymentRepo, *fakeStudentRepo, PaymentService, *model.Student) {
	payments := &fakePaymentRepo{}
	students := &fakeStudentRepo{}
	student := seedClass(students, "JSS 2", "Ada Obi")[0]
	svc := NewPaymentService(payments, students, "Citadel of Knowledge International School")
	return payments, students, svc, student
}

func TestSellPinOncePerTerm(t *testing.T) {
	payments, _, svc, student := newPaymentFixture()

	req := &model.SellPinRequest{
		StudentID: student.ID.String(),
		Amount:    500,
		Method:    "Cash",
		Term:      "1st Term",
		Session:   "2025/2026",
	}

	payment, err := svc.SellPin(context.Background(), req, "Bursar Musa")
	if err != nil {
		t.Fatalf("SellPin: %v", err)
	}
	if payment.Purpose != model.PurposePinPurchase {
		t.Errorf("purpose = %q", payment.Purpose)
	}
	if payment.RecordedBy != "Bursar Musa" {
		t.Errorf("recorded_by = %q", payment.RecordedBy)
	}

	if _, err := svc.SellPin(context.Background(), req, "Bursar Musa"); !errors.Is(err, ErrPinAlreadySold) {
		t.Fatalf("second sale: got %v, want ErrPinAlreadySold", err)
	}
	if len(payments.payments) != 1 {
		t.Errorf("ledger has %d rows, want 1", len(payments.payments))
	}

	// a different term is a fresh entitlement
	other := *req
	other.Term = "2nd Term"
	if _, err := svc.SellPin(context.Background(), &other, "Bursar Musa"); err != nil {
		t.Errorf("different term should sell: %v", err)
	}
}

func TestRecordPaymentRoutesPinPurchaseThroughGuard(t *testing.T) {
	payments, _, svc, student := newPaymentFixture()

	req := &model.RecordPaymentRequest{
		StudentID: student.ID.String(),
		Amount:    500,
		Purpose:   model.PurposePinPurchase,
		Method:    "Transfer",
		Term:      "1st Term",
		Session:   "2025/2026",
	}

	if _, err := svc.RecordPayment(context.Background(), req, "Bursar Musa"); err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}
	if _, err := svc.RecordPayment(context.Background(), req, "Bursar Musa"); !errors.Is(err, ErrPinAlreadySold) {
		t.Fatalf("duplicate via generic endpoint: got %v, want ErrPinAlreadySold", err)
	}
	if len(payments.payments) != 1 {
		t.Errorf("ledger has %d rows, want 1", len(payments.payments))
	}
}

func TestRecordPaymentOtherPurposesRepeat(t *testing.T) {
	payments, _, svc, student := newPaymentFixture()

	req := &model.RecordPaymentRequest{
		StudentID: student.ID.String(),
		Amount:    25000,
		Purpose:   "School Fees",
		Method:    "POS",
		Term:      "1st Term",
		Session:   "2025/2026",
	}

	for i := 0; i < 2; i++ {
		if _, err := svc.RecordPayment(context.Background(), req, "Bursar Musa"); err != nil {
			t.Fatalf("payment %d: %v", i+1, err)
		}
	}
	if len(payments.payments) != 2 {
		t.Errorf("fee installments should append, got %d rows", len(payments.payments))
	}
}

func TestPaymentValidation(t *testing.T) {
	_, _, svc, student := newPaymentFixture()

	if _, err := svc.SellPin(context.Background(), &model.SellPinRequest{
		StudentID: student.ID.String(),
		Amount:    0,
		Term:      "1st Term",
		Session:   "2025/2026",
	}, "Bursar Musa"); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("zero amount: got %v, want ErrInvalidAmount", err)
	}

	if _, err := svc.SellPin(context.Background(), &model.SellPinRequest{
		StudentID: "not-a-uuid",
		Amount:    500,
	}, "Bursar Musa"); !errors.Is(err, ErrInvalidStudentID) {
		t.Errorf("bad student id: got %v, want ErrInvalidStudentID", err)
	}
}

func TestPinStatus(t *testing.T) {
	_, _, svc, student := newPaymentFixture()

	sold, err := svc.PinStatus(context.Background(), student.ID.String(), "1st Term", "2025/2026")
	if err != nil || sold {
		t.Fatalf("before sale: sold=%v err=%v", sold, err)
	}

	if _, err := svc.SellPin(context.Background(), &model.SellPinRequest{
		StudentID: student.ID.String(),
		Amount:    500,
		Term:      "1st Term",
		Session:   "2025/2026",
	}, "Bursar Musa"); err != nil {
		t.Fatalf("SellPin: %v", err)
	}

	sold, err = svc.PinStatus(context.Background(), student.ID.String(), "1st Term", "2025/2026")
	if err != nil || !sold {
		t.Errorf("after sale: sold=%v err=%v", sold, err)
	}
}
