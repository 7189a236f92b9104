package model

import (
	"time"

	"github.com/google/uuid"
)

// PurposePinPurchase is the payment purpose that unlocks a student's result
// for the (term, session) it was recorded against.
const PurposePinPurchase = "PIN Purchase"

// Payment is an append-only ledger row. Rows are never mutated or deleted.
type Payment struct {
	ID              uuid.UUID `db:"id"               json:"id"`
	StudentID       uuid.UUID `db:"student_id"       json:"student_id"`
	StudentName     string    `db:"student_name"     json:"student_name"`
	AdmissionNumber string    `db:"admission_number" json:"admission_number"`
	AmountPaid      float64   `db:"amount_paid"      json:"amount_paid"`
	Purpose         string    `db:"purpose"          json:"purpose"`
	Method          string    `db:"payment_method"   json:"payment_method"`
	Term            string    `db:"term"             json:"term"`
	Session         string    `db:"session"          json:"session"`
	RecordedBy      string    `db:"recorded_by"      json:"recorded_by"`
	CreatedAt       time.Time `db:"created_at"       json:"created_at"`
}

type RecordPaymentRequest struct {
	StudentID string  `json:"student_id"`
	Amount    float64 `json:"amount"`
	Purpose   string  `json:"purpose"`
	Method    string  `json:"method"` // Cash | Transfer | POS
	Term      string  `json:"term"`
	Session   string  `json:"session"`
}

type SellPinRequest struct {
	StudentID string  `json:"student_id"`
	Amount    float64 `json:"amount"`
	Method    string  `json:"method"`
	Term      string  `json:"term"`
	Session   string  `json:"session"`
}

type PaymentStats struct {
	CollectedToday float64 `json:"collected_today"`
	PaymentsToday  int     `json:"payments_today"`
}
