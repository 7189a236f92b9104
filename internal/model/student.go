package model

import (
	"time"

	"github.com/google/uuid"
)

type Student struct {
	ID              uuid.UUID  `db:"id"               json:"id"`
	AdmissionNumber string     `db:"admission_number" json:"admission_number"`
	FullName        string     `db:"full_name"        json:"full_name"`
	Gender          string     `db:"gender"           json:"gender"`
	DateOfBirth     *time.Time `db:"date_of_birth"    json:"date_of_birth"`
	CurrentClass    string     `db:"current_class"    json:"current_class"`
	ParentPhone     string     `db:"parent_phone"     json:"parent_phone"`
	ParentPhone2    *string    `db:"parent_phone_2"   json:"parent_phone_2"`
	PinHash         string     `db:"pin_hash"         json:"-"`
	PassportURL     *string    `db:"passport_url"     json:"passport_url"`
	IsActive        bool       `db:"is_active"        json:"is_active"`
	CreatedAt       time.Time  `db:"created_at"       json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"       json:"updated_at"`
}

type CreateStudentRequest struct {
	FullName     string `json:"full_name"`
	Gender       string `json:"gender"`        // Male | Female
	DateOfBirth  string `json:"date_of_birth"` // format: YYYY-MM-DD
	CurrentClass string `json:"current_class"`
	ParentPhone  string `json:"parent_phone"`
	ParentPhone2 string `json:"parent_phone_2"`
}

type UpdateStudentRequest struct {
	FullName     string `json:"full_name"`
	Gender       string `json:"gender"`
	DateOfBirth  string `json:"date_of_birth"`
	CurrentClass string `json:"current_class"`
	ParentPhone  string `json:"parent_phone"`
	ParentPhone2 string `json:"parent_phone_2"`
}

// CreatedStudent carries the generated login PIN exactly once, at creation time.
type CreatedStudent struct {
	Student *Student `json:"student"`
	Pin     string   `json:"pin"`
}

type StudentFilter struct {
	Search  string
	Class   string
	Section string
	Page    int
	PerPage int
}

type PromoteRequest struct {
	FromClass string `json:"from_class"`
	ToClass   string `json:"to_class"`
}

type SetAccessRequest struct {
	IsActive bool `json:"is_active"`
}
