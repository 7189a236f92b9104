package model

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleProprietor  Role = "Proprietor"
	RolePrincipal   Role = "Principal"
	RoleHeadTeacher Role = "Head Teacher"
	RoleBursar      Role = "Bursar"
	RoleTeacher     Role = "Teacher"

	// RoleStudent is not a staff role; it marks student tokens so the
	// middleware can gate staff-only routes uniformly.
	RoleStudent Role = "Student"
)

type Section string

const (
	SectionPrimary   Section = "Primary"
	SectionSecondary Section = "Secondary"
	SectionGeneral   Section = "General"
)

type Staff struct {
	ID            uuid.UUID `db:"id"             json:"id"`
	FullName      string    `db:"full_name"      json:"full_name"`
	Email         string    `db:"email"          json:"email"`
	Role          Role      `db:"role"           json:"role"`
	Section       Section   `db:"section"        json:"section"`
	AssignedClass *string   `db:"assigned_class" json:"assigned_class"`
	PinHash       string    `db:"pin_hash"       json:"-"` // never expose hash
	PassportURL   *string   `db:"passport_url"   json:"passport_url"`
	IsActive      bool      `db:"is_active"      json:"is_active"`
	CreatedAt     time.Time `db:"created_at"     json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"     json:"updated_at"`
}

type CreateStaffRequest struct {
	FullName      string  `json:"full_name"`
	Email         string  `json:"email"`
	Role          Role    `json:"role"`
	Section       Section `json:"section"`
	AssignedClass string  `json:"assigned_class"`
}

type UpdateStaffRequest struct {
	FullName      string  `json:"full_name"`
	Email         string  `json:"email"`
	Role          Role    `json:"role"`
	Section       Section `json:"section"`
	AssignedClass string  `json:"assigned_class"`
	IsActive      *bool   `json:"is_active"`
}

// CreatedStaff carries the generated PIN exactly once, at creation time.
type CreatedStaff struct {
	Staff *Staff `json:"staff"`
	Pin   string `json:"pin"`
}

type StaffFilter struct {
	Role    string
	Section string
	Search  string
	Page    int
	PerPage int
}

// JWTClaims is the authenticated identity carried through every request.
// Kind distinguishes staff tokens from student tokens.
type JWTClaims struct {
	SubjectID string `json:"subject_id"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Section   string `json:"section"`
	Kind      string `json:"kind"` // "staff" | "student"
}
