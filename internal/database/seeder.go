package database

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

type Seeder struct {
	db *sqlx.DB
}

func NewSeeder(db *sqlx.DB) *Seeder {
	return &Seeder{db: db}
}

// SeedProprietor creates the default Proprietor account if none exists.
// Every other staff account is created through the API by the Proprietor.
func (s *Seeder) SeedProprietor(ctx context.Context) error {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM staff WHERE role = 'Proprietor'").Scan(&count)
	if err != nil {
		return err
	}

	if count > 0 {
		log.Println("Proprietor account already exists, skipping seed")
		return nil
	}

	pinHash, err := bcrypt.GenerateFromPassword([]byte("0000"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO staff (id, full_name, email, role, section, pin_hash, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`,
		uuid.New(),
		"Proprietor",
		"proprietor@citadelschools.ng",
		"Proprietor",
		"Secondary",
		string(pinHash),
		true,
	)

	if err != nil {
		return err
	}

	log.Println("Default Proprietor account created:")
	log.Println("   Email: proprietor@citadelschools.ng")
	log.Println("   PIN  : 0000")
	log.Println("   Change the PIN after first login!")

	return nil
}
