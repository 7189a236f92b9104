package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// SectionCodeForClass maps a class name to the code embedded in admission
// numbers. The order matters: "JSS" contains "SS", so it is checked first.
func SectionCodeForClass(class string) string {
	switch {
	case strings.Contains(class, "Creche"), strings.Contains(class, "KG"):
		return "KG"
	case strings.Contains(class, "Pry"):
		return "PRI"
	case strings.Contains(class, "JSS"):
		return "JSS"
	case strings.Contains(class, "SS"):
		return "SS"
	default:
		return "GEN"
	}
}

func randomDigits(n int) (string, error) {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		d, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		sb.WriteString(d.String())
	}
	return sb.String(), nil
}

// GeneratePin creates the 4-digit login/result PIN. Only its bcrypt hash is
// stored; the plain value is shown once at creation time.
func GeneratePin() (string, error) {
	return randomDigits(4)
}

// GenerateAdmissionNumber builds a candidate like CKIS/JSS/4821. Callers must
// check the candidate against existing records and retry on collision.
func GenerateAdmissionNumber(class string) (string, error) {
	digits, err := randomDigits(4)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("CKIS/%s/%s", SectionCodeForClass(class), digits), nil
}
