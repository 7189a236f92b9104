package utils

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"
)

// DecodeJSON decodes a request body into dst, rejecting unknown fields.
func DecodeJSON(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

// ValidationErrors maps field name -> message.
type ValidationErrors map[string]string

func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

var pinRegex = regexp.MustCompile(`^[0-9]{4}$`)

func IsValidPin(pin string) bool {
	return pinRegex.MatchString(pin)
}

func SanitizeString(s string) string {
	return strings.TrimSpace(s)
}
