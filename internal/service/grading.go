package service

import (
	"strconv"
	"strings"

	"github.com/citadelschools/school-portal/internal/model"
)

// GradeFor maps a total score to its letter grade. One threshold table is
// used everywhere: 70/60/50/40 for A/B/C/D, F below 40.
func GradeFor(total int) string {
	switch {
	case total >= 70:
		return "A"
	case total >= 60:
		return "B"
	case total >= 50:
		return "C"
	case total >= 40:
		return "D"
	default:
		return "F"
	}
}

// Ordinal renders 1 -> "1st", 2 -> "2nd", 11 -> "11th", 23 -> "23rd".
func Ordinal(n int) string {
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
		suffix = "th"
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return strconv.Itoa(n) + suffix
}

// RankPositions assigns standard competition ranks over the given totals,
// ordered descending: equal totals share the same ordinal, and the next
// distinct total skips past them. A zero total gets "-", matching the blank
// rows of a partially filled score sheet.
func RankPositions(totals []int) []string {
	positions := make([]string, len(totals))
	for i, total := range totals {
		if total <= 0 {
			positions[i] = "-"
			continue
		}
		rank := 1
		for _, other := range totals {
			if other > total {
				rank++
			}
		}
		positions[i] = Ordinal(rank)
	}
	return positions
}

// SectionForClass infers a class's section from its name: anything containing
// "JSS" or "SS" is Secondary, the rest is Primary.
func SectionForClass(class string) model.Section {
	if strings.Contains(class, "JSS") || strings.Contains(class, "SS") {
		return model.SectionSecondary
	}
	return model.SectionPrimary
}

// ApproverSection maps an approving role to the section it may decide for:
// the Head Teacher covers Primary, the Principal covers Secondary.
func ApproverSection(role model.Role) (model.Section, bool) {
	switch role {
	case model.RoleHeadTeacher:
		return model.SectionPrimary, true
	case model.RolePrincipal:
		return model.SectionSecondary, true
	default:
		return "", false
	}
}
