package domain

import "strings"

// Grade is a single-letter A-E quality classification (Nutri-Score, Eco-Score).
// GradeUnknown marks an absent or non-applicable grade.
type Grade string

const (
	GradeUnknown Grade = ""
	GradeA       Grade = "A"
	GradeB       Grade = "B"
	GradeC       Grade = "C"
	GradeD       Grade = "D"
	GradeE       Grade = "E"
)

// ParseGrade normalizes an upstream grade value. Anything outside a..e,
// including "unknown" and "not-applicable", maps to GradeUnknown.
func ParseGrade(raw string) Grade {
	switch g := Grade(strings.ToUpper(strings.TrimSpace(raw))); g {
	case GradeA, GradeB, GradeC, GradeD, GradeE:
		return g
	default:
		return GradeUnknown
	}
}

// Known reports whether the grade carries a value.
func (g Grade) Known() bool {
	return g != GradeUnknown
}

// Display renders the grade for people, substituting placeholder when absent.
func (g Grade) Display(placeholder string) string {
	if !g.Known() {
		return placeholder
	}
	return string(g)
}
