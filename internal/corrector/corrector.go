// Package corrector repairs file numbers damaged by predictable OCR
// confusions. The rules were reverse-engineered from a sample of misread
// identifiers and are heuristic; callers are expected to log every applied
// correction with the original value so corrections stay auditable.
package corrector

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// rule is one substitution in the ordered correction table. Rules are
// evaluated in order and only the first match is applied.
type rule struct {
	name    string
	pattern *regexp.Regexp
	replace string
}

// The table is ordered most-specific first so that two-character prefixes
// win over the generic single-character corrections below them. Every
// replacement lands on a terminal shape no later rule matches, which keeps
// Correct idempotent.
var rules = []rule{
	{"J2-misread-as-32", regexp.MustCompile(`^32(\d{6})$`), "J2$1"},
	{"J-misread-as-3", regexp.MustCompile(`^3(\d{7})$`), "J$1"},
	{"G-misread-as-6", regexp.MustCompile(`^6(\d{7})$`), "G$1"},
	{"G-misread-as-0", regexp.MustCompile(`^0(\d{7})$`), "G$1"},
	{"L1-misread-as-11", regexp.MustCompile(`^11(\d{6})$`), "L1$1"},
	{"L2-misread-as-12", regexp.MustCompile(`^12(\d{6})$`), "L2$1"},
	{"L-misread-as-1", regexp.MustCompile(`^1(\d{7})$`), "L$1"},
	{"L-misread-as-I", regexp.MustCompile(`^I(\d{7})$`), "L$1"},
	{"Y1-misread-as-YL", regexp.MustCompile(`^YL(\d{6})$`), "Y1$1"},
	{"L-truncated-pad-zero", regexp.MustCompile(`^L(\d{6})$`), "L${1}0"},
}

// Correct applies the OCR-confusion table to a candidate file number and
// returns the corrected value, or the normalized input unchanged when no
// rule matches. It is pure and idempotent.
func Correct(candidate string) string {
	corrected, _ := CorrectWithReason(candidate)
	return corrected
}

// CorrectWithReason is Correct plus the name of the rule that fired, for
// audit logging. The reason is empty when no correction was applied.
func CorrectWithReason(candidate string) (string, string) {
	cleaned := Normalize(candidate)
	if cleaned == "" {
		return cleaned, ""
	}
	for _, r := range rules {
		if r.pattern.MatchString(cleaned) {
			return r.pattern.ReplaceAllString(cleaned, r.replace), r.name
		}
	}
	return cleaned, ""
}

// Normalize upper-cases a candidate and strips every non-alphanumeric
// character, the canonical form file numbers are compared in.
func Normalize(candidate string) string {
	var b strings.Builder
	for _, c := range strings.ToUpper(strings.TrimSpace(candidate)) {
		if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			b.WriteRune(c)
		}
	}
	return b.String()
}

// Strict is the post-processing variant of the corrector. On top of the
// shared confusion table it range-checks the two-digit year embedded in
// L/J-prefixed file numbers against a plausible window and clamps
// implausible years to the nearest plausible one.
type Strict struct {
	MinYear int
	MaxYear int
}

// NewStrict builds a Strict corrector whose plausible-year window ends at
// the given time's year. The floor matches the oldest files still in
// circulation.
func NewStrict(now time.Time) Strict {
	return Strict{MinYear: 20, MaxYear: now.Year() % 100}
}

var yearPrefixed = regexp.MustCompile(`^([LJ])(\d{2})(\d{5,6})$`)

// Correct applies the base table and then the year plausibility check.
// Like Correct it is pure and idempotent.
func (s Strict) Correct(candidate string) string {
	corrected, _ := s.CorrectWithReason(candidate)
	return corrected
}

// CorrectWithReason is Correct plus the audit reason, empty when the
// candidate was already plausible.
func (s Strict) CorrectWithReason(candidate string) (string, string) {
	corrected, reason := CorrectWithReason(candidate)
	m := yearPrefixed.FindStringSubmatch(corrected)
	if m == nil {
		return corrected, reason
	}
	year, err := strconv.Atoi(m[2])
	if err != nil || (year >= s.MinYear && year <= s.MaxYear) {
		return corrected, reason
	}
	clamped := s.MaxYear
	if year < s.MinYear {
		clamped = s.MinYear
	}
	corrected = m[1] + strconv.Itoa(clamped) + m[3]
	if reason != "" {
		reason += "+implausible-year-clamped"
	} else {
		reason = "implausible-year-clamped"
	}
	return corrected, reason
}
