// Package patterns holds the ordered extraction rules that pull firm file
// numbers, court index numbers and boundary markers out of noisy page
// text. Rules live in declarative tables consumed by a single first-match
// evaluator so each rule stays independently testable.
package patterns

import (
	"regexp"
	"strings"

	"github.com/legaldocflow/mailroom/internal/corrector"
)

// Rule is one labeled extraction pattern. The first capture group is the
// candidate identifier.
type Rule struct {
	Label   string
	Pattern *regexp.Regexp
}

// File-number rules, most conclusive label first. These match firm file
// numbers only; court index numbers are a different namespace handled by
// indexNumberRules and must never leak into this table.
var fileNumberRules = []Rule{
	{"firm-file-no", regexp.MustCompile(`(?i)Firm\s+File\s+No[.:]?\s*([A-Z]{0,2}\d{6,8})`)},
	{"file-no", regexp.MustCompile(`(?i)File\s*No[.:]?\s*([A-Z]{0,2}\d{6,8})`)},
	{"file-number", regexp.MustCompile(`(?i)File\s+Number[.:]?\s*([A-Z]{0,2}\d{6,8})`)},
	{"our-file-no", regexp.MustCompile(`(?i)Our\s+File\s+No[.:]?\s*([A-Z]{0,2}\d{6,8})`)},
	{"attorney-file-no", regexp.MustCompile(`(?i)Attorney\s+File\s+No[.:]?\s*([A-Z]{0,2}\d{6,8})`)},
	{"client-file-no", regexp.MustCompile(`(?i)Client\s+File\s+No[.:]?\s*([A-Z]{0,2}\d{6,8})`)},
	{"account-number", regexp.MustCompile(`(?i)Account\s+Number[.:]?\s*([A-Z]{0,2}\d{6,8})`)},
	{"account-no", regexp.MustCompile(`(?i)Account\s+No[.:]?\s*([A-Z]{0,2}\d{6,8})`)},
	{"file-hash", regexp.MustCompile(`(?i)(?:File|Firm)\s*#\s*([A-Z]{0,2}\d{6,8})`)},
}

// Index-number rules. Coarser charset: court index numbers carry hyphens
// and slashes (CV-2024-1182, EF2023/118).
var indexNumberRules = []Rule{
	{"index-no", regexp.MustCompile(`(?i)Index\s+No[.:]?\s*([A-Z0-9][A-Z0-9\-/]+)`)},
	{"case-no", regexp.MustCompile(`(?i)Case\s+No[.:]?\s*([A-Z0-9][A-Z0-9\-/]+)`)},
}

// Document-start markers. The truncated variant tolerates the title being
// split across lines by the OCR.
var startMarkers = []string{
	"INFORMATION SUBPOENA WITH RESTRAINING NOTICE",
	"INFORMATION SUBPOENA WITH",
}

// Continuation markers flag pages that belong to the preceding document
// even though they open with their own title.
var continuationMarkers = []string{
	"EXEMPTION CLAIM FORM",
}

var blankIndicators = []string{
	"this page intentionally left blank",
	"blank page",
	"[blank]",
}

// The three shapes a verified firm file number can take.
var validShapes = []*regexp.Regexp{
	regexp.MustCompile(`^[A-Z]\d{7}$`),
	regexp.MustCompile(`^[A-Z]{2}\d{6}$`),
	regexp.MustCompile(`^\d{8}$`),
}

const (
	minIdentifierLen = 6
	maxIdentifierLen = 8

	// OCR noise on a genuinely blank scanned page still yields a few
	// stray characters, so blankness is a threshold rather than zero.
	blankCharThreshold = 10
)

// firstMatch runs an ordered rule table against text and returns the rule
// that fired and its captured candidate.
func firstMatch(rules []Rule, text string) (Rule, string, bool) {
	for _, r := range rules {
		if m := r.Pattern.FindStringSubmatch(text); m != nil {
			return r, m[1], true
		}
	}
	return Rule{}, "", false
}

// ExtractFileNumber pulls a firm file number out of page text. The raw
// match is normalized, run through OCR correction and length-checked.
// Returns "" when no rule yields an acceptable candidate. There is
// deliberately no fallback to index numbers here.
func ExtractFileNumber(text string) string {
	n, _ := ExtractFileNumberWithLabel(text)
	return n
}

// ExtractFileNumberWithLabel is ExtractFileNumber plus the label of the
// rule that matched, for debug logging.
func ExtractFileNumberWithLabel(text string) (string, string) {
	rule, raw, ok := firstMatch(fileNumberRules, text)
	if !ok {
		return "", ""
	}
	candidate := corrector.Correct(raw)
	if len(candidate) < minIdentifierLen || len(candidate) > maxIdentifierLen {
		return "", ""
	}
	return candidate, rule.Label
}

// ExtractIndexNumber pulls a court index or case number, used only as a
// boundary-change signal and for naming incomplete placeholders.
func ExtractIndexNumber(text string) string {
	if _, raw, ok := firstMatch(indexNumberRules, text); ok {
		candidate := strings.ToUpper(strings.TrimSpace(raw))
		candidate = strings.Trim(candidate, "-/")
		if len(candidate) >= minIdentifierLen {
			return candidate
		}
	}
	return ""
}

// IsDocumentStart reports whether the page text contains one of the
// literal document-start marker phrases.
func IsDocumentStart(text string) bool {
	return containsAny(text, startMarkers)
}

// IsContinuation reports whether the page belongs to the preceding
// document despite carrying its own title block.
func IsContinuation(text string) bool {
	return containsAny(text, continuationMarkers)
}

// IsBlank reports whether a page should be treated as blank: fewer than
// blankCharThreshold non-whitespace characters, or an explicit blank-page
// phrase in the text.
func IsBlank(text string) bool {
	stripped := strings.Join(strings.Fields(text), "")
	if len(stripped) < blankCharThreshold {
		return true
	}
	lower := strings.ToLower(text)
	for _, ind := range blankIndicators {
		if strings.Contains(lower, ind) {
			return true
		}
	}
	return false
}

// IsValidFileNumber reports whether an already-normalized candidate
// matches one of the three verified file-number shapes.
func IsValidFileNumber(candidate string) bool {
	for _, shape := range validShapes {
		if shape.MatchString(candidate) {
			return true
		}
	}
	return false
}

// SanitizeIdentifier reduces an identifier to the characters safe for a
// file name, dropping path separators and punctuation.
func SanitizeIdentifier(id string) string {
	var b strings.Builder
	for _, c := range strings.ToUpper(id) {
		if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			b.WriteRune(c)
		}
	}
	return b.String()
}

func containsAny(text string, markers []string) bool {
	upper := strings.ToUpper(text)
	for _, m := range markers {
		if strings.Contains(upper, m) {
			return true
		}
	}
	return false
}
