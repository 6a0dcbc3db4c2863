// Package classify labels a detected document: its type code, its
// jurisdiction, and the debtor it concerns. Labels feed output naming and
// the run summary; they never change span boundaries.
package classify

import (
	"regexp"
	"strings"
)

// Family is a forced processing family supplied by the operator. It
// bypasses content-based type detection entirely.
type Family string

const (
	FamilyLTD Family = "LTD"
	FamilyIS  Family = "IS"
	FamilyPI  Family = "PI"
)

// ParseFamily validates an operator-supplied family string.
func ParseFamily(s string) (Family, bool) {
	switch Family(strings.ToUpper(strings.TrimSpace(s))) {
	case FamilyLTD:
		return FamilyLTD, true
	case FamilyIS:
		return FamilyIS, true
	case FamilyPI:
		return FamilyPI, true
	}
	return "", false
}

// Document type codes used in output filenames and the manifest.
const (
	TypeIS      = "IS"
	TypeLTD     = "LTD"
	TypeREGF    = "REGF"
	TypeAFF     = "AFF"
	TypeICD     = "ICD"
	TypeNotice  = "NOTICE"
	TypeSummons = "SUMMONS"
	TypeMotion  = "MOTION"
	TypeUnknown = "UNKNOWN"
)

// typeRule pairs a type code with the lowercased terms that indicate it.
// Rules are evaluated in order; the first rule with any term present
// wins, so more specific types come first.
type typeRule struct {
	code  string
	terms []string
}

var typeRules = []typeRule{
	{TypeIS, []string{"information subpoena with restraining notice"}},
	{TypeREGF, []string{"registration", "register", "filing"}},
	{TypeAFF, []string{"affidavit", "sworn", "notarized"}},
	{TypeICD, []string{"initial", "complaint", "petition"}},
	{TypeNotice, []string{"notice", "notification"}},
	{TypeSummons, []string{"summons", "subpoena"}},
	{TypeMotion, []string{"motion", "brief"}},
}

// DocumentType classifies by content, with the source filename consulted
// first: mailroom scan batches named REG_F_SCAN are always collection
// letters regardless of page content.
func DocumentType(text, filename string) string {
	if strings.Contains(strings.ToUpper(filename), "REG_F_SCAN") {
		return TypeLTD
	}
	lower := strings.ToLower(text)
	for _, r := range typeRules {
		for _, term := range r.terms {
			if strings.Contains(lower, term) {
				return r.code
			}
		}
	}
	return TypeUnknown
}

var (
	nyIndicators = []string{"new york", "ny ", "n.y.", "state of new york", "county of"}
	njIndicators = []string{"new jersey", "nj ", "n.j.", "state of new jersey", "superior court"}
)

// Jurisdiction scores NY against NJ indicator terms. Returns "" on a tie,
// including the no-evidence case.
func Jurisdiction(text string) string {
	lower := strings.ToLower(text)
	score := func(terms []string) int {
		n := 0
		for _, t := range terms {
			if strings.Contains(lower, t) {
				n++
			}
		}
		return n
	}
	ny, nj := score(nyIndicators), score(njIndicators)
	switch {
	case ny > nj:
		return "NY"
	case nj > ny:
		return "NJ"
	}
	return ""
}

var (
	debtorPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?im)^To:\s*(.+?)\s*$`),
		regexp.MustCompile(`(?im)^Debtor:\s*(.+?)\s*$`),
		regexp.MustCompile(`(?im)^Re:\s*(.+?)\s*$`),
		regexp.MustCompile(`(?im)^Defendant:\s*(.+?)\s*$`),
	}
	spaceRun    = regexp.MustCompile(`\s+`)
	nameCharset = regexp.MustCompile(`[^\w\s,.-]`)
)

// DebtorName pulls the debtor's name from addressing lines. Candidates
// shorter than 3 or longer than 99 characters after cleanup are noise
// (initials, or a paragraph the label line ran into) and are skipped.
func DebtorName(text string) string {
	for _, p := range debtorPatterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		name := spaceRun.ReplaceAllString(strings.TrimSpace(m[1]), " ")
		name = nameCharset.ReplaceAllString(name, "")
		if len(name) > 2 && len(name) < 100 {
			return name
		}
	}
	return ""
}

// Auto-detection weights. Primary IS markers count full; secondary IS
// markers and LTD letter furniture are weaker signals.
const (
	isPrimaryWeight   = 1.0
	isSecondaryWeight = 0.3
	ltdWeight         = 0.5
)

var (
	isPrimaryTerms   = []string{"information subpoena with restraining notice"}
	isSecondaryTerms = []string{"exemption claim form", "file no."}
	ltdTerms         = []string{"our file number:", "file number:", "to:", "notice of", "legal notice"}
)

// AutoDetect decides between the IS and LTD processing families from the
// text of the leading pages. Any primary IS hit outranks any amount of
// LTD evidence. The confidence is the matched share of the maximum
// attainable score for the winning family, capped at 1.
func AutoDetect(pageTexts []string) (Family, float64) {
	var isScore, ltdScore float64
	for _, text := range pageTexts {
		lower := strings.ToLower(text)
		for _, t := range isPrimaryTerms {
			if strings.Contains(lower, t) {
				isScore += isPrimaryWeight
			}
		}
		for _, t := range isSecondaryTerms {
			if strings.Contains(lower, t) {
				isScore += isSecondaryWeight
			}
		}
		for _, t := range ltdTerms {
			if strings.Contains(lower, t) {
				ltdScore += ltdWeight
			}
		}
	}
	n := float64(len(pageTexts))
	switch {
	case isScore >= isPrimaryWeight:
		denom := n*isPrimaryWeight + n*isSecondaryWeight*float64(len(isSecondaryTerms))
		return FamilyIS, capped(isScore / denom)
	case ltdScore > 0:
		denom := n * ltdWeight * float64(len(ltdTerms))
		return FamilyLTD, capped(ltdScore / denom)
	}
	return "", 0
}

func capped(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}
