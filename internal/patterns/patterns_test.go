package patterns

import "testing"

func TestExtractFileNumber_LabeledForms(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"Attorney for Judgment Creditor\nFile No. L1800998", "L1800998"},
		{"Firm File No: L2501375", "L2501375"},
		{"Our File No. JM221025", "JM221025"},
		{"File Number: 12345678", "12345678"},
		{"Account Number: L2400117", "L2400117"},
		{"File # Y1240112", "Y1240112"},
		{"file no. l2501375", "L2501375"}, // case-insensitive
	}
	for _, tc := range cases {
		if got := ExtractFileNumber(tc.text); got != tc.want {
			t.Errorf("ExtractFileNumber(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestExtractFileNumber_AppliesOCRCorrection(t *testing.T) {
	if got := ExtractFileNumber("File No. 12501375"); got != "L2501375" {
		t.Fatalf("got %q, want L2501375", got)
	}
}

func TestExtractFileNumber_Negative(t *testing.T) {
	cases := []string{
		"",
		"no identifiers here at all",
		"Index No. CV-2024-1182",       // index numbers are a different namespace
		"File No. 12345",               // too short after normalization
		"Please file no later than...", // label without a number
	}
	for _, text := range cases {
		if got := ExtractFileNumber(text); got != "" {
			t.Errorf("ExtractFileNumber(%q) = %q, want empty", text, got)
		}
	}
}

func TestExtractIndexNumber(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"Index No. CV-2024-1182", "CV-2024-1182"},
		{"Case No: EF2023/1181", "EF2023/1181"},
		{"Index No. 712345/2024", "712345/2024"},
		{"Index No. 12-34", ""}, // too short
		{"nothing", ""},
	}
	for _, tc := range cases {
		if got := ExtractIndexNumber(tc.text); got != tc.want {
			t.Errorf("ExtractIndexNumber(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestIsDocumentStart(t *testing.T) {
	if !IsDocumentStart("INFORMATION SUBPOENA WITH RESTRAINING NOTICE\nSupreme Court") {
		t.Error("full marker not detected")
	}
	// Truncated variant: title split across lines by the OCR.
	if !IsDocumentStart("information subpoena with\nrestraining notice") {
		t.Error("truncated marker not detected")
	}
	if IsDocumentStart("NOTICE OF MOTION") {
		t.Error("false positive on unrelated notice")
	}
}

func TestIsContinuation(t *testing.T) {
	if !IsContinuation("EXEMPTION CLAIM FORM\nTo the judgment debtor:") {
		t.Error("continuation marker not detected")
	}
	if IsContinuation("regular page content") {
		t.Error("false positive")
	}
}

func TestIsBlank(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"", true},
		{"   \n\t  ", true},
		{"a b c", true}, // under the noise threshold
		{"This Page Intentionally Left Blank", true},
		{"scanner noise [blank] artifact lines", true},
		{"INFORMATION SUBPOENA WITH RESTRAINING NOTICE", false},
	}
	for _, tc := range cases {
		if got := IsBlank(tc.text); got != tc.want {
			t.Errorf("IsBlank(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestIsValidFileNumber(t *testing.T) {
	valid := []string{"L2501375", "JM221025", "12345678"}
	for _, v := range valid {
		if !IsValidFileNumber(v) {
			t.Errorf("IsValidFileNumber(%q) = false, want true", v)
		}
	}
	invalid := []string{"", "L25013", "LLL25013", "L25013756", "CV-2024-1182", "l2501375"}
	for _, v := range invalid {
		if IsValidFileNumber(v) {
			t.Errorf("IsValidFileNumber(%q) = true, want false", v)
		}
	}
}

func TestSanitizeIdentifier(t *testing.T) {
	if got := SanitizeIdentifier("CV-2024-1182"); got != "CV20241182" {
		t.Fatalf("got %q, want CV20241182", got)
	}
	if got := SanitizeIdentifier("712345/2024"); got != "7123452024" {
		t.Fatalf("got %q, want 7123452024", got)
	}
}
