package classify

import "testing"

func TestDocumentType(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		filename string
		want     string
	}{
		{"information subpoena", "INFORMATION SUBPOENA WITH RESTRAINING NOTICE\nSupreme Court", "", TypeIS},
		{"subpoena marker beats summons terms", "Information Subpoena with Restraining Notice and summons", "", TypeIS},
		{"affidavit", "AFFIDAVIT OF SERVICE\nSworn before me this day", "", TypeAFF},
		{"complaint", "The complaint alleges nonpayment of the account.", "", TypeICD},
		{"notice", "Notice of Entry served upon all parties.", "", TypeNotice},
		{"summons", "SUMMONS directing the defendant to appear.", "", TypeSummons},
		{"motion", "Movant submits this brief in support of the motion to compel.", "", TypeMotion},
		{"no signals", "Quarterly account statement enclosed herewith.", "", TypeUnknown},
		{"scan batch filename wins", "AFFIDAVIT OF SERVICE", "REG_F_SCAN_20250612.pdf", TypeLTD},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DocumentType(tt.text, tt.filename); got != tt.want {
				t.Errorf("DocumentType(%q, %q) = %q, want %q", tt.text, tt.filename, got, tt.want)
			}
		})
	}
}

func TestJurisdiction(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"new york court", "Supreme Court of the State of New York, County of Kings", "NY"},
		{"new jersey court", "Superior Court of New Jersey, Law Division", "NJ"},
		{"abbreviated ny", "Brooklyn, NY 11201", "NY"},
		{"no evidence", "Payment is due within thirty days.", ""},
		{"balanced evidence", "ny n.j.", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Jurisdiction(tt.text); got != tt.want {
				t.Errorf("Jurisdiction(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestDebtorName(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"to line", "To: John Q. Public\n123 Main Street", "John Q. Public"},
		{"debtor label", "Debtor: ACME SUPPLY CORP\nAmount due: $1,200", "ACME SUPPLY CORP"},
		{"re line with noise", "Re:   Jane   Roe*\nIndex No. 451234/2024", "Jane Roe"},
		{"too short", "To: JQ\nsomething", ""},
		{"none present", "This page has no addressing lines at all.", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DebtorName(tt.text); got != tt.want {
				t.Errorf("DebtorName(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestParseFamily(t *testing.T) {
	for in, want := range map[string]Family{"ltd": FamilyLTD, "IS": FamilyIS, " pi ": FamilyPI} {
		got, ok := ParseFamily(in)
		if !ok || got != want {
			t.Errorf("ParseFamily(%q) = %q, %v; want %q, true", in, got, ok, want)
		}
	}
	if _, ok := ParseFamily("REGF"); ok {
		t.Error("ParseFamily accepted an unknown family")
	}
}

func TestAutoDetect(t *testing.T) {
	t.Run("primary marker forces IS", func(t *testing.T) {
		pages := []string{
			"INFORMATION SUBPOENA WITH RESTRAINING NOTICE",
			"Our File Number: L2501375\nTo: John Doe",
		}
		family, conf := AutoDetect(pages)
		if family != FamilyIS {
			t.Fatalf("family = %q, want IS", family)
		}
		if conf <= 0 || conf > 1 {
			t.Errorf("confidence = %v, want in (0,1]", conf)
		}
	})

	t.Run("letter furniture means LTD", func(t *testing.T) {
		pages := []string{"Our File Number: L2501375\nTo: John Doe\nNotice of assignment"}
		family, conf := AutoDetect(pages)
		if family != FamilyLTD {
			t.Fatalf("family = %q, want LTD", family)
		}
		if conf <= 0 {
			t.Errorf("confidence = %v, want > 0", conf)
		}
	})

	t.Run("no signals", func(t *testing.T) {
		family, conf := AutoDetect([]string{"Unrelated content with no markers."})
		if family != "" || conf != 0 {
			t.Errorf("got %q, %v; want empty family, zero confidence", family, conf)
		}
	})

	t.Run("secondary alone does not force IS", func(t *testing.T) {
		family, _ := AutoDetect([]string{"File No. L2501375\nTo: John Doe"})
		if family == FamilyIS {
			t.Error("secondary IS markers alone should not win over LTD evidence")
		}
	})
}
