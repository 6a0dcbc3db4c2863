package services

import (
	"testing"

	"github.com/legaldocflow/mailroom/internal/classify"
	"github.com/legaldocflow/mailroom/internal/detector"
	"github.com/legaldocflow/mailroom/internal/models"
)

func TestSpanText(t *testing.T) {
	pages := []models.Page{
		{Index: 0, Text: "first"},
		{Index: 1, Text: ""},
		{Index: 2, Text: "second"},
		{Index: 3, Text: "third"},
		{Index: 4, Text: "fourth"},
	}
	span := models.DocumentSpan{StartPage: 0, EndPage: 4}

	got := spanText(pages, span, 3)
	if got != "first\nsecond\nthird" {
		t.Errorf("spanText = %q", got)
	}
}

func TestLabelForcedFamily(t *testing.T) {
	result := &detector.Result{
		Spans: []models.DocumentSpan{{StartPage: 0, EndPage: 1, FileNumber: "L2501375"}},
		Pages: []models.Page{
			{Index: 0, Text: "AFFIDAVIT OF SERVICE\nState of New York, County of Kings\nTo: John Q. Public"},
			{Index: 1, Text: "sworn before me"},
		},
	}
	p := NewProcessor(ProcessorConfig{}, nil, nil)

	inputs := p.label(result, classify.FamilyIS, "scan.pdf")
	if len(inputs) != 1 {
		t.Fatalf("got %d inputs", len(inputs))
	}
	if inputs[0].Type != "IS" {
		t.Errorf("forced family ignored, type = %q", inputs[0].Type)
	}
	if inputs[0].Jurisdiction != "NY" {
		t.Errorf("jurisdiction = %q, want NY", inputs[0].Jurisdiction)
	}
	if inputs[0].DebtorName != "John Q. Public" {
		t.Errorf("debtor = %q", inputs[0].DebtorName)
	}
}

func TestLabelContentClassification(t *testing.T) {
	result := &detector.Result{
		Spans: []models.DocumentSpan{{StartPage: 0, EndPage: 0, FileNumber: "L2501375"}},
		Pages: []models.Page{
			{Index: 0, Text: "AFFIDAVIT OF SERVICE\nSworn before me this 12th day of June"},
		},
	}
	p := NewProcessor(ProcessorConfig{}, nil, nil)

	inputs := p.label(result, "", "mailbag.pdf")
	if inputs[0].Type != classify.TypeAFF {
		t.Errorf("type = %q, want AFF", inputs[0].Type)
	}
}
