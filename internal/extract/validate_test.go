package extract

import (
	"strings"
	"testing"
)

func sp(s string) *string { return &s }

func findMsg(msgs []string, substr string) bool {
	for _, m := range msgs {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}

func TestValidate_CleanRecord(t *testing.T) {
	out := Validate(&ExtractionRecord{
		Company:     sp("Acme Corp"),
		Quarter:     sp("Q3 2025"),
		Revenue:     sp("$17.1B"),
		NetIncome:   sp("$4.3B"),
		EPS:         sp("1.64"),
		GrossMargin: sp("55%"),
	})
	if !out.Valid() {
		t.Fatalf("expected valid, errors: %v", out.Errors)
	}
	if len(out.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", out.Warnings)
	}
}

func TestValidate_MissingCompanyAndQuarter(t *testing.T) {
	out := Validate(&ExtractionRecord{Revenue: sp("$1B")})
	if out.Valid() {
		t.Fatal("expected errors")
	}
	if !findMsg(out.Errors, "company") {
		t.Errorf("missing company error absent: %v", out.Errors)
	}
	if !findMsg(out.Errors, "quarter") {
		t.Errorf("missing quarter error absent: %v", out.Errors)
	}
}

func TestValidate_MarginOutOfRange(t *testing.T) {
	out := Validate(&ExtractionRecord{
		Company:     sp("Acme"),
		Quarter:     sp("Q1"),
		GrossMargin: sp("150%"),
	})
	if !out.Valid() {
		t.Fatalf("out-of-range margin must warn, not error: %v", out.Errors)
	}
	if !findMsg(out.Warnings, "gross margin") {
		t.Errorf("expected margin warning, got %v", out.Warnings)
	}
}

func TestValidate_ExtremeEPS(t *testing.T) {
	out := Validate(&ExtractionRecord{
		Company: sp("Acme"),
		Quarter: sp("Q1"),
		EPS:     sp("-250"),
	})
	if !findMsg(out.Warnings, "EPS") {
		t.Errorf("expected EPS warning, got %v", out.Warnings)
	}
}

func TestValidate_NegativeRevenue(t *testing.T) {
	out := Validate(&ExtractionRecord{
		Company: sp("Acme"),
		Quarter: sp("Q1"),
		Revenue: sp("($2.5B)"),
	})
	if !findMsg(out.Warnings, "negative") {
		t.Errorf("expected negative-revenue warning, got %v", out.Warnings)
	}
}

func TestValidate_NetIncomeExceedsRevenue(t *testing.T) {
	out := Validate(&ExtractionRecord{
		Company:   sp("Acme"),
		Quarter:   sp("Q1"),
		Revenue:   sp("$3B"),
		NetIncome: sp("$5B"),
	})
	if !findMsg(out.Warnings, "exceeds revenue") {
		t.Errorf("expected net-income warning, got %v", out.Warnings)
	}
}

func TestValidate_NetIncomeCheckNeedsParsableRevenue(t *testing.T) {
	out := Validate(&ExtractionRecord{
		Company:   sp("Acme"),
		Quarter:   sp("Q1"),
		Revenue:   sp("strong"),
		NetIncome: sp("$5B"),
	})
	if findMsg(out.Warnings, "exceeds revenue") {
		t.Errorf("comparison should be skipped for unparsable revenue: %v", out.Warnings)
	}
}

func TestValidate_NoFinancialData(t *testing.T) {
	out := Validate(&ExtractionRecord{
		Company: sp("Acme"),
		Quarter: sp("Q1"),
	})
	if !out.Valid() {
		t.Fatalf("identity-only record is still usable: %v", out.Errors)
	}
	if !findMsg(out.Warnings, "no financial data") {
		t.Errorf("expected no-data warning, got %v", out.Warnings)
	}
}

func TestFinancialFieldCount(t *testing.T) {
	rec := &ExtractionRecord{
		Company: sp("Acme"),
		Quarter: sp("Q1"),
		Revenue: sp("$1B"),
		EPS:     sp("1.00"),
	}
	if got := rec.FinancialFieldCount(); got != 2 {
		t.Errorf("count = %d, want 2 (company and quarter excluded)", got)
	}
}
