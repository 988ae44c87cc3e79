package extract

import (
	"fmt"
	"math"
)

// ValidationOutcome lists problems found in an ExtractionRecord.
// Errors make the record unusable; warnings mark it suspicious but
// usable. Derived purely from the record, no mutation.
type ValidationOutcome struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Valid reports whether the record is usable (no errors).
func (v ValidationOutcome) Valid() bool {
	return len(v.Errors) == 0
}

// Validate checks an ExtractionRecord for structural and semantic
// plausibility. Each rule is independent; only missing company and
// missing quarter are fatal.
func Validate(rec *ExtractionRecord) ValidationOutcome {
	var out ValidationOutcome

	if !rec.HasCompany() {
		out.Errors = append(out.Errors, "missing company name")
	}
	if !rec.HasQuarter() {
		out.Errors = append(out.Errors, "missing quarter")
	}

	if rec.GrossMargin != nil {
		if m, ok := ParsePercent(*rec.GrossMargin); ok && (m < 0 || m > 1) {
			out.Warnings = append(out.Warnings, fmt.Sprintf("gross margin %q outside [0%%, 100%%]", *rec.GrossMargin))
		}
	}

	if rec.EPS != nil {
		if eps, ok := ParseMoney(*rec.EPS); ok && math.Abs(eps) > 100 {
			out.Warnings = append(out.Warnings, fmt.Sprintf("EPS %q unusually high", *rec.EPS))
		}
	}

	var revenue float64
	revenueOK := false
	if rec.Revenue != nil {
		if r, ok := ParseMoney(*rec.Revenue); ok {
			revenue, revenueOK = r, true
			if r < 0 {
				out.Warnings = append(out.Warnings, fmt.Sprintf("revenue %q is negative", *rec.Revenue))
			}
		}
	}

	if rec.NetIncome != nil && revenueOK {
		if ni, ok := ParseMoney(*rec.NetIncome); ok && ni > revenue {
			out.Warnings = append(out.Warnings, fmt.Sprintf("net income %q exceeds revenue %q", *rec.NetIncome, *rec.Revenue))
		}
	}

	if rec.FinancialFieldCount() == 0 {
		out.Warnings = append(out.Warnings, "no financial data extracted")
	}

	return out
}
