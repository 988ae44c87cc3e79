package extract

// ExtractionRecord is the fixed set of financial fields pulled from one
// earnings document. A nil pointer means the oracle reported the field
// as absent from the source; records are never partially written.
type ExtractionRecord struct {
	Company           *string `json:"company_name"`
	Quarter           *string `json:"quarter"`
	Revenue           *string `json:"revenue"`
	EPS               *string `json:"eps"`
	NetIncome         *string `json:"net_income"`
	OperatingIncome   *string `json:"operating_income"`
	GrossMargin       *string `json:"gross_margin"`
	OperatingExpenses *string `json:"operating_expenses"`
	CapitalReturn     *string `json:"capital_return"`
}

// FinancialFieldCount returns how many of the seven financial fields
// (everything except company and quarter) are present.
func (r *ExtractionRecord) FinancialFieldCount() int {
	n := 0
	for _, f := range []*string{
		r.Revenue, r.EPS, r.NetIncome, r.OperatingIncome,
		r.GrossMargin, r.OperatingExpenses, r.CapitalReturn,
	} {
		if f != nil {
			n++
		}
	}
	return n
}

// HasCompany reports whether the company identifier is present and non-empty.
func (r *ExtractionRecord) HasCompany() bool {
	return r.Company != nil && *r.Company != ""
}

// HasQuarter reports whether the reporting period is present and non-empty.
func (r *ExtractionRecord) HasQuarter() bool {
	return r.Quarter != nil && *r.Quarter != ""
}

// FieldNames lists the record fields in export column order.
var FieldNames = []string{
	"Company Name",
	"Quarter",
	"Revenue",
	"EPS",
	"Net Income",
	"Operating Income",
	"Gross Margin",
	"Operating Expenses",
	"Capital Return",
}

// FieldValues returns the record's values in FieldNames order, with
// empty strings for absent fields.
func (r *ExtractionRecord) FieldValues() []string {
	deref := func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	}
	return []string{
		deref(r.Company),
		deref(r.Quarter),
		deref(r.Revenue),
		deref(r.EPS),
		deref(r.NetIncome),
		deref(r.OperatingIncome),
		deref(r.GrossMargin),
		deref(r.OperatingExpenses),
		deref(r.CapitalReturn),
	}
}
