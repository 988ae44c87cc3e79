package extract

import "fmt"

// FieldPrompt instructs the oracle to return one JSON object with the
// fixed field set. The same prompt is used for both tiers; the vision
// tier attaches the raw document instead of extracted text.
const FieldPrompt = `Extract the following financial fields from this earnings document. Return a single JSON object with exactly these keys:

- "company_name": the reporting company's name (string)
- "quarter": the reporting period, e.g. "Q3 2025" (string)
- "revenue": total revenue, e.g. "$17.1B" (string)
- "eps": diluted earnings per share, e.g. "$1.64" (string)
- "net_income": net income (string)
- "operating_income": operating income (string)
- "gross_margin": gross margin, e.g. "46.2%" (string)
- "operating_expenses": operating expenses (string)
- "capital_return": buybacks and dividends summary, e.g. "$3.5B buybacks, $0.9B dividends" (string)

Rules:
- Use null for any field the document does not state. Do not estimate or compute values.
- Keep shorthand money formats as written ("$17.1B", "$433M").
- For capital_return, report only amounts actually returned in the period.

Respond with ONLY the JSON object, no other text.`

// BuildPrompt appends the document's display name for context.
func BuildPrompt(displayName string) string {
	if displayName == "" {
		return FieldPrompt
	}
	return FieldPrompt + fmt.Sprintf("\n\nDocument: %q", displayName)
}
