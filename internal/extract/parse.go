package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ParseError indicates the oracle replied but not in the expected
// structured form. Parse failures are terminal for the document and
// never retried.
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string {
	return "parse reply: " + e.Msg
}

var codeBlockRe = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

func stripCodeBlock(s string) string {
	s = strings.TrimSpace(s)
	if m := codeBlockRe.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}
	return s
}

// ParseReply turns a raw oracle reply into an ExtractionRecord. It
// first attempts a strict parse of the whole reply; if that fails it
// extracts the first balanced brace-delimited substring and parses
// that. Both failing is a terminal *ParseError.
func ParseReply(raw string) (*ExtractionRecord, error) {
	text := stripCodeBlock(raw)

	fields, err := decodeObject(text)
	if err != nil {
		candidate, ok := firstJSONObject(text)
		if !ok {
			return nil, &ParseError{Msg: fmt.Sprintf("no JSON object in reply: %s", truncate(raw, 200))}
		}
		fields, err = decodeObject(candidate)
		if err != nil {
			return nil, &ParseError{Msg: err.Error()}
		}
	}

	return mapToRecord(fields), nil
}

// decodeObject parses s as a single JSON object and checks its shape
// against the reply schema (string, number, or null per field).
func decodeObject(s string) (map[string]any, error) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("reply is not a JSON object")
	}
	if err := replySchema.Validate(v); err != nil {
		return nil, fmt.Errorf("reply shape: %w", err)
	}
	return obj, nil
}

// firstJSONObject scans for the first balanced {...} substring,
// honoring string literals and escapes.
func firstJSONObject(s string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i, r := range s {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}
		switch r {
		case '"':
			inString = true
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 {
					return s[start : i+1], true
				}
			}
		}
	}
	return "", false
}

// mapToRecord maps a decoded reply object onto the fixed record shape.
// Numbers the oracle emitted without quoting are stringified; empty
// strings and null-ish placeholders collapse to absent.
func mapToRecord(fields map[string]any) *ExtractionRecord {
	get := func(keys ...string) *string {
		for _, k := range keys {
			v, ok := fields[k]
			if !ok {
				continue
			}
			if s := stringify(v); s != nil {
				return s
			}
		}
		return nil
	}

	return &ExtractionRecord{
		Company:           get("company_name", "company"),
		Quarter:           get("quarter", "reporting_period"),
		Revenue:           get("revenue"),
		EPS:               get("eps", "earnings_per_share"),
		NetIncome:         get("net_income"),
		OperatingIncome:   get("operating_income"),
		GrossMargin:       get("gross_margin"),
		OperatingExpenses: get("operating_expenses", "opex"),
		CapitalReturn:     get("capital_return", "buybacks_dividends"),
	}
}

func stringify(v any) *string {
	var s string
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		s = strings.TrimSpace(t)
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return nil
	default:
		return nil
	}
	if s == "" || strings.EqualFold(s, "null") || strings.EqualFold(s, "n/a") || strings.EqualFold(s, "none") {
		return nil
	}
	return &s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
