package extract

import "github.com/santhosh-tekuri/jsonschema/v5"

// replySchema constrains the shape of an oracle reply before field
// mapping: every known field must be a string, number, or null.
// Presence requirements are the validator's job, not the schema's.
var replySchema = jsonschema.MustCompileString("reply.json", `{
	"type": "object",
	"properties": {
		"company_name":       {"type": ["string", "number", "null"]},
		"quarter":            {"type": ["string", "number", "null"]},
		"revenue":            {"type": ["string", "number", "null"]},
		"eps":                {"type": ["string", "number", "null"]},
		"net_income":         {"type": ["string", "number", "null"]},
		"operating_income":   {"type": ["string", "number", "null"]},
		"gross_margin":       {"type": ["string", "number", "null"]},
		"operating_expenses": {"type": ["string", "number", "null"]},
		"capital_return":     {"type": ["string", "number", "null"]}
	}
}`)
