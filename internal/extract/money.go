package extract

import (
	"strconv"
	"strings"
)

// Magnitude suffixes accepted on money strings, longest first so that
// "billion" is not matched as a bare "b" plus trailing text.
var magnitudes = []struct {
	suffix string
	mult   float64
}{
	{"trillion", 1e12},
	{"billion", 1e9},
	{"million", 1e6},
	{"tn", 1e12},
	{"bn", 1e9},
	{"mm", 1e6},
	{"t", 1e12},
	{"b", 1e9},
	{"m", 1e6},
}

// ParseMoney parses a dollar-amount string such as "$17.1B",
// "433 million", or "1,234.50" into a number of dollars. The second
// return value is false when the string is not a recognizable amount.
func ParseMoney(s string) (float64, bool) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" {
		return 0, false
	}

	neg := false
	if strings.HasPrefix(v, "(") && strings.HasSuffix(v, ")") {
		neg = true
		v = v[1 : len(v)-1]
	}
	if strings.HasPrefix(v, "-") {
		neg = !neg
		v = v[1:]
	}

	v = strings.TrimPrefix(v, "$")
	v = strings.TrimSpace(strings.TrimPrefix(v, "usd"))
	v = strings.ReplaceAll(v, ",", "")

	mult := 1.0
	for _, m := range magnitudes {
		if strings.HasSuffix(v, m.suffix) {
			mult = m.mult
			v = strings.TrimSpace(strings.TrimSuffix(v, m.suffix))
			break
		}
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		f = -f
	}
	return f * mult, true
}

// ParsePercent parses a margin string into a fraction: "55%" becomes
// 0.55 and a bare "0.55" is returned as-is. "150%" becomes 1.5, which
// the validator then flags as out of range.
func ParsePercent(s string) (float64, bool) {
	v := strings.TrimSpace(s)
	if v == "" {
		return 0, false
	}
	if strings.HasSuffix(v, "%") {
		v = strings.TrimSpace(strings.TrimSuffix(v, "%"))
		v = strings.ReplaceAll(v, ",", "")
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return f / 100, true
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
