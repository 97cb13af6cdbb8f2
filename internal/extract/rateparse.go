package extract

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"tarifario/internal/domain"
)

var (
	// "3 incluidos sin costo. $7.510 por transferencia adicional"
	conditionalPattern = regexp.MustCompile(`(?i)(\d+)\s+incluidos?\s+sin\s+costo.*?\$?\s*(\d+(?:[.,]\d+)*)\s*por`)
	numberPattern      = regexp.MustCompile(`\d+(?:[.,]\d+)*`)
)

// notApplicableTokens are cell texts that mean "no charge defined here".
var notApplicableTokens = map[string]bool{
	"no aplica": true,
	"no":        true,
	"n/a":       true,
	"":          true,
}

// unlimitedTokens are substrings that mean the service is included/unmetered.
var unlimitedTokens = []string{"ilimitado", "unlimited", "incluido"}

// ParseRate converts a raw cell value into a typed Rate. It never fails:
// content that resists every numeric interpretation is preserved as a Text
// rate. columnContext is the (normalized) header of the cell's column and
// hints percentage columns.
func ParseRate(cell Cell, columnContext string) domain.Rate {
	switch cell.Kind {
	case CellBlank:
		return domain.NotApplicableRate()
	case CellNumber:
		return numericRate(cell.Number, columnContext)
	case CellBool:
		return domain.TextRate(cell.String())
	}

	raw := strings.TrimSpace(cell.Text)
	if notApplicableTokens[strings.ToLower(raw)] {
		return domain.NotApplicableRate()
	}

	// Conditional check must precede the unlimited check: the conditional
	// phrasing contains "incluidos".
	if m := conditionalPattern.FindStringSubmatch(raw); m != nil {
		included, ok := parseColombianNumber(m[1])
		if ok {
			cost, costOK := parseColombianNumber(m[2])
			if costOK {
				if rate, err := domain.ConditionalRate(int(included.IntPart()), cost, ""); err == nil {
					return rate
				}
			}
		}
	}

	lower := strings.ToLower(raw)
	for _, tok := range unlimitedTokens {
		if strings.Contains(lower, tok) {
			return domain.UnlimitedRate()
		}
	}

	if value, ok := extractNumeric(raw); ok {
		return numericRate(value, columnContext)
	}

	return domain.TextRate(raw)
}

// numericRate wraps a parsed number as Fixed, or Percentage when the column
// context marks a percentage column.
func numericRate(value decimal.Decimal, columnContext string) domain.Rate {
	if value.IsNegative() {
		// Negative cells are preserved as text so validation can flag them
		// instead of extraction silently inventing a zero.
		return domain.TextRate(value.String())
	}
	// columnContext is a normalized header name, so "tasa E.A." arrives
	// as "tasa_e_a".
	ctx := strings.ToLower(columnContext)
	if strings.Contains(ctx, "tasa") || strings.Contains(ctx, "_e_a") {
		if rate, err := domain.PercentageRate(value); err == nil {
			return rate
		}
	}
	rate, _ := domain.FixedRate(value, "")
	return rate
}

// extractNumeric pulls a Colombian-formatted number out of free text.
// Currency symbols and surrounding prose are stripped first. Returns false
// when no numeric pattern is present — absence of a number is a valid
// terminal state, not an error.
func extractNumeric(text string) (decimal.Decimal, bool) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(text, "$", ""))

	// The source spreadsheets phrase "free / starting at zero" this way.
	switch strings.ToLower(cleaned) {
	case "desde 0", "0":
		return decimal.Zero, true
	}

	match := numberPattern.FindString(cleaned)
	if match == "" {
		return decimal.Decimal{}, false
	}
	return parseColombianNumber(match)
}

// parseColombianNumber disambiguates `.` and `,` in a digit group string:
//
//	1.234.567,89 → 1234567.89   (comma is the decimal separator)
//	123,45       → 123.45
//	8.990        → 8990         (trailing 3-digit group after a dot = thousands)
//	8.5          → 8.5          (any other trailing group = decimal)
//	1.234.56     → 1234.56
func parseColombianNumber(s string) (decimal.Decimal, bool) {
	if s == "" {
		return decimal.Decimal{}, false
	}

	normalized := s
	switch {
	case strings.Contains(s, ","):
		// The last comma-delimited group is the decimal part; dots in the
		// integer part are thousands separators.
		idx := strings.LastIndex(s, ",")
		intPart := strings.ReplaceAll(s[:idx], ".", "")
		intPart = strings.ReplaceAll(intPart, ",", "")
		normalized = intPart + "." + s[idx+1:]
	case strings.Contains(s, "."):
		parts := strings.Split(s, ".")
		last := parts[len(parts)-1]
		if len(last) == 3 {
			normalized = strings.Join(parts, "")
		} else {
			normalized = strings.Join(parts[:len(parts)-1], "") + "." + last
		}
	}

	value, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return value, true
}
