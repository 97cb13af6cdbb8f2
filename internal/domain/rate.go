package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Rate is a typed fee/charge value extracted from a single cell.
// Numeric variants carry a non-negative Value; Conditional additionally
// carries a free allowance and a per-unit cost beyond it; Text preserves
// cell content that resisted every other interpretation.
type Rate struct {
	Type           RateType        `json:"type"`
	Value          decimal.Decimal `json:"value"`
	Currency       string          `json:"currency,omitempty"`
	IncludedFree   int             `json:"included_free,omitempty"`
	AdditionalCost decimal.Decimal `json:"additional_cost,omitempty"`
	Raw            string          `json:"raw,omitempty"`
}

// FixedRate creates a fixed monetary rate. Currency may be empty.
func FixedRate(value decimal.Decimal, currency string) (Rate, error) {
	if value.IsNegative() {
		return Rate{}, fmt.Errorf("fixed rate value cannot be negative: %s", value)
	}
	return Rate{Type: RateTypeFixed, Value: value, Currency: currency}, nil
}

// PercentageRate creates a percentage rate.
func PercentageRate(value decimal.Decimal) (Rate, error) {
	if value.IsNegative() {
		return Rate{}, fmt.Errorf("percentage rate value cannot be negative: %s", value)
	}
	return Rate{Type: RateTypePercentage, Value: value}, nil
}

// ConditionalRate creates a rate with a free allowance and a per-unit cost
// beyond it. Both sub-fields are mandatory at construction.
func ConditionalRate(includedFree int, additionalCost decimal.Decimal, currency string) (Rate, error) {
	if includedFree < 0 {
		return Rate{}, fmt.Errorf("conditional rate included_free cannot be negative: %d", includedFree)
	}
	if additionalCost.IsNegative() {
		return Rate{}, fmt.Errorf("conditional rate additional_cost cannot be negative: %s", additionalCost)
	}
	return Rate{
		Type:           RateTypeConditional,
		IncludedFree:   includedFree,
		AdditionalCost: additionalCost,
		Currency:       currency,
	}, nil
}

// UnlimitedRate creates the "unlimited / included" sentinel rate.
func UnlimitedRate() Rate {
	return Rate{Type: RateTypeUnlimited}
}

// NotApplicableRate creates the "no aplica" sentinel rate.
func NotApplicableRate() Rate {
	return Rate{Type: RateTypeNotApplicable}
}

// TextRate preserves unparseable cell content verbatim. Not an error case:
// free-form prose is a valid terminal classification for a rate cell.
func TextRate(raw string) Rate {
	return Rate{Type: RateTypeText, Raw: raw}
}

// IsNumeric reports whether the rate carries a meaningful numeric value.
func (r Rate) IsNumeric() bool {
	return r.Type == RateTypeFixed || r.Type == RateTypePercentage
}
