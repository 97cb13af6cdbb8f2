package rates

import (
	"fmt"

	"github.com/shopspring/decimal"

	"tarifario/internal/domain"
)

// negativeRateRule flags negative monetary or percentage values. The
// parser preserves negatives rather than zeroing them; this is where they
// surface.
type negativeRateRule struct{}

// NewNegativeRateRule rejects negative rate values.
func NewNegativeRateRule() *negativeRateRule { return &negativeRateRule{} }

func (r *negativeRateRule) RuleKey() string  { return "rate_not_negative" }
func (r *negativeRateRule) RuleName() string { return "Rate not negative" }
func (r *negativeRateRule) Severity() domain.ValidationLevel {
	return domain.ValidationLevelError
}

func (r *negativeRateRule) Validate(doc *domain.Document) []domain.ValidationIssue {
	var issues []domain.ValidationIssue
	for i := range doc.Services {
		svc := &doc.Services[i]
		for _, nr := range serviceRates(svc) {
			negative := false
			switch nr.Rate.Type {
			case domain.RateTypeFixed, domain.RateTypePercentage:
				negative = nr.Rate.Value.IsNegative()
			case domain.RateTypeConditional:
				negative = nr.Rate.IncludedFree < 0 || nr.Rate.AdditionalCost.IsNegative()
			}
			if !negative {
				continue
			}
			issues = append(issues, domain.ValidationIssue{
				Level:     domain.ValidationLevelError,
				Message:   fmt.Sprintf("rate %q is negative", nr.Name),
				Field:     nr.Name,
				ServiceID: svc.ServiceID,
				TableType: svc.TableType,
			})
		}
	}
	return issues
}

// conditionalRateRule checks conditional rates for completeness: both the
// included-free count and the additional cost must be present.
type conditionalRateRule struct{}

// NewConditionalRateRule requires both sub-fields of a conditional rate.
func NewConditionalRateRule() *conditionalRateRule { return &conditionalRateRule{} }

func (r *conditionalRateRule) RuleKey() string  { return "rate_conditional_complete" }
func (r *conditionalRateRule) RuleName() string { return "Conditional rate complete" }
func (r *conditionalRateRule) Severity() domain.ValidationLevel {
	return domain.ValidationLevelError
}

func (r *conditionalRateRule) Validate(doc *domain.Document) []domain.ValidationIssue {
	var issues []domain.ValidationIssue
	for i := range doc.Services {
		svc := &doc.Services[i]
		for _, nr := range serviceRates(svc) {
			if nr.Rate.Type != domain.RateTypeConditional {
				continue
			}
			if nr.Rate.IncludedFree > 0 && !nr.Rate.AdditionalCost.IsZero() {
				continue
			}
			issues = append(issues, domain.ValidationIssue{
				Level:     domain.ValidationLevelError,
				Message:   fmt.Sprintf("conditional rate %q is missing included count or additional cost", nr.Name),
				Field:     nr.Name,
				ServiceID: svc.ServiceID,
				TableType: svc.TableType,
			})
		}
	}
	return issues
}

// percentageSanityRule warns about implausibly high percentage rates.
type percentageSanityRule struct {
	threshold decimal.Decimal
}

// NewPercentageSanityRule warns when a percentage exceeds the threshold.
func NewPercentageSanityRule(threshold decimal.Decimal) *percentageSanityRule {
	return &percentageSanityRule{threshold: threshold}
}

func (r *percentageSanityRule) RuleKey() string  { return "rate_percentage_sane" }
func (r *percentageSanityRule) RuleName() string { return "Percentage rate sanity" }
func (r *percentageSanityRule) Severity() domain.ValidationLevel {
	return domain.ValidationLevelWarning
}

func (r *percentageSanityRule) Validate(doc *domain.Document) []domain.ValidationIssue {
	var issues []domain.ValidationIssue
	for i := range doc.Services {
		svc := &doc.Services[i]
		for _, nr := range serviceRates(svc) {
			if nr.Rate.Type != domain.RateTypePercentage {
				continue
			}
			if nr.Rate.Value.LessThanOrEqual(r.threshold) {
				continue
			}
			issues = append(issues, domain.ValidationIssue{
				Level:     domain.ValidationLevelWarning,
				Message:   fmt.Sprintf("percentage rate %q is %s%%, above %s%%", nr.Name, nr.Rate.Value, r.threshold),
				Field:     nr.Name,
				ServiceID: svc.ServiceID,
				TableType: svc.TableType,
			})
		}
	}
	return issues
}
