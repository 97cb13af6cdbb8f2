package rates

import (
	"fmt"

	"tarifario/internal/domain"
)

// serviceFieldsRule checks per-service required fields.
type serviceFieldsRule struct{}

// NewServiceFieldsRule requires service_id, description and frequency on
// every service.
func NewServiceFieldsRule() *serviceFieldsRule { return &serviceFieldsRule{} }

func (r *serviceFieldsRule) RuleKey() string  { return "service_required_fields" }
func (r *serviceFieldsRule) RuleName() string { return "Service required fields" }
func (r *serviceFieldsRule) Severity() domain.ValidationLevel {
	return domain.ValidationLevelError
}

func (r *serviceFieldsRule) Validate(doc *domain.Document) []domain.ValidationIssue {
	var issues []domain.ValidationIssue
	for i := range doc.Services {
		svc := &doc.Services[i]
		for _, check := range []struct {
			field string
			value string
		}{
			{"service_id", svc.ServiceID},
			{"description", svc.Description},
			{"frequency", svc.Frequency},
		} {
			if check.value == "" {
				issues = append(issues, domain.ValidationIssue{
					Level:     domain.ValidationLevelError,
					Message:   fmt.Sprintf("service is missing %s", check.field),
					Field:     check.field,
					ServiceID: svc.ServiceID,
					TableType: svc.TableType,
				})
			}
		}
	}
	return issues
}

// ratesPresenceRule checks that every service carries at least one rate,
// either in the plan map or as the standalone rate.
type ratesPresenceRule struct{}

// NewRatesPresenceRule requires at least one rate per service.
func NewRatesPresenceRule() *ratesPresenceRule { return &ratesPresenceRule{} }

func (r *ratesPresenceRule) RuleKey() string  { return "service_has_rates" }
func (r *ratesPresenceRule) RuleName() string { return "Service has rates" }
func (r *ratesPresenceRule) Severity() domain.ValidationLevel {
	return domain.ValidationLevelError
}

func (r *ratesPresenceRule) Validate(doc *domain.Document) []domain.ValidationIssue {
	var issues []domain.ValidationIssue
	for i := range doc.Services {
		svc := &doc.Services[i]
		if svc.HasRates() {
			continue
		}
		issues = append(issues, domain.ValidationIssue{
			Level:     domain.ValidationLevelError,
			Message:   "service has no rates",
			Field:     "rates",
			ServiceID: svc.ServiceID,
			TableType: svc.TableType,
		})
	}
	return issues
}

// frequencyRule checks that the normalized frequency is a known value.
type frequencyRule struct {
	allowed map[string]bool
}

// NewFrequencyRule validates frequencies against the allowed set.
func NewFrequencyRule(allowed map[string]bool) *frequencyRule {
	return &frequencyRule{allowed: allowed}
}

func (r *frequencyRule) RuleKey() string  { return "service_frequency_allowed" }
func (r *frequencyRule) RuleName() string { return "Service frequency allowed" }
func (r *frequencyRule) Severity() domain.ValidationLevel {
	return domain.ValidationLevelError
}

func (r *frequencyRule) Validate(doc *domain.Document) []domain.ValidationIssue {
	var issues []domain.ValidationIssue
	for i := range doc.Services {
		svc := &doc.Services[i]
		if svc.Frequency == "" || r.allowed[svc.Frequency] {
			continue
		}
		issues = append(issues, domain.ValidationIssue{
			Level:     domain.ValidationLevelError,
			Message:   fmt.Sprintf("frequency %q is not recognized", svc.Frequency),
			Field:     "frequency",
			ServiceID: svc.ServiceID,
			TableType: svc.TableType,
		})
	}
	return issues
}

// descriptionLengthRule bounds description length.
type descriptionLengthRule struct {
	max int
}

// NewDescriptionLengthRule limits description length to max runes.
func NewDescriptionLengthRule(max int) *descriptionLengthRule {
	return &descriptionLengthRule{max: max}
}

func (r *descriptionLengthRule) RuleKey() string  { return "service_description_length" }
func (r *descriptionLengthRule) RuleName() string { return "Service description length" }
func (r *descriptionLengthRule) Severity() domain.ValidationLevel {
	return domain.ValidationLevelError
}

func (r *descriptionLengthRule) Validate(doc *domain.Document) []domain.ValidationIssue {
	var issues []domain.ValidationIssue
	for i := range doc.Services {
		svc := &doc.Services[i]
		if length := len([]rune(svc.Description)); length > r.max {
			issues = append(issues, domain.ValidationIssue{
				Level:     domain.ValidationLevelError,
				Message:   fmt.Sprintf("description is %d characters, maximum is %d", length, r.max),
				Field:     "description",
				ServiceID: svc.ServiceID,
				TableType: svc.TableType,
			})
		}
	}
	return issues
}
