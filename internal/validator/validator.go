// Package validator implements the business-rule validation engine for
// extracted documents. Rules are independent and never short-circuit: a
// validation pass always produces a complete report, and callers decide
// what a failed status means for them.
package validator

import (
	"github.com/shopspring/decimal"

	"tarifario/internal/domain"
)

// Rule is the interface for a single built-in validation rule.
type Rule interface {
	RuleKey() string
	RuleName() string
	Severity() domain.ValidationLevel
	Validate(doc *domain.Document) []domain.ValidationIssue
}

// Config carries the tunable thresholds of the built-in rule set.
type Config struct {
	MaxDescriptionLength int
	// PercentWarnThreshold is the percentage value above which a rate is
	// flagged as suspicious. Stricter deployments lower it to 50.
	PercentWarnThreshold decimal.Decimal
	MaxServicesPerTable  int
	AllowedFrequencies   map[string]bool
}

// DefaultConfig returns the standard validation thresholds.
func DefaultConfig() Config {
	return Config{
		MaxDescriptionLength: 200,
		PercentWarnThreshold: decimal.NewFromInt(100),
		MaxServicesPerTable:  50,
		AllowedFrequencies:   domain.AllowedFrequencies,
	}
}
