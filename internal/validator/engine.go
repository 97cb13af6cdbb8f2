package validator

import (
	"tarifario/internal/domain"
	"tarifario/internal/validator/rates"
)

// Engine runs the registered rules over a document and assembles the
// validation report.
type Engine struct {
	registry *Registry
}

// NewEngine creates an engine over an explicit rule registry.
func NewEngine(registry *Registry) *Engine {
	return &Engine{registry: registry}
}

// NewDefaultEngine creates an engine with the built-in rule set in its
// canonical order: document-level, per-service, per-rate, cross-service.
func NewDefaultEngine(cfg Config) *Engine {
	registry := NewRegistry()
	registry.Register(rates.NewDocumentFieldsRule())
	registry.Register(rates.NewEmptyDocumentRule())
	registry.Register(rates.NewServiceFieldsRule())
	registry.Register(rates.NewRatesPresenceRule())
	registry.Register(rates.NewFrequencyRule(cfg.AllowedFrequencies))
	registry.Register(rates.NewDescriptionLengthRule(cfg.MaxDescriptionLength))
	registry.Register(rates.NewNegativeRateRule())
	registry.Register(rates.NewConditionalRateRule())
	registry.Register(rates.NewPercentageSanityRule(cfg.PercentWarnThreshold))
	registry.Register(rates.NewDuplicateDescriptionRule())
	registry.Register(rates.NewBusinessLineConsistencyRule())
	registry.Register(rates.NewTableSizeRule(cfg.MaxServicesPerTable))
	return NewEngine(registry)
}

// Validate runs every rule against the document and returns a fresh
// report. Reports are never mutated incrementally across passes; each
// call recomputes everything.
func (e *Engine) Validate(doc *domain.Document) *domain.ValidationReport {
	report := domain.NewValidationReport(doc.DocumentID)
	report.Stats.TotalServices = doc.ServiceCount()

	for _, rule := range e.registry.All() {
		for _, issue := range rule.Validate(doc) {
			report.AddIssue(issue)
		}
	}
	return report
}
