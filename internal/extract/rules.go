package extract

import (
	"strings"

	"tarifario/internal/domain"
)

// TableTypeRule is one textual classification rule. Patterns must match
// (any-of, substring); Keywords additionally constrain the match when
// present — an empty keyword list always passes.
type TableTypeRule struct {
	Type     domain.TableType
	Patterns []string
	Keywords []string
}

// ServiceIDRule maps a description substring to a canonical service id.
// Rules are evaluated in declaration order; the first match wins.
type ServiceIDRule struct {
	Pattern string
	ID      string
}

// BusinessRules is the immutable configuration bundle for one business
// line: header recognition, column→field mappings, classification rules
// and service-id derivation. Constructed once at startup and passed
// explicitly into the classifier and extractor; core logic never reaches
// into globals.
type BusinessRules struct {
	BusinessLine string

	// SheetIndicators and FilenameIndicators feed strategy selection.
	SheetIndicators    []string
	FilenameIndicators []string
	// SkipSheetPatterns name sheets that carry no rate data (legal notes,
	// change logs).
	SkipSheetPatterns []string

	Detector DetectorConfig

	// DescriptionHeaderPatterns match normalized header names of the
	// description column.
	DescriptionHeaderPatterns []string
	// PlanColumns maps a lower-cased raw-header substring to its plan key.
	PlanColumns map[string]string
	// RequiredPlanKeys must all be present for the structural mobile_plans
	// classification.
	RequiredPlanKeys []string
	// StandaloneValueHeaders are lower-cased raw-header literals whose
	// presence classifies a table as traditional_services.
	StandaloneValueHeaders []string
	// ValueHeaderPatterns locate the single-rate value column.
	ValueHeaderPatterns []string

	TaxHeaderPatterns        []string
	FrequencyHeaderPatterns  []string
	DisclaimerHeaderPatterns []string

	TableTypeRules []TableTypeRule
	ServiceIDRules []ServiceIDRule
}

// matchesAny reports whether any pattern is a substring of s. s must
// already be lower-cased by the caller.
func matchesAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if p != "" && strings.Contains(s, p) {
			return true
		}
	}
	return false
}

// findHeader returns the first header whose normalized name contains one
// of the patterns.
func findHeader(headers []Header, patterns []string) (Header, bool) {
	for _, h := range headers {
		if matchesAny(h.Name, patterns) {
			return h, true
		}
	}
	return Header{}, false
}

// planKeysPresent maps plan key → header name for every plan column found
// in the segment. Matching is by substring on the lower-cased raw header
// text because plan headers carry decorations ("Tarifa Plan G-Zero ...").
func (r BusinessRules) planKeysPresent(headers []Header) map[string]string {
	found := make(map[string]string)
	for _, h := range headers {
		lowerRaw := strings.ToLower(h.Raw)
		for pattern, planKey := range r.PlanColumns {
			if strings.Contains(lowerRaw, pattern) {
				found[planKey] = h.Name
			}
		}
	}
	return found
}

// hasAllPlanKeys reports whether every required plan key has a column.
func (r BusinessRules) hasAllPlanKeys(headers []Header) bool {
	if len(r.RequiredPlanKeys) == 0 {
		return false
	}
	present := r.planKeysPresent(headers)
	for _, key := range r.RequiredPlanKeys {
		if _, ok := present[key]; !ok {
			return false
		}
	}
	return true
}
