package extract

import (
	"strings"

	"tarifario/internal/domain"
)

// descriptionSampleCount bounds how many description cells feed the
// keyword-classification text.
const descriptionSampleCount = 3

// Classifier assigns a semantic table type to a detected segment.
//
// Structural signals are checked before textual ones: column presence is
// unambiguous while keywords are heuristic and collide across types, so a
// table whose headers carry the full plan set is mobile_plans even when
// its name mentions another type's keyword.
type Classifier struct {
	rules BusinessRules
}

// NewClassifier creates a classifier bound to one business line's rules.
func NewClassifier(rules BusinessRules) *Classifier {
	return &Classifier{rules: rules}
}

// Classify returns the table type for a segment, or TableTypeUnknown when
// no rule matches. Unknown is a valid outcome, not an error; the caller
// drops unknown tables and records them in the processing metadata.
func (c *Classifier) Classify(seg TableSegment) domain.TableType {
	if c.rules.hasAllPlanKeys(seg.Headers) {
		return domain.TableTypeMobilePlans
	}

	for _, h := range seg.Headers {
		lowerRaw := strings.ToLower(strings.TrimSpace(h.Raw))
		for _, lit := range c.rules.StandaloneValueHeaders {
			if lowerRaw == lit {
				return domain.TableTypeTraditionalServices
			}
		}
	}

	text := c.classificationText(seg)
	for _, rule := range c.rules.TableTypeRules {
		if !matchesAny(text, rule.Patterns) {
			continue
		}
		if len(rule.Keywords) > 0 && !matchesAny(text, rule.Keywords) {
			continue
		}
		return rule.Type
	}

	return domain.TableTypeUnknown
}

// classificationText concatenates the table name with the first few
// non-blank description-cell values, lower-cased, as the haystack for
// keyword rules.
func (c *Classifier) classificationText(seg TableSegment) string {
	parts := []string{seg.TableName}

	descHeader, ok := findHeader(seg.Headers, c.rules.DescriptionHeaderPatterns)
	for _, row := range seg.Rows {
		if len(parts)-1 >= descriptionSampleCount {
			break
		}
		var cell Cell
		if ok {
			cell = seg.Cell(row, descHeader.Name)
		} else if len(row.Cells) > 0 {
			cell = row.Cells[0]
		}
		if cell.IsBlank() {
			continue
		}
		parts = append(parts, cell.String())
	}

	return strings.ToLower(strings.Join(parts, " "))
}
