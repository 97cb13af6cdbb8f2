package extract

import (
	"strings"
	"time"

	"tarifario/internal/domain"
)

// taxLiterals normalizes the applies-tax column. Anything absent from the
// map means false.
var taxLiterals = map[string]bool{
	"si":     true,
	"sí":     true,
	"yes":    true,
	"aplica": true,
	"true":   true,
}

// frequencyLiterals maps source frequency spellings to canonical values.
// Unrecognized values are passed through lower-cased instead of coerced so
// validation can flag them.
var frequencyLiterals = map[string]string{
	"mensual":         domain.FrequencyMonthly,
	"mensualidad":     domain.FrequencyMonthly,
	"monthly":         domain.FrequencyMonthly,
	"anual":           domain.FrequencyYearly,
	"yearly":          domain.FrequencyYearly,
	"por transacción": domain.FrequencyPerTransaction,
	"por transaccion": domain.FrequencyPerTransaction,
	"transaccional":   domain.FrequencyPerTransaction,
	"única vez":       domain.FrequencyOneTime,
	"unica vez":       domain.FrequencyOneTime,
	"una vez":         domain.FrequencyOneTime,
	"a demanda":       domain.FrequencyOnDemand,
	"on demand":       domain.FrequencyOnDemand,
}

const fallbackServiceID = "unknown_service"

// RowExtractor maps data rows of a classified segment to service records
// using one business line's column→field rules.
type RowExtractor struct {
	rules BusinessRules
}

// NewRowExtractor creates an extractor bound to one business line's rules.
func NewRowExtractor(rules BusinessRules) *RowExtractor {
	return &RowExtractor{rules: rules}
}

// ExtractService converts one data row into a service record. It returns
// ok=false when the row has no usable description; such rows are common
// decorative or spacer rows and are skipped silently, never failing the
// sheet. A service with a valid description but no parseable rates is
// still returned — validation flags rateless services downstream.
func (e *RowExtractor) ExtractService(seg TableSegment, row DataRow, tableType domain.TableType) (domain.FinancialService, bool) {
	description, ok := e.description(seg, row)
	if !ok {
		return domain.FinancialService{}, false
	}

	svc := domain.FinancialService{
		ServiceID:    e.serviceID(description),
		Description:  description,
		BusinessLine: e.rules.BusinessLine,
		TableType:    tableType,
		Frequency:    e.frequency(seg, row),
		AppliesTax:   e.appliesTax(seg, row),
		Disclaimer:   e.disclaimer(seg, row),
		SourcePosition: domain.SourcePosition{
			Sheet:    seg.SheetName,
			StartRow: row.Index,
			EndRow:   row.Index,
		},
		CreatedAt: time.Now().UTC(),
	}

	if domain.MultiPlanTableTypes[tableType] {
		for planKey, headerName := range e.rules.planKeysPresent(seg.Headers) {
			cell := seg.Cell(row, headerName)
			if cell.Kind == CellBlank {
				continue
			}
			svc.AddRate(planKey, ParseRate(cell, headerName))
		}
	} else if h, found := e.valueHeader(seg.Headers); found {
		rate := ParseRate(seg.Cell(row, h.Name), h.Name)
		svc.Rate = &rate
	}

	return svc, true
}

// description prefers the configured description column; when that is
// missing, blank or purely numeric it falls back to the first usable cell
// in the row.
func (e *RowExtractor) description(seg TableSegment, row DataRow) (string, bool) {
	if h, ok := findHeader(seg.Headers, e.rules.DescriptionHeaderPatterns); ok {
		if text, usable := descriptionText(seg.Cell(row, h.Name)); usable {
			return text, true
		}
	}
	for _, cell := range row.Cells {
		if text, usable := descriptionText(cell); usable {
			return text, true
		}
	}
	return "", false
}

// descriptionText rejects blank cells, numeric cells and purely numeric
// text; a bare number cannot describe a service.
func descriptionText(cell Cell) (string, bool) {
	if cell.IsBlank() || cell.Kind == CellNumber {
		return "", false
	}
	text := strings.TrimSpace(cell.String())
	if numberPattern.FindString(text) == text {
		return "", false
	}
	return text, true
}

// serviceID derives a stable identifier from a description: the ordered
// pattern table first, then a token-based fallback.
func (e *RowExtractor) serviceID(description string) string {
	lower := strings.ToLower(description)
	for _, rule := range e.rules.ServiceIDRules {
		if strings.Contains(lower, rule.Pattern) {
			return rule.ID
		}
	}

	tokens := strings.Fields(lower)
	if len(tokens) > 3 {
		tokens = tokens[:3]
	}
	var kept []string
	for _, tok := range tokens {
		tok = normalizeHeaderName(tok)
		if len([]rune(tok)) > 2 {
			kept = append(kept, tok)
		}
		if len(kept) == 2 {
			break
		}
	}
	if len(kept) == 0 {
		return fallbackServiceID
	}
	return strings.Join(kept, "_")
}

// valueHeader locates the single-rate value column, accepting either the
// standalone-value literal or the configured value patterns.
func (e *RowExtractor) valueHeader(headers []Header) (Header, bool) {
	for _, h := range headers {
		lowerRaw := strings.ToLower(strings.TrimSpace(h.Raw))
		for _, lit := range e.rules.StandaloneValueHeaders {
			if lowerRaw == lit {
				return h, true
			}
		}
	}
	return findHeader(headers, e.rules.ValueHeaderPatterns)
}

func (e *RowExtractor) appliesTax(seg TableSegment, row DataRow) bool {
	h, ok := findHeader(seg.Headers, e.rules.TaxHeaderPatterns)
	if !ok {
		return false
	}
	cell := seg.Cell(row, h.Name)
	if cell.Kind == CellBool {
		return cell.Bool
	}
	return taxLiterals[strings.ToLower(strings.TrimSpace(cell.String()))]
}

func (e *RowExtractor) frequency(seg TableSegment, row DataRow) string {
	h, ok := findHeader(seg.Headers, e.rules.FrequencyHeaderPatterns)
	if !ok {
		return domain.FrequencyUnknown
	}
	cell := seg.Cell(row, h.Name)
	if cell.IsBlank() {
		return domain.FrequencyUnknown
	}
	raw := strings.ToLower(strings.TrimSpace(cell.String()))
	if canonical, found := frequencyLiterals[raw]; found {
		return canonical
	}
	return raw
}

// disclaimer returns the disclaimer cell text, excluding the "nan"
// artifact that numeric libraries emit for blank cells.
func (e *RowExtractor) disclaimer(seg TableSegment, row DataRow) string {
	h, ok := findHeader(seg.Headers, e.rules.DisclaimerHeaderPatterns)
	if !ok {
		return ""
	}
	text := seg.Cell(row, h.Name).TrimmedText()
	if text == "" || strings.EqualFold(text, "nan") {
		return ""
	}
	return text
}
