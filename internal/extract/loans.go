package extract

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"tarifario/internal/domain"
)

// LoansRules returns the extraction rules for the loans business line:
// credit products with per-column interest rates instead of plan tiers.
func LoansRules() BusinessRules {
	return BusinessRules{
		BusinessLine: "loans",

		SheetIndicators:    []string{"credito", "crédito", "prestamo", "préstamo", "cupo", "credit", "loan"},
		FilenameIndicators: []string{"credito", "prestamo", "credit", "loan"},
		SkipSheetPatterns:  []string{"legal", "nota", "cambio"},

		Detector: DefaultDetectorConfig(),

		DescriptionHeaderPatterns: []string{"producto", "credito", "crédito", "prestamo", "préstamo", "linea", "línea"},
		FrequencyHeaderPatterns:   []string{"frecuencia", "periodicidad"},
		DisclaimerHeaderPatterns:  []string{"disclaimer"},
	}
}

// loanSheetType is one recognized loans sheet category, matched in order.
type loanSheetType struct {
	name     string
	patterns []string
}

var loanSheetTypes = []loanSheetType{
	{name: "tasas_credito", patterns: []string{"tasa", "rate"}},
	{name: "limites_credito", patterns: []string{"limite", "límite", "cupo"}},
	{name: "productos", patterns: []string{"producto", "product", "credito", "crédito"}},
	{name: "comisiones", patterns: []string{"comision", "comisión", "fee"}},
}

// loanRateColumnPatterns mark a header as carrying a rate value.
var loanRateColumnPatterns = []string{"tasa", "rate", "ea", "mv", "tv", "%"}

// loanRateNames maps header fragments to canonical rate keys.
var loanRateNames = []struct{ pattern, name string }{
	{"tasa_efectiva", "effective_rate"},
	{"tasa_nominal", "nominal_rate"},
	{"ea", "effective_annual"},
	{"mv", "monthly_variable"},
	{"tv", "quarterly_variable"},
}

type loansStrategy struct {
	baseStrategy
}

// NewLoansStrategy creates the loans extraction strategy. Loans sheets
// are typed by name rather than by table content, and rate columns are
// discovered per header instead of through a fixed plan mapping, so the
// strategy overrides classification and row extraction.
func NewLoansStrategy() Strategy {
	return NewLoansStrategyWith(LoansRules())
}

// NewLoansStrategyWith creates the loans strategy over tuned rules.
func NewLoansStrategyWith(rules BusinessRules) Strategy {
	return &loansStrategy{baseStrategy: newBaseStrategy(rules)}
}

func (s *loansStrategy) ClassifySheetType(sheetName string) string {
	lower := strings.ToLower(sheetName)
	if matchesAny(lower, s.rules.SkipSheetPatterns) {
		return SheetTypeLegal
	}
	for _, st := range loanSheetTypes {
		if matchesAny(lower, st.patterns) {
			return st.name
		}
	}
	return SheetTypeUnknown
}

// ShouldProcessSheet is strict for loans: only sheets matching a known
// loans category carry data.
func (s *loansStrategy) ShouldProcessSheet(sheetName string) bool {
	t := s.ClassifySheetType(sheetName)
	return t != SheetTypeUnknown && t != SheetTypeLegal
}

// Classify types loans tables by sheet category, giving
// loans_tasas_credito, loans_comisiones and so on.
func (s *loansStrategy) Classify(seg TableSegment) domain.TableType {
	sheetType := s.ClassifySheetType(seg.SheetName)
	if sheetType == SheetTypeUnknown || sheetType == SheetTypeLegal {
		return domain.TableTypeUnknown
	}
	return domain.TableType(s.rules.BusinessLine + "_" + sheetType)
}

func (s *loansStrategy) ExtractServiceFromRow(seg TableSegment, row DataRow, tableType domain.TableType) (domain.FinancialService, bool) {
	svc, ok := s.extractor.ExtractService(seg, row, tableType)
	if !ok {
		return domain.FinancialService{}, false
	}

	// The generic extractor cannot know which loan columns are rates;
	// rebuild the rate map from the rate-column headers.
	svc.Rates = nil
	svc.Rate = nil
	for _, h := range seg.Headers {
		if !s.isRateColumn(h.Name) {
			continue
		}
		cell := seg.Cell(row, h.Name)
		if cell.IsBlank() {
			continue
		}
		value, parsed := cellNumber(cell)
		if !parsed {
			svc.AddRate(loanRateName(h.Name), domain.TextRate(cell.String()))
			continue
		}
		svc.AddRate(loanRateName(h.Name), loanRate(value))
	}
	return svc, true
}

// ValidateExtractedData flags interest rates outside the plausible band.
func (s *loansStrategy) ValidateExtractedData(services []domain.FinancialService) []string {
	var problems []string
	for i := range services {
		svc := &services[i]
		for name, rate := range svc.Rates {
			if rate.Type != domain.RateTypePercentage {
				continue
			}
			if rate.Value.GreaterThan(decimal.NewFromInt(50)) {
				problems = append(problems, fmt.Sprintf("high interest rate in %s (%s): %s%%", svc.ServiceID, name, rate.Value))
			}
		}
	}
	return problems
}

func (s *loansStrategy) isRateColumn(headerName string) bool {
	if matchesAny(headerName, s.rules.DescriptionHeaderPatterns) {
		return false
	}
	return matchesAny(headerName, loanRateColumnPatterns)
}

// loanRate interprets a numeric loan cell: fractions below 1 are decimal
// percentages (0.15 = 15%), values up to 100 are direct percentages, and
// anything larger is a monetary limit.
func loanRate(value decimal.Decimal) domain.Rate {
	one := decimal.NewFromInt(1)
	hundred := decimal.NewFromInt(100)
	switch {
	case value.GreaterThan(decimal.Zero) && value.LessThan(one):
		rate, _ := domain.PercentageRate(value.Mul(hundred))
		return rate
	case value.GreaterThanOrEqual(decimal.Zero) && value.LessThanOrEqual(hundred):
		rate, _ := domain.PercentageRate(value)
		return rate
	default:
		if value.IsNegative() {
			return domain.TextRate(value.String())
		}
		rate, _ := domain.FixedRate(value, "COP")
		return rate
	}
}

// loanRateName canonicalizes a rate-column header to a rate key.
func loanRateName(headerName string) string {
	for _, m := range loanRateNames {
		if strings.Contains(headerName, m.pattern) {
			return m.name
		}
	}
	return headerName
}

// cellNumber extracts a decimal from a numeric or numeric-text cell.
func cellNumber(cell Cell) (decimal.Decimal, bool) {
	if cell.Kind == CellNumber {
		return cell.Number, true
	}
	if cell.Kind == CellText {
		return extractNumeric(cell.Text)
	}
	return decimal.Decimal{}, false
}
