package extract

import (
	"fmt"
	"strings"

	"tarifario/internal/domain"
)

// Strategy bundles a business line's extraction policy: which sheets to
// process, where data starts, how headers are read, and how rows become
// service records. New business lines register a Strategy with the
// Selector; the pipeline never special-cases a line.
type Strategy interface {
	BusinessLine() string
	Rules() BusinessRules

	// ClassifySheetType labels a sheet by name (rates, legal, unknown).
	ClassifySheetType(sheetName string) string
	// ShouldProcessSheet reports whether a sheet carries extractable data.
	ShouldProcessSheet(sheetName string) bool
	// FindDataStartRow returns the index of the first table row, or 0 when
	// no header signature is present.
	FindDataStartRow(grid Grid) int
	// ExtractHeaders derives the header list of the first table in a grid.
	ExtractHeaders(grid Grid) []Header
	// FindTables partitions a normalized sheet grid into table segments.
	FindTables(grid Grid, sheetName string) []TableSegment
	// Classify assigns a table type to a segment.
	Classify(seg TableSegment) domain.TableType
	// ExtractServiceFromRow maps one data row to a service record.
	ExtractServiceFromRow(seg TableSegment, row DataRow, tableType domain.TableType) (domain.FinancialService, bool)
	// ValidateExtractedData runs strategy-specific sanity checks over the
	// extracted services and returns human-readable problems.
	ValidateExtractedData(services []domain.FinancialService) []string
}

// sheet type labels returned by ClassifySheetType.
const (
	SheetTypeRates   = "rates"
	SheetTypeLegal   = "legal"
	SheetTypeUnknown = "unknown"
)

// baseStrategy implements Strategy generically from a BusinessRules
// bundle. Concrete business lines embed it and only override behavior
// that genuinely differs.
type baseStrategy struct {
	rules      BusinessRules
	detector   *Detector
	classifier *Classifier
	extractor  *RowExtractor
}

func newBaseStrategy(rules BusinessRules) baseStrategy {
	return baseStrategy{
		rules:      rules,
		detector:   NewDetector(rules.Detector),
		classifier: NewClassifier(rules),
		extractor:  NewRowExtractor(rules),
	}
}

func (s *baseStrategy) BusinessLine() string { return s.rules.BusinessLine }
func (s *baseStrategy) Rules() BusinessRules { return s.rules }

func (s *baseStrategy) ClassifySheetType(sheetName string) string {
	lower := strings.ToLower(sheetName)
	if matchesAny(lower, s.rules.SkipSheetPatterns) {
		return SheetTypeLegal
	}
	if matchesAny(lower, s.rules.SheetIndicators) {
		return SheetTypeRates
	}
	return SheetTypeUnknown
}

// ShouldProcessSheet is permissive: only sheets positively identified as
// non-data (legal notes, change logs) are skipped. Sheets the indicators
// do not recognize still get a detection pass; the detector finding no
// tables is the real filter.
func (s *baseStrategy) ShouldProcessSheet(sheetName string) bool {
	return s.ClassifySheetType(sheetName) != SheetTypeLegal
}

func (s *baseStrategy) FindDataStartRow(grid Grid) int {
	rows := s.detector.findHeaderRows(grid)
	if len(rows) == 0 {
		return 0
	}
	return rows[0] + 1
}

func (s *baseStrategy) ExtractHeaders(grid Grid) []Header {
	tables := s.detector.FindTables(grid, "")
	if len(tables) == 0 {
		return nil
	}
	return tables[0].Headers
}

func (s *baseStrategy) FindTables(grid Grid, sheetName string) []TableSegment {
	return s.detector.FindTables(grid, sheetName)
}

func (s *baseStrategy) Classify(seg TableSegment) domain.TableType {
	return s.classifier.Classify(seg)
}

func (s *baseStrategy) ExtractServiceFromRow(seg TableSegment, row DataRow, tableType domain.TableType) (domain.FinancialService, bool) {
	return s.extractor.ExtractService(seg, row, tableType)
}

func (s *baseStrategy) ValidateExtractedData(services []domain.FinancialService) []string {
	var problems []string
	for i := range services {
		svc := &services[i]
		if svc.Description == "" {
			problems = append(problems, fmt.Sprintf("service %s has no description", svc.ServiceID))
		}
		if !svc.HasRates() {
			problems = append(problems, fmt.Sprintf("service %s (%s) has no rates", svc.ServiceID, svc.TableType))
		}
	}
	return problems
}

// Selector picks the strategy governing one workbook from its sheet names
// and filename. Scoring: +1 per sheet name matching a business line's
// sheet indicators, +2 per filename indicator match. Ties break by
// registration order; an all-zero score falls back to the first
// registered strategy.
type Selector struct {
	strategies []Strategy
}

// NewSelector creates a selector over the registered strategies, in
// priority order.
func NewSelector(strategies ...Strategy) *Selector {
	return &Selector{strategies: strategies}
}

// Register appends a strategy at the lowest priority.
func (s *Selector) Register(strategy Strategy) {
	s.strategies = append(s.strategies, strategy)
}

// Select returns the best-scoring strategy for a workbook. It fails only
// when no strategy is registered.
func (s *Selector) Select(sheetNames []string, filename string) (Strategy, error) {
	if len(s.strategies) == 0 {
		return nil, domain.ErrUnknownBusiness
	}

	best := s.strategies[0]
	bestScore := -1
	lowerFile := strings.ToLower(filename)

	for _, candidate := range s.strategies {
		rules := candidate.Rules()
		score := 0
		for _, sheet := range sheetNames {
			if matchesAny(strings.ToLower(sheet), rules.SheetIndicators) {
				score++
			}
		}
		for _, indicator := range rules.FilenameIndicators {
			if indicator != "" && strings.Contains(lowerFile, indicator) {
				score += 2
			}
		}
		// Strictly greater keeps earlier registrations on ties.
		if score > bestScore {
			best = candidate
			bestScore = score
		}
	}
	return best, nil
}
