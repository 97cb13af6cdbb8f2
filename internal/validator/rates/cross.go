package rates

import (
	"fmt"
	"sort"
	"strings"

	"tarifario/internal/domain"
)

// duplicateDescriptionRule flags repeated descriptions inside one table
// type. Duplicates usually mean a table boundary was missed and the same
// row was extracted twice.
type duplicateDescriptionRule struct{}

// NewDuplicateDescriptionRule warns on duplicate (table_type, description)
// pairs.
func NewDuplicateDescriptionRule() *duplicateDescriptionRule {
	return &duplicateDescriptionRule{}
}

func (r *duplicateDescriptionRule) RuleKey() string  { return "cross_duplicate_descriptions" }
func (r *duplicateDescriptionRule) RuleName() string { return "Duplicate descriptions" }
func (r *duplicateDescriptionRule) Severity() domain.ValidationLevel {
	return domain.ValidationLevelWarning
}

func (r *duplicateDescriptionRule) Validate(doc *domain.Document) []domain.ValidationIssue {
	seen := make(map[string]bool)
	var issues []domain.ValidationIssue
	for i := range doc.Services {
		svc := &doc.Services[i]
		key := string(svc.TableType) + "|" + strings.ToLower(strings.TrimSpace(svc.Description))
		if !seen[key] {
			seen[key] = true
			continue
		}
		issues = append(issues, domain.ValidationIssue{
			Level:     domain.ValidationLevelWarning,
			Message:   fmt.Sprintf("duplicate description %q in table type %s", svc.Description, svc.TableType),
			Field:     "description",
			ServiceID: svc.ServiceID,
			TableType: svc.TableType,
		})
	}
	return issues
}

// businessLineConsistencyRule checks that all services sharing a table
// type agree on the business line.
type businessLineConsistencyRule struct{}

// NewBusinessLineConsistencyRule warns on mixed business lines within a
// table type.
func NewBusinessLineConsistencyRule() *businessLineConsistencyRule {
	return &businessLineConsistencyRule{}
}

func (r *businessLineConsistencyRule) RuleKey() string  { return "cross_business_line_consistent" }
func (r *businessLineConsistencyRule) RuleName() string { return "Business line consistency" }
func (r *businessLineConsistencyRule) Severity() domain.ValidationLevel {
	return domain.ValidationLevelWarning
}

func (r *businessLineConsistencyRule) Validate(doc *domain.Document) []domain.ValidationIssue {
	first := make(map[domain.TableType]string)
	flagged := make(map[domain.TableType]bool)
	var issues []domain.ValidationIssue
	for i := range doc.Services {
		svc := &doc.Services[i]
		line, ok := first[svc.TableType]
		if !ok {
			first[svc.TableType] = svc.BusinessLine
			continue
		}
		if line == svc.BusinessLine || flagged[svc.TableType] {
			continue
		}
		flagged[svc.TableType] = true
		issues = append(issues, domain.ValidationIssue{
			Level:     domain.ValidationLevelWarning,
			Message:   fmt.Sprintf("table type %s mixes business lines %q and %q", svc.TableType, line, svc.BusinessLine),
			Field:     "business_line",
			TableType: svc.TableType,
		})
	}
	return issues
}

// tableSizeRule flags unusually large tables. The bound is informational,
// not a correctness limit.
type tableSizeRule struct {
	max int
}

// NewTableSizeRule warns when one table type holds more than max services.
func NewTableSizeRule(max int) *tableSizeRule {
	return &tableSizeRule{max: max}
}

func (r *tableSizeRule) RuleKey() string  { return "cross_table_size" }
func (r *tableSizeRule) RuleName() string { return "Table size" }
func (r *tableSizeRule) Severity() domain.ValidationLevel {
	return domain.ValidationLevelWarning
}

func (r *tableSizeRule) Validate(doc *domain.Document) []domain.ValidationIssue {
	counts := doc.ServiceCountByTableType()
	types := make([]domain.TableType, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	var issues []domain.ValidationIssue
	for _, tableType := range types {
		count := counts[tableType]
		if count <= r.max {
			continue
		}
		issues = append(issues, domain.ValidationIssue{
			Level:     domain.ValidationLevelWarning,
			Message:   fmt.Sprintf("table type %s has %d services, above %d", tableType, count, r.max),
			Field:     "services",
			TableType: tableType,
		})
	}
	return issues
}
