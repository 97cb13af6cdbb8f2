package rates

import (
	"fmt"

	"tarifario/internal/domain"
)

// documentFieldsRule checks the document-level identity fields.
type documentFieldsRule struct{}

// NewDocumentFieldsRule requires document_id, filename and business_line
// to be non-empty.
func NewDocumentFieldsRule() *documentFieldsRule { return &documentFieldsRule{} }

func (r *documentFieldsRule) RuleKey() string  { return "document_required_fields" }
func (r *documentFieldsRule) RuleName() string { return "Document required fields" }
func (r *documentFieldsRule) Severity() domain.ValidationLevel {
	return domain.ValidationLevelError
}

func (r *documentFieldsRule) Validate(doc *domain.Document) []domain.ValidationIssue {
	var issues []domain.ValidationIssue
	for _, check := range []struct {
		field string
		value string
	}{
		{"document_id", doc.DocumentID},
		{"filename", doc.Filename},
		{"business_line", doc.BusinessLine},
	} {
		if check.value == "" {
			issues = append(issues, domain.ValidationIssue{
				Level:   domain.ValidationLevelError,
				Message: fmt.Sprintf("document is missing %s", check.field),
				Field:   check.field,
			})
		}
	}
	return issues
}

// emptyDocumentRule flags documents with zero services. An empty but
// well-formed document is suspicious, not invalid.
type emptyDocumentRule struct{}

// NewEmptyDocumentRule warns when a document has no services.
func NewEmptyDocumentRule() *emptyDocumentRule { return &emptyDocumentRule{} }

func (r *emptyDocumentRule) RuleKey() string  { return "document_has_services" }
func (r *emptyDocumentRule) RuleName() string { return "Document has services" }
func (r *emptyDocumentRule) Severity() domain.ValidationLevel {
	return domain.ValidationLevelWarning
}

func (r *emptyDocumentRule) Validate(doc *domain.Document) []domain.ValidationIssue {
	if doc.ServiceCount() > 0 {
		return nil
	}
	return []domain.ValidationIssue{{
		Level:   domain.ValidationLevelWarning,
		Message: "document contains no services",
		Field:   "services",
	}}
}
