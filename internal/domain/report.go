package domain

import "time"

// ValidationIssue is a single finding from a validation pass.
type ValidationIssue struct {
	Level     ValidationLevel `json:"level"`
	Message   string          `json:"message"`
	Field     string          `json:"field,omitempty"`
	ServiceID string          `json:"service_id,omitempty"`
	TableType TableType       `json:"table_type,omitempty"`
}

// ReportStats holds aggregate counts for a validation report.
type ReportStats struct {
	TotalServices int `json:"total_services"`
	Errors        int `json:"errors"`
	Warnings      int `json:"warnings"`
	Info          int `json:"info"`
}

// ValidationReport is the full outcome of validating one document. It is
// recomputed from scratch on every validation pass; the status is derived
// purely from the issue list and is never set independently.
type ValidationReport struct {
	DocumentID string            `json:"document_id"`
	Issues     []ValidationIssue `json:"issues"`
	Stats      ReportStats       `json:"stats"`
	CreatedAt  time.Time         `json:"created_at"`
}

// NewValidationReport creates an empty report for a document.
func NewValidationReport(documentID string) *ValidationReport {
	return &ValidationReport{DocumentID: documentID, CreatedAt: time.Now().UTC()}
}

// AddIssue appends an issue and updates the counters.
func (r *ValidationReport) AddIssue(issue ValidationIssue) {
	r.Issues = append(r.Issues, issue)
	switch issue.Level {
	case ValidationLevelError:
		r.Stats.Errors++
	case ValidationLevelWarning:
		r.Stats.Warnings++
	default:
		r.Stats.Info++
	}
}

// AddError appends an error-level issue.
func (r *ValidationReport) AddError(message, field, serviceID string, tableType TableType) {
	r.AddIssue(ValidationIssue{Level: ValidationLevelError, Message: message, Field: field, ServiceID: serviceID, TableType: tableType})
}

// AddWarning appends a warning-level issue.
func (r *ValidationReport) AddWarning(message, field, serviceID string, tableType TableType) {
	r.AddIssue(ValidationIssue{Level: ValidationLevelWarning, Message: message, Field: field, ServiceID: serviceID, TableType: tableType})
}

// AddInfo appends an info-level issue.
func (r *ValidationReport) AddInfo(message, field, serviceID string, tableType TableType) {
	r.AddIssue(ValidationIssue{Level: ValidationLevelInfo, Message: message, Field: field, ServiceID: serviceID, TableType: tableType})
}

// HasErrors reports whether any error-level issue was recorded.
func (r *ValidationReport) HasErrors() bool { return r.Stats.Errors > 0 }

// HasWarnings reports whether any warning-level issue was recorded.
func (r *ValidationReport) HasWarnings() bool { return r.Stats.Warnings > 0 }

// Status derives the overall outcome from the issue list.
func (r *ValidationReport) Status() ReportStatus {
	switch {
	case r.Stats.Errors > 0:
		return ReportStatusFailed
	case r.Stats.Warnings > 0:
		return ReportStatusWarnings
	default:
		return ReportStatusPassed
	}
}

// StatusedReport wraps a report with its derived status for serialization,
// so consumers never re-derive it.
type StatusedReport struct {
	Status ReportStatus `json:"status"`
	*ValidationReport
}

// WithStatus returns the report wrapped with its derived status.
func (r *ValidationReport) WithStatus() StatusedReport {
	return StatusedReport{Status: r.Status(), ValidationReport: r}
}
