package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tarifario/internal/domain"
)

func TestReportStatus_Monotonicity(t *testing.T) {
	report := domain.NewValidationReport("doc-1")
	assert.Equal(t, domain.ReportStatusPassed, report.Status())

	report.AddWarning("suspicious", "rates", "svc", domain.TableTypeTransfers)
	assert.Equal(t, domain.ReportStatusWarnings, report.Status())

	report.AddError("broken", "frequency", "svc", domain.TableTypeTransfers)
	assert.Equal(t, domain.ReportStatusFailed, report.Status())

	// More warnings never un-fail a report.
	report.AddWarning("another", "", "", "")
	assert.Equal(t, domain.ReportStatusFailed, report.Status())
}

func TestReport_StatsTrackLevels(t *testing.T) {
	report := domain.NewValidationReport("doc-1")
	report.AddError("e", "", "", "")
	report.AddWarning("w", "", "", "")
	report.AddWarning("w2", "", "", "")
	report.AddInfo("i", "", "", "")

	assert.Equal(t, 1, report.Stats.Errors)
	assert.Equal(t, 2, report.Stats.Warnings)
	assert.Equal(t, 1, report.Stats.Info)
	assert.True(t, report.HasErrors())
	assert.True(t, report.HasWarnings())
}

func TestWithStatus_Serialization(t *testing.T) {
	report := domain.NewValidationReport("doc-1")
	report.AddWarning("w", "", "", "")

	data, err := json.Marshal(report.WithStatus())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "passed_with_warnings", decoded["status"])
	assert.Equal(t, "doc-1", decoded["document_id"])
}

func TestDocument_AddServiceStampsID(t *testing.T) {
	doc := domain.NewDocument("doc-9", "accounts", "tarifas.xlsx")
	doc.AddService(domain.FinancialService{ServiceID: "a", Description: "A"})
	doc.AddService(domain.FinancialService{ServiceID: "b", Description: "B"})

	require.Equal(t, 2, doc.ServiceCount())
	assert.Equal(t, "doc-9", doc.Services[0].DocumentID)
	assert.Equal(t, "doc-9", doc.Services[1].DocumentID)
	assert.Equal(t, []string{"a", "b"}, []string{doc.Services[0].ServiceID, doc.Services[1].ServiceID})
}
