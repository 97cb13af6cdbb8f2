package csvexport_test

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tarifario/internal/csvexport"
	"tarifario/internal/domain"
)

func TestWriter_ServiceRows(t *testing.T) {
	fixed, _ := domain.FixedRate(decimal.NewFromInt(8990), "")
	pct, _ := domain.PercentageRate(decimal.RequireFromString("1.5"))

	multi := domain.FinancialService{
		DocumentID:   "doc-1",
		ServiceID:    "cuota_manejo",
		Description:  "Cuota de manejo",
		BusinessLine: "accounts",
		TableType:    domain.TableTypeMobilePlans,
		Frequency:    domain.FrequencyMonthly,
		AppliesTax:   true,
		SourcePosition: domain.SourcePosition{
			Sheet:    "TARIFAS",
			StartRow: 3,
			EndRow:   3,
		},
		CreatedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	multi.AddRate("puls", fixed)
	multi.AddRate("g_zero", pct)

	single := domain.FinancialService{
		DocumentID:   "doc-1",
		ServiceID:    "cashier_check",
		Description:  "Cheque de gerencia",
		BusinessLine: "accounts",
		TableType:    domain.TableTypeTraditionalServices,
		Frequency:    domain.FrequencyOneTime,
		Rate:         &fixed,
		Disclaimer:   "Solo en oficinas",
	}

	var buf bytes.Buffer
	w := csvexport.NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteServices([]domain.FinancialService{multi, single}))
	w.Flush()
	require.NoError(t, w.Error())

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	header := records[0]
	assert.Equal(t, "Document ID", header[0])

	row := records[1]
	assert.Equal(t, "cuota_manejo", row[3])
	assert.Equal(t, "Yes", row[6])
	// Plan keys sort alphabetically for deterministic output.
	assert.Equal(t, "g_zero=1.5%; puls=8990", row[10])
	assert.Equal(t, "TARIFAS", row[12])
	assert.Equal(t, "3", row[13])

	row = records[2]
	assert.Equal(t, "fixed", row[7])
	assert.Equal(t, "8990", row[8])
	assert.Empty(t, row[10])
	assert.Equal(t, "Solo en oficinas", row[11])
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "Tarifas_Cuentas_2024", csvexport.SanitizeFilename("Tarifas Cuentas (2024)"))
	assert.Equal(t, "a_b", csvexport.SanitizeFilename("__a///b__"))
	assert.Len(t, csvexport.SanitizeFilename(strings.Repeat("a", 150)), 100)
}

func TestBuildFilename(t *testing.T) {
	name := csvexport.BuildFilename("tarifas cuentas.xlsx")
	assert.True(t, strings.HasPrefix(name, "tarifas_cuentas_xlsx_"))
	assert.True(t, strings.HasSuffix(name, ".csv"))
}
