package extract_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tarifario/internal/domain"
	"tarifario/internal/extract"
)

func planSegment(t *testing.T) extract.TableSegment {
	t.Helper()
	grid := extract.Grid{
		row("Descripción", "Tarifa Plan G-Zero", "Tarifa Plan Puls", "Tarifa Plan Premier", "Aplica IVA", "Frecuencia"),
		row("Cuota de manejo", "#0", "#8990", "#0", "Si", "Mensual"),
		row("Transferencia ACH", "#4900", "#4900", "#0", "Si", "Por transacción"),
		row("Retiro cajero", "No aplica", "#2000", "Ilimitado", "No", "Por transacción"),
	}
	tables := extract.NewDetector(extract.AccountsRules().Detector).FindTables(grid, "TARIFAS")
	require.Len(t, tables, 1)
	return tables[0]
}

func TestExtractService_MultiPlanRow(t *testing.T) {
	seg := planSegment(t)
	e := extract.NewRowExtractor(extract.AccountsRules())

	svc, ok := e.ExtractService(seg, seg.Rows[0], domain.TableTypeMobilePlans)
	require.True(t, ok)

	assert.Equal(t, "Cuota de manejo", svc.Description)
	assert.Equal(t, "accounts", svc.BusinessLine)
	assert.Equal(t, domain.FrequencyMonthly, svc.Frequency)
	assert.True(t, svc.AppliesTax)
	assert.Equal(t, "TARIFAS", svc.SourcePosition.Sheet)

	require.Len(t, svc.Rates, 3)
	for _, key := range []string{"g_zero", "puls", "premier"} {
		rate, found := svc.Rates[key]
		require.True(t, found, "missing plan %s", key)
		assert.Equal(t, domain.RateTypeFixed, rate.Type)
	}
	assert.True(t, svc.Rates["puls"].Value.Equal(decimal.NewFromInt(8990)))
}

func TestExtractService_SentinelRates(t *testing.T) {
	seg := planSegment(t)
	e := extract.NewRowExtractor(extract.AccountsRules())

	svc, ok := e.ExtractService(seg, seg.Rows[2], domain.TableTypeWithdrawals)
	require.True(t, ok)
	assert.False(t, svc.AppliesTax)
	assert.Equal(t, domain.RateTypeNotApplicable, svc.Rates["g_zero"].Type)
	assert.Equal(t, domain.RateTypeUnlimited, svc.Rates["premier"].Type)
}

func TestExtractService_SingleValueColumn(t *testing.T) {
	grid := extract.Grid{
		row("Descripción", "Valor (Sin IVA)", "Frecuencia", "Disclaimer"),
		row("Certificación bancaria", "#8990", "Por transacción", "nan"),
		row("Extracto en oficina", "#5900", "Por transacción", "Solo en oficinas propias"),
		row("Cheque de gerencia", "#12500", "Única vez", ""),
	}
	tables := extract.NewDetector(extract.AccountsRules().Detector).FindTables(grid, "SERVICIOS")
	require.Len(t, tables, 1)
	seg := tables[0]
	e := extract.NewRowExtractor(extract.AccountsRules())

	svc, ok := e.ExtractService(seg, seg.Rows[0], domain.TableTypeTraditionalServices)
	require.True(t, ok)
	require.NotNil(t, svc.Rate)
	assert.True(t, svc.Rate.Value.Equal(decimal.NewFromInt(8990)))
	assert.Empty(t, svc.Rates)
	// "nan" is a serialization artifact, not a disclaimer.
	assert.Empty(t, svc.Disclaimer)

	svc, ok = e.ExtractService(seg, seg.Rows[1], domain.TableTypeTraditionalServices)
	require.True(t, ok)
	assert.Equal(t, "Solo en oficinas propias", svc.Disclaimer)
	assert.Equal(t, domain.FrequencyPerTransaction, svc.Frequency)

	svc, ok = e.ExtractService(seg, seg.Rows[2], domain.TableTypeTraditionalServices)
	require.True(t, ok)
	assert.Equal(t, domain.FrequencyOneTime, svc.Frequency)
}

func TestExtractService_BlankDescriptionSkipsRow(t *testing.T) {
	grid := extract.Grid{
		row("Descripción", "Tarifa", "Valor"),
		row("", "#100", "#200"),
		row("123.45", "#100", "#200"),
		row("99", "#100", "Cuota extra"),
		row("Apertura", "#100", "#200"),
	}
	tables := extract.NewDetector(extract.AccountsRules().Detector).FindTables(grid, "TARIFAS")
	require.Len(t, tables, 1)
	seg := tables[0]
	e := extract.NewRowExtractor(extract.AccountsRules())

	_, ok := e.ExtractService(seg, seg.Rows[0], domain.TableTypeTraditionalServices)
	assert.False(t, ok, "blank description row must be skipped")

	_, ok = e.ExtractService(seg, seg.Rows[1], domain.TableTypeTraditionalServices)
	assert.False(t, ok, "numeric-text description must not count as a description")

	// A numeric description column falls back to the first usable text cell.
	svc, ok := e.ExtractService(seg, seg.Rows[2], domain.TableTypeTraditionalServices)
	require.True(t, ok)
	assert.Equal(t, "Cuota extra", svc.Description)

	_, ok = e.ExtractService(seg, seg.Rows[3], domain.TableTypeTraditionalServices)
	assert.True(t, ok)
}

func TestServiceID_Derivation(t *testing.T) {
	seg := planSegment(t)
	e := extract.NewRowExtractor(extract.AccountsRules())

	cases := []struct {
		row  int
		want string
	}{
		{1, "transfer"}, // "transferencia" is ordered before "ach"
		{2, "withdrawal"},
	}
	for _, tc := range cases {
		svc, ok := e.ExtractService(seg, seg.Rows[tc.row], domain.TableTypeMobilePlans)
		require.True(t, ok)
		assert.Equal(t, tc.want, svc.ServiceID)
	}

	// No pattern matches "Cuota de manejo"; the token fallback keeps the
	// first two tokens longer than two runes.
	svc, ok := e.ExtractService(seg, seg.Rows[0], domain.TableTypeMobilePlans)
	require.True(t, ok)
	assert.Equal(t, "cuota_manejo", svc.ServiceID)
}

func TestExtractService_RatelessRowKept(t *testing.T) {
	grid := extract.Grid{
		row("Descripción", "Tarifa Plan G-Zero", "Tarifa Plan Puls", "Tarifa Plan Premier"),
		row("Servicio sin tarifas", "", "", ""),
		row("Otro servicio", "#100", "#200", "#300"),
		row("Tercer servicio", "#1", "#2", "#3"),
	}
	tables := extract.NewDetector(extract.AccountsRules().Detector).FindTables(grid, "TARIFAS")
	require.Len(t, tables, 1)
	e := extract.NewRowExtractor(extract.AccountsRules())

	svc, ok := e.ExtractService(tables[0], tables[0].Rows[0], domain.TableTypeMobilePlans)
	require.True(t, ok, "rateless rows are kept; validation flags them")
	assert.False(t, svc.HasRates())
}
