package extract_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tarifario/internal/domain"
	"tarifario/internal/extract"
)

func loansSegment(t *testing.T, sheet string) extract.TableSegment {
	t.Helper()
	grid := extract.Grid{
		row("Producto", "Tasa Efectiva Anual", "Tasa Nominal MV", "Plazo"),
		row("Crédito libre inversión", "#0.28", "#2.1", "60 meses"),
		row("Crédito de vivienda", "#12.5", "#1.0", "240 meses"),
		row("Cupo rotativo", "#32.9", "#2.4", "No aplica"),
	}
	tables := extract.NewDetector(extract.LoansRules().Detector).FindTables(grid, sheet)
	require.Len(t, tables, 1)
	return tables[0]
}

func TestLoansStrategy_SheetTyping(t *testing.T) {
	s := extract.NewLoansStrategy()

	assert.Equal(t, "tasas_credito", s.ClassifySheetType("TASAS VIGENTES"))
	assert.Equal(t, "limites_credito", s.ClassifySheetType("LIMITES Y CUPOS"))
	assert.Equal(t, "productos", s.ClassifySheetType("PRODUCTOS"))
	assert.Equal(t, "comisiones", s.ClassifySheetType("COMISIONES"))
	assert.Equal(t, extract.SheetTypeLegal, s.ClassifySheetType("Notas legales"))

	assert.True(t, s.ShouldProcessSheet("TASAS VIGENTES"))
	assert.False(t, s.ShouldProcessSheet("Hoja1"), "loans only processes recognized sheets")
}

func TestLoansStrategy_ClassifyBySheet(t *testing.T) {
	s := extract.NewLoansStrategy()
	seg := loansSegment(t, "TASAS VIGENTES")
	assert.Equal(t, domain.TableType("loans_tasas_credito"), s.Classify(seg))
}

func TestLoansStrategy_RateColumns(t *testing.T) {
	s := extract.NewLoansStrategy()
	seg := loansSegment(t, "TASAS VIGENTES")

	svc, ok := s.ExtractServiceFromRow(seg, seg.Rows[0], domain.TableType("loans_tasas_credito"))
	require.True(t, ok)
	assert.Equal(t, "Crédito libre inversión", svc.Description)

	// Fractions below 1 read as decimal percentages.
	effective, found := svc.Rates["effective_rate"]
	require.True(t, found)
	assert.Equal(t, domain.RateTypePercentage, effective.Type)
	assert.True(t, effective.Value.Equal(decimal.NewFromInt(28)), "0.28 → 28%%, got %s", effective.Value)

	nominal, found := svc.Rates["nominal_rate"]
	require.True(t, found)
	assert.Equal(t, domain.RateTypePercentage, nominal.Type)

	// "Plazo" is not a rate column.
	_, found = svc.Rates["plazo"]
	assert.False(t, found)
	assert.Nil(t, svc.Rate)
}

func TestLoansStrategy_DirectPercentage(t *testing.T) {
	s := extract.NewLoansStrategy()
	seg := loansSegment(t, "TASAS VIGENTES")

	svc, ok := s.ExtractServiceFromRow(seg, seg.Rows[1], domain.TableType("loans_tasas_credito"))
	require.True(t, ok)
	rate := svc.Rates["effective_rate"]
	assert.Equal(t, domain.RateTypePercentage, rate.Type)
	assert.True(t, rate.Value.Equal(decimal.RequireFromString("12.5")))
}

func TestLoansStrategy_ValidateFlagsHighRates(t *testing.T) {
	s := extract.NewLoansStrategy()
	high, err := domain.PercentageRate(decimal.RequireFromString("62.3"))
	require.NoError(t, err)

	svc := domain.FinancialService{ServiceID: "cupo_rotativo"}
	svc.AddRate("effective_rate", high)

	problems := s.ValidateExtractedData([]domain.FinancialService{svc})
	require.Len(t, problems, 1)
	assert.Contains(t, problems[0], "cupo_rotativo")
	assert.Contains(t, problems[0], "62.3")
}
