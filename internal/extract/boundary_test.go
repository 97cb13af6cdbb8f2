package extract_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tarifario/internal/extract"
)

// row builds one grid row from strings; "" becomes a blank cell and "#n"
// becomes the number n.
func row(values ...string) []extract.Cell {
	cells := make([]extract.Cell, len(values))
	for i, v := range values {
		switch {
		case v == "":
			cells[i] = extract.BlankCell()
		case len(v) > 1 && v[0] == '#':
			cells[i] = extract.NumberCell(decimal.RequireFromString(v[1:]))
		default:
			cells[i] = extract.TextCell(v)
		}
	}
	return cells
}

func newDetector() *extract.Detector {
	return extract.NewDetector(extract.DefaultDetectorConfig())
}

func TestFindTables_MinimumDataRows(t *testing.T) {
	header := row("Descripción", "Tarifa", "Frecuencia")
	data := row("Apertura", "#100", "Mensual")

	t.Run("two_rows_discarded", func(t *testing.T) {
		grid := extract.Grid{header, data, data}
		assert.Empty(t, newDetector().FindTables(grid, "TARIFAS"))
	})

	t.Run("three_rows_retained", func(t *testing.T) {
		grid := extract.Grid{header, data, data, data}
		tables := newDetector().FindTables(grid, "TARIFAS")
		require.Len(t, tables, 1)
		assert.Len(t, tables[0].Rows, 3)
	})
}

func TestFindTables_PlanLiteralHeader(t *testing.T) {
	// No description sentinel, but a plan literal qualifies the row.
	header := row("Servicio", "Tarifa Plan G-Zero", "Tarifa Plan Premier")
	data := row("Retiro", "#0", "#5000")
	grid := extract.Grid{header, data, data, data}

	tables := newDetector().FindTables(grid, "PLANES")
	require.Len(t, tables, 1)
	require.Len(t, tables[0].Headers, 3)
	assert.Equal(t, "servicio", tables[0].Headers[0].Name)
	assert.Equal(t, "tarifa_plan_g_zero", tables[0].Headers[1].Name)
}

func TestFindTables_SentinelNeedsKeywordBacking(t *testing.T) {
	// "Descripción" alone with non-keyword neighbors is a data row, not a
	// header.
	grid := extract.Grid{
		row("Descripción", "foo", "bar"),
		row("Apertura", "x", "y"),
		row("Cierre", "x", "y"),
		row("Consulta", "x", "y"),
	}
	tables := newDetector().FindTables(grid, "HOJA")
	// The whole grid degrades to a single candidate with row 0 as header.
	require.Len(t, tables, 1)
	assert.Equal(t, 0, tables[0].StartRow)
}

func TestFindTables_MultipleTables(t *testing.T) {
	header := row("Descripción", "Tarifa", "Frecuencia")
	data := row("Apertura", "#100", "Mensual")
	grid := extract.Grid{
		header, data, data, data,
		header, data, data, data, data,
	}

	tables := newDetector().FindTables(grid, "TARIFAS")
	require.Len(t, tables, 2)
	assert.Equal(t, 0, tables[0].StartRow)
	assert.Equal(t, 4, tables[0].EndRow)
	assert.Len(t, tables[0].Rows, 3)
	assert.Equal(t, 4, tables[1].StartRow)
	assert.Len(t, tables[1].Rows, 4)
	assert.Equal(t, 1, tables[1].TableIndex)
}

func TestFindTables_SyntheticColumnNames(t *testing.T) {
	// Blank header over a data-bearing column gets a positional name.
	header := row("Descripción", "", "Tarifa", "Frecuencia")
	data := row("Apertura", "nota", "#100", "Mensual")
	grid := extract.Grid{header, data, data, data}

	tables := newDetector().FindTables(grid, "TARIFAS")
	require.Len(t, tables, 1)
	require.Len(t, tables[0].Headers, 4)
	assert.Equal(t, "column_1", tables[0].Headers[1].Name)
}

func TestFindTables_BlankHeaderOverEmptyColumnEndsHeaders(t *testing.T) {
	header := row("Descripción", "Tarifa", "", "Frecuencia")
	data := row("Apertura", "#100", "", "Mensual")
	grid := extract.Grid{header, data, data, data}

	tables := newDetector().FindTables(grid, "TARIFAS")
	require.Len(t, tables, 1)
	require.Len(t, tables[0].Headers, 2)
	assert.Equal(t, "descripción", tables[0].Headers[0].Name)
	assert.Equal(t, "tarifa", tables[0].Headers[1].Name)
}

func TestFindTables_DuplicateHeadersSuffixed(t *testing.T) {
	header := row("Descripción", "Tarifa", "Tarifa", "Frecuencia")
	data := row("Apertura", "#100", "#200", "Mensual")
	grid := extract.Grid{header, data, data, data}

	tables := newDetector().FindTables(grid, "TARIFAS")
	require.Len(t, tables, 1)
	names := []string{}
	for _, h := range tables[0].Headers {
		names = append(names, h.Name)
	}
	assert.Equal(t, []string{"descripción", "tarifa", "tarifa_1", "frecuencia"}, names)
}

func TestFindTables_TableName(t *testing.T) {
	header := row("Descripción", "Tarifa", "Frecuencia")
	data := row("Apertura", "#100", "Mensual")
	grid := extract.Grid{header, data, data, data}

	tables := newDetector().FindTables(grid, "TARIFAS")
	require.Len(t, tables, 1)
	assert.Equal(t, "TARIFAS_Descripción", tables[0].TableName)
}

func TestSegmentCell_MissingColumn(t *testing.T) {
	header := row("Descripción", "Tarifa", "Frecuencia")
	data := row("Apertura", "#100", "Mensual")
	grid := extract.Grid{header, data, data, data}

	tables := newDetector().FindTables(grid, "TARIFAS")
	require.Len(t, tables, 1)
	seg := tables[0]
	assert.True(t, seg.Cell(seg.Rows[0], "no_such_column").IsBlank())
	assert.Equal(t, "Mensual", seg.Cell(seg.Rows[0], "frecuencia").Text)
}
