package extract_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tarifario/internal/extract"
)

func TestNormalize_DropsBlankRowsAndColumns(t *testing.T) {
	raw := [][]extract.Cell{
		{extract.BlankCell(), extract.BlankCell(), extract.BlankCell()},
		{extract.BlankCell(), extract.TextCell("Descripción"), extract.TextCell("Valor")},
		{extract.BlankCell(), extract.TextCell("Apertura"), extract.NumberCell(decimal.NewFromInt(100))},
		{extract.BlankCell(), extract.TextCell("   "), extract.BlankCell()},
	}

	grid := extract.Normalize(raw)
	require.Equal(t, 2, grid.Rows())
	require.Equal(t, 2, grid.Cols())
	assert.Equal(t, "Descripción", grid[0][0].Text)
	assert.Equal(t, "Valor", grid[0][1].Text)
	assert.Equal(t, "Apertura", grid[1][0].Text)
}

func TestNormalize_PadsRaggedRows(t *testing.T) {
	raw := [][]extract.Cell{
		{extract.TextCell("a"), extract.TextCell("b"), extract.TextCell("c")},
		{extract.TextCell("d")},
	}

	grid := extract.Normalize(raw)
	require.Equal(t, 2, grid.Rows())
	require.Equal(t, 3, grid.Cols())
	assert.Len(t, grid[1], 3)
	assert.True(t, grid[1][1].IsBlank())
	assert.True(t, grid[1][2].IsBlank())
}

func TestNormalize_Empty(t *testing.T) {
	assert.Equal(t, 0, extract.Normalize(nil).Rows())
	assert.Equal(t, 0, extract.Normalize([][]extract.Cell{{extract.BlankCell()}}).Rows())
}

func TestNormalize_PreservesOrder(t *testing.T) {
	raw := [][]extract.Cell{
		{extract.TextCell("first")},
		{extract.TextCell("second")},
		{extract.TextCell("third")},
	}
	grid := extract.Normalize(raw)
	require.Equal(t, 3, grid.Rows())
	assert.Equal(t, "first", grid[0][0].Text)
	assert.Equal(t, "second", grid[1][0].Text)
	assert.Equal(t, "third", grid[2][0].Text)
}
