// Package xlsx adapts xlsx workbook bytes to the extraction pipeline's
// Workbook interface.
package xlsx

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"tarifario/internal/domain"
	"tarifario/internal/extract"
)

// Workbook wraps an open xlsx file already materialized in memory.
type Workbook struct {
	f      *excelize.File
	sheets []string
}

// Open parses workbook bytes. The caller owns Close.
func Open(data []byte) (*Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnreadableFile, err)
	}
	return &Workbook{f: f, sheets: f.GetSheetList()}, nil
}

// Close releases the underlying file resources.
func (w *Workbook) Close() error { return w.f.Close() }

// SheetNames returns the sheet names in workbook order.
func (w *Workbook) SheetNames() []string { return w.sheets }

// Grid reads one sheet into a normalized cell grid.
//
// GetRows yields display-formatted strings, which would mangle
// Colombian-formatted numbers ("8.990" reads as 8.99), so every non-empty
// cell is re-read through its native cell type and raw value: cells whose
// raw value parses as a number become numeric cells, everything else
// keeps the formatted text.
func (w *Workbook) Grid(sheet string) (extract.Grid, error) {
	rows, err := w.f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	raw := make([][]extract.Cell, len(rows))
	for i, row := range rows {
		cells := make([]extract.Cell, len(row))
		for j, formatted := range row {
			cells[j] = w.cell(sheet, i, j, formatted)
		}
		raw[i] = cells
	}
	return extract.Normalize(raw), nil
}

func (w *Workbook) cell(sheet string, row, col int, formatted string) extract.Cell {
	if strings.TrimSpace(formatted) == "" {
		return extract.BlankCell()
	}

	ref, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return extract.TextCell(formatted)
	}
	cellType, err := w.f.GetCellType(sheet, ref)
	if err != nil {
		return extract.TextCell(formatted)
	}

	switch cellType {
	case excelize.CellTypeBool:
		value, valueErr := w.f.GetCellValue(sheet, ref, excelize.Options{RawCellValue: true})
		if valueErr == nil {
			return extract.BoolCell(value == "1" || strings.EqualFold(value, "true"))
		}
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString:
		return extract.TextCell(formatted)
	default:
		// Plain numeric cells carry no explicit type attribute, so both
		// CellTypeNumber and CellTypeUnset land here.
		value, valueErr := w.f.GetCellValue(sheet, ref, excelize.Options{RawCellValue: true})
		if valueErr == nil {
			if num, numErr := decimal.NewFromString(strings.TrimSpace(value)); numErr == nil {
				return extract.NumberCell(num)
			}
		}
	}
	return extract.TextCell(formatted)
}
