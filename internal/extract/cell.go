// Package extract implements the table discovery and extraction engine:
// locating table boundaries inside loosely structured sheet grids,
// classifying discovered tables by business meaning, and extracting typed
// rate values from heterogeneous cell content.
package extract

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CellKind discriminates the closed cell-value variant produced at the
// grid-normalization boundary. All downstream logic switches on this kind
// instead of re-checking types ad hoc.
type CellKind int

const (
	CellBlank CellKind = iota
	CellNumber
	CellText
	CellBool
)

// Cell is one spreadsheet cell value.
type Cell struct {
	Kind   CellKind
	Number decimal.Decimal
	Text   string
	Bool   bool
}

// BlankCell returns the absent-value cell.
func BlankCell() Cell { return Cell{Kind: CellBlank} }

// NumberCell wraps a numeric cell value.
func NumberCell(v decimal.Decimal) Cell { return Cell{Kind: CellNumber, Number: v} }

// TextCell wraps a text cell value.
func TextCell(s string) Cell { return Cell{Kind: CellText, Text: s} }

// BoolCell wraps a boolean cell value.
func BoolCell(b bool) Cell { return Cell{Kind: CellBool, Bool: b} }

// IsBlank reports whether the cell is absent or whitespace-only text.
func (c Cell) IsBlank() bool {
	switch c.Kind {
	case CellBlank:
		return true
	case CellText:
		return strings.TrimSpace(c.Text) == ""
	default:
		return false
	}
}

// String renders the cell for display and keyword matching.
func (c Cell) String() string {
	switch c.Kind {
	case CellNumber:
		return c.Number.String()
	case CellText:
		return c.Text
	case CellBool:
		if c.Bool {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

// TrimmedText returns the trimmed text content, or "" for non-text cells.
func (c Cell) TrimmedText() string {
	if c.Kind != CellText {
		return ""
	}
	return strings.TrimSpace(c.Text)
}
