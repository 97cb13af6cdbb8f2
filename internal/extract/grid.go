package extract

// Grid is a rectangular, trimmed view of a sheet. Every row has the same
// length. Row and column order is preserved from the source sheet because
// it reflects document layout.
type Grid [][]Cell

// Rows returns the number of rows in the grid.
func (g Grid) Rows() int { return len(g) }

// Cols returns the number of columns in the grid (0 for an empty grid).
func (g Grid) Cols() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Normalize converts a raw cell grid into a rectangular Grid: rows that are
// blank across all columns are dropped, columns that are blank across all
// rows are dropped, and every retained row is right-padded to the common
// column extent. Remaining rows and columns keep their relative order.
func Normalize(raw [][]Cell) Grid {
	if len(raw) == 0 {
		return Grid{}
	}

	maxCols := 0
	for _, row := range raw {
		if len(row) > maxCols {
			maxCols = len(row)
		}
	}
	if maxCols == 0 {
		return Grid{}
	}

	colHasData := make([]bool, maxCols)
	rowHasData := make([]bool, len(raw))
	for i, row := range raw {
		for j, cell := range row {
			if !cell.IsBlank() {
				rowHasData[i] = true
				colHasData[j] = true
			}
		}
	}

	var keptCols []int
	for j := 0; j < maxCols; j++ {
		if colHasData[j] {
			keptCols = append(keptCols, j)
		}
	}
	if len(keptCols) == 0 {
		return Grid{}
	}

	var out Grid
	for i, row := range raw {
		if !rowHasData[i] {
			continue
		}
		cells := make([]Cell, len(keptCols))
		for k, j := range keptCols {
			if j < len(row) {
				cells[k] = row[j]
			} else {
				cells[k] = BlankCell()
			}
		}
		out = append(out, cells)
	}
	return out
}
