package extract

import (
	"fmt"
	"regexp"
	"strings"
)

// Header is one retained column of a table segment. Name is the normalized,
// de-duplicated record key; Raw preserves the header cell text for
// structural classification.
type Header struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Raw   string `json:"raw"`
}

// DataRow is one data row of a segment, with its row index inside the
// normalized grid.
type DataRow struct {
	Index int    `json:"index"`
	Cells []Cell `json:"-"`
}

// TableSegment is a contiguous row range of a sheet identified as one
// logical table: a header row plus at least MinDataRows data rows.
type TableSegment struct {
	SheetName  string    `json:"sheet_name"`
	TableIndex int       `json:"table_index"`
	StartRow   int       `json:"start_row"`
	EndRow     int       `json:"end_row"`
	TableName  string    `json:"table_name"`
	Headers    []Header  `json:"headers"`
	Rows       []DataRow `json:"-"`
}

// Cell returns the cell under the named column for a data row, or a blank
// cell when the column does not exist or the row is short.
func (t *TableSegment) Cell(row DataRow, headerName string) Cell {
	for i, h := range t.Headers {
		if h.Name == headerName {
			if i < len(row.Cells) {
				return row.Cells[i]
			}
			return BlankCell()
		}
	}
	return BlankCell()
}

// DetectorConfig tunes header-row recognition. The defaults mirror the
// layout conventions of the source rate/fee workbooks.
type DetectorConfig struct {
	// DescriptionSentinels are accepted first-column header values.
	DescriptionSentinels []string
	// HeaderKeywords qualify the rest of a candidate header row; at least
	// two cells must contain one of them.
	HeaderKeywords []string
	// PlanLiterals immediately qualify a row as a header when any cell
	// contains one.
	PlanLiterals []string
	// MinDataRows is the minimum number of data rows for a segment to be
	// emitted (default 3).
	MinDataRows int
}

// DefaultDetectorConfig returns the detector tuning for the known workbook
// family.
func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		DescriptionSentinels: []string{"descripción", "descripcion"},
		HeaderKeywords:       []string{"tarifa", "plan", "valor", "aplica", "frecuencia", "disclaimer"},
		PlanLiterals:         []string{"plan g-zero", "plan puls", "plan premier"},
		MinDataRows:          3,
	}
}

// Detector partitions normalized grids into table segments.
type Detector struct {
	cfg DetectorConfig
}

// NewDetector creates a Detector. Zero MinDataRows falls back to 3.
func NewDetector(cfg DetectorConfig) *Detector {
	if cfg.MinDataRows <= 0 {
		cfg.MinDataRows = 3
	}
	return &Detector{cfg: cfg}
}

// FindTables scans a normalized grid for header-row signatures and returns
// the valid table segments, in top-to-bottom order. When no header row is
// detected the whole grid is treated as a single candidate segment.
func (d *Detector) FindTables(grid Grid, sheetName string) []TableSegment {
	if grid.Rows() == 0 {
		return nil
	}

	headerRows := d.findHeaderRows(grid)
	if len(headerRows) == 0 {
		headerRows = []int{0}
	}

	var segments []TableSegment
	for i, start := range headerRows {
		end := grid.Rows()
		if i+1 < len(headerRows) {
			end = headerRows[i+1]
		}
		if seg, ok := d.buildSegment(grid, sheetName, len(segments), start, end); ok {
			segments = append(segments, seg)
		}
	}
	return segments
}

// findHeaderRows returns the indices of rows that look like table headers.
// Each row is judged on its own content only; segment boundaries come from
// the sequence of detections.
func (d *Detector) findHeaderRows(grid Grid) []int {
	var rows []int
	for i := 0; i < grid.Rows(); i++ {
		if d.isHeaderRow(grid[i]) {
			rows = append(rows, i)
		}
	}
	return rows
}

// isHeaderRow applies the dual header signature: a description sentinel in
// the first column backed by at least two keyword cells, or a plan-name
// literal anywhere in the row. The dual condition avoids false positives
// from data rows that happen to start with text.
func (d *Detector) isHeaderRow(row []Cell) bool {
	if len(row) == 0 {
		return false
	}

	for _, cell := range row {
		lower := strings.ToLower(strings.TrimSpace(cell.String()))
		for _, lit := range d.cfg.PlanLiterals {
			if lit != "" && strings.Contains(lower, lit) {
				return true
			}
		}
	}

	first := strings.ToLower(strings.TrimSpace(row[0].String()))
	sentinel := false
	for _, s := range d.cfg.DescriptionSentinels {
		if first == s {
			sentinel = true
			break
		}
	}
	if !sentinel {
		return false
	}

	keywordCells := 0
	for _, cell := range row[1:] {
		lower := strings.ToLower(strings.TrimSpace(cell.String()))
		if lower == "" {
			continue
		}
		for _, kw := range d.cfg.HeaderKeywords {
			if strings.Contains(lower, kw) {
				keywordCells++
				break
			}
		}
	}
	return keywordCells >= 2
}

// buildSegment materializes rows [start, end) as a table segment, trimming
// to the real column extent and deriving header names. Returns false when
// the section is below the minimum viable table size.
func (d *Detector) buildSegment(grid Grid, sheetName string, tableIndex, start, end int) (TableSegment, bool) {
	if end-start < 1+d.cfg.MinDataRows {
		return TableSegment{}, false
	}

	headerRow := grid[start]
	dataRows := grid[start+1 : end]

	// Rightmost column with non-blank data in the header row or any data
	// row bounds the segment's real extent.
	extent := -1
	for j, cell := range headerRow {
		if !cell.IsBlank() {
			extent = j
		}
	}
	for _, row := range dataRows {
		for j, cell := range row {
			if j > extent && !cell.IsBlank() {
				extent = j
			}
		}
	}
	if extent < 0 {
		return TableSegment{}, false
	}

	headers := d.deriveHeaders(headerRow, dataRows, extent)
	if len(headers) == 0 {
		return TableSegment{}, false
	}

	seg := TableSegment{
		SheetName:  sheetName,
		TableIndex: tableIndex,
		StartRow:   start,
		EndRow:     end,
		TableName:  tableName(sheetName, tableIndex, headerRow),
		Headers:    headers,
	}
	for i, row := range dataRows {
		cells := make([]Cell, len(headers))
		for k, h := range headers {
			if h.Index < len(row) {
				cells[k] = row[h.Index]
			} else {
				cells[k] = BlankCell()
			}
		}
		seg.Rows = append(seg.Rows, DataRow{Index: start + 1 + i, Cells: cells})
	}
	return seg, true
}

// deriveHeaders names the retained columns. A blank header over a column
// that carries data gets a synthetic column_<n> name; a blank header over
// an empty column terminates the header list (trailing columns are
// excluded). Names are de-duplicated with numeric suffixes because they
// function as record keys.
func (d *Detector) deriveHeaders(headerRow []Cell, dataRows [][]Cell, extent int) []Header {
	var headers []Header
	for j := 0; j <= extent && j < len(headerRow); j++ {
		raw := strings.TrimSpace(headerRow[j].String())
		name := normalizeHeaderName(raw)
		if name == "" {
			if !columnHasData(dataRows, j) {
				break
			}
			name = fmt.Sprintf("column_%d", j)
		}
		headers = append(headers, Header{Index: j, Name: name, Raw: raw})
	}
	return dedupeHeaders(headers)
}

func columnHasData(rows [][]Cell, col int) bool {
	for _, row := range rows {
		if col < len(row) && !row[col].IsBlank() {
			return true
		}
	}
	return false
}

var nonWordRun = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// normalizeHeaderName lower-cases a header cell and collapses every run of
// non-alphanumeric characters to a single underscore.
func normalizeHeaderName(raw string) string {
	lower := strings.ToLower(strings.TrimSpace(raw))
	name := nonWordRun.ReplaceAllString(lower, "_")
	return strings.Trim(name, "_")
}

// dedupeHeaders appends numeric suffixes to repeated header names.
func dedupeHeaders(headers []Header) []Header {
	seen := make(map[string]bool, len(headers))
	for i := range headers {
		name := headers[i].Name
		if seen[name] {
			for n := 1; ; n++ {
				candidate := fmt.Sprintf("%s_%d", name, n)
				if !seen[candidate] {
					name = candidate
					break
				}
			}
		}
		seen[name] = true
		headers[i].Name = name
	}
	return headers
}

const maxTableNameStem = 30

var unsafeNameChar = regexp.MustCompile(`[^\p{L}\p{N}_-]`)

// tableName derives a readable table name from the first header cell,
// falling back to a positional name when the cell is blank.
func tableName(sheetName string, tableIndex int, headerRow []Cell) string {
	if len(headerRow) > 0 {
		stem := strings.TrimSpace(headerRow[0].String())
		if stem != "" {
			if len([]rune(stem)) > maxTableNameStem {
				stem = string([]rune(stem)[:maxTableNameStem])
			}
			stem = unsafeNameChar.ReplaceAllString(stem, "_")
			return sheetName + "_" + stem
		}
	}
	return fmt.Sprintf("%s_table_%d", sheetName, tableIndex)
}
