package extract

import (
	"github.com/sirupsen/logrus"

	"tarifario/internal/domain"
)

// Workbook is a materialized spreadsheet. Implementations hold the bytes
// in memory; the pipeline performs no I/O.
type Workbook interface {
	SheetNames() []string
	Grid(sheet string) (Grid, error)
}

// TableResult records one discovered table in the raw extraction artifact.
type TableResult struct {
	TableName         string           `json:"table_name"`
	TableType         domain.TableType `json:"table_type"`
	StartRow          int              `json:"start_row"`
	EndRow            int              `json:"end_row"`
	Headers           []string         `json:"headers"`
	RowCount          int              `json:"row_count"`
	ServicesExtracted int              `json:"services_extracted"`
}

// SheetResult groups the tables discovered in one sheet.
type SheetResult struct {
	Sheet  string        `json:"sheet"`
	Tables []TableResult `json:"tables,omitempty"`
}

// ExtractionResult is the raw per-table outcome of a processing pass,
// kept alongside the Document for debugging extraction behavior against
// the source workbook.
type ExtractionResult struct {
	DocumentID   string        `json:"document_id"`
	Filename     string        `json:"filename"`
	BusinessLine string        `json:"business_line"`
	Sheets       []SheetResult `json:"sheets"`
}

// Processor runs the full extraction pipeline over one workbook: strategy
// selection, per-sheet normalization, table discovery, classification and
// row extraction.
//
// Failure semantics are layered: a malformed row skips that row, an
// unreadable sheet skips that sheet (recorded in the metadata), and only
// whole-document conditions (no sheets, no tables anywhere) fail the run.
type Processor struct {
	selector *Selector
	log      logrus.FieldLogger
}

// NewProcessor creates a processor over the registered strategies.
func NewProcessor(selector *Selector, log logrus.FieldLogger) *Processor {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Processor{selector: selector, log: log}
}

// Process extracts every service record from the workbook into a new
// Document, plus the raw per-table extraction result. Errors are always
// *domain.ProcessingError wrapping a domain sentinel.
func (p *Processor) Process(wb Workbook, documentID, filename string) (*domain.Document, *ExtractionResult, error) {
	sheets := wb.SheetNames()
	if len(sheets) == 0 {
		return nil, nil, domain.NewProcessingError(documentID, filename, domain.ErrNoSheets)
	}

	strategy, err := p.selector.Select(sheets, filename)
	if err != nil {
		return nil, nil, domain.NewProcessingError(documentID, filename, err)
	}

	p.log.WithFields(logrus.Fields{
		"document_id":   documentID,
		"filename":      filename,
		"business_line": strategy.BusinessLine(),
		"sheets":        len(sheets),
	}).Info("processing workbook")

	doc := domain.NewDocument(documentID, strategy.BusinessLine(), filename)
	result := &ExtractionResult{
		DocumentID:   documentID,
		Filename:     filename,
		BusinessLine: strategy.BusinessLine(),
	}
	meta := domain.ProcessingMetadata{
		Strategy:     strategy.BusinessLine(),
		SourceSheets: sheets,
	}

	for _, sheet := range sheets {
		if !strategy.ShouldProcessSheet(sheet) {
			p.log.WithField("sheet", sheet).Debug("skipping sheet")
			meta.SheetsSkipped++
			continue
		}

		grid, gridErr := wb.Grid(sheet)
		if gridErr != nil {
			p.log.WithField("sheet", sheet).WithError(gridErr).Warn("sheet unreadable, skipping")
			meta.SheetsSkipped++
			meta.SheetFailures = append(meta.SheetFailures, domain.SheetFailure{
				Sheet:  sheet,
				Reason: gridErr.Error(),
			})
			continue
		}

		meta.SheetsProcessed++
		sheetResult := SheetResult{Sheet: sheet}

		for _, seg := range strategy.FindTables(grid, sheet) {
			meta.TablesFound++
			tableType := strategy.Classify(seg)

			headerNames := make([]string, len(seg.Headers))
			for i, h := range seg.Headers {
				headerNames[i] = h.Name
			}
			tr := TableResult{
				TableName: seg.TableName,
				TableType: tableType,
				StartRow:  seg.StartRow,
				EndRow:    seg.EndRow,
				Headers:   headerNames,
				RowCount:  len(seg.Rows),
			}

			if tableType == domain.TableTypeUnknown {
				p.log.WithFields(logrus.Fields{
					"sheet": sheet,
					"table": seg.TableName,
				}).Info("dropping unclassified table")
				meta.TablesDropped++
				sheetResult.Tables = append(sheetResult.Tables, tr)
				continue
			}

			for _, row := range seg.Rows {
				svc, ok := strategy.ExtractServiceFromRow(seg, row, tableType)
				if !ok {
					continue
				}
				doc.AddService(svc)
				tr.ServicesExtracted++
			}
			sheetResult.Tables = append(sheetResult.Tables, tr)
		}

		result.Sheets = append(result.Sheets, sheetResult)
	}

	if meta.TablesFound == 0 {
		return nil, nil, domain.NewProcessingError(documentID, filename, domain.ErrNoTablesFound)
	}

	for _, problem := range strategy.ValidateExtractedData(doc.Services) {
		p.log.WithField("document_id", documentID).Warn(problem)
	}

	meta.TableCounts = doc.ServiceCountByTableType()
	doc.ProcessingMetadata = meta

	p.log.WithFields(logrus.Fields{
		"document_id": documentID,
		"services":    doc.ServiceCount(),
		"tables":      meta.TablesFound,
		"dropped":     meta.TablesDropped,
	}).Info("workbook processed")

	return doc, result, nil
}
