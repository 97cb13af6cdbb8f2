package domain

import (
	"time"
)

// SourcePosition records where in the workbook a service was found.
type SourcePosition struct {
	Sheet    string `json:"sheet" db:"source_sheet"`
	StartRow int    `json:"start_row" db:"source_row"`
	EndRow   int    `json:"end_row" db:"source_end_row"`
}

// FinancialService is one extracted rate/fee record. Multi-plan table types
// populate Rates (plan name → rate); single-rate table types populate Rate.
type FinancialService struct {
	ServiceID      string          `json:"service_id"`
	Description    string          `json:"description"`
	BusinessLine   string          `json:"business_line"`
	TableType      TableType       `json:"table_type"`
	Frequency      string          `json:"frequency"`
	AppliesTax     bool            `json:"applies_tax"`
	Rates          map[string]Rate `json:"rates,omitempty"`
	Rate           *Rate           `json:"rate,omitempty"`
	Disclaimer     string          `json:"disclaimer,omitempty"`
	DocumentID     string          `json:"document_id,omitempty"`
	SourcePosition SourcePosition  `json:"source_position"`
	CreatedAt      time.Time       `json:"created_at"`
}

// AddRate sets the rate for a plan, allocating the map on first use.
func (s *FinancialService) AddRate(planName string, rate Rate) {
	if s.Rates == nil {
		s.Rates = make(map[string]Rate)
	}
	s.Rates[planName] = rate
}

// HasRates reports whether the service carries any rate at all.
func (s *FinancialService) HasRates() bool {
	return len(s.Rates) > 0 || s.Rate != nil
}

// SheetFailure records why a sheet was skipped during extraction.
type SheetFailure struct {
	Sheet  string `json:"sheet"`
	Reason string `json:"reason"`
}

// ProcessingMetadata summarizes an extraction pass over one workbook.
type ProcessingMetadata struct {
	Strategy        string            `json:"strategy"`
	SourceSheets    []string          `json:"source_sheets"`
	SheetsProcessed int               `json:"sheets_processed"`
	SheetsSkipped   int               `json:"sheets_skipped"`
	SheetFailures   []SheetFailure    `json:"sheet_failures,omitempty"`
	TablesFound     int               `json:"tables_found"`
	TablesDropped   int               `json:"tables_dropped"`
	TableCounts     map[TableType]int `json:"table_counts,omitempty"`
}

// Document is the aggregate root for one processed workbook. It owns its
// services exclusively and is persisted as a whole, never partially.
type Document struct {
	DocumentID         string             `json:"document_id"`
	BusinessLine       string             `json:"business_line"`
	Filename           string             `json:"filename"`
	Version            string             `json:"document_version"`
	Services           []FinancialService `json:"services"`
	ProcessingMetadata ProcessingMetadata `json:"processing_metadata"`
	CreatedAt          time.Time          `json:"created_at"`
	LastUpdated        time.Time          `json:"last_updated"`
}

// NewDocument creates an empty document for one source file.
func NewDocument(documentID, businessLine, filename string) *Document {
	now := time.Now().UTC()
	return &Document{
		DocumentID:   documentID,
		BusinessLine: businessLine,
		Filename:     filename,
		Version:      "v1",
		CreatedAt:    now,
		LastUpdated:  now,
	}
}

// AddService appends a service, stamping it with the document id.
// Append order is the extraction order and is part of the contract:
// re-running extraction on identical input yields an identical sequence.
func (d *Document) AddService(svc FinancialService) {
	svc.DocumentID = d.DocumentID
	d.Services = append(d.Services, svc)
	d.LastUpdated = time.Now().UTC()
}

// ServiceCount returns the total number of services.
func (d *Document) ServiceCount() int {
	return len(d.Services)
}

// ServiceCountByTableType groups service counts per table type.
func (d *Document) ServiceCountByTableType() map[TableType]int {
	counts := make(map[TableType]int)
	for i := range d.Services {
		counts[d.Services[i].TableType]++
	}
	return counts
}

// DocumentSummary is the listing projection of a document (no services).
type DocumentSummary struct {
	DocumentID   string    `json:"document_id" db:"document_id"`
	BusinessLine string    `json:"business_line" db:"business_line"`
	Filename     string    `json:"filename" db:"filename"`
	ServiceCount int       `json:"service_count" db:"service_count"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	LastUpdated  time.Time `json:"last_updated" db:"last_updated"`
}
