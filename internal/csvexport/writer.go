// Package csvexport flattens extracted service records into CSV for
// download by analysts who live in Excel.
package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"tarifario/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row. Multi-plan rates collapse into one
// "Rates" column of semicolon-separated plan=value pairs so the row count
// stays one-per-service.
var columns = []string{
	"Document ID",
	"Business Line",
	"Table Type",
	"Service ID",
	"Description",
	"Frequency",
	"Applies Tax",
	"Rate Type",
	"Rate Value",
	"Currency",
	"Rates",
	"Disclaimer",
	"Source Sheet",
	"Source Row",
	"Created At",
}

// Writer wraps csv.Writer for exporting service records as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the column header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteServices converts a batch of services to CSV rows and writes them.
func (w *Writer) WriteServices(services []domain.FinancialService) error {
	for i := range services {
		if err := w.csv.Write(serviceToRow(&services[i])); err != nil {
			return err
		}
	}
	return nil
}

// WriteDocument writes every service of a document in append order.
func (w *Writer) WriteDocument(doc *domain.Document) error {
	return w.WriteServices(doc.Services)
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func serviceToRow(svc *domain.FinancialService) []string {
	row := make([]string, len(columns))

	row[0] = svc.DocumentID
	row[1] = svc.BusinessLine
	row[2] = string(svc.TableType)
	row[3] = svc.ServiceID
	row[4] = svc.Description
	row[5] = svc.Frequency
	row[6] = formatBool(svc.AppliesTax)
	if svc.Rate != nil {
		row[7] = string(svc.Rate.Type)
		row[8] = formatRateValue(*svc.Rate)
		row[9] = svc.Rate.Currency
	}
	row[10] = formatRates(svc.Rates)
	row[11] = svc.Disclaimer
	row[12] = svc.SourcePosition.Sheet
	row[13] = strconv.Itoa(svc.SourcePosition.StartRow)
	row[14] = svc.CreatedAt.Format(time.RFC3339)

	return row
}

// formatRates renders a plan→rate map as "plan=value; plan=value" with
// plans sorted for deterministic output.
func formatRates(rates map[string]domain.Rate) string {
	if len(rates) == 0 {
		return ""
	}
	plans := make([]string, 0, len(rates))
	for plan := range rates {
		plans = append(plans, plan)
	}
	sort.Strings(plans)

	parts := make([]string, 0, len(plans))
	for _, plan := range plans {
		parts = append(parts, fmt.Sprintf("%s=%s", plan, formatRateValue(rates[plan])))
	}
	return strings.Join(parts, "; ")
}

func formatRateValue(r domain.Rate) string {
	switch r.Type {
	case domain.RateTypeFixed:
		return r.Value.String()
	case domain.RateTypePercentage:
		return r.Value.String() + "%"
	case domain.RateTypeConditional:
		return fmt.Sprintf("%d free, then %s", r.IncludedFree, r.AdditionalCost)
	case domain.RateTypeUnlimited:
		return "unlimited"
	case domain.RateTypeNotApplicable:
		return "n/a"
	default:
		return r.Raw
	}
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a document filename for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for the Content-Disposition
// header. Format: {sanitized_name}_{YYYY-MM-DD}.csv
func BuildFilename(name string) string {
	sanitized := SanitizeFilename(name)
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_%s.csv", sanitized, date)
}
