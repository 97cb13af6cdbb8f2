package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"tarifario/internal/domain"
	"tarifario/internal/port"
)

type documentRepo struct {
	db *sqlx.DB
}

// NewDocumentRepo creates a new PostgreSQL-backed DocumentRepository.
func NewDocumentRepo(db *sqlx.DB) port.DocumentRepository {
	return &documentRepo{db: db}
}

// documentRow is the documents table projection. Services live in their
// own table; metadata and the validation report are stored as JSONB.
type documentRow struct {
	DocumentID   string          `db:"document_id"`
	BusinessLine string          `db:"business_line"`
	Filename     string          `db:"filename"`
	Version      string          `db:"document_version"`
	Metadata     json.RawMessage `db:"metadata"`
	Report       json.RawMessage `db:"report"`
	ServiceCount int             `db:"service_count"`
	CreatedAt    time.Time       `db:"created_at"`
	LastUpdated  time.Time       `db:"last_updated"`
}

// serviceRow is the services table projection. Rates are JSONB because
// their shape varies by table type.
type serviceRow struct {
	DocumentID   string          `db:"document_id"`
	ServiceID    string          `db:"service_id"`
	TableType    string          `db:"table_type"`
	Position     int             `db:"position"`
	Description  string          `db:"description"`
	BusinessLine string          `db:"business_line"`
	Frequency    string          `db:"frequency"`
	AppliesTax   bool            `db:"applies_tax"`
	Rates        json.RawMessage `db:"rates"`
	Rate         json.RawMessage `db:"rate"`
	Disclaimer   sql.NullString  `db:"disclaimer"`
	SourceSheet  string          `db:"source_sheet"`
	SourceRow    int             `db:"source_row"`
	CreatedAt    time.Time       `db:"created_at"`
}

func (r *documentRepo) SaveDocument(ctx context.Context, doc *domain.Document, report *domain.ValidationReport) error {
	metadata, err := json.Marshal(doc.ProcessingMetadata)
	if err != nil {
		return fmt.Errorf("documentRepo.SaveDocument marshal metadata: %w", err)
	}
	reportJSON, err := json.Marshal(report.WithStatus())
	if err != nil {
		return fmt.Errorf("documentRepo.SaveDocument marshal report: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("documentRepo.SaveDocument begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (
			document_id, business_line, filename, document_version,
			metadata, report, service_count, created_at, last_updated
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (document_id) DO UPDATE SET
			business_line = EXCLUDED.business_line,
			filename = EXCLUDED.filename,
			document_version = EXCLUDED.document_version,
			metadata = EXCLUDED.metadata,
			report = EXCLUDED.report,
			service_count = EXCLUDED.service_count,
			last_updated = EXCLUDED.last_updated`,
		doc.DocumentID, doc.BusinessLine, doc.Filename, doc.Version,
		metadata, reportJSON, doc.ServiceCount(), doc.CreatedAt, doc.LastUpdated)
	if err != nil {
		return fmt.Errorf("documentRepo.SaveDocument upsert document: %w", err)
	}

	_, err = tx.ExecContext(ctx, "DELETE FROM services WHERE document_id = $1", doc.DocumentID)
	if err != nil {
		return fmt.Errorf("documentRepo.SaveDocument clear services: %w", err)
	}

	for i := range doc.Services {
		row, rowErr := toServiceRow(&doc.Services[i], i)
		if rowErr != nil {
			return fmt.Errorf("documentRepo.SaveDocument marshal service %d: %w", i, rowErr)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO services (
				document_id, service_id, table_type, position,
				description, business_line, frequency, applies_tax,
				rates, rate, disclaimer, source_sheet, source_row, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
			row.DocumentID, row.ServiceID, row.TableType, row.Position,
			row.Description, row.BusinessLine, row.Frequency, row.AppliesTax,
			row.Rates, row.Rate, row.Disclaimer, row.SourceSheet, row.SourceRow, row.CreatedAt)
		if err != nil {
			return fmt.Errorf("documentRepo.SaveDocument insert service %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("documentRepo.SaveDocument commit: %w", err)
	}
	return nil
}

func (r *documentRepo) GetDocument(ctx context.Context, documentID string) (*domain.Document, error) {
	var row documentRow
	err := r.db.GetContext(ctx, &row,
		"SELECT * FROM documents WHERE document_id = $1", documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("documentRepo.GetDocument: %w", err)
	}

	doc := &domain.Document{
		DocumentID:   row.DocumentID,
		BusinessLine: row.BusinessLine,
		Filename:     row.Filename,
		Version:      row.Version,
		CreatedAt:    row.CreatedAt,
		LastUpdated:  row.LastUpdated,
	}
	if len(row.Metadata) > 0 {
		if err := json.Unmarshal(row.Metadata, &doc.ProcessingMetadata); err != nil {
			return nil, fmt.Errorf("documentRepo.GetDocument unmarshal metadata: %w", err)
		}
	}

	var rows []serviceRow
	err = r.db.SelectContext(ctx, &rows,
		"SELECT * FROM services WHERE document_id = $1 ORDER BY position", documentID)
	if err != nil {
		return nil, fmt.Errorf("documentRepo.GetDocument services: %w", err)
	}
	for i := range rows {
		svc, svcErr := fromServiceRow(&rows[i])
		if svcErr != nil {
			return nil, fmt.Errorf("documentRepo.GetDocument unmarshal service: %w", svcErr)
		}
		doc.Services = append(doc.Services, svc)
	}
	return doc, nil
}

func (r *documentRepo) GetReport(ctx context.Context, documentID string) (*domain.ValidationReport, error) {
	var raw json.RawMessage
	err := r.db.GetContext(ctx, &raw,
		"SELECT report FROM documents WHERE document_id = $1", documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("documentRepo.GetReport: %w", err)
	}

	var report domain.ValidationReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, fmt.Errorf("documentRepo.GetReport unmarshal: %w", err)
	}
	return &report, nil
}

func (r *documentRepo) ListDocuments(ctx context.Context, businessLine string, limit int) ([]domain.DocumentSummary, error) {
	if limit <= 0 {
		limit = 50
	}

	var summaries []domain.DocumentSummary
	var err error
	if businessLine == "" {
		err = r.db.SelectContext(ctx, &summaries, `
			SELECT document_id, business_line, filename, service_count, created_at, last_updated
			FROM documents ORDER BY last_updated DESC LIMIT $1`, limit)
	} else {
		err = r.db.SelectContext(ctx, &summaries, `
			SELECT document_id, business_line, filename, service_count, created_at, last_updated
			FROM documents WHERE business_line = $1
			ORDER BY last_updated DESC LIMIT $2`, businessLine, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("documentRepo.ListDocuments: %w", err)
	}
	return summaries, nil
}

func (r *documentRepo) ListServices(ctx context.Context, businessLine string, filter port.ServiceFilter) ([]domain.FinancialService, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	query := `SELECT * FROM services WHERE business_line = $1`
	args := []any{businessLine}
	if filter.ServiceID != "" {
		args = append(args, filter.ServiceID)
		query += fmt.Sprintf(" AND service_id = $%d", len(args))
	}
	if filter.TableType != "" {
		args = append(args, string(filter.TableType))
		query += fmt.Sprintf(" AND table_type = $%d", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY document_id, position LIMIT $%d", len(args))

	var rows []serviceRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("documentRepo.ListServices: %w", err)
	}

	services := make([]domain.FinancialService, 0, len(rows))
	for i := range rows {
		svc, err := fromServiceRow(&rows[i])
		if err != nil {
			return nil, fmt.Errorf("documentRepo.ListServices unmarshal: %w", err)
		}
		services = append(services, svc)
	}
	return services, nil
}

func (r *documentRepo) DeleteDocument(ctx context.Context, documentID string) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM documents WHERE document_id = $1", documentID)
	if err != nil {
		return fmt.Errorf("documentRepo.DeleteDocument: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

func toServiceRow(svc *domain.FinancialService, position int) (*serviceRow, error) {
	row := &serviceRow{
		DocumentID:   svc.DocumentID,
		ServiceID:    svc.ServiceID,
		TableType:    string(svc.TableType),
		Position:     position,
		Description:  svc.Description,
		BusinessLine: svc.BusinessLine,
		Frequency:    svc.Frequency,
		AppliesTax:   svc.AppliesTax,
		SourceSheet:  svc.SourcePosition.Sheet,
		SourceRow:    svc.SourcePosition.StartRow,
		CreatedAt:    svc.CreatedAt,
	}
	if svc.Disclaimer != "" {
		row.Disclaimer = sql.NullString{String: svc.Disclaimer, Valid: true}
	}

	if len(svc.Rates) > 0 {
		rates, err := json.Marshal(svc.Rates)
		if err != nil {
			return nil, err
		}
		row.Rates = rates
	}
	if svc.Rate != nil {
		rate, err := json.Marshal(svc.Rate)
		if err != nil {
			return nil, err
		}
		row.Rate = rate
	}
	return row, nil
}

func fromServiceRow(row *serviceRow) (domain.FinancialService, error) {
	svc := domain.FinancialService{
		DocumentID:   row.DocumentID,
		ServiceID:    row.ServiceID,
		TableType:    domain.TableType(row.TableType),
		Description:  row.Description,
		BusinessLine: row.BusinessLine,
		Frequency:    row.Frequency,
		AppliesTax:   row.AppliesTax,
		Disclaimer:   row.Disclaimer.String,
		SourcePosition: domain.SourcePosition{
			Sheet:    row.SourceSheet,
			StartRow: row.SourceRow,
			EndRow:   row.SourceRow,
		},
		CreatedAt: row.CreatedAt,
	}
	if len(row.Rates) > 0 {
		if err := json.Unmarshal(row.Rates, &svc.Rates); err != nil {
			return domain.FinancialService{}, err
		}
	}
	if len(row.Rate) > 0 {
		var rate domain.Rate
		if err := json.Unmarshal(row.Rate, &rate); err != nil {
			return domain.FinancialService{}, err
		}
		svc.Rate = &rate
	}
	return svc, nil
}
