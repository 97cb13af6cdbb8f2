// Package port defines the boundary contracts between the extraction core
// and its external collaborators.
package port

import (
	"context"

	"tarifario/internal/domain"
)

// ServiceFilter narrows a service listing.
type ServiceFilter struct {
	ServiceID string
	TableType domain.TableType
	Limit     int
}

// DocumentRepository defines the contract for persisting extraction
// output. A document is saved as a whole: its metadata, its validation
// report and every service record, atomically.
type DocumentRepository interface {
	SaveDocument(ctx context.Context, doc *domain.Document, report *domain.ValidationReport) error
	GetDocument(ctx context.Context, documentID string) (*domain.Document, error)
	GetReport(ctx context.Context, documentID string) (*domain.ValidationReport, error)
	ListDocuments(ctx context.Context, businessLine string, limit int) ([]domain.DocumentSummary, error)
	ListServices(ctx context.Context, businessLine string, filter ServiceFilter) ([]domain.FinancialService, error)
	DeleteDocument(ctx context.Context, documentID string) error
}
