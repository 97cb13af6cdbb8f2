package service

import (
	"context"

	"tarifario/internal/domain"
	"tarifario/internal/port"
)

// QueryService defines the read-side contract over persisted documents.
type QueryService interface {
	ListDocuments(ctx context.Context, businessLine string, limit int) ([]domain.DocumentSummary, error)
	GetDocument(ctx context.Context, documentID string) (*domain.Document, error)
	GetReport(ctx context.Context, documentID string) (domain.StatusedReport, error)
	ListServices(ctx context.Context, businessLine string, filter port.ServiceFilter) ([]domain.FinancialService, error)
}

type queryService struct {
	repo port.DocumentRepository
}

// NewQueryService creates a QueryService over a document repository.
func NewQueryService(repo port.DocumentRepository) QueryService {
	return &queryService{repo: repo}
}

func (s *queryService) ListDocuments(ctx context.Context, businessLine string, limit int) ([]domain.DocumentSummary, error) {
	return s.repo.ListDocuments(ctx, businessLine, limit)
}

func (s *queryService) GetDocument(ctx context.Context, documentID string) (*domain.Document, error) {
	return s.repo.GetDocument(ctx, documentID)
}

func (s *queryService) GetReport(ctx context.Context, documentID string) (domain.StatusedReport, error) {
	report, err := s.repo.GetReport(ctx, documentID)
	if err != nil {
		return domain.StatusedReport{}, err
	}
	return report.WithStatus(), nil
}

func (s *queryService) ListServices(ctx context.Context, businessLine string, filter port.ServiceFilter) ([]domain.FinancialService, error) {
	return s.repo.ListServices(ctx, businessLine, filter)
}
