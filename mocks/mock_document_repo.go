package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tarifario/internal/domain"
	"tarifario/internal/port"
)

// MockDocumentRepo is a mock implementation of port.DocumentRepository.
type MockDocumentRepo struct {
	mock.Mock
}

func (m *MockDocumentRepo) SaveDocument(ctx context.Context, doc *domain.Document, report *domain.ValidationReport) error {
	args := m.Called(ctx, doc, report)
	return args.Error(0)
}

func (m *MockDocumentRepo) GetDocument(ctx context.Context, documentID string) (*domain.Document, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentRepo) GetReport(ctx context.Context, documentID string) (*domain.ValidationReport, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ValidationReport), args.Error(1)
}

func (m *MockDocumentRepo) ListDocuments(ctx context.Context, businessLine string, limit int) ([]domain.DocumentSummary, error) {
	args := m.Called(ctx, businessLine, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DocumentSummary), args.Error(1)
}

func (m *MockDocumentRepo) ListServices(ctx context.Context, businessLine string, filter port.ServiceFilter) ([]domain.FinancialService, error) {
	args := m.Called(ctx, businessLine, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FinancialService), args.Error(1)
}

func (m *MockDocumentRepo) DeleteDocument(ctx context.Context, documentID string) error {
	args := m.Called(ctx, documentID)
	return args.Error(0)
}
