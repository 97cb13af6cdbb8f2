// Package service wires the extraction core to its external
// collaborators: workbook intake, validation and persistence.
package service

import (
	"context"
	"path"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"tarifario/internal/domain"
	"tarifario/internal/extract"
	"tarifario/internal/port"
	"tarifario/internal/validator"
	"tarifario/internal/workbook/xlsx"
)

// ProcessResult bundles everything one processing pass produces.
type ProcessResult struct {
	Document *domain.Document
	Report   *domain.ValidationReport
	Raw      *extract.ExtractionResult
}

// ProcessService runs the extraction pipeline over workbooks and
// persists the outcome.
type ProcessService interface {
	ProcessBytes(ctx context.Context, data []byte, filename string) (*ProcessResult, error)
	ProcessFromStorage(ctx context.Context, bucket, key string) (*ProcessResult, error)
	Persist(ctx context.Context, result *ProcessResult) error
}

type processService struct {
	processor *extract.Processor
	engine    *validator.Engine
	repo      port.DocumentRepository
	storage   port.ObjectStorage
	log       logrus.FieldLogger
}

// NewProcessService creates a ProcessService. repo and storage may be nil
// for callers that only extract (the CLI without persistence); Persist
// and ProcessFromStorage then fail with the corresponding sentinel.
func NewProcessService(
	processor *extract.Processor,
	engine *validator.Engine,
	repo port.DocumentRepository,
	storage port.ObjectStorage,
	log logrus.FieldLogger,
) ProcessService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &processService{
		processor: processor,
		engine:    engine,
		repo:      repo,
		storage:   storage,
		log:       log,
	}
}

// ProcessBytes extracts and validates one workbook already held in
// memory. Validation failure is not an error: the report travels with
// the result and the caller decides what a failed status means.
func (s *processService) ProcessBytes(_ context.Context, data []byte, filename string) (*ProcessResult, error) {
	documentID := uuid.New().String()

	wb, err := xlsx.Open(data)
	if err != nil {
		return nil, domain.NewProcessingError(documentID, filename, err)
	}
	defer wb.Close()

	doc, raw, err := s.processor.Process(wb, documentID, filename)
	if err != nil {
		return nil, err
	}

	report := s.engine.Validate(doc)
	s.log.WithFields(logrus.Fields{
		"document_id": doc.DocumentID,
		"status":      report.Status(),
		"errors":      report.Stats.Errors,
		"warnings":    report.Stats.Warnings,
	}).Info("document validated")

	return &ProcessResult{Document: doc, Report: report, Raw: raw}, nil
}

// ProcessFromStorage downloads a workbook from object storage and
// processes it. The filename is the object key's base name.
func (s *processService) ProcessFromStorage(ctx context.Context, bucket, key string) (*ProcessResult, error) {
	data, err := s.storage.Download(ctx, bucket, key)
	if err != nil {
		return nil, domain.NewProcessingError("", path.Base(key), err)
	}
	return s.ProcessBytes(ctx, data, path.Base(key))
}

// Persist saves the document and its report atomically.
func (s *processService) Persist(ctx context.Context, result *ProcessResult) error {
	return s.repo.SaveDocument(ctx, result.Document, result.Report)
}
