package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrNoSheets         = errors.New("workbook contains no sheets")
	ErrNoTablesFound    = errors.New("no tables found in workbook")
	ErrUnreadableFile   = errors.New("workbook could not be read")
	ErrUnknownBusiness  = errors.New("no strategy registered for business line")
	ErrDownloadFailed   = errors.New("workbook download from storage failed")
)

// ProcessingError wraps a document-level extraction failure. Row- and
// sheet-level failures never surface as this type; they degrade to skips
// recorded in ProcessingMetadata.
type ProcessingError struct {
	DocumentID string
	Filename   string
	Err        error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("processing %s (document %s): %v", e.Filename, e.DocumentID, e.Err)
}

func (e *ProcessingError) Unwrap() error { return e.Err }

// NewProcessingError wraps err as a document-level processing failure.
func NewProcessingError(documentID, filename string, err error) *ProcessingError {
	return &ProcessingError{DocumentID: documentID, Filename: filename, Err: err}
}
