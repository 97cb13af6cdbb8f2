package service_test

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"tarifario/internal/domain"
	"tarifario/internal/extract"
	"tarifario/internal/service"
	"tarifario/internal/validator"
	"tarifario/mocks"
)

// workbookBytes builds a minimal accounts workbook in memory.
func workbookBytes(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "TARIFAS"))

	rows := [][]interface{}{
		{"Descripción", "Tarifa Plan G-Zero", "Tarifa Plan Puls", "Tarifa Plan Premier", "Aplica Iva", "Frecuencia"},
		{"Apertura", 0, 8990, 0, "Si", "Mensual"},
		{"Cuota de manejo", 0, 8990, 0, "Si", "Mensual"},
		{"Consulta de saldo", 0, 0, 0, "No", "Por transacción"},
	}
	for i, row := range rows {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("TARIFAS", cell, v))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func newProcessService(repo *mocks.MockDocumentRepo, storage *mocks.MockObjectStorage) service.ProcessService {
	selector := extract.NewSelector(
		extract.NewAccountsStrategy(),
		extract.NewLoansStrategy(),
	)
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	processor := extract.NewProcessor(selector, log)
	engine := validator.NewDefaultEngine(validator.DefaultConfig())
	return service.NewProcessService(processor, engine, repo, storage, log)
}

func TestProcessBytes_EndToEnd(t *testing.T) {
	svc := newProcessService(nil, nil)

	result, err := svc.ProcessBytes(context.Background(), workbookBytes(t), "tarifas_cuentas.xlsx")
	require.NoError(t, err)

	assert.NotEmpty(t, result.Document.DocumentID)
	assert.Equal(t, "accounts", result.Document.BusinessLine)
	assert.Equal(t, 3, result.Document.ServiceCount())
	assert.Equal(t, domain.ReportStatusPassed, result.Report.Status())
	require.NotNil(t, result.Raw)
	assert.Equal(t, result.Document.DocumentID, result.Raw.DocumentID)
}

func TestProcessBytes_UnreadableWorkbook(t *testing.T) {
	svc := newProcessService(nil, nil)

	_, err := svc.ProcessBytes(context.Background(), []byte("not an xlsx"), "roto.xlsx")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnreadableFile)

	var perr *domain.ProcessingError
	assert.ErrorAs(t, err, &perr)
}

func TestProcessFromStorage(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	data := workbookBytes(t)
	storage.On("Download", mock.Anything, "tarifario-workbooks", "uploads/tarifas.xlsx").
		Return(data, nil)

	svc := newProcessService(nil, storage)
	result, err := svc.ProcessFromStorage(context.Background(), "tarifario-workbooks", "uploads/tarifas.xlsx")
	require.NoError(t, err)
	assert.Equal(t, "tarifas.xlsx", result.Document.Filename)
	storage.AssertExpectations(t)
}

func TestProcessFromStorage_DownloadError(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	storage.On("Download", mock.Anything, "tarifario-workbooks", "missing.xlsx").
		Return(nil, domain.ErrDownloadFailed)

	svc := newProcessService(nil, storage)
	_, err := svc.ProcessFromStorage(context.Background(), "tarifario-workbooks", "missing.xlsx")
	assert.ErrorIs(t, err, domain.ErrDownloadFailed)
}

func TestPersist(t *testing.T) {
	repo := new(mocks.MockDocumentRepo)
	svc := newProcessService(repo, nil)

	result, err := svc.ProcessBytes(context.Background(), workbookBytes(t), "tarifas.xlsx")
	require.NoError(t, err)

	repo.On("SaveDocument", mock.Anything, result.Document, result.Report).Return(nil)
	require.NoError(t, svc.Persist(context.Background(), result))
	repo.AssertExpectations(t)
}
