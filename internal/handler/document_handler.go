package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tarifario/internal/csvexport"
	"tarifario/internal/domain"
	"tarifario/internal/port"
	"tarifario/internal/service"
)

// DocumentHandler serves the document query surface and the upload
// processing endpoint.
type DocumentHandler struct {
	query   service.QueryService
	process service.ProcessService
	maxSize int64
}

// NewDocumentHandler creates a new DocumentHandler. maxSizeMB bounds
// uploaded workbook size.
func NewDocumentHandler(query service.QueryService, process service.ProcessService, maxSizeMB int64) *DocumentHandler {
	return &DocumentHandler{query: query, process: process, maxSize: maxSizeMB * 1024 * 1024}
}

// Process handles POST /documents: multipart upload of one workbook,
// extraction, validation and persistence. The response carries the
// document and its validation report; a failed validation status still
// returns 201 because processing succeeded.
func (h *DocumentHandler) Process(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "multipart field \"file\" is required")
		return
	}
	if fileHeader.Size > h.maxSize {
		RespondError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "workbook exceeds maximum allowed size")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		HandleError(c, err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		HandleError(c, err)
		return
	}

	result, err := h.process.ProcessBytes(c.Request.Context(), data, fileHeader.Filename)
	if err != nil {
		HandleError(c, err)
		return
	}
	if err := h.process.Persist(c.Request.Context(), result); err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, gin.H{
		"document": result.Document,
		"report":   result.Report.WithStatus(),
	})
}

// List handles GET /documents with optional business_line and limit
// query parameters.
func (h *DocumentHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	docs, err := h.query.ListDocuments(c.Request.Context(), c.Query("business_line"), limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, docs)
}

// GetByID handles GET /documents/:id.
func (h *DocumentHandler) GetByID(c *gin.Context) {
	doc, err := h.query.GetDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, doc)
}

// GetReport handles GET /documents/:id/report.
func (h *DocumentHandler) GetReport(c *gin.Context) {
	report, err := h.query.GetReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, report)
}

// Export handles GET /documents/:id/export: the document's services as
// a CSV download. The payload starts with a UTF-8 BOM so Excel renders
// accented Spanish text correctly.
func (h *DocumentHandler) Export(c *gin.Context) {
	doc, err := h.query.GetDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}

	filename := csvexport.BuildFilename(doc.Filename)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)

	if _, err := c.Writer.Write(csvexport.BOM); err != nil {
		return
	}
	w := csvexport.NewWriter(c.Writer)
	if err := w.WriteHeader(); err != nil {
		return
	}
	if err := w.WriteDocument(doc); err != nil {
		return
	}
	w.Flush()
}

// ListServices handles GET /services/:business_line with optional
// service_id, table_type and limit query parameters.
func (h *DocumentHandler) ListServices(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	filter := port.ServiceFilter{
		ServiceID: c.Query("service_id"),
		TableType: domain.TableType(c.Query("table_type")),
		Limit:     limit,
	}
	services, err := h.query.ListServices(c.Request.Context(), c.Param("business_line"), filter)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, services)
}
