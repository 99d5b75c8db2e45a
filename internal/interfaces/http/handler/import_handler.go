package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/receivable360/backend/internal/application/importing"
	"github.com/receivable360/backend/internal/infrastructure/spreadsheet"
	"github.com/receivable360/backend/internal/interfaces/http/dto"
)

// Worksheet names the source exports use. Workbooks with a single sheet are
// accepted whatever that sheet is called.
const (
	invoiceSheetName = "ham_data"
	paymentSheetName = "data"
)

// ImportHandler handles the spreadsheet upload endpoints
type ImportHandler struct {
	BaseHandler
	invoices    *importing.InvoiceImportService
	payments    *importing.PaymentImportService
	regions     *importing.RegionImportService
	maxFileSize int64
}

// NewImportHandler creates a new ImportHandler
func NewImportHandler(
	invoices *importing.InvoiceImportService,
	payments *importing.PaymentImportService,
	regions *importing.RegionImportService,
	maxFileSize int64,
) *ImportHandler {
	return &ImportHandler{
		invoices:    invoices,
		payments:    payments,
		regions:     regions,
		maxFileSize: maxFileSize,
	}
}

// UploadInvoices ingests the open-invoice export. Existing invoices are
// updated in place, new ones created.
func (h *ImportHandler) UploadInvoices(c *gin.Context) {
	rows, ok := h.parseUpload(c, invoiceSheetName)
	if !ok {
		return
	}

	result, err := h.invoices.Import(c.Request.Context(), rows)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// UploadPayments ingests the applied-payments export, replacing the stored
// batch wholesale.
func (h *ImportHandler) UploadPayments(c *gin.Context) {
	rows, ok := h.parseUpload(c, paymentSheetName)
	if !ok {
		return
	}

	result, err := h.payments.Import(c.Request.Context(), rows)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// UploadCustomerRegions ingests the customer-to-region mapping file.
func (h *ImportHandler) UploadCustomerRegions(c *gin.Context) {
	rows, ok := h.parseUpload(c, "")
	if !ok {
		return
	}

	result, err := h.regions.Import(c.Request.Context(), rows)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// parseUpload reads the multipart file field and parses it into rows. It
// writes the error response itself and returns ok=false on failure.
func (h *ImportHandler) parseUpload(c *gin.Context, sheetName string) ([]*spreadsheet.Row, bool) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.BadRequest(c, "file is required")
		return nil, false
	}
	defer file.Close()

	if header.Size > h.maxFileSize {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeValidation, "file exceeds maximum upload size")
		return nil, false
	}

	rows, err := spreadsheet.Parse(header.Filename, file, sheetName)
	if err != nil {
		h.handleParseError(c, header, err)
		return nil, false
	}
	return rows, true
}

func (h *ImportHandler) handleParseError(c *gin.Context, header *multipart.FileHeader, err error) {
	var sheetErr *spreadsheet.SheetNotFoundError
	switch {
	case errors.Is(err, spreadsheet.ErrUnsupportedFormat):
		h.Error(c, http.StatusUnsupportedMediaType, dto.ErrCodeValidation,
			"unsupported file type, upload a csv, xls or xlsx file")
	case errors.Is(err, spreadsheet.ErrEmptyFile),
		errors.Is(err, spreadsheet.ErrMissingHeader),
		errors.Is(err, spreadsheet.ErrInvalidEncoding):
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, err.Error())
	case errors.As(err, &sheetErr):
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, err.Error())
	default:
		h.InternalError(c, "failed to parse "+header.Filename)
	}
}

// RegisterRoutes registers the upload routes
func (h *ImportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	uploads := rg.Group("/imports")
	{
		uploads.POST("/invoices", h.UploadInvoices)
		uploads.POST("/payments", h.UploadPayments)
		uploads.POST("/customer-regions", h.UploadCustomerRegions)
	}
}
