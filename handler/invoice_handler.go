package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	"github.com/notblessy/invoicegen/model"
	"github.com/notblessy/invoicegen/repository"
	"github.com/notblessy/invoicegen/utils"
	"github.com/sirupsen/logrus"
)

const dateLayout = "2006-01-02"

type invoiceHandler struct {
	invoiceRepo  repository.InvoiceRepository
	documentRepo repository.DocumentRepository
	pdfRenderer  *utils.PDFRenderer
	validate     *validator.Validate
	now          func() time.Time
}

func NewInvoiceHandler(invoiceRepo repository.InvoiceRepository, documentRepo repository.DocumentRepository, pdfRenderer *utils.PDFRenderer) *invoiceHandler {
	return &invoiceHandler{
		invoiceRepo:  invoiceRepo,
		documentRepo: documentRepo,
		pdfRenderer:  pdfRenderer,
		validate:     validator.New(),
		now:          time.Now,
	}
}

// GetInvoices lists every summary record
func (h *invoiceHandler) GetInvoices(c echo.Context) error {
	logger := logrus.WithField("endpoint", "get_invoices")

	invoices, err := h.invoiceRepo.List(c.Request().Context())
	if err != nil {
		logger.Errorf("Error listing invoices: %v", err)
		return c.JSON(http.StatusInternalServerError, response{
			Success: false,
			Message: "failed to retrieve invoices",
		})
	}

	return c.JSON(http.StatusOK, response{
		Success: true,
		Data:    invoices,
	})
}

// NewInvoice returns the document a blank invoice form starts from
func (h *invoiceHandler) NewInvoice(c echo.Context) error {
	doc := model.NewInvoiceDocument(h.now())

	return c.JSON(http.StatusOK, response{
		Success: true,
		Data: model.PreviewResponse{
			Document: &doc,
			Totals:   totalsPtr(doc.Totals()),
		},
	})
}

// GetInvoice returns the summary record together with its full document
func (h *invoiceHandler) GetInvoice(c echo.Context) error {
	logger := logrus.WithField("endpoint", "get_invoice")
	ctx := c.Request().Context()
	id := c.Param("id")

	record, err := h.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		logger.Errorf("Error finding invoice: %v", err)
		return c.JSON(http.StatusInternalServerError, response{
			Success: false,
			Message: "failed to retrieve invoice",
		})
	}
	if record == nil {
		return c.JSON(http.StatusNotFound, response{
			Success: false,
			Message: "invoice not found",
		})
	}

	detail, err := h.loadDetail(ctx, *record)
	if err != nil {
		logger.Errorf("Error loading invoice document: %v", err)
		return c.JSON(http.StatusInternalServerError, response{
			Success: false,
			Message: "failed to retrieve invoice",
		})
	}

	return c.JSON(http.StatusOK, response{
		Success: true,
		Data:    detail,
	})
}

// CreateInvoice saves a new draft
func (h *invoiceHandler) CreateInvoice(c echo.Context) error {
	logger := logrus.WithField("endpoint", "create_invoice")
	ctx := c.Request().Context()

	doc, errResp := h.bindDocument(c, logger)
	if errResp != nil {
		return c.JSON(http.StatusBadRequest, errResp)
	}

	record, err := h.invoiceRepo.Create(ctx, doc)
	if err != nil {
		logger.Errorf("Error creating invoice: %v", err)
		return c.JSON(http.StatusInternalServerError, response{
			Success: false,
			Message: "failed to create invoice",
		})
	}

	if err := h.documentRepo.Save(ctx, record.ID, doc); err != nil {
		logger.Errorf("Error saving invoice document: %v", err)
		if err := h.invoiceRepo.Delete(ctx, record.ID); err != nil {
			logger.Errorf("Error rolling back invoice %s: %v", record.ID, err)
		}
		return c.JSON(http.StatusInternalServerError, response{
			Success: false,
			Message: "failed to create invoice",
		})
	}

	return c.JSON(http.StatusCreated, response{
		Success: true,
		Data: model.InvoiceSavedResponse{
			Record: *record,
			Totals: doc.Totals(),
		},
	})
}

// UpdateInvoice replaces the document of an existing invoice. Unknown ids are ignored.
func (h *invoiceHandler) UpdateInvoice(c echo.Context) error {
	logger := logrus.WithField("endpoint", "update_invoice")
	ctx := c.Request().Context()
	id := c.Param("id")

	doc, errResp := h.bindDocument(c, logger)
	if errResp != nil {
		return c.JSON(http.StatusBadRequest, errResp)
	}

	record, err := h.saveDocument(ctx, id, doc)
	if err != nil {
		logger.Errorf("Error updating invoice: %v", err)
		return c.JSON(http.StatusInternalServerError, response{
			Success: false,
			Message: "failed to update invoice",
		})
	}
	if record == nil {
		logger.Infof("Invoice %s not found, nothing updated", id)
		return c.JSON(http.StatusOK, response{
			Success: true,
		})
	}

	return c.JSON(http.StatusOK, response{
		Success: true,
		Data: model.InvoiceSavedResponse{
			Record: *record,
			Totals: doc.Totals(),
		},
	})
}

// UpdateInvoiceItem applies a partial update to one line item
func (h *invoiceHandler) UpdateInvoiceItem(c echo.Context) error {
	logger := logrus.WithField("endpoint", "update_invoice_item")
	ctx := c.Request().Context()
	id := c.Param("id")

	var patch model.InvoiceItemPatch
	if err := c.Bind(&patch); err != nil {
		logger.Errorf("Error binding request: %v", err)
		return c.JSON(http.StatusBadRequest, response{
			Success: false,
			Message: "invalid request",
		})
	}

	if err := h.validate.Struct(patch); err != nil {
		logger.Errorf("Validation error: %v", err)
		return c.JSON(http.StatusBadRequest, response{
			Success: false,
			Message: "validation failed",
		})
	}

	record, err := h.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		logger.Errorf("Error finding invoice: %v", err)
		return c.JSON(http.StatusInternalServerError, response{
			Success: false,
			Message: "failed to retrieve invoice",
		})
	}
	if record == nil {
		return c.JSON(http.StatusNotFound, response{
			Success: false,
			Message: "invoice not found",
		})
	}

	detail, err := h.loadDetail(ctx, *record)
	if err != nil {
		logger.Errorf("Error loading invoice document: %v", err)
		return c.JSON(http.StatusInternalServerError, response{
			Success: false,
			Message: "failed to retrieve invoice",
		})
	}

	doc := detail.Document
	item := doc.FindItem(c.Param("itemID"))
	if item == nil {
		return c.JSON(http.StatusNotFound, response{
			Success: false,
			Message: "invoice item not found",
		})
	}
	patch.Apply(item)

	saved, err := h.saveDocument(ctx, id, &doc)
	if err != nil || saved == nil {
		logger.Errorf("Error updating invoice item: %v", err)
		return c.JSON(http.StatusInternalServerError, response{
			Success: false,
			Message: "failed to update invoice item",
		})
	}

	return c.JSON(http.StatusOK, response{
		Success: true,
		Data: model.InvoiceDetailResponse{
			Record:   *saved,
			Document: doc,
			Totals:   doc.Totals(),
		},
	})
}

// DeleteInvoice removes the summary record and its stored document
func (h *invoiceHandler) DeleteInvoice(c echo.Context) error {
	logger := logrus.WithField("endpoint", "delete_invoice")
	ctx := c.Request().Context()
	id := c.Param("id")

	record, err := h.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		logger.Errorf("Error finding invoice: %v", err)
		return c.JSON(http.StatusInternalServerError, response{
			Success: false,
			Message: "failed to retrieve invoice",
		})
	}
	if record == nil {
		return c.JSON(http.StatusNotFound, response{
			Success: false,
			Message: "invoice not found",
		})
	}

	if err := h.invoiceRepo.Delete(ctx, id); err != nil {
		logger.Errorf("Error deleting invoice: %v", err)
		return c.JSON(http.StatusInternalServerError, response{
			Success: false,
			Message: "failed to delete invoice",
		})
	}

	if err := h.documentRepo.Delete(ctx, id); err != nil {
		logger.Warnf("Failed to delete invoice document: %v", err)
	}

	return c.JSON(http.StatusOK, response{
		Success: true,
		Message: "invoice deleted successfully",
	})
}

// UpdateStatus moves an invoice through draft/sent/paid/overdue
func (h *invoiceHandler) UpdateStatus(c echo.Context) error {
	logger := logrus.WithField("endpoint", "update_invoice_status")
	id := c.Param("id")

	var req model.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		logger.Errorf("Error binding request: %v", err)
		return c.JSON(http.StatusBadRequest, response{
			Success: false,
			Message: "invalid request",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		logger.Errorf("Validation error: %v", err)
		return c.JSON(http.StatusBadRequest, response{
			Success: false,
			Message: "validation failed",
		})
	}

	record, err := h.invoiceRepo.SetStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		if errors.Is(err, model.ErrInvalidStatusTransition) {
			return c.JSON(http.StatusConflict, response{
				Success: false,
				Message: err.Error(),
			})
		}
		logger.Errorf("Error updating invoice status: %v", err)
		return c.JSON(http.StatusInternalServerError, response{
			Success: false,
			Message: "failed to update invoice status",
		})
	}
	if record == nil {
		return c.JSON(http.StatusNotFound, response{
			Success: false,
			Message: "invoice not found",
		})
	}

	return c.JSON(http.StatusOK, response{
		Success: true,
		Data:    record,
	})
}

// MarkOverdue flags every sent invoice past its due date
func (h *invoiceHandler) MarkOverdue(c echo.Context) error {
	logger := logrus.WithField("endpoint", "mark_overdue")

	var req model.MarkOverdueRequest
	if err := c.Bind(&req); err != nil {
		logger.Errorf("Error binding request: %v", err)
		return c.JSON(http.StatusBadRequest, response{
			Success: false,
			Message: "invalid request",
		})
	}

	today := h.now()
	if req.Today != "" {
		parsed, err := time.Parse(dateLayout, req.Today)
		if err != nil {
			return c.JSON(http.StatusBadRequest, response{
				Success: false,
				Message: "invalid date format",
			})
		}
		today = parsed
	}

	updated, err := h.invoiceRepo.MarkOverdue(c.Request().Context(), today)
	if err != nil {
		logger.Errorf("Error marking invoices overdue: %v", err)
		return c.JSON(http.StatusInternalServerError, response{
			Success: false,
			Message: "failed to mark invoices overdue",
		})
	}

	return c.JSON(http.StatusOK, response{
		Success: true,
		Data:    model.MarkOverdueResponse{Updated: updated},
	})
}

// ExportPDF renders the invoice as a downloadable PDF
func (h *invoiceHandler) ExportPDF(c echo.Context) error {
	logger := logrus.WithField("endpoint", "export_invoice_pdf")
	ctx := c.Request().Context()

	record, err := h.invoiceRepo.FindByID(ctx, c.Param("id"))
	if err != nil {
		logger.Errorf("Error finding invoice: %v", err)
		return c.JSON(http.StatusInternalServerError, response{
			Success: false,
			Message: "failed to retrieve invoice",
		})
	}
	if record == nil {
		return c.JSON(http.StatusNotFound, response{
			Success: false,
			Message: "invoice not found",
		})
	}

	detail, err := h.loadDetail(ctx, *record)
	if err != nil {
		logger.Errorf("Error loading invoice document: %v", err)
		return c.JSON(http.StatusInternalServerError, response{
			Success: false,
			Message: "failed to retrieve invoice",
		})
	}

	return renderPDF(c, logger, h.pdfRenderer, detail.Document, detail.Totals)
}

// SendEmail is reserved for emailing an invoice to the client
func (h *invoiceHandler) SendEmail(c echo.Context) error {
	return c.JSON(http.StatusNotImplemented, response{
		Success: false,
		Message: "email sending is not implemented",
	})
}

// ComputeTotals recomputes totals for an unsaved document
func (h *invoiceHandler) ComputeTotals(c echo.Context) error {
	logger := logrus.WithField("endpoint", "compute_totals")

	var doc model.InvoiceDocument
	if err := c.Bind(&doc); err != nil {
		logger.Errorf("Error binding request: %v", err)
		return c.JSON(http.StatusBadRequest, response{
			Success: false,
			Message: "invalid request",
		})
	}

	for i := range doc.InvoiceItems {
		doc.InvoiceItems[i].Recalculate()
	}
	warnTaxiDiscount(logger, doc.PaymentTerms.DiscountType)

	return c.JSON(http.StatusOK, response{
		Success: true,
		Data: model.PreviewResponse{
			Document: &doc,
			Totals:   totalsPtr(doc.Totals()),
		},
	})
}

// bindDocument binds, validates and normalizes a document. The returned response is non-nil on failure.
func (h *invoiceHandler) bindDocument(c echo.Context, logger *logrus.Entry) (*model.InvoiceDocument, *response) {
	var doc model.InvoiceDocument
	if err := c.Bind(&doc); err != nil {
		logger.Errorf("Error binding request: %v", err)
		return nil, &response{Success: false, Message: "invalid request"}
	}

	if err := h.validate.Struct(doc); err != nil {
		logger.Errorf("Validation error: %v", err)
		return nil, &response{Success: false, Message: "validation failed"}
	}

	if _, err := time.Parse(dateLayout, doc.InvoiceDate); err != nil {
		return nil, &response{Success: false, Message: "invalid invoice date format"}
	}
	if doc.PaymentTerms.DueDate != "" {
		if _, err := time.Parse(dateLayout, doc.PaymentTerms.DueDate); err != nil {
			return nil, &response{Success: false, Message: "invalid due date format"}
		}
	}

	if err := doc.Recalculate(); err != nil {
		logger.Errorf("Error recalculating invoice: %v", err)
		return nil, &response{Success: false, Message: "invalid invoice"}
	}
	warnTaxiDiscount(logger, doc.PaymentTerms.DiscountType)

	return &doc, nil
}

// saveDocument writes the full document, then the projection. A failed projection write restores
// the previous document so record and document never disagree. It returns nil, nil for unknown ids.
func (h *invoiceHandler) saveDocument(ctx context.Context, id string, doc *model.InvoiceDocument) (*model.InvoiceSummaryRecord, error) {
	record, err := h.invoiceRepo.FindByID(ctx, id)
	if err != nil || record == nil {
		return nil, err
	}

	previous, err := h.documentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}

	if err := h.documentRepo.Save(ctx, id, doc); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}

	if err := h.invoiceRepo.Update(ctx, id, doc); err != nil {
		h.restoreDocument(ctx, id, previous)
		return nil, err
	}

	return h.invoiceRepo.FindByID(ctx, id)
}

// restoreDocument puts back the document stored before a failed update, or removes the new one.
func (h *invoiceHandler) restoreDocument(ctx context.Context, id string, previous *model.InvoiceDocument) {
	var err error
	if previous != nil {
		err = h.documentRepo.Save(ctx, id, previous)
	} else {
		err = h.documentRepo.Delete(ctx, id)
	}
	if err != nil {
		logrus.WithField("invoice_id", id).Errorf("Error restoring invoice document: %v", err)
	}
}

// loadDetail prefers the stored full document and falls back to placeholder hydration.
func (h *invoiceHandler) loadDetail(ctx context.Context, record model.InvoiceSummaryRecord) (model.InvoiceDetailResponse, error) {
	doc, err := h.documentRepo.FindByID(ctx, record.ID)
	if err != nil {
		return model.InvoiceDetailResponse{}, err
	}

	if doc == nil {
		return model.InvoiceDetailResponse{
			Record:   record,
			Document: model.Hydrate(record),
			Totals:   model.HydratedTotals(record),
			Hydrated: true,
		}, nil
	}

	return model.InvoiceDetailResponse{
		Record:   record,
		Document: *doc,
		Totals:   doc.Totals(),
	}, nil
}

// warnTaxiDiscount flags the taxi discount, which ignores the entered value and always takes 10%.
func warnTaxiDiscount(logger *logrus.Entry, discountType model.DiscountType) {
	if discountType == model.DiscountTaxi {
		logger.Warn("taxi discount applies a fixed 10% and ignores the discount value")
	}
}

func totalsPtr(t model.Totals) *model.Totals {
	return &t
}
