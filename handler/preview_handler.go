package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/notblessy/invoicegen/model"
	"github.com/notblessy/invoicegen/utils"
	"github.com/sirupsen/logrus"
)

type previewHandler struct {
	pdfRenderer *utils.PDFRenderer
}

func NewPreviewHandler(pdfRenderer *utils.PDFRenderer) *previewHandler {
	return &previewHandler{pdfRenderer: pdfRenderer}
}

// GetPreview decodes the document carried in the data query parameter.
// A missing or malformed payload yields an empty preview rather than an error status.
func (h *previewHandler) GetPreview(c echo.Context) error {
	logger := logrus.WithField("endpoint", "get_preview")

	doc, err := model.DecodePreview(c.QueryParam("data"))
	if err != nil {
		logger.Errorf("Error parsing invoice data: %v", err)
		return c.JSON(http.StatusOK, response{
			Success: true,
			Message: model.ErrEmptyPreview.Error(),
			Data:    model.PreviewResponse{},
		})
	}

	return c.JSON(http.StatusOK, response{
		Success: true,
		Data: model.PreviewResponse{
			Document: doc,
			Totals:   totalsPtr(doc.Totals()),
		},
	})
}

// ExportPreviewPDF renders the previewed document without saving it
func (h *previewHandler) ExportPreviewPDF(c echo.Context) error {
	logger := logrus.WithField("endpoint", "export_preview_pdf")

	doc, err := model.DecodePreview(c.QueryParam("data"))
	if err != nil {
		logger.Errorf("Error parsing invoice data: %v", err)
		return c.JSON(http.StatusBadRequest, response{
			Success: false,
			Message: model.ErrEmptyPreview.Error(),
		})
	}

	return renderPDF(c, logger, h.pdfRenderer, *doc, doc.Totals())
}

func renderPDF(c echo.Context, logger *logrus.Entry, renderer *utils.PDFRenderer, doc model.InvoiceDocument, totals model.Totals) error {
	content, err := renderer.Render(doc, totals)
	if err != nil {
		logger.Errorf("Error rendering PDF: %v", err)
		return c.JSON(http.StatusInternalServerError, response{
			Success: false,
			Message: "failed to generate PDF",
		})
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", renderer.Filename()))
	return c.Blob(http.StatusOK, "application/pdf", content)
}
