package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/notblessy/invoicegen/repository"
	"github.com/notblessy/invoicegen/utils"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func SetupRoutes(e *echo.Echo, invoiceRepo repository.InvoiceRepository, documentRepo repository.DocumentRepository, pdfRenderer *utils.PDFRenderer, logoUploader utils.LogoUploader) {
	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
		},
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE, echo.PATCH, echo.OPTIONS},
	}))

	// Logger middleware
	e.Use(middleware.Logger())

	// Recover middleware
	e.Use(middleware.Recover())

	// Health check
	e.GET("/ping", func(c echo.Context) error {
		return c.JSON(200, response{
			Success: true,
			Data:    "pong",
		})
	})

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")

	// Invoice routes
	invoiceHandler := NewInvoiceHandler(invoiceRepo, documentRepo, pdfRenderer)
	invoice := api.Group("/invoice")
	invoice.GET("", invoiceHandler.GetInvoices)
	invoice.GET("/new", invoiceHandler.NewInvoice)
	invoice.POST("/overdue", invoiceHandler.MarkOverdue)
	invoice.GET("/:id", invoiceHandler.GetInvoice)
	invoice.POST("", invoiceHandler.CreateInvoice)
	invoice.PUT("/:id", invoiceHandler.UpdateInvoice)
	invoice.PATCH("/:id/items/:itemID", invoiceHandler.UpdateInvoiceItem)
	invoice.DELETE("/:id", invoiceHandler.DeleteInvoice)
	invoice.PUT("/:id/status", invoiceHandler.UpdateStatus)
	invoice.GET("/:id/pdf", invoiceHandler.ExportPDF)
	invoice.POST("/:id/email", invoiceHandler.SendEmail)

	api.POST("/totals", invoiceHandler.ComputeTotals)

	// Preview routes
	previewHandler := NewPreviewHandler(pdfRenderer)
	preview := api.Group("/preview")
	preview.GET("", previewHandler.GetPreview)
	preview.GET("/pdf", previewHandler.ExportPreviewPDF)

	// Company logo routes
	logoHandler := NewLogoHandler(logoUploader)
	company := api.Group("/company")
	company.POST("/logo", logoHandler.UploadLogo)
	company.DELETE("/logo", logoHandler.RemoveLogo)
}
