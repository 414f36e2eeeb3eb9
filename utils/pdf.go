package utils

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/notblessy/invoicegen/model"
)

type PDFOptions struct {
	Filename    string
	Margin      float64 // millimetres, applied to every side
	Format      string  // gofpdf page size name, e.g. "A4", "Letter"
	Orientation string  // "portrait" or "landscape"
}

// DefaultPDFOptions matches what the invoice download has always produced.
func DefaultPDFOptions() PDFOptions {
	return PDFOptions{
		Filename:    "invoice.pdf",
		Margin:      20,
		Format:      "A4",
		Orientation: "portrait",
	}
}

type PDFRenderer struct {
	opts PDFOptions
}

func NewPDFRenderer(opts PDFOptions) *PDFRenderer {
	defaults := DefaultPDFOptions()
	if opts.Filename == "" {
		opts.Filename = defaults.Filename
	}
	if opts.Margin <= 0 {
		opts.Margin = defaults.Margin
	}
	if opts.Format == "" {
		opts.Format = defaults.Format
	}
	if opts.Orientation == "" {
		opts.Orientation = defaults.Orientation
	}
	return &PDFRenderer{opts: opts}
}

func (r *PDFRenderer) Filename() string {
	return r.opts.Filename
}

// Render lays the document out on a single page flow and returns the PDF bytes.
func (r *PDFRenderer) Render(doc model.InvoiceDocument, totals model.Totals) ([]byte, error) {
	orientation := "P"
	if r.opts.Orientation == "landscape" {
		orientation = "L"
	}

	pdf := gofpdf.New(orientation, "mm", r.opts.Format, "")
	pdf.SetMargins(r.opts.Margin, r.opts.Margin, r.opts.Margin)
	pdf.SetAutoPageBreak(true, r.opts.Margin)
	pdf.SetTitle("Invoice "+doc.InvoiceNumber, true)
	pdf.SetCreator("invoicegen", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pageWidth, _ := pdf.GetPageSize()
	contentWidth := pageWidth - 2*r.opts.Margin

	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(contentWidth/2, 10, tr("INVOICE"), "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(contentWidth/2, 5, tr("Invoice #: "+doc.InvoiceNumber), "", 2, "R", false, 0, "")
	pdf.CellFormat(contentWidth/2, 5, tr("Date: "+doc.InvoiceDate), "", 2, "R", false, 0, "")
	pdf.CellFormat(contentWidth/2, 5, tr("Due: "+doc.PaymentTerms.DueDate), "", 1, "R", false, 0, "")
	pdf.Ln(6)

	columnWidth := contentWidth / 2
	y := pdf.GetY()
	fromBottom := writeParty(pdf, tr, r.opts.Margin, y, columnWidth, "From", partyLines(doc.CompanyInfo.Name, doc.CompanyInfo.Address,
		doc.CompanyInfo.City, doc.CompanyInfo.State, doc.CompanyInfo.PostalCode, doc.CompanyInfo.Country,
		doc.CompanyInfo.Email, doc.CompanyInfo.Phone))
	toBottom := writeParty(pdf, tr, r.opts.Margin+columnWidth, y, columnWidth, "Bill To", partyLines(doc.ClientDetails.Name, doc.ClientDetails.Address,
		doc.ClientDetails.City, doc.ClientDetails.State, doc.ClientDetails.PostalCode, doc.ClientDetails.Country,
		doc.ClientDetails.Email, doc.ClientDetails.Phone))
	pdf.SetXY(r.opts.Margin, max(fromBottom, toBottom))
	pdf.Ln(6)

	widths := []float64{contentWidth * 0.5, contentWidth * 0.15, contentWidth * 0.175, contentWidth * 0.175}
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	for i, header := range []string{"Description", "Qty", "Price", "Total"} {
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(widths[i], 8, header, "B", 0, align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, item := range doc.InvoiceItems {
		pdf.CellFormat(widths[0], 7, tr(item.Description), "", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, formatQuantity(item.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 7, formatAmount(item.Price), "", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 7, formatAmount(item.Total), "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	labelWidth := widths[0] + widths[1] + widths[2]
	summary := [][2]string{
		{"Subtotal", formatAmount(totals.Subtotal)},
		{fmt.Sprintf("Tax (%s%%)", formatQuantity(model.DefaultTaxRate)), formatAmount(totals.TaxAmount)},
	}
	if totals.DiscountAmount != 0 {
		summary = append(summary, [2]string{"Discount", "-" + formatAmount(totals.DiscountAmount)})
	}
	for _, row := range summary {
		pdf.CellFormat(labelWidth, 6, row[0], "", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 6, row[1], "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(labelWidth, 8, "Total", "T", 0, "R", false, 0, "")
	pdf.CellFormat(widths[3], 8, formatAmount(totals.Total), "T", 1, "R", false, 0, "")

	if doc.PaymentTerms.Notes != "" {
		pdf.Ln(8)
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(contentWidth, 6, "Notes", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(contentWidth, 5, tr(doc.PaymentTerms.Notes), "", "L", false)
	}

	if pdf.Err() {
		return nil, fmt.Errorf("render pdf: %w", pdf.Error())
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// writeParty prints a titled address block at (x, y) and returns the y it ended on.
func writeParty(pdf *gofpdf.Fpdf, tr func(string) string, x, y, width float64, title string, lines []string) float64 {
	pdf.SetXY(x, y)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(width, 6, title, "", 2, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	for _, line := range lines {
		pdf.CellFormat(width, 5, tr(line), "", 2, "L", false, 0, "")
	}
	return pdf.GetY()
}

// partyLines drops empty address parts and joins city/state/postal code on one line.
func partyLines(name, address, city, state, postalCode, country, email, phone string) []string {
	locality := ""
	for _, part := range []string{city, state, postalCode} {
		if part == "" {
			continue
		}
		if locality != "" {
			locality += ", "
		}
		locality += part
	}

	var lines []string
	for _, line := range []string{name, address, locality, country, email, phone} {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func formatAmount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func formatQuantity(v float64) string {
	return fmt.Sprintf("%g", v)
}
