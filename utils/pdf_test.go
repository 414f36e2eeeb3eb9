package utils

import (
	"bytes"
	"testing"
	"time"

	"github.com/notblessy/invoicegen/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var issuedAt = time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

func TestPDFRenderer_Render(t *testing.T) {
	doc := model.NewInvoiceDocument(issuedAt)
	doc.ClientDetails.Name = "Café Zürich"
	doc.PaymentTerms.DiscountType = model.DiscountFixed
	doc.PaymentTerms.DiscountValue = 25

	renderer := NewPDFRenderer(PDFOptions{})
	out, err := renderer.Render(doc, doc.Totals())
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Equal(t, "invoice.pdf", renderer.Filename())
}

func TestPDFRenderer_Landscape(t *testing.T) {
	doc := model.NewInvoiceDocument(issuedAt)

	out, err := NewPDFRenderer(PDFOptions{Filename: "inv.pdf", Orientation: "landscape", Format: "Letter"}).Render(doc, doc.Totals())
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestPartyLines(t *testing.T) {
	lines := partyLines("Acme", "", "Springfield", "", "12345", "USA", "", "555")
	assert.Equal(t, []string{"Acme", "Springfield, 12345", "USA", "555"}, lines)
}
