package model

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePreview_RoundTrip(t *testing.T) {
	doc := sampleDocument()
	doc.InvoiceItems[0].Total = 0

	encoded, err := EncodePreview(doc)
	require.NoError(t, err)

	got, err := DecodePreview(encoded)
	require.NoError(t, err)

	assert.Equal(t, "Wayne Enterprises", got.ClientDetails.Name)
	assert.Equal(t, 200.0, got.InvoiceItems[0].Total)
	assert.Equal(t, 308.0, got.Totals().Total)
}

func TestDecodePreview_Malformed(t *testing.T) {
	_, err := DecodePreview("%7Bnot-json")
	assert.Error(t, err)

	_, err = DecodePreview("%zz")
	assert.Error(t, err)

	_, err = DecodePreview("")
	assert.ErrorIs(t, err, ErrEmptyPreview)
}

func TestDecodePreview_FormFieldNames(t *testing.T) {
	payload := `{"companyInfo":{"name":"Acme","zip":"12345"},` +
		`"clientDetails":{"clientName":"Globex Inc.","clientEmail":"ap@globex.example","clientAddress":"1 Main St",` +
		`"clientCity":"Springfield","clientState":"OR","clientZip":"97477","clientCountry":"USA","clientPhone":"555-0100"},` +
		`"invoiceItems":[{"id":"1","description":"Design","quantity":2,"price":50,"total":0}],` +
		`"paymentTerms":{"dueDate":"2024-02-01","paymentTerms":"net30","notes":""},` +
		`"invoiceNumber":"INV-0007","invoiceDate":"2024-01-02"}`

	got, err := DecodePreview(url.PathEscape(payload))
	require.NoError(t, err)

	assert.Equal(t, "12345", got.CompanyInfo.PostalCode)
	assert.Equal(t, ClientDetails{
		Name:       "Globex Inc.",
		Address:    "1 Main St",
		City:       "Springfield",
		State:      "OR",
		PostalCode: "97477",
		Country:    "USA",
		Email:      "ap@globex.example",
		Phone:      "555-0100",
	}, got.ClientDetails)
	assert.Equal(t, 110.0, got.Totals().Total)
}

func TestDecodePreview_CanonicalNamesWin(t *testing.T) {
	payload := `{"clientDetails":{"name":"Stark Industries","clientName":"Ignored","postalCode":"10001","clientZip":"99999"},` +
		`"invoiceNumber":"INV-0008","invoiceDate":"2024-01-02"}`

	got, err := DecodePreview(url.PathEscape(payload))
	require.NoError(t, err)

	assert.Equal(t, "Stark Industries", got.ClientDetails.Name)
	assert.Equal(t, "10001", got.ClientDetails.PostalCode)
}
