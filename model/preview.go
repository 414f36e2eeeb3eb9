package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
)

var ErrEmptyPreview = errors.New("no preview data available")

type PreviewResponse struct {
	Document *InvoiceDocument `json:"document"`
	Totals   *Totals          `json:"totals"`
}

// DecodePreview parses a document that was serialized and URL-encoded into a query string.
func DecodePreview(raw string) (*InvoiceDocument, error) {
	if raw == "" {
		return nil, ErrEmptyPreview
	}

	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return nil, fmt.Errorf("decode preview payload: %w", err)
	}

	var doc InvoiceDocument
	if err := json.Unmarshal([]byte(decoded), &doc); err != nil {
		return nil, fmt.Errorf("parse preview payload: %w", err)
	}

	var form formPayload
	if err := json.Unmarshal([]byte(decoded), &form); err != nil {
		return nil, fmt.Errorf("parse preview payload: %w", err)
	}
	form.fill(&doc)

	for i := range doc.InvoiceItems {
		doc.InvoiceItems[i].Recalculate()
	}

	return &doc, nil
}

// EncodePreview is the inverse of DecodePreview, used to build preview links.
func EncodePreview(doc InvoiceDocument) (string, error) {
	payload, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return url.PathEscape(string(payload)), nil
}

// formPayload holds the field names the invoice form uses for its parties
// (zip, clientName, clientEmail, ...). They only fill fields left empty by the canonical names.
type formPayload struct {
	CompanyInfo struct {
		Zip string `json:"zip"`
	} `json:"companyInfo"`
	ClientDetails struct {
		ClientName    string `json:"clientName"`
		ClientEmail   string `json:"clientEmail"`
		ClientAddress string `json:"clientAddress"`
		ClientCity    string `json:"clientCity"`
		ClientState   string `json:"clientState"`
		ClientZip     string `json:"clientZip"`
		ClientCountry string `json:"clientCountry"`
		ClientPhone   string `json:"clientPhone"`
	} `json:"clientDetails"`
}

func (f formPayload) fill(doc *InvoiceDocument) {
	fillEmpty(&doc.CompanyInfo.PostalCode, f.CompanyInfo.Zip)

	client := &doc.ClientDetails
	fillEmpty(&client.Name, f.ClientDetails.ClientName)
	fillEmpty(&client.Email, f.ClientDetails.ClientEmail)
	fillEmpty(&client.Address, f.ClientDetails.ClientAddress)
	fillEmpty(&client.City, f.ClientDetails.ClientCity)
	fillEmpty(&client.State, f.ClientDetails.ClientState)
	fillEmpty(&client.PostalCode, f.ClientDetails.ClientZip)
	fillEmpty(&client.Country, f.ClientDetails.ClientCountry)
	fillEmpty(&client.Phone, f.ClientDetails.ClientPhone)
}

func fillEmpty(dst *string, value string) {
	if *dst == "" {
		*dst = value
	}
}
