package model

import "github.com/shopspring/decimal"

const placeholderNotes = "Please make payment by the due date."

var (
	hydratedSubtotalShare = decimal.RequireFromString("0.9")
	hydratedTaxShare      = decimal.RequireFromString("0.1")
)

// Project reduces a document to the summary record that gets persisted in the collection.
// Company info, client contact details, line items, the tax/discount breakdown and notes are dropped.
func Project(id string, doc InvoiceDocument, status InvoiceStatus) InvoiceSummaryRecord {
	return InvoiceSummaryRecord{
		ID:            id,
		InvoiceNumber: doc.InvoiceNumber,
		ClientName:    doc.ClientDetails.Name,
		InvoiceDate:   doc.InvoiceDate,
		DueDate:       doc.PaymentTerms.DueDate,
		Total:         doc.Totals().Total,
		Status:        status,
	}
}

// Hydrate expands a summary record back into a full document. Everything the record does not
// carry is filled with fixed placeholder data, so Hydrate(Project(doc)) never reproduces doc.
func Hydrate(record InvoiceSummaryRecord) InvoiceDocument {
	return InvoiceDocument{
		CompanyInfo:   placeholderCompany(),
		ClientDetails: placeholderClient(record.ClientName),
		InvoiceItems:  placeholderItems(),
		PaymentTerms: PaymentTerms{
			DueDate:       record.DueDate,
			PaymentTerms:  TermsNet30,
			Notes:         placeholderNotes,
			DiscountType:  DiscountNone,
			DiscountValue: 0,
		},
		InvoiceNumber: record.InvoiceNumber,
		InvoiceDate:   record.InvoiceDate,
	}
}

// HydratedTotals back-derives a breakdown from the persisted total assuming the fixed 10% tax
// and no discount. It is an approximation whenever a discount was applied originally.
func HydratedTotals(record InvoiceSummaryRecord) Totals {
	total := decimal.NewFromFloat(record.Total)
	return Totals{
		Subtotal:       total.Mul(hydratedSubtotalShare).InexactFloat64(),
		TaxAmount:      total.Mul(hydratedTaxShare).InexactFloat64(),
		DiscountAmount: 0,
		Total:          record.Total,
	}
}

func placeholderCompany() CompanyInfo {
	return CompanyInfo{
		Name:       "Your Company Name",
		Address:    "123 Business Street",
		City:       "City",
		State:      "State",
		PostalCode: "12345",
		Country:    "Country",
		Email:      "contact@yourcompany.com",
		Phone:      "(555) 123-4567",
		Website:    "www.yourcompany.com",
		Logo:       "https://api.dicebear.com/7.x/avataaars/svg?seed=company",
	}
}

func placeholderClient(name string) ClientDetails {
	return ClientDetails{
		Name:       name,
		Address:    "456 Client Avenue",
		City:       "Client City",
		State:      "Client State",
		PostalCode: "54321",
		Country:    "Client Country",
		Email:      "client@example.com",
		Phone:      "(555) 987-6543",
	}
}

func placeholderItems() []InvoiceItem {
	return []InvoiceItem{
		NewInvoiceItem("1", "Website Design", 1, 500),
		NewInvoiceItem("2", "Development Hours", 10, 75),
	}
}
