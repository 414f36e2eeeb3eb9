package model

// SampleInvoices is the collection a store is bootstrapped with on first use.
func SampleInvoices() []InvoiceSummaryRecord {
	return []InvoiceSummaryRecord{
		{
			ID:            "1",
			InvoiceNumber: "INV-2023-001",
			ClientName:    "Acme Corporation",
			InvoiceDate:   "2023-06-01",
			DueDate:       "2023-07-01",
			Total:         1250.0,
			Status:        StatusPaid,
		},
		{
			ID:            "2",
			InvoiceNumber: "INV-2023-002",
			ClientName:    "Globex Inc.",
			InvoiceDate:   "2023-06-15",
			DueDate:       "2023-07-15",
			Total:         3450.75,
			Status:        StatusSent,
		},
		{
			ID:            "3",
			InvoiceNumber: "INV-2023-003",
			ClientName:    "Stark Industries",
			InvoiceDate:   "2023-06-30",
			DueDate:       "2023-07-30",
			Total:         7800.5,
			Status:        StatusDraft,
		},
	}
}
