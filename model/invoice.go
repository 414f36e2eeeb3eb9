package model

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type DiscountType string

const (
	DiscountNone       DiscountType = "none"
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
	DiscountTaxi       DiscountType = "taxi"
)

type PaymentTermsKind string

const (
	TermsImmediate PaymentTermsKind = "immediate"
	TermsNet7      PaymentTermsKind = "net7"
	TermsNet15     PaymentTermsKind = "net15"
	TermsNet30     PaymentTermsKind = "net30"
	TermsNet60     PaymentTermsKind = "net60"
	TermsCustom    PaymentTermsKind = "custom"
)

// termDays maps a payment term onto the number of days after the invoice date it falls due.
var termDays = map[PaymentTermsKind]int{
	TermsImmediate: 0,
	TermsNet7:      7,
	TermsNet15:     15,
	TermsNet30:     30,
	TermsNet60:     60,
}

type InvoiceItem struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity" validate:"min=0"`
	Price       float64 `json:"price" validate:"min=0"`
	Total       float64 `json:"total"`
}

// NewInvoiceItem builds an item with its total already derived.
func NewInvoiceItem(id, description string, quantity, price float64) InvoiceItem {
	item := InvoiceItem{ID: id, Description: description, Quantity: quantity, Price: price}
	item.Recalculate()
	return item
}

// Recalculate keeps Total == Quantity * Price.
func (i *InvoiceItem) Recalculate() {
	i.Total = decimal.NewFromFloat(i.Quantity).Mul(decimal.NewFromFloat(i.Price)).InexactFloat64()
}

func (i *InvoiceItem) SetDescription(description string) {
	i.Description = description
}

func (i *InvoiceItem) SetQuantity(quantity float64) {
	i.Quantity = quantity
	i.Recalculate()
}

func (i *InvoiceItem) SetPrice(price float64) {
	i.Price = price
	i.Recalculate()
}

// InvoiceItemPatch is a partial update of a single line item. Nil fields are left untouched.
type InvoiceItemPatch struct {
	Description *string  `json:"description"`
	Quantity    *float64 `json:"quantity" validate:"omitempty,min=0"`
	Price       *float64 `json:"price" validate:"omitempty,min=0"`
}

// Apply writes the non-nil fields of the patch onto the item.
func (p InvoiceItemPatch) Apply(item *InvoiceItem) {
	if p.Description != nil {
		item.SetDescription(*p.Description)
	}
	if p.Quantity != nil {
		item.SetQuantity(*p.Quantity)
	}
	if p.Price != nil {
		item.SetPrice(*p.Price)
	}
}

type CompanyInfo struct {
	Name       string `json:"name" validate:"required"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Website    string `json:"website,omitempty"`
	Logo       string `json:"logo,omitempty"`
}

type ClientDetails struct {
	Name       string `json:"name" validate:"required"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
}

type PaymentTerms struct {
	DueDate       string           `json:"dueDate"`
	PaymentTerms  PaymentTermsKind `json:"paymentTerms" validate:"omitempty,oneof=immediate net7 net15 net30 net60 custom"`
	Notes         string           `json:"notes"`
	DiscountType  DiscountType     `json:"discountType" validate:"omitempty,oneof=none percentage fixed taxi"`
	DiscountValue float64          `json:"discountValue"`
}

// ResolveDueDate returns the explicit due date when one is set, otherwise derives it from the
// payment term relative to invoiceDate. Custom terms without a date resolve to an empty string.
func (p PaymentTerms) ResolveDueDate(invoiceDate string) (string, error) {
	if p.DueDate != "" {
		return p.DueDate, nil
	}

	days, ok := termDays[p.PaymentTerms]
	if !ok {
		return "", nil
	}

	issued, err := time.Parse(dateLayout, invoiceDate)
	if err != nil {
		return "", fmt.Errorf("invalid invoice date %q: %w", invoiceDate, err)
	}

	return issued.AddDate(0, 0, days).Format(dateLayout), nil
}

// InvoiceDocument is the full working shape of one invoice while it is being edited.
type InvoiceDocument struct {
	CompanyInfo   CompanyInfo   `json:"companyInfo"`
	ClientDetails ClientDetails `json:"clientDetails"`
	InvoiceItems  []InvoiceItem `json:"invoiceItems" validate:"dive"`
	PaymentTerms  PaymentTerms  `json:"paymentTerms"`
	InvoiceNumber string        `json:"invoiceNumber" validate:"required"`
	InvoiceDate   string        `json:"invoiceDate" validate:"required"`
}

// Recalculate rederives every item total and fills in the due date from the payment term
// when the client left it blank.
func (d *InvoiceDocument) Recalculate() error {
	for i := range d.InvoiceItems {
		d.InvoiceItems[i].Recalculate()
	}

	if d.PaymentTerms.DiscountType == "" {
		d.PaymentTerms.DiscountType = DiscountNone
	}

	dueDate, err := d.PaymentTerms.ResolveDueDate(d.InvoiceDate)
	if err != nil {
		return err
	}
	d.PaymentTerms.DueDate = dueDate

	return nil
}

// Totals computes the document totals at the default tax rate.
func (d *InvoiceDocument) Totals() Totals {
	return ComputeTotals(d.InvoiceItems, DefaultTaxRate, d.PaymentTerms.DiscountType, d.PaymentTerms.DiscountValue)
}

// FindItem returns a pointer into InvoiceItems so callers can edit in place.
func (d *InvoiceDocument) FindItem(id string) *InvoiceItem {
	for i := range d.InvoiceItems {
		if d.InvoiceItems[i].ID == id {
			return &d.InvoiceItems[i]
		}
	}
	return nil
}

// NewInvoiceDocument returns the document a blank invoice form starts from.
func NewInvoiceDocument(now time.Time) InvoiceDocument {
	doc := InvoiceDocument{
		CompanyInfo:   placeholderCompany(),
		ClientDetails: placeholderClient("Client Name"),
		InvoiceItems:  placeholderItems(),
		PaymentTerms: PaymentTerms{
			DueDate:       now.AddDate(0, 0, 30).Format(dateLayout),
			PaymentTerms:  TermsNet30,
			Notes:         placeholderNotes,
			DiscountType:  DiscountNone,
			DiscountValue: 0,
		},
		InvoiceNumber: fmt.Sprintf("INV-%04d", rand.IntN(10000)),
		InvoiceDate:   now.Format(dateLayout),
	}
	return doc
}

// InvoiceSummaryRecord is the reduced shape kept in the persisted collection.
type InvoiceSummaryRecord struct {
	ID            string        `json:"id"`
	InvoiceNumber string        `json:"invoiceNumber"`
	ClientName    string        `json:"clientName"`
	InvoiceDate   string        `json:"invoiceDate"`
	DueDate       string        `json:"dueDate"`
	Total         float64       `json:"total"`
	Status        InvoiceStatus `json:"status"`
}

// Request DTOs
type UpdateStatusRequest struct {
	Status InvoiceStatus `json:"status" validate:"required,oneof=draft sent paid overdue"`
}

type MarkOverdueRequest struct {
	Today string `json:"today"`
}

// Response DTOs
type InvoiceDetailResponse struct {
	Record   InvoiceSummaryRecord `json:"record"`
	Document InvoiceDocument      `json:"document"`
	Totals   Totals               `json:"totals"`
	Hydrated bool                 `json:"hydrated"`
}

type InvoiceSavedResponse struct {
	Record InvoiceSummaryRecord `json:"record"`
	Totals Totals               `json:"totals"`
}

type MarkOverdueResponse struct {
	Updated []string `json:"updated"`
}
