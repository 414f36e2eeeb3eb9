package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/notblessy/invoicegen/metrics"
	"github.com/notblessy/invoicegen/model"
	"github.com/notblessy/invoicegen/storage"
	"github.com/sirupsen/logrus"
)

// InvoicesKey is the well-known key the whole summary collection is stored under.
const InvoicesKey = "invoices"

type InvoiceRepository interface {
	List(ctx context.Context) ([]model.InvoiceSummaryRecord, error)
	FindByID(ctx context.Context, id string) (*model.InvoiceSummaryRecord, error)
	Create(ctx context.Context, doc *model.InvoiceDocument) (*model.InvoiceSummaryRecord, error)
	Update(ctx context.Context, id string, doc *model.InvoiceDocument) error
	Delete(ctx context.Context, id string) error
	SetStatus(ctx context.Context, id string, status model.InvoiceStatus) (*model.InvoiceSummaryRecord, error)
	MarkOverdue(ctx context.Context, today time.Time) ([]string, error)
}

// invoiceRepository reads the entire collection, mutates it and writes it back on every call.
// mu only serializes callers sharing this instance; other processes writing the same key still
// race with last-writer-wins semantics.
type invoiceRepository struct {
	store storage.Storage
	mu    sync.Mutex
	newID func() string
}

func NewInvoiceRepository(store storage.Storage) InvoiceRepository {
	return &invoiceRepository{
		store: store,
		newID: uuid.NewString,
	}
}

// List returns the collection in insertion order, seeding the sample set on first use.
func (r *invoiceRepository) List(ctx context.Context) ([]model.InvoiceSummaryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load(ctx, true)
	metrics.ObserveStore("list", err)
	return records, err
}

func (r *invoiceRepository) FindByID(ctx context.Context, id string) (*model.InvoiceSummaryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load(ctx, false)
	metrics.ObserveStore("find", err)
	if err != nil {
		return nil, err
	}

	for i := range records {
		if records[i].ID == id {
			return &records[i], nil
		}
	}
	return nil, nil // not an error, the caller decides what a miss means
}

func (r *invoiceRepository) Create(ctx context.Context, doc *model.InvoiceDocument) (*model.InvoiceSummaryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, err := r.create(ctx, doc)
	metrics.ObserveStore("create", err)
	return record, err
}

func (r *invoiceRepository) create(ctx context.Context, doc *model.InvoiceDocument) (*model.InvoiceSummaryRecord, error) {
	records, err := r.load(ctx, false)
	if err != nil {
		return nil, err
	}

	record := model.Project(r.newID(), *doc, model.StatusDraft)
	records = append(records, record)

	if err := r.save(ctx, records); err != nil {
		return nil, err
	}
	return &record, nil
}

// Update overwrites the projected fields of an existing record, keeping its id and status.
// An unknown id is silently ignored.
func (r *invoiceRepository) Update(ctx context.Context, id string, doc *model.InvoiceDocument) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.update(ctx, id, doc)
	metrics.ObserveStore("update", err)
	return err
}

func (r *invoiceRepository) update(ctx context.Context, id string, doc *model.InvoiceDocument) error {
	records, err := r.load(ctx, false)
	if err != nil {
		return err
	}

	for i := range records {
		if records[i].ID != id {
			continue
		}
		records[i] = model.Project(id, *doc, records[i].Status)
		return r.save(ctx, records)
	}

	logrus.WithField("invoice_id", id).Debug("update skipped, invoice not found")
	return nil
}

func (r *invoiceRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.delete(ctx, id)
	metrics.ObserveStore("delete", err)
	return err
}

func (r *invoiceRepository) delete(ctx context.Context, id string) error {
	records, err := r.load(ctx, false)
	if err != nil {
		return err
	}

	kept := make([]model.InvoiceSummaryRecord, 0, len(records))
	for _, record := range records {
		if record.ID != id {
			kept = append(kept, record)
		}
	}

	// nothing removed, leave the stored collection (or its absence) untouched
	if len(kept) == len(records) {
		return nil
	}
	return r.save(ctx, kept)
}

// SetStatus moves a record through the status state machine. It returns nil, nil when the id is unknown.
func (r *invoiceRepository) SetStatus(ctx context.Context, id string, status model.InvoiceStatus) (*model.InvoiceSummaryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, err := r.setStatus(ctx, id, status)
	metrics.ObserveStore("set_status", err)
	return record, err
}

func (r *invoiceRepository) setStatus(ctx context.Context, id string, status model.InvoiceStatus) (*model.InvoiceSummaryRecord, error) {
	records, err := r.load(ctx, false)
	if err != nil {
		return nil, err
	}

	for i := range records {
		if records[i].ID != id {
			continue
		}

		next, err := records[i].Status.Transition(status)
		if err != nil {
			return nil, err
		}
		records[i].Status = next

		if err := r.save(ctx, records); err != nil {
			return nil, err
		}
		return &records[i], nil
	}

	return nil, nil
}

// MarkOverdue moves every sent invoice whose due date lies before today to overdue and returns their ids.
func (r *invoiceRepository) MarkOverdue(ctx context.Context, today time.Time) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids, err := r.markOverdue(ctx, today)
	metrics.ObserveStore("mark_overdue", err)
	return ids, err
}

func (r *invoiceRepository) markOverdue(ctx context.Context, today time.Time) ([]string, error) {
	records, err := r.load(ctx, false)
	if err != nil {
		return nil, err
	}

	cutoff := today.Format("2006-01-02")
	updated := []string{}
	for i := range records {
		if records[i].Status != model.StatusSent || records[i].DueDate == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", records[i].DueDate); err != nil {
			logrus.WithField("invoice_id", records[i].ID).Warnf("Skipping invoice with unparseable due date %q", records[i].DueDate)
			continue
		}
		// ISO dates compare correctly as strings
		if records[i].DueDate < cutoff {
			records[i].Status = model.StatusOverdue
			updated = append(updated, records[i].ID)
		}
	}

	if len(updated) == 0 {
		return updated, nil
	}
	if err := r.save(ctx, records); err != nil {
		return nil, err
	}
	return updated, nil
}

// load reads the collection. A missing or malformed payload yields the sample set (persisted)
// when seed is true, otherwise an empty collection.
func (r *invoiceRepository) load(ctx context.Context, seed bool) ([]model.InvoiceSummaryRecord, error) {
	payload, err := r.store.Get(ctx, InvoicesKey)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("load invoices: %w", err)
	}

	if err == nil {
		var records []model.InvoiceSummaryRecord
		jsonErr := json.Unmarshal(payload, &records)
		if jsonErr == nil {
			if records == nil {
				records = []model.InvoiceSummaryRecord{}
			}
			return records, nil
		}
		logrus.Warnf("Stored invoice collection is malformed, ignoring it: %v", jsonErr)
	}

	if !seed {
		return []model.InvoiceSummaryRecord{}, nil
	}

	samples := model.SampleInvoices()
	if err := r.save(ctx, samples); err != nil {
		return nil, err
	}
	metrics.ObserveBootstrap()
	logrus.Info("Seeded invoice collection with sample data")
	return samples, nil
}

func (r *invoiceRepository) save(ctx context.Context, records []model.InvoiceSummaryRecord) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode invoices: %w", err)
	}
	if err := r.store.Set(ctx, InvoicesKey, payload); err != nil {
		return fmt.Errorf("save invoices: %w", err)
	}
	return nil
}
