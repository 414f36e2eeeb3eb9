package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/notblessy/invoicegen/metrics"
	"github.com/notblessy/invoicegen/model"
	"github.com/notblessy/invoicegen/storage"
)

const documentKeyPrefix = "invoice:"

// DocumentRepository keeps the full document for each summary record, so viewing and editing
// do not have to fall back to placeholder hydration.
type DocumentRepository interface {
	Save(ctx context.Context, id string, doc *model.InvoiceDocument) error
	FindByID(ctx context.Context, id string) (*model.InvoiceDocument, error)
	Delete(ctx context.Context, id string) error
}

type documentRepository struct {
	store storage.Storage
}

func NewDocumentRepository(store storage.Storage) DocumentRepository {
	return &documentRepository{store: store}
}

func documentKey(id string) string {
	return documentKeyPrefix + id
}

func (r *documentRepository) Save(ctx context.Context, id string, doc *model.InvoiceDocument) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document %s: %w", id, err)
	}

	err = r.store.Set(ctx, documentKey(id), payload)
	metrics.ObserveStore("document_save", err)
	if err != nil {
		return fmt.Errorf("save document %s: %w", id, err)
	}
	return nil
}

// FindByID returns nil, nil when no full document was stored for id.
func (r *documentRepository) FindByID(ctx context.Context, id string) (*model.InvoiceDocument, error) {
	payload, err := r.store.Get(ctx, documentKey(id))
	if errors.Is(err, storage.ErrNotFound) {
		metrics.ObserveStore("document_find", nil)
		return nil, nil
	}
	metrics.ObserveStore("document_find", err)
	if err != nil {
		return nil, fmt.Errorf("load document %s: %w", id, err)
	}

	var doc model.InvoiceDocument
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("decode document %s: %w", id, err)
	}
	return &doc, nil
}

func (r *documentRepository) Delete(ctx context.Context, id string) error {
	err := r.store.Delete(ctx, documentKey(id))
	metrics.ObserveStore("document_delete", err)
	if err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	return nil
}
