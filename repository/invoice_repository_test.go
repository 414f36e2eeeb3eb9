package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/notblessy/invoicegen/model"
	"github.com/notblessy/invoicegen/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStorage struct {
	storage.Storage
	err error
}

func (s failingStorage) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, s.err
}

func newTestDocument(clientName string, items ...model.InvoiceItem) *model.InvoiceDocument {
	return &model.InvoiceDocument{
		ClientDetails: model.ClientDetails{Name: clientName},
		InvoiceItems:  items,
		PaymentTerms: model.PaymentTerms{
			DueDate:      "2024-02-01",
			PaymentTerms: model.TermsNet30,
			DiscountType: model.DiscountNone,
		},
		InvoiceNumber: "INV-0001",
		InvoiceDate:   "2024-01-02",
	}
}

func TestInvoiceRepository_ListSeedsSampleData(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStorage()
	repo := NewInvoiceRepository(store)

	records, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.SampleInvoices(), records)

	payload, err := store.Get(ctx, InvoicesKey)
	require.NoError(t, err)
	assert.Contains(t, string(payload), "INV-2023-001")
}

func TestInvoiceRepository_ListMalformedCollectionSeeds(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStorage()
	require.NoError(t, store.Set(ctx, InvoicesKey, []byte("{broken")))

	records, err := NewInvoiceRepository(store).List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestInvoiceRepository_ListEmptyCollectionDoesNotSeed(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStorage()
	require.NoError(t, store.Set(ctx, InvoicesKey, []byte("[]")))

	records, err := NewInvoiceRepository(store).List(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestInvoiceRepository_ListStorageError(t *testing.T) {
	boom := errors.New("connection refused")
	repo := NewInvoiceRepository(failingStorage{Storage: storage.NewMemoryStorage(), err: boom})

	_, err := repo.List(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestInvoiceRepository_Create(t *testing.T) {
	ctx := context.Background()
	repo := NewInvoiceRepository(storage.NewMemoryStorage())

	before, err := repo.List(ctx)
	require.NoError(t, err)

	doc := newTestDocument("Acme", model.NewInvoiceItem("1", "Design", 2, 100))
	record, err := repo.Create(ctx, doc)
	require.NoError(t, err)
	assert.NotEmpty(t, record.ID)
	assert.Equal(t, model.StatusDraft, record.Status)

	after, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, after, len(before)+1)
	assert.Equal(t, before, after[:len(before)])
	assert.Equal(t, *record, after[len(after)-1])
}

func TestInvoiceRepository_CreateUsesDistinctIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewInvoiceRepository(storage.NewMemoryStorage())

	first, err := repo.Create(ctx, newTestDocument("A"))
	require.NoError(t, err)
	second, err := repo.Create(ctx, newTestDocument("B"))
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestInvoiceRepository_CreateOnEmptyStore(t *testing.T) {
	ctx := context.Background()
	repo := NewInvoiceRepository(storage.NewMemoryStorage())

	doc := newTestDocument("Acme",
		model.NewInvoiceItem("1", "Design", 2, 100),
		model.NewInvoiceItem("2", "Hosting", 1, 50),
	)
	totals := doc.Totals()
	assert.Equal(t, 250.0, totals.Subtotal)
	assert.Equal(t, 25.0, totals.TaxAmount)
	assert.Equal(t, 275.0, totals.Total)

	record, err := repo.Create(ctx, doc)
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, record.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, 275.0, found.Total)
	assert.Equal(t, model.StatusDraft, found.Status)
	assert.Equal(t, "Acme", found.ClientName)
}

func TestInvoiceRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := NewInvoiceRepository(storage.NewMemoryStorage())

	record, err := repo.Create(ctx, newTestDocument("Acme", model.NewInvoiceItem("1", "Design", 1, 100)))
	require.NoError(t, err)
	_, err = repo.SetStatus(ctx, record.ID, model.StatusSent)
	require.NoError(t, err)

	edited := newTestDocument("Acme Holdings", model.NewInvoiceItem("1", "Design", 3, 100))
	edited.InvoiceNumber = "INV-0002"
	edited.InvoiceDate = "2024-01-05"
	edited.PaymentTerms.DueDate = "2024-02-05"
	require.NoError(t, repo.Update(ctx, record.ID, edited))

	found, err := repo.FindByID(ctx, record.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, model.InvoiceSummaryRecord{
		ID:            record.ID,
		InvoiceNumber: "INV-0002",
		ClientName:    "Acme Holdings",
		InvoiceDate:   "2024-01-05",
		DueDate:       "2024-02-05",
		Total:         330,
		Status:        model.StatusSent,
	}, *found)
}

func TestInvoiceRepository_UpdateUnknownIDIsNoop(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStorage()
	repo := NewInvoiceRepository(store)

	_, err := repo.List(ctx)
	require.NoError(t, err)
	before, err := store.Get(ctx, InvoicesKey)
	require.NoError(t, err)

	require.NoError(t, repo.Update(ctx, "missing", newTestDocument("Nobody")))

	after, err := store.Get(ctx, InvoicesKey)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestInvoiceRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewInvoiceRepository(storage.NewMemoryStorage())

	record, err := repo.Create(ctx, newTestDocument("Acme"))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, record.ID))

	found, err := repo.FindByID(ctx, record.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestInvoiceRepository_DeleteUnknownKeepsBootstrap(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStorage()
	repo := NewInvoiceRepository(store)

	require.NoError(t, repo.Delete(ctx, "nope"))

	_, err := store.Get(ctx, InvoicesKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	records, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.SampleInvoices(), records)
}

func TestInvoiceRepository_FindByIDMissing(t *testing.T) {
	found, err := NewInvoiceRepository(storage.NewMemoryStorage()).FindByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestInvoiceRepository_SetStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewInvoiceRepository(storage.NewMemoryStorage())

	record, err := repo.Create(ctx, newTestDocument("Acme"))
	require.NoError(t, err)

	_, err = repo.SetStatus(ctx, record.ID, model.StatusPaid)
	assert.ErrorIs(t, err, model.ErrInvalidStatusTransition)

	updated, err := repo.SetStatus(ctx, record.ID, model.StatusSent)
	require.NoError(t, err)
	assert.Equal(t, model.StatusSent, updated.Status)

	missing, err := repo.SetStatus(ctx, "nope", model.StatusSent)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestInvoiceRepository_MarkOverdue(t *testing.T) {
	ctx := context.Background()
	repo := NewInvoiceRepository(storage.NewMemoryStorage())

	pastDue, err := repo.Create(ctx, newTestDocument("Late"))
	require.NoError(t, err)
	_, err = repo.SetStatus(ctx, pastDue.ID, model.StatusSent)
	require.NoError(t, err)

	draft, err := repo.Create(ctx, newTestDocument("Draft"))
	require.NoError(t, err)

	notYetDue := newTestDocument("OnTime")
	notYetDue.PaymentTerms.DueDate = "2024-12-31"
	onTime, err := repo.Create(ctx, notYetDue)
	require.NoError(t, err)
	_, err = repo.SetStatus(ctx, onTime.ID, model.StatusSent)
	require.NoError(t, err)

	ids, err := repo.MarkOverdue(ctx, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, []string{pastDue.ID}, ids)

	found, err := repo.FindByID(ctx, pastDue.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusOverdue, found.Status)

	found, err = repo.FindByID(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDraft, found.Status)

	found, err = repo.FindByID(ctx, onTime.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusSent, found.Status)
}
