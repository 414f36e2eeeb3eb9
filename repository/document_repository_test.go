package repository

import (
	"context"
	"testing"

	"github.com/notblessy/invoicegen/model"
	"github.com/notblessy/invoicegen/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentRepository(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStorage()
	repo := NewDocumentRepository(store)

	missing, err := repo.FindByID(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, missing)

	doc := newTestDocument("Acme",
		model.NewInvoiceItem("1", "Design", 2, 100),
		model.NewInvoiceItem("2", "Hosting", 1, 50),
		model.NewInvoiceItem("3", "Domain", 1, 15),
	)
	doc.PaymentTerms.Notes = "Thanks!"
	require.NoError(t, repo.Save(ctx, "abc", doc))

	_, err = store.Get(ctx, "invoice:abc")
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, doc, found)

	require.NoError(t, repo.Delete(ctx, "abc"))
	gone, err := repo.FindByID(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestDocumentRepository_Malformed(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStorage()
	require.NoError(t, store.Set(ctx, "invoice:abc", []byte("nope")))

	_, err := NewDocumentRepository(store).FindByID(ctx, "abc")
	assert.Error(t, err)
}
