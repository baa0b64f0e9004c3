package badger

import (
	"context"
	"testing"

	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentPutAndGet(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	doc := &core.Document{
		SessionID: "chat-1",
		Text:      "Extracted document text.",
	}
	require.NoError(t, stores.Documents.PutDocument(ctx, doc))

	got, err := stores.Documents.GetDocument(ctx, "chat-1")
	require.NoError(t, err)
	assert.Equal(t, "Extracted document text.", got.Text)
	assert.Equal(t, core.FingerprintFromContent(doc.Text), got.Fingerprint)
	assert.False(t, got.UploadedAt.IsZero())

	text, err := stores.Documents.GetText(ctx, "chat-1")
	require.NoError(t, err)
	assert.Equal(t, doc.Text, text)
}

func TestDocumentPutReplaces(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	require.NoError(t, stores.Documents.PutDocument(ctx,
		&core.Document{SessionID: "chat-1", Text: "first version"}))
	require.NoError(t, stores.Documents.PutDocument(ctx,
		&core.Document{SessionID: "chat-1", Text: "second version"}))

	text, err := stores.Documents.GetText(ctx, "chat-1")
	require.NoError(t, err)
	assert.Equal(t, "second version", text)
}

func TestDocumentGetMissing(t *testing.T) {
	stores := newTestStores(t)

	_, err := stores.Documents.GetDocument(context.Background(), "nobody")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = stores.Documents.GetText(context.Background(), "nobody")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDocumentDelete(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	require.NoError(t, stores.Documents.PutDocument(ctx,
		&core.Document{SessionID: "chat-1", Text: "to be removed"}))
	require.NoError(t, stores.Documents.DeleteDocument(ctx, "chat-1"))

	_, err := stores.Documents.GetDocument(ctx, "chat-1")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// Idempotent
	assert.NoError(t, stores.Documents.DeleteDocument(ctx, "chat-1"))
}

func TestDocumentPutValidation(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	err := stores.Documents.PutDocument(ctx, &core.Document{SessionID: "", Text: "x"})
	assert.ErrorIs(t, err, core.ErrEmptySessionID)

	err = stores.Documents.PutDocument(ctx, &core.Document{SessionID: "chat-1", Text: ""})
	assert.ErrorIs(t, err, core.ErrEmptyText)
}
