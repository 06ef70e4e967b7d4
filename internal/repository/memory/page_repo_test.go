package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docrecon/internal/domain"
)

func seedPages(t *testing.T, repo interface {
	CreateBatch(context.Context, []domain.Page) error
}, docID uuid.UUID, n int) {
	t.Helper()
	pages := make([]domain.Page, n)
	for i := range pages {
		pages[i] = domain.Page{ID: uuid.New(), DocumentID: docID, PageNumber: i + 1, Status: domain.PageStatusPending}
	}
	require.NoError(t, repo.CreateBatch(context.Background(), pages))
}

func TestPageRepo_QueueOnlyPagesWithImages(t *testing.T) {
	ctx := context.Background()
	repo := NewPageRepo(NewStore())
	docID := uuid.New()
	seedPages(t, repo, docID, 3)

	require.NoError(t, repo.SetImage(ctx, docID, 1, "k1", "image/png"))
	require.NoError(t, repo.SetImage(ctx, docID, 3, "k3", "image/jpeg"))

	n, err := repo.QueueForExtraction(ctx, docID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	counts, err := repo.CountByStatus(ctx, docID)
	require.NoError(t, err)
	assert.Equal(t, 2, counts[domain.PageStatusQueued])
	assert.Equal(t, 1, counts[domain.PageStatusPending])
}

func TestPageRepo_ClaimQueuedRespectsLimit(t *testing.T) {
	ctx := context.Background()
	repo := NewPageRepo(NewStore())
	docID := uuid.New()
	seedPages(t, repo, docID, 3)
	for i := 1; i <= 3; i++ {
		require.NoError(t, repo.SetImage(ctx, docID, i, "k", "image/png"))
	}
	_, err := repo.QueueForExtraction(ctx, docID)
	require.NoError(t, err)

	claimed, err := repo.ClaimQueued(ctx, 2)
	require.NoError(t, err)
	require.Len(t, claimed, 2)
	for _, p := range claimed {
		assert.Equal(t, domain.PageStatusProcessing, p.Status)
		assert.Equal(t, 1, p.Attempts)
		assert.True(t, p.HasImage)
	}

	rest, err := repo.ClaimQueued(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, rest, 1)

	none, err := repo.ClaimQueued(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPageRepo_SetImageUnknownPage(t *testing.T) {
	repo := NewPageRepo(NewStore())
	err := repo.SetImage(context.Background(), uuid.New(), 1, "k", "image/png")
	assert.ErrorIs(t, err, domain.ErrPageNotFound)
}

func TestDocumentRepo_DeleteCascadesAllPageData(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	docs := NewDocumentRepo(store)
	pages := NewPageRepo(store)
	texts := NewPageTextRepo(store)
	corrections := NewCorrectionRepo(store)

	docID := uuid.New()
	require.NoError(t, docs.Create(ctx, &domain.Document{ID: docID, Name: "scan", PageCount: 2}))
	seedPages(t, pages, docID, 2)
	require.NoError(t, texts.UpsertOCRText(ctx, &domain.OCRText{DocumentID: docID, PageNumber: 1, RawText: "a"}))
	require.NoError(t, texts.ReplaceEditableTexts(ctx, docID, []domain.EditableText{{DocumentID: docID, PageNumber: 1, Text: "b"}}))
	require.NoError(t, corrections.Upsert(ctx, &domain.PageCorrection{DocumentID: docID, PageNumber: 1, CorrectedText: "c"}))

	require.NoError(t, docs.Delete(ctx, docID))

	_, err := docs.GetByID(ctx, docID)
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
	_, err = pages.GetByNumber(ctx, docID, 1)
	assert.ErrorIs(t, err, domain.ErrPageNotFound)
	_, err = texts.GetOCRText(ctx, docID, 1)
	assert.ErrorIs(t, err, domain.ErrOCRTextNotFound)
	_, err = texts.GetEditableText(ctx, docID, 1)
	assert.ErrorIs(t, err, domain.ErrEditableNotFound)
	_, err = corrections.ListByDocument(ctx, docID)
	assert.ErrorIs(t, err, domain.ErrCorrectionNotFound)

	assert.ErrorIs(t, docs.Delete(ctx, docID), domain.ErrDocumentNotFound)
}

func TestDocumentRepo_ListPagination(t *testing.T) {
	ctx := context.Background()
	docs := NewDocumentRepo(NewStore())
	for i := 0; i < 5; i++ {
		require.NoError(t, docs.Create(ctx, &domain.Document{ID: uuid.New()}))
	}

	page, total, err := docs.List(ctx, 3, 10)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Len(t, page, 2)

	page, _, err = docs.List(ctx, 10, 10)
	require.NoError(t, err)
	assert.Empty(t, page)
}
