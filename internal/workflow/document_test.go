package workflow

import (
	"context"
	"io"
	"testing"

	"github.com/SeakMengs/AutoSign/internal/constant"
	filestorage "github.com/SeakMengs/AutoSign/internal/file_storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentStatusLifecycle(t *testing.T) {
	env := newTestEnv(t, Options{})
	ctx := context.Background()
	document := env.upload(t, owner)

	status, err := env.svc.DocumentStatus(ctx, owner, document.ID)
	require.NoError(t, err)
	assert.Equal(t, constant.DocumentStatusDraft, status)

	env.defineField(t, document.ID, "a@x.com")
	status, err = env.svc.DocumentStatus(ctx, owner, document.ID)
	require.NoError(t, err)
	assert.Equal(t, constant.DocumentStatusTemplated, status)

	env.createContract(t, document.ID, partiesAB...)
	status, err = env.svc.DocumentStatus(ctx, owner, document.ID)
	require.NoError(t, err)
	assert.Equal(t, constant.DocumentStatusContracted, status)
}

func TestUploadDocumentStoresBlobAndMetadata(t *testing.T) {
	env := newTestEnv(t, Options{})
	document := env.upload(t, owner)

	assert.Equal(t, owner.ID, document.OwnerID)
	assert.Equal(t, "lease agreement.pdf", document.OriginalName)
	assert.Equal(t, testPageCount, document.PageCount)
	assert.Equal(t, "autosign-test", document.BucketName)
	assert.Contains(t, document.ObjectKey, "documents/owner-1/")
	assert.Nil(t, document.FileContent)

	file, err := env.svc.OpenDocumentFile(context.Background(), owner, document.ID)
	require.NoError(t, err)
	defer file.Content.Close()
	data, err := io.ReadAll(file.Content)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 test document", string(data))
}

func TestUploadDocumentValidation(t *testing.T) {
	env := newTestEnv(t, Options{MaxDocumentSize: 64})
	ctx := context.Background()

	_, err := env.svc.UploadDocument(ctx, owner, UploadDocumentInput{FileName: "notes.txt", MimeType: "text/plain", Content: []byte("hello")})
	requireKind(t, err, ErrInvalidInput)

	_, err = env.svc.UploadDocument(ctx, owner, UploadDocumentInput{FileName: "big.pdf", Content: make([]byte, 65)})
	requireKind(t, err, ErrInvalidInput)

	_, err = env.svc.UploadDocument(ctx, owner, UploadDocumentInput{FileName: "empty.pdf"})
	requireKind(t, err, ErrInvalidInput)

	env.svc.countPages = filestorage.GetPdfPageCount
	_, err = env.svc.UploadDocument(ctx, owner, UploadDocumentInput{FileName: "fake.pdf", MimeType: "application/pdf", Content: []byte("not really a pdf")})
	requireKind(t, err, ErrInvalidInput)

	_, err = env.svc.UploadDocument(ctx, Identity{}, UploadDocumentInput{FileName: "a.pdf", Content: []byte("%PDF")})
	requireKind(t, err, ErrForbidden)
}

func TestOpenDocumentFileFallsBackToCachedCopy(t *testing.T) {
	env := newTestEnv(t, Options{})
	ctx := context.Background()
	document := env.upload(t, owner)

	require.NoError(t, env.storage.Remove(ctx, document.BucketName, document.ObjectKey))

	file, err := env.svc.OpenDocumentFile(ctx, owner, document.ID)
	require.NoError(t, err)
	data, err := io.ReadAll(file.Content)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 test document", string(data))
}

func TestDocumentAccess(t *testing.T) {
	env := newTestEnv(t, Options{})
	ctx := context.Background()
	document := env.upload(t, owner)

	_, err := env.svc.GetDocument(ctx, stranger, document.ID)
	requireKind(t, err, ErrForbidden)

	_, err = env.svc.GetDocument(ctx, admin, document.ID)
	require.NoError(t, err)

	_, err = env.svc.GetDocument(ctx, owner, "missing")
	requireKind(t, err, ErrNotFound)

	// a signer of one of its contracts may read it
	env.createContract(t, document.ID, SignerInput{Email: "Stranger@Example.com", Name: "S"})
	_, err = env.svc.GetDocument(ctx, stranger, document.ID)
	require.NoError(t, err)

	documents, total, err := env.svc.ListDocuments(ctx, owner, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, documents, 1)
	assert.Equal(t, document.ID, documents[0].ID)
}

func TestDeleteDocument(t *testing.T) {
	env := newTestEnv(t, Options{})
	ctx := context.Background()

	document := env.upload(t, owner)
	env.defineField(t, document.ID, "a@x.com")

	requireKind(t, env.svc.DeleteDocument(ctx, stranger, document.ID), ErrForbidden)
	require.NoError(t, env.svc.DeleteDocument(ctx, owner, document.ID))

	_, err := env.svc.GetDocument(ctx, owner, document.ID)
	requireKind(t, err, ErrNotFound)
	_, err = env.storage.Get(ctx, document.BucketName, document.ObjectKey)
	assert.Error(t, err)

	contracted := env.upload(t, owner)
	env.createContract(t, contracted.ID, partiesAB...)
	requireKind(t, env.svc.DeleteDocument(ctx, owner, contracted.ID), ErrConflict)

	_, err = env.svc.GetDocument(ctx, owner, contracted.ID)
	require.NoError(t, err)
}

func TestDeleteDocumentLocksBeforeCountingContracts(t *testing.T) {
	env := newTestEnv(t, Options{})
	document := env.upload(t, owner)
	queries := recordQueries(t, env)

	require.NoError(t, env.svc.DeleteDocument(context.Background(), owner, document.ID))
	requireLockedBefore(t, queries())
}
