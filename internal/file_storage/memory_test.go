package filestorage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore("autosign")

	bucket, err := store.Put(ctx, "documents/u1/abc_lease.pdf", strings.NewReader("%PDF-1.7"), 8, "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "autosign", bucket)

	rc, err := store.Get(ctx, bucket, "documents/u1/abc_lease.pdf")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7", string(data))

	require.NoError(t, store.Remove(ctx, bucket, "documents/u1/abc_lease.pdf"))
	_, err = store.Get(ctx, bucket, "documents/u1/abc_lease.pdf")
	assert.Error(t, err)
}
