package filestore_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csg33k/billed/internal/adapters/filestore"
	"github.com/csg33k/billed/internal/domain"
)

func TestDisk_SaveOpen(t *testing.T) {
	d, err := filestore.New(t.TempDir(), "/receipts/")
	require.NoError(t, err)
	ctx := context.Background()

	rec, err := d.Save(ctx, "Ticket.JPG", strings.NewReader("jpeg bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(rec.Key, ".jpg"))
	assert.Equal(t, "/receipts/"+rec.Key, rec.URL)

	rc, err := d.Open(ctx, rec.Key)
	require.NoError(t, err)
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(b))
}

func TestDisk_OpenRejectsForeignKeys(t *testing.T) {
	d, err := filestore.New(t.TempDir(), "/receipts")
	require.NoError(t, err)
	for _, key := range []string{"../etc/passwd", "x.jpg", "", "00000000-0000-0000-0000-000000000000.jpg"} {
		_, err := d.Open(context.Background(), key)
		assert.ErrorIs(t, err, domain.ErrNotFound, key)
	}
}

func TestDisk_Delete(t *testing.T) {
	d, err := filestore.New(t.TempDir(), "/receipts")
	require.NoError(t, err)
	ctx := context.Background()

	rec, err := d.Save(ctx, "ticket.png", strings.NewReader("png"))
	require.NoError(t, err)
	require.NoError(t, d.Delete(ctx, rec.Key))
	_, err = d.Open(ctx, rec.Key)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.NoError(t, d.Delete(ctx, rec.Key), "deleting twice")
	assert.NoError(t, d.Delete(ctx, "../etc/passwd"))
}
