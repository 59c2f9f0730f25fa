package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csg33k/billed/internal/adapters/filestore"
	"github.com/csg33k/billed/internal/adapters/memory"
	"github.com/csg33k/billed/internal/domain"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, _ := newTestRepoDir(t)
	return repo
}

// newTestRepoDir also returns the directory holding the receipts.
func newTestRepoDir(t *testing.T) (*Repository, string) {
	t.Helper()
	dir := t.TempDir()
	receiptsDir := filepath.Join(dir, "receipts")
	receipts, err := filestore.New(receiptsDir, "/receipts")
	require.NoError(t, err)
	repo, err := New(filepath.Join(dir, "test.db"), receipts)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo, receiptsDir
}

func TestRepository_SeedAndList(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	n, err := repo.Seed(ctx, memory.Fixtures(), nil)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	n, err = repo.Seed(ctx, memory.Fixtures(), nil)
	require.NoError(t, err)
	assert.Zero(t, n, "seeding a populated table is a no-op")

	bills, err := repo.List(ctx, domain.ListScope{Email: memory.FixtureEmail})
	require.NoError(t, err)
	require.Len(t, bills, 4)
	assert.Equal(t, memory.Fixtures()[0], bills[0])

	none, err := repo.List(ctx, domain.ListScope{Email: "nobody@example.com"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRepository_Create(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	bills, err := repo.Create(ctx, &domain.NewBill{
		Email:      "e@e",
		Type:       "Transports",
		Name:       "Vol Paris Londres",
		Date:       "2022-05-12",
		Amount:     348,
		VAT:        "70",
		Pct:        20,
		Commentary: "salon",
		FileName:   "billet.png",
		Receipt:    strings.NewReader("\x89PNG"),
	})
	require.NoError(t, err)
	require.Len(t, bills, 1)
	b := bills[0]
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, domain.StatusPending, b.Status)
	assert.Equal(t, 348.0, b.Amount)
	assert.True(t, strings.HasPrefix(b.FileURL, "/receipts/"))
	assert.True(t, strings.HasSuffix(b.FileURL, ".png"))
	assert.Equal(t, "billet.png", b.FileName)
}

func TestRepository_SeedStoresReceipts(t *testing.T) {
	repo, dir := newTestRepoDir(t)
	ctx := context.Background()

	n, err := repo.Seed(ctx, memory.Fixtures(), memory.PlaceholderReceipt)
	require.NoError(t, err)
	require.Equal(t, 4, n)

	bills, err := repo.List(ctx, domain.ListScope{All: true})
	require.NoError(t, err)
	for _, b := range bills {
		key, ok := strings.CutPrefix(b.FileURL, "/receipts/")
		require.True(t, ok, b.FileURL)
		rc, err := repo.receipts.Open(ctx, key)
		require.NoError(t, err, b.ID)
		rc.Close()
	}
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 4)
}

func TestRepository_CreateRemovesReceiptWhenInsertFails(t *testing.T) {
	repo, dir := newTestRepoDir(t)
	require.NoError(t, repo.db.Close())

	_, err := repo.Create(context.Background(), &domain.NewBill{
		Email:    "e@e",
		Date:     "2022-05-12",
		FileName: "billet.png",
		Receipt:  strings.NewReader("\x89PNG"),
	})
	var storeErr *domain.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, 500, storeErr.Status)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no receipt is left without a bill")
}

func TestRepository_CreateWithoutReceipt(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.Create(context.Background(), &domain.NewBill{Email: "e@e", Date: "2022-05-12"})
	var storeErr *domain.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, 400, storeErr.Status)
}

func TestRepository_Update(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	_, err := repo.Seed(ctx, memory.Fixtures(), nil)
	require.NoError(t, err)

	status := domain.StatusAccepted
	comment := "ok pour moi"
	b, err := repo.Update(ctx, "47qAXb6fIm2zOKkLzMro", domain.BillPatch{Status: &status, CommentAdmin: &comment})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAccepted, b.Status)
	assert.Equal(t, "ok pour moi", b.CommentAdmin)

	all, err := repo.List(ctx, domain.ListScope{All: true})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAccepted, all[0].Status)

	_, err = repo.Update(ctx, "missing", domain.BillPatch{Status: &status})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMigrate_Idempotent(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, migrate(context.Background(), repo.db))
}

func TestUpSection(t *testing.T) {
	up, err := upSection("-- migrate:up\nCREATE TABLE x (id INT);\n-- migrate:down\nDROP TABLE x;")
	require.NoError(t, err)
	assert.Equal(t, "CREATE TABLE x (id INT);", up)

	_, err = upSection("CREATE TABLE x (id INT);")
	assert.Error(t, err)
}
