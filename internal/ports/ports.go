package ports

import (
	"context"
	"io"

	"github.com/csg33k/billed/internal/domain"
)

// BillStore defines the bill persistence operations. Failures are
// *domain.StoreError.
type BillStore interface {
	List(ctx context.Context, scope domain.ListScope) ([]domain.Bill, error)
	// Create persists b and returns the updated collection for b.Email.
	Create(ctx context.Context, b *domain.NewBill) ([]domain.Bill, error)
	Update(ctx context.Context, id string, patch domain.BillPatch) (*domain.Bill, error)
}

// ReceiptStorage stores uploaded receipt files.
type ReceiptStorage interface {
	Save(ctx context.Context, fileName string, r io.Reader) (domain.Receipt, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the receipt under key. Unknown keys are not an error.
	Delete(ctx context.Context, key string) error
}
