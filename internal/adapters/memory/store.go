// Package memory is an in-process BillStore. It backs the demo mode and the
// tests, where its failure hooks stand in for an unreachable API.
package memory

import (
	"context"
	"io"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/csg33k/billed/internal/domain"
	"github.com/csg33k/billed/internal/ports"
)

var _ ports.BillStore = (*Store)(nil)

type Store struct {
	mu        sync.Mutex
	bills     []domain.Bill
	receipts  ports.ReceiptStorage
	listErr   error
	createErr error
	creates   int
	last      *domain.NewBill
}

// New returns a store holding a copy of bills.
func New(bills ...domain.Bill) *Store {
	return &Store{bills: append([]domain.Bill(nil), bills...)}
}

// NewWithFixtures returns a store holding the four demo bills.
func NewWithFixtures() *Store {
	return New(Fixtures()...)
}

// NewWithStoredFixtures returns a store holding the four demo bills, with
// their placeholder receipts saved in rs. Bills it creates are saved there too.
func NewWithStoredFixtures(ctx context.Context, rs ports.ReceiptStorage) (*Store, error) {
	bills, err := StoreReceipts(ctx, rs, Fixtures())
	if err != nil {
		return nil, err
	}
	s := New(bills...)
	s.UseReceipts(rs)
	return s, nil
}

// UseReceipts makes Create save receipts to r. Without it receipts are read
// and dropped, and created bills have no FileURL.
func (s *Store) UseReceipts(r ports.ReceiptStorage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.receipts = r
}

// FailList makes every following List call return err; nil restores it.
func (s *Store) FailList(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listErr = err
}

// FailCreate makes every following Create call return err; nil restores it.
func (s *Store) FailCreate(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createErr = err
}

// CreateCalls returns how many times Create was called.
func (s *Store) CreateCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creates
}

// LastCreated returns the last payload passed to Create.
func (s *Store) LastCreated() *domain.NewBill {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *Store) List(ctx context.Context, scope domain.ListScope) ([]domain.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.listLocked(scope), nil
}

func (s *Store) Create(ctx context.Context, b *domain.NewBill) ([]domain.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates++
	s.last = b
	if s.createErr != nil {
		return nil, s.createErr
	}
	var fileURL string
	switch {
	case b.Receipt == nil:
	case s.receipts != nil:
		rec, err := s.receipts.Save(ctx, b.FileName, b.Receipt)
		if err != nil {
			return nil, &domain.StoreError{Status: http.StatusInternalServerError, Message: "Erreur 500", Err: err}
		}
		fileURL = rec.URL
	default:
		if _, err := io.Copy(io.Discard, b.Receipt); err != nil {
			return nil, &domain.StoreError{Status: http.StatusBadRequest, Message: "lecture du justificatif impossible"}
		}
	}
	id := uuid.NewString()
	status := b.Status
	if status == "" {
		status = domain.StatusPending
	}
	s.bills = append(s.bills, domain.Bill{
		ID:         id,
		Email:      b.Email,
		Type:       b.Type,
		Name:       b.Name,
		Date:       b.Date,
		Amount:     b.Amount,
		VAT:        b.VAT,
		Pct:        b.Pct,
		Status:     status,
		Commentary: b.Commentary,
		FileName:   b.FileName,
		FileURL:    fileURL,
	})
	return s.listLocked(domain.ListScope{Email: b.Email}), nil
}

func (s *Store) Update(ctx context.Context, id string, patch domain.BillPatch) (*domain.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.bills {
		if s.bills[i].ID != id {
			continue
		}
		if patch.Status != nil {
			s.bills[i].Status = *patch.Status
		}
		if patch.CommentAdmin != nil {
			s.bills[i].CommentAdmin = *patch.CommentAdmin
		}
		b := s.bills[i]
		return &b, nil
	}
	return nil, &domain.StoreError{Status: http.StatusNotFound, Message: "Erreur 404", Err: domain.ErrNotFound}
}

func (s *Store) listLocked(scope domain.ListScope) []domain.Bill {
	out := make([]domain.Bill, 0, len(s.bills))
	for _, b := range s.bills {
		if scope.All || b.Email == scope.Email {
			out = append(out, b)
		}
	}
	return out
}
