package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/csg33k/billed/internal/domain"
	"github.com/csg33k/billed/internal/ports"
)

var _ ports.BillStore = (*Repository)(nil)

type Repository struct {
	db       *sql.DB
	receipts ports.ReceiptStorage
}

// New opens the SQLite database and applies pending migrations. receipts
// stores the files attached to created bills.
func New(dsn string, receipts ports.ReceiptStorage) (*Repository, error) {
	db, err := sql.Open("sqlite3", dsn+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	if err := migrate(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Repository{db: db, receipts: receipts}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

const billColumns = `id, email, type, name, date, amount, vat, pct, status,
	commentary, comment_admin, file_url, file_name`

type scanner interface {
	Scan(dest ...any) error
}

func scanBill(s scanner) (domain.Bill, error) {
	var b domain.Bill
	err := s.Scan(&b.ID, &b.Email, &b.Type, &b.Name, &b.Date, &b.Amount, &b.VAT, &b.Pct,
		&b.Status, &b.Commentary, &b.CommentAdmin, &b.FileURL, &b.FileName)
	return b, err
}

func (r *Repository) List(ctx context.Context, scope domain.ListScope) ([]domain.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills`
	var args []any
	if !scope.All {
		query += ` WHERE email=?`
		args = append(args, scope.Email)
	}
	query += ` ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, internalError(err)
	}
	defer rows.Close()
	var list []domain.Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, internalError(err)
		}
		list = append(list, b)
	}
	if err := rows.Err(); err != nil {
		return nil, internalError(err)
	}
	return list, nil
}

// Create stores the receipt, inserts the bill and returns the owner's bills.
func (r *Repository) Create(ctx context.Context, b *domain.NewBill) ([]domain.Bill, error) {
	if b.Receipt == nil {
		return nil, &domain.StoreError{Status: http.StatusBadRequest, Message: "justificatif manquant"}
	}
	rec, err := r.receipts.Save(ctx, b.FileName, b.Receipt)
	if err != nil {
		return nil, internalError(err)
	}
	status := b.Status
	if status == "" {
		status = domain.StatusPending
	}
	now := time.Now()
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO bills (`+billColumns+`, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		uuid.NewString(), b.Email, b.Type, b.Name, b.Date, b.Amount, b.VAT, b.Pct, status,
		b.Commentary, "", rec.URL, b.FileName, now, now,
	)
	if err != nil {
		if delErr := r.receipts.Delete(context.WithoutCancel(ctx), rec.Key); delErr != nil {
			err = errors.Join(err, delErr)
		}
		return nil, internalError(err)
	}
	return r.List(ctx, domain.ListScope{Email: b.Email})
}

func (r *Repository) Update(ctx context.Context, id string, patch domain.BillPatch) (*domain.Bill, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, internalError(err)
	}
	defer tx.Rollback()

	b, err := scanBill(tx.QueryRowContext(ctx, `SELECT `+billColumns+` FROM bills WHERE id=?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.StoreError{Status: http.StatusNotFound, Message: "Erreur 404", Err: domain.ErrNotFound}
	}
	if err != nil {
		return nil, internalError(err)
	}
	if patch.Status != nil {
		b.Status = *patch.Status
	}
	if patch.CommentAdmin != nil {
		b.CommentAdmin = *patch.CommentAdmin
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE bills SET status=?, comment_admin=?, updated_at=? WHERE id=?`,
		b.Status, b.CommentAdmin, time.Now(), id,
	); err != nil {
		return nil, internalError(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, internalError(err)
	}
	return &b, nil
}

// Seed inserts bills, keeping their IDs, when the table is empty. It reports
// how many rows were inserted. When receipt is set, each bill gets a receipt
// with its content saved to the receipt storage; otherwise FileURL is kept.
func (r *Repository) Seed(ctx context.Context, bills []domain.Bill, receipt func() io.Reader) (n int, err error) {
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bills`).Scan(&n); err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	var saved []string
	defer func() {
		if err == nil {
			return
		}
		for _, key := range saved {
			r.receipts.Delete(context.WithoutCancel(ctx), key)
		}
	}()
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()
	now := time.Now()
	for i, b := range bills {
		if receipt != nil {
			rec, err := r.receipts.Save(ctx, b.FileName, receipt())
			if err != nil {
				return 0, fmt.Errorf("seed receipt of %s: %w", b.ID, err)
			}
			saved = append(saved, rec.Key)
			b.FileURL = rec.URL
		}
		// Spread creation times so storage order stays stable.
		at := now.Add(time.Duration(i) * time.Millisecond)
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO bills (`+billColumns+`, created_at, updated_at)
			VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
			b.ID, b.Email, b.Type, b.Name, b.Date, b.Amount, b.VAT, b.Pct, b.Status,
			b.Commentary, b.CommentAdmin, b.FileURL, b.FileName, at, at,
		); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(bills), nil
}

func internalError(err error) *domain.StoreError {
	return &domain.StoreError{Status: http.StatusInternalServerError, Message: "Erreur 500", Err: err}
}
