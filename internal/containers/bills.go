package containers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/a-h/templ"

	"github.com/csg33k/billed/internal/domain"
	"github.com/csg33k/billed/internal/ports"
	"github.com/csg33k/billed/internal/router"
	"github.com/csg33k/billed/internal/views"
)

// Bills drives the employee's bill list.
type Bills struct {
	store   ports.BillStore
	nav     Navigator
	session domain.Session
	logger  *slog.Logger
	open    *domain.DisplayBill
}

func NewBills(d Deps, nav Navigator, sess domain.Session) *Bills {
	return &Bills{store: d.Store, nav: nav, session: sess, logger: d.logger()}
}

// Page returns the list shell; rows arrive through Rows.
func (c *Bills) Page() templ.Component {
	return views.BillsPage()
}

// LoadBills lists the session's bills, formatted and most recent first.
// A store failure is returned as *domain.FetchError.
func (c *Bills) LoadBills(ctx context.Context) ([]domain.DisplayBill, error) {
	bills, err := c.store.List(ctx, c.session.Scope())
	if err != nil {
		c.logger.ErrorContext(ctx, "list bills", "email", c.session.Email, "err", err)
		return nil, &domain.FetchError{Err: err}
	}
	return displayBills(ctx, c.logger, bills), nil
}

// Rows renders the table body: the bills, or the fetch error message.
func (c *Bills) Rows(ctx context.Context) templ.Component {
	rows, err := c.LoadBills(ctx)
	if err != nil {
		return views.BillsError(err.Error())
	}
	return views.BillRows(rows)
}

// OpenReceipt opens the receipt preview of bill id.
func (c *Bills) OpenReceipt(ctx context.Context, id string) (templ.Component, error) {
	rows, err := c.LoadBills(ctx)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].ID == id {
			c.open = &rows[i]
			return views.ReceiptModal(rows[i]), nil
		}
	}
	return nil, fmt.Errorf("bill %q: %w", id, domain.ErrNotFound)
}

// OpenRow returns the bill whose receipt is shown, or nil.
func (c *Bills) OpenRow() *domain.DisplayBill {
	return c.open
}

// CloseReceipt hides the preview. Closing a closed preview is a no-op.
func (c *Bills) CloseReceipt() templ.Component {
	c.open = nil
	return views.Empty()
}

// HandleClickNewBill navigates to the creation form.
func (c *Bills) HandleClickNewBill(ctx context.Context) (*router.Page, error) {
	return c.nav.Navigate(ctx, router.NewBill)
}

// IsFetchError reports whether err came from a failed listing.
func IsFetchError(err error) bool {
	var fe *domain.FetchError
	return errors.As(err, &fe)
}
