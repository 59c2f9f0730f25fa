// Package containers holds the page controllers. A container reads the
// session, queries the store, builds view models and hands them to views;
// user actions arrive as method calls and end in a navigation or a fragment.
package containers

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/csg33k/billed/internal/domain"
	"github.com/csg33k/billed/internal/format"
	"github.com/csg33k/billed/internal/ports"
	"github.com/csg33k/billed/internal/router"
	"github.com/csg33k/billed/internal/session"
)

// Navigator is the navigation service handed to containers.
type Navigator interface {
	Navigate(ctx context.Context, id router.PathID) (*router.Page, error)
	Path(id router.PathID) string
}

// Deps are the collaborators shared by every container.
type Deps struct {
	Store  ports.BillStore
	Guard  *SubmitGuard
	Logger *slog.Logger
}

func (d Deps) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.Default()
	}
	return d.Logger
}

// Routes returns the application route table. Each render function builds
// its container from the session on the context.
func Routes(d Deps) []router.Route {
	return []router.Route{
		{
			ID: router.Login, Path: "/", Title: "Connexion",
			Render: func(ctx context.Context, nav *router.Navigator) (templ.Component, error) {
				return NewLogin(nav, d.logger()).Page(), nil
			},
		},
		{
			ID: router.Bills, Path: "/employee/bills", Title: "Mes notes de frais", Icon: "icon-window",
			Render: func(ctx context.Context, nav *router.Navigator) (templ.Component, error) {
				sess, err := RequireSession(ctx, domain.UserEmployee)
				if err != nil {
					return nil, err
				}
				return NewBills(d, nav, sess).Page(), nil
			},
		},
		{
			ID: router.NewBill, Path: "/employee/bill/new", Title: "Nouvelle note de frais", Icon: "icon-mail",
			Render: func(ctx context.Context, nav *router.Navigator) (templ.Component, error) {
				sess, err := RequireSession(ctx, domain.UserEmployee)
				if err != nil {
					return nil, err
				}
				return NewNewBill(d, nav, sess).Page(), nil
			},
		},
		{
			ID: router.Dashboard, Path: "/admin/dashboard", Title: "Validations",
			Render: func(ctx context.Context, nav *router.Navigator) (templ.Component, error) {
				sess, err := RequireSession(ctx, domain.UserAdmin)
				if err != nil {
					return nil, err
				}
				return NewDashboard(d, sess).Page(), nil
			},
		},
	}
}

// RequireSession returns the context session when it has type t.
func RequireSession(ctx context.Context, t domain.UserType) (domain.Session, error) {
	sess, ok := session.FromContext(ctx)
	if !ok || sess.Type != t {
		return domain.Session{}, domain.ErrNoSession
	}
	return sess, nil
}

// displayBills formats every bill and orders the result most recent first.
// Bills with unreadable dates are kept, flagged, and placed last.
func displayBills(ctx context.Context, logger *slog.Logger, bills []domain.Bill) []domain.DisplayBill {
	type keyed struct {
		bill  domain.DisplayBill
		at    time.Time
		valid bool
	}
	rows := make([]keyed, 0, len(bills))
	for _, b := range bills {
		d, err := format.Bill(b)
		if err != nil {
			logger.WarnContext(ctx, "bill with unreadable date", "bill_id", b.ID, "date", b.Date, "err", err)
			rows = append(rows, keyed{bill: d})
			continue
		}
		at, _ := format.ParseDate(b.Date)
		rows = append(rows, keyed{bill: d, at: at, valid: true})
	}
	slices.SortStableFunc(rows, func(a, b keyed) int {
		switch {
		case a.valid && !b.valid:
			return -1
		case !a.valid && b.valid:
			return 1
		case a.valid && b.valid && !a.at.Equal(b.at):
			return b.at.Compare(a.at)
		}
		if c := strings.Compare(b.bill.RawDate, a.bill.RawDate); c != 0 {
			return c
		}
		return strings.Compare(a.bill.ID, b.bill.ID)
	})
	out := make([]domain.DisplayBill, len(rows))
	for i, r := range rows {
		out[i] = r.bill
	}
	return out
}
