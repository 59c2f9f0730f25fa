package containers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/a-h/templ"

	"github.com/csg33k/billed/internal/domain"
	"github.com/csg33k/billed/internal/format"
	"github.com/csg33k/billed/internal/ports"
	"github.com/csg33k/billed/internal/views"
)

var groupOrder = []domain.Status{domain.StatusPending, domain.StatusAccepted, domain.StatusRefused}

// Dashboard drives the administrator's validation view.
type Dashboard struct {
	store   ports.BillStore
	session domain.Session
	logger  *slog.Logger
}

func NewDashboard(d Deps, sess domain.Session) *Dashboard {
	return &Dashboard{store: d.Store, session: sess, logger: d.logger()}
}

func (c *Dashboard) Page() templ.Component {
	return views.DashboardPage()
}

// LoadGroups lists every bill grouped by status, pending first. Bills with a
// status outside the known set are dropped from the groups and logged.
func (c *Dashboard) LoadGroups(ctx context.Context) ([]domain.StatusGroup, error) {
	bills, err := c.store.List(ctx, c.session.Scope())
	if err != nil {
		c.logger.ErrorContext(ctx, "list bills for dashboard", "err", err)
		return nil, &domain.FetchError{Err: err}
	}
	groups := make([]domain.StatusGroup, len(groupOrder))
	index := make(map[domain.Status]int, len(groupOrder))
	for i, s := range groupOrder {
		groups[i] = domain.StatusGroup{Status: s, Label: format.Status(s)}
		index[s] = i
	}
	for _, b := range displayBills(ctx, c.logger, bills) {
		i, ok := index[b.Status]
		if !ok {
			c.logger.WarnContext(ctx, "bill with unknown status", "bill_id", b.ID, "status", b.Status)
			continue
		}
		groups[i].Bills = append(groups[i].Bills, b)
	}
	return groups, nil
}

// Groups renders the grouped bills, with errMessage above them when set.
func (c *Dashboard) Groups(ctx context.Context, errMessage string) templ.Component {
	groups, err := c.LoadGroups(ctx)
	if err != nil {
		return views.DashboardGroups(nil, err.Error())
	}
	return views.DashboardGroups(groups, errMessage)
}

// Decide accepts or refuses bill id with an optional comment.
func (c *Dashboard) Decide(ctx context.Context, id string, status domain.Status, comment string) (*domain.Bill, error) {
	if status != domain.StatusAccepted && status != domain.StatusRefused {
		return nil, fmt.Errorf("statut %q invalide", status)
	}
	comment = strings.TrimSpace(comment)
	b, err := c.store.Update(ctx, id, domain.BillPatch{Status: &status, CommentAdmin: &comment})
	if err != nil {
		c.logger.ErrorContext(ctx, "update bill", "bill_id", id, "err", err)
		return nil, err
	}
	c.logger.InfoContext(ctx, "bill decided", "bill_id", id, "status", status, "admin", c.session.Email)
	return b, nil
}
