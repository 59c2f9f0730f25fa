// Package router maps the fixed set of page identifiers to their render
// functions and tracks which page, and so which navigation icon, is active.
package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/a-h/templ"

	"github.com/csg33k/billed/internal/domain"
)

// PathID names a page.
type PathID string

const (
	Login     PathID = "Login"
	Bills     PathID = "Bills"
	NewBill   PathID = "NewBill"
	Dashboard PathID = "Dashboard"
)

// RenderFunc renders the content of a page. The navigator is passed so the
// page's container can navigate onwards.
type RenderFunc func(ctx context.Context, nav *Navigator) (templ.Component, error)

type Route struct {
	ID     PathID
	Path   string // URL path pushed to the browser
	Title  string
	Icon   string // test id of the layout icon; empty when the page has none
	Render RenderFunc
}

// Icon is one entry of the vertical layout.
type Icon struct {
	ID     PathID
	TestID string
	Path   string
	Active bool
}

// Page is the result of a successful navigation.
type Page struct {
	Route   Route
	Content templ.Component
	Icons   []Icon
}

// Table is the immutable route table.
type Table struct {
	routes map[PathID]Route
	order  []PathID
	logger *slog.Logger
}

// NewTable validates and freezes routes.
func NewTable(logger *slog.Logger, routes ...Route) (*Table, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(routes) == 0 {
		return nil, errors.New("router: no routes")
	}
	t := &Table{routes: make(map[PathID]Route, len(routes)), logger: logger}
	paths := make(map[string]PathID, len(routes))
	for _, r := range routes {
		switch {
		case r.ID == "":
			return nil, errors.New("router: route with empty id")
		case r.Render == nil:
			return nil, fmt.Errorf("router: route %q has no render function", r.ID)
		case r.Path == "":
			return nil, fmt.Errorf("router: route %q has no path", r.ID)
		}
		if _, dup := t.routes[r.ID]; dup {
			return nil, fmt.Errorf("router: duplicate route %q", r.ID)
		}
		if other, dup := paths[r.Path]; dup {
			return nil, fmt.Errorf("router: routes %q and %q share path %q", other, r.ID, r.Path)
		}
		paths[r.Path] = r.ID
		t.routes[r.ID] = r
		t.order = append(t.order, r.ID)
	}
	return t, nil
}

// Path returns the URL path of id, or "" when id is unknown.
func (t *Table) Path(id PathID) string {
	return t.routes[id].Path
}

// Navigator returns a navigator in the unmounted state.
func (t *Table) Navigator() *Navigator {
	return &Navigator{table: t}
}

// Navigator is the router state machine of one client interaction. It is not
// safe for concurrent use.
type Navigator struct {
	table  *Table
	active PathID
	page   *Page
}

// Navigate renders the page registered under id and makes it active. An
// unknown id, or a render failure, leaves the previous page in place.
func (n *Navigator) Navigate(ctx context.Context, id PathID) (*Page, error) {
	route, ok := n.table.routes[id]
	if !ok {
		n.table.logger.WarnContext(ctx, "navigation to unknown route", "path_id", id, "active", n.active)
		return nil, &domain.UnknownRouteError{PathID: string(id)}
	}
	content, err := route.Render(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", id, err)
	}
	n.active = id
	n.page = &Page{Route: route, Content: content, Icons: n.Icons()}
	return n.page, nil
}

// Active returns the active route id; ok is false while unmounted.
func (n *Navigator) Active() (PathID, bool) {
	return n.active, n.active != ""
}

// Page returns the last rendered page, or nil while unmounted.
func (n *Navigator) Page() *Page {
	return n.page
}

// Path returns the URL path of id.
func (n *Navigator) Path(id PathID) string {
	return n.table.Path(id)
}

// Icons lists the layout icons in table order. Only the icon of the active
// route is marked active.
func (n *Navigator) Icons() []Icon {
	var icons []Icon
	for _, id := range n.table.order {
		r := n.table.routes[id]
		if r.Icon == "" {
			continue
		}
		icons = append(icons, Icon{ID: id, TestID: r.Icon, Path: r.Path, Active: id == n.active})
	}
	return icons
}
