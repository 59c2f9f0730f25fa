package views

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csg33k/billed/internal/domain"
	"github.com/csg33k/billed/internal/router"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

var rows = []domain.DisplayBill{
	{ID: "b1", Type: "Transports", Name: "encore", Date: "4 Avr. 04", AmountLabel: "400,00 €", StatusLabel: "En attente", FileURL: "/receipts/b1.png"},
	{ID: "b2", Type: "Transports", Name: "<script>", Date: "31/12/2020", DateInvalid: true, AmountLabel: "1,00 €", StatusLabel: "Refusé"},
}

func TestBillRows(t *testing.T) {
	html := renderString(t, BillRows(rows))
	assert.Equal(t, 2, strings.Count(html, `data-testid="icon-eye"`))
	assert.Contains(t, html, `hx-get="/employee/bills/b1/receipt"`)
	assert.Contains(t, html, `class="date-invalid"`)
	assert.NotContains(t, html, "<script>")
	assert.Less(t, strings.Index(html, "b1"), strings.Index(html, "b2"))
}

func TestBillRows_Empty(t *testing.T) {
	html := renderString(t, BillRows(nil))
	assert.NotContains(t, html, `data-testid="icon-eye"`)
	assert.Contains(t, html, `data-testid="no-bills"`)
}

func TestBillsPage_LoadsRows(t *testing.T) {
	html := renderString(t, BillsPage())
	assert.Contains(t, html, `hx-get="/employee/bills/rows"`)
	assert.Contains(t, html, `hx-trigger="load"`)
	assert.Contains(t, html, `data-testid="btn-new-bill"`)
	assert.Contains(t, html, `id="modal"`)
}

func TestBillsError(t *testing.T) {
	html := renderString(t, BillsError("Erreur 404"))
	assert.Contains(t, html, "Erreur 404")
	assert.NotContains(t, html, `data-testid="icon-eye"`)
}

func TestReceiptModal(t *testing.T) {
	html := renderString(t, ReceiptModal(rows[0]))
	assert.Contains(t, html, `data-testid="modaleFileEmployee"`)
	assert.Contains(t, html, "/receipts/b1.png")
	assert.Contains(t, html, `hx-delete="/employee/bills/receipt"`)
	assert.Empty(t, renderString(t, Empty()))
}

func TestNewBillPage(t *testing.T) {
	html := renderString(t, NewBillPage(NewBillForm{Action: "/employee/bill/new", Type: "Restaurants et bars", Name: "Déjeuner", Error: "Erreur 500"}))
	assert.Contains(t, html, `data-testid="form-new-bill"`)
	assert.Contains(t, html, `hx-post="/employee/bill/new"`)
	assert.Contains(t, html, `hx-disabled-elt="#btn-send-bill"`)
	assert.Contains(t, html, `<option selected>Restaurants et bars</option>`)
	assert.Contains(t, html, `data-testid="submit-error"`)
	assert.NotContains(t, html, `data-testid="file-error"`)
}

func TestFileField(t *testing.T) {
	html := renderString(t, FileField("fichier refusé"))
	assert.Contains(t, html, `id="file-field"`)
	assert.Contains(t, html, `hx-post="/employee/bill/new/file"`)
	assert.Contains(t, html, `data-testid="file-error"`)
	assert.NotContains(t, renderString(t, FileField("")), `data-testid="file-error"`)
}

func TestLoginPage(t *testing.T) {
	assert.NotContains(t, renderString(t, LoginPage("")), `data-testid="login-error"`)
	assert.Contains(t, renderString(t, LoginPage("adresse email invalide")), "adresse email invalide")
}

func TestDashboardGroups(t *testing.T) {
	groups := []domain.StatusGroup{
		{Status: domain.StatusPending, Label: "En attente", Bills: []domain.DisplayBill{{ID: "p1", Status: domain.StatusPending}}},
		{Status: domain.StatusAccepted, Label: "Accepté", Bills: []domain.DisplayBill{{ID: "a1", Status: domain.StatusAccepted, CommentAdmin: "ok"}}},
		{Status: domain.StatusRefused, Label: "Refusé"},
	}
	html := renderString(t, DashboardGroups(groups, ""))
	assert.Equal(t, 1, strings.Count(html, `data-testid="btn-accept-bill"`))
	assert.Contains(t, html, `hx-put="/admin/bills/p1"`)
	assert.Contains(t, html, `data-testid="status-group-refused"`)
	assert.NotContains(t, html, `data-testid="error-message"`)

	assert.Contains(t, renderString(t, DashboardGroups(groups, "Erreur 404")), "Erreur 404")
}

func TestLayout(t *testing.T) {
	page := &router.Page{
		Route:   router.Route{ID: router.Bills, Path: "/employee/bills", Title: "Mes notes de frais", Icon: "icon-window"},
		Content: BillsPage(),
		Icons: []router.Icon{
			{ID: router.Bills, TestID: "icon-window", Path: "/employee/bills", Active: true},
			{ID: router.NewBill, TestID: "icon-mail", Path: "/employee/bill/new"},
		},
	}
	html := renderString(t, Layout(page, &domain.Session{Type: domain.UserEmployee, Email: "a@a"}))
	assert.Contains(t, html, `data-testid="vertical-navbar"`)
	assert.Equal(t, 1, strings.Count(html, `class="nav-icon active-icon"`))
	assert.Contains(t, html, `data-testid="icon-window" class="nav-icon active-icon"`)
	assert.Contains(t, html, `data-testid="tbody"`)
	assert.Contains(t, html, "<title>Billed · Mes notes de frais</title>")
	assert.Contains(t, html, `hx-post="`+LogoutAction+`"`)
}

func TestLayout_NoIconsOffTheEmployeeRoutes(t *testing.T) {
	page := &router.Page{
		Route:   router.Route{ID: router.Login, Path: "/", Title: "Connexion"},
		Content: LoginPage(""),
		Icons:   []router.Icon{{ID: router.Bills, TestID: "icon-window", Path: "/employee/bills"}},
	}
	html := renderString(t, Layout(page, nil))
	assert.NotContains(t, html, `data-testid="vertical-navbar"`)
	assert.NotContains(t, html, `id="layout-disconnect"`)
}
