package views

import (
	"html/template"

	"github.com/a-h/templ"

	"github.com/csg33k/billed/internal/domain"
)

// BillsPage is the bills list shell. Its table body is fetched on load.
func BillsPage() templ.Component {
	return component("bills", struct {
		RowsURL, NewBillURL, ReportURL string
	}{BillRowsPath, NewBillClickPath, ReportPath})
}

// BillRows renders one table row per bill, in the given order.
func BillRows(rows []domain.DisplayBill) templ.Component {
	return component("bill-rows", rows)
}

// BillsError renders a failed listing inside the table body.
func BillsError(message string) templ.Component {
	return component("bills-error", message)
}

// ReceiptModal renders the receipt preview of row.
func ReceiptModal(row domain.DisplayBill) templ.Component {
	return component("receipt-modal", struct {
		domain.DisplayBill
		CloseURL string
	}{row, ReceiptClosePath})
}

var _ = template.Must(set.Parse(`
{{define "bills"}}
<div class="content-header">
  <div class="content-title">Mes notes de frais</div>
  <div>
    <a class="btn" data-testid="btn-report" href="{{.ReportURL}}">Exporter en PDF</a>
    <button type="button" data-testid="btn-new-bill" class="btn btn-primary" hx-get="{{.NewBillURL}}" hx-target="body">Nouvelle note de frais</button>
  </div>
</div>
<div id="data-table">
  <table id="example">
    <thead>
      <tr><th>Type</th><th>Nom</th><th>Date</th><th>Montant</th><th>Statut</th><th>Actions</th></tr>
    </thead>
    <tbody data-testid="tbody" hx-get="{{.RowsURL}}" hx-trigger="load" hx-swap="innerHTML">
      <tr><td colspan="6" data-testid="loading">Chargement…</td></tr>
    </tbody>
  </table>
</div>
<div id="modal"></div>
{{end}}

{{define "bill-rows"}}{{range .}}
<tr data-testid="bill-row" data-bill-id="{{.ID}}">
  <td>{{.Type}}</td>
  <td>{{.Name}}</td>
  <td data-testid="bill-date"{{if .DateInvalid}} class="date-invalid" title="date illisible"{{end}}>{{.Date}}</td>
  <td>{{.AmountLabel}}</td>
  <td>{{.StatusLabel}}</td>
  <td><span class="icon-eye" data-testid="icon-eye" data-bill-url="{{.FileURL}}" hx-get="{{receiptURL .ID}}" hx-target="#modal" title="Voir le justificatif">&#x1F441;</span></td>
</tr>{{else}}
<tr><td colspan="6" data-testid="no-bills">Aucune note de frais</td></tr>
{{end}}{{end}}

{{define "bills-error"}}
<tr><td colspan="6" class="error" data-testid="error-message">{{.}}</td></tr>
{{end}}

{{define "receipt-modal"}}
<div class="modal-backdrop" id="modaleFile" data-testid="modaleFileEmployee">
  <div class="modal" role="dialog" aria-labelledby="modal-title">
    <div class="modal-header">
      <h5 id="modal-title">Justificatif</h5>
      <button type="button" class="btn" data-testid="modal-close" hx-delete="{{.CloseURL}}" hx-target="#modal">&times;</button>
    </div>
    <div class="modal-body bill-proof-container">
      <img src="{{.FileURL}}" alt="{{.FileName}}">
    </div>
  </div>
</div>
{{end}}
`))
