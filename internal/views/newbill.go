package views

import (
	"html/template"

	"github.com/a-h/templ"

	"github.com/csg33k/billed/internal/domain"
)

// NewBillForm is the view model of the creation form. Values are echoed back
// after a failed submission so the user can retry.
type NewBillForm struct {
	Action     string
	Type       string
	Name       string
	Date       string
	Amount     string
	VAT        string
	Pct        string
	Commentary string
	Error      string
	FileError  string
}

type newBillData struct {
	NewBillForm
	FileAction   string
	ExpenseTypes []string
}

func newBillModel(f NewBillForm) newBillData {
	return newBillData{NewBillForm: f, FileAction: FileCheckPath, ExpenseTypes: domain.ExpenseTypes}
}

// NewBillPage renders the creation form.
func NewBillPage(f NewBillForm) templ.Component {
	return component("new-bill", newBillModel(f))
}

// FileField renders the receipt input alone. It replaces the input after a
// rejected file, clearing the selection.
func FileField(fileError string) templ.Component {
	return component("file-field", newBillModel(NewBillForm{FileError: fileError}))
}

var _ = template.Must(set.Parse(`
{{define "new-bill"}}
<div class="content-header">
  <div class="content-title">Envoyer une note de frais</div>
</div>
<div class="card form-newbill-container">
  <form data-testid="form-new-bill" hx-post="{{.Action}}" hx-encoding="multipart/form-data" hx-target="body" hx-disabled-elt="#btn-send-bill">
    {{if .Error}}<div class="alert" role="alert" data-testid="submit-error">{{.Error}}</div>{{end}}
    <div style="display:grid;grid-template-columns:1fr 1fr;gap:24px;">
      <div>
        <label for="expense-type" class="field-label">Type de dépense</label>
        <select required id="expense-type" name="type" data-testid="expense-type">
          {{$selected := .Type}}{{range .ExpenseTypes}}<option{{if eq . $selected}} selected{{end}}>{{.}}</option>{{end}}
        </select>
        <label for="expense-name" class="field-label">Nom de la dépense</label>
        <input type="text" id="expense-name" name="name" data-testid="expense-name" placeholder="Vol Paris Londres" value="{{.Name}}">
        <label for="datepicker" class="field-label">Date</label>
        <input required type="date" id="datepicker" name="date" data-testid="datepicker" value="{{.Date}}">
        <label for="amount" class="field-label">Montant TTC</label>
        <input required type="number" step="0.01" min="0" id="amount" name="amount" data-testid="amount" placeholder="348" value="{{.Amount}}">
        <label class="field-label">TVA</label>
        <div style="display:grid;grid-template-columns:1fr 2fr;gap:8px;">
          <input type="number" name="vat" data-testid="vat" placeholder="70" value="{{.VAT}}">
          <input type="number" name="pct" data-testid="pct" placeholder="20" value="{{.Pct}}">
        </div>
      </div>
      <div>
        <label for="commentary" class="field-label">Commentaire</label>
        <textarea id="commentary" name="commentary" data-testid="commentary" rows="3">{{.Commentary}}</textarea>
        {{template "file-field" .}}
      </div>
    </div>
    <div style="margin-top:16px;">
      <button type="submit" id="btn-send-bill" class="btn btn-primary">Envoyer</button>
    </div>
  </form>
</div>
{{end}}

{{define "file-field"}}
<div id="file-field">
  <label for="file" class="field-label">Justificatif</label>
  <input required type="file" id="file" name="file" data-testid="file" accept=".jpg,.jpeg,.png" hx-post="{{.FileAction}}" hx-trigger="change" hx-target="#file-field" hx-swap="outerHTML">
  {{if .FileError}}<div class="file-error" role="alert" data-testid="file-error">{{.FileError}}</div>{{end}}
</div>
{{end}}
`))
