package views

import (
	"html/template"

	"github.com/a-h/templ"

	"github.com/csg33k/billed/internal/domain"
)

// DashboardPage is the administrator shell; its groups are fetched on load.
func DashboardPage() templ.Component {
	return component("dashboard", DashboardRowsPath)
}

// DashboardGroups renders the bills grouped by status. errMessage, when set,
// is shown above the groups.
func DashboardGroups(groups []domain.StatusGroup, errMessage string) templ.Component {
	return component("dashboard-groups", struct {
		Groups []domain.StatusGroup
		Error  string
	}{groups, errMessage})
}

var _ = template.Must(set.Parse(`
{{define "dashboard"}}
<div class="content-header"><div class="content-title">Validations</div></div>
<div id="dashboard-groups" hx-get="{{.}}" hx-trigger="load">Chargement…</div>
{{end}}

{{define "dashboard-groups"}}
{{if .Error}}<div class="alert" role="alert" data-testid="error-message">{{.Error}}</div>{{end}}
{{range .Groups}}
<section class="status-group" data-testid="status-group-{{.Status}}">
  <h3>{{.Label}} ({{len .Bills}})</h3>
  {{range .Bills}}
  <div class="card" id="bill-{{.ID}}" data-testid="bill-card">
    <div><strong>{{.Name}}</strong> · {{.Type}} · {{.Email}}</div>
    <div data-testid="bill-date"{{if .DateInvalid}} class="date-invalid"{{end}}>{{.Date}} · {{.AmountLabel}}</div>
    {{if .Commentary}}<div>{{.Commentary}}</div>{{end}}
    <a href="{{.FileURL}}" target="_blank">{{.FileName}}</a>
    {{if eq .Status "pending"}}
    <form hx-put="{{decideURL .ID}}" hx-target="#dashboard-groups">
      <label class="field-label" for="comment-{{.ID}}">Commentaire</label>
      <textarea id="comment-{{.ID}}" name="comment_admin" data-testid="commentary2"></textarea>
      <button type="submit" name="status" value="accepted" class="btn btn-success" data-testid="btn-accept-bill">Accepter</button>
      <button type="submit" name="status" value="refused" class="btn btn-danger" data-testid="btn-refuse-bill">Refuser</button>
    </form>
    {{else if .CommentAdmin}}
    <div class="field-label">Commentaire administrateur</div><div>{{.CommentAdmin}}</div>
    {{end}}
  </div>
  {{else}}
  <div>Aucune note de frais</div>
  {{end}}
</section>
{{end}}
{{end}}
`))
