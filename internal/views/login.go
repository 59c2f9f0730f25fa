package views

import (
	"html/template"

	"github.com/a-h/templ"
)

// LoginPage renders the two connection forms.
func LoginPage(errMessage string) templ.Component {
	return component("login", struct {
		Action, Error string
	}{LoginAction, errMessage})
}

var _ = template.Must(set.Parse(`
{{define "login"}}
<div class="content-header"><div class="content-title">Billed</div></div>
{{if .Error}}<div class="alert" role="alert" data-testid="login-error">{{.Error}}</div>{{end}}
<div style="display:grid;grid-template-columns:1fr 1fr;gap:32px;">
  <form class="card" data-testid="form-employee" hx-post="{{.Action}}" hx-target="body">
    <h2>Employé</h2>
    <input type="hidden" name="type" value="Employee">
    <label class="field-label" for="employee-email">Votre email</label>
    <input required type="email" id="employee-email" name="email" data-testid="employee-email-input" placeholder="johndoe@email.com">
    <button type="submit" class="btn btn-primary" data-testid="employee-login-button" style="margin-top:16px;">Se connecter</button>
  </form>
  <form class="card" data-testid="form-admin" hx-post="{{.Action}}" hx-target="body">
    <h2>Administration</h2>
    <input type="hidden" name="type" value="Admin">
    <label class="field-label" for="admin-email">Votre email</label>
    <input required type="email" id="admin-email" name="email" data-testid="admin-email-input" placeholder="johndoe@email.com">
    <button type="submit" class="btn btn-primary" data-testid="admin-login-button" style="margin-top:16px;">Se connecter</button>
  </form>
</div>
{{end}}
`))
