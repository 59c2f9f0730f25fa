package views

import (
	"bytes"
	"context"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"github.com/csg33k/billed/internal/domain"
	"github.com/csg33k/billed/internal/router"
)

type layoutData struct {
	Title   string
	Icons   []router.Icon
	Session *domain.Session
	Content template.HTML
	Logout  string
}

// Layout renders a full document around page. The vertical navigation is
// drawn only when the page's route owns a navigation icon.
func Layout(page *router.Page, sess *domain.Session) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		if err := page.Content.Render(ctx, &buf); err != nil {
			return err
		}
		data := layoutData{
			Title:   page.Route.Title,
			Session: sess,
			Content: template.HTML(buf.String()),
			Logout:  LogoutAction,
		}
		if page.Route.Icon != "" {
			data.Icons = page.Icons
		}
		return set.ExecuteTemplate(w, "layout", data)
	})
}

var _ = template.Must(set.Parse(`
{{define "layout"}}<!DOCTYPE html>
<html lang="fr">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Billed · {{.Title}}</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<link rel="preconnect" href="https://fonts.googleapis.com">
<link href="https://fonts.googleapis.com/css2?family=IBM+Plex+Mono:wght@400;600&family=IBM+Plex+Sans:wght@300;400;600&display=swap" rel="stylesheet">
<style>
  :root {
    --ink: #0d1117;
    --paper: #f5f0e8;
    --ledger: #e8e0cc;
    --accent: #c0392b;
    --accent2: #2c6e49;
    --muted: #6b5e4e;
    --rule: #b8a898;
  }
  * { box-sizing: border-box; }
  body { background: var(--paper); color: var(--ink); font-family: 'IBM Plex Sans', sans-serif; margin: 0; min-height: 100vh; }
  .layout { display: grid; grid-template-columns: 88px 1fr; min-height: 100vh; }
  .vertical-navbar { background: var(--ink); color: white; display: flex; flex-direction: column; align-items: center; padding-top: 24px; gap: 24px; }
  .layout-title { font-family: 'IBM Plex Mono', monospace; font-weight: 600; letter-spacing: 0.1em; }
  .nav-icon { color: var(--rule); text-decoration: none; font-size: 1.6rem; opacity: 0.6; }
  .nav-icon.active-icon { color: white; opacity: 1; }
  .content { padding: 32px 24px; max-width: 1100px; }
  .content-header { display: flex; justify-content: space-between; align-items: center; margin-bottom: 24px; gap: 12px; }
  .content-title { font-family: 'IBM Plex Mono', monospace; font-size: 1.4rem; font-weight: 600; }
  .card { background: rgba(255,255,255,0.7); border: 1px solid var(--ledger); border-left: 4px solid var(--ink); padding: 16px; margin-bottom: 12px; }
  .field-label { font-family: 'IBM Plex Mono', monospace; font-size: 0.65rem; font-weight: 600; letter-spacing: 0.1em; text-transform: uppercase; color: var(--muted); display: block; margin: 12px 0 2px; }
  input, select, textarea { background: white; border: 1px solid var(--rule); border-bottom: 2px solid var(--ink); padding: 6px 8px; font-family: 'IBM Plex Mono', monospace; font-size: 0.85rem; width: 100%; }
  .btn { font-family: 'IBM Plex Mono', monospace; font-weight: 600; font-size: 0.8rem; padding: 8px 18px; border: 2px solid var(--ink); background: white; color: var(--ink); cursor: pointer; text-transform: uppercase; text-decoration: none; }
  .btn-primary { background: var(--ink); color: white; }
  .btn-primary:hover { background: var(--accent); border-color: var(--accent); }
  .btn-success { background: var(--accent2); color: white; border-color: var(--accent2); }
  .btn-danger { color: var(--accent); border-color: var(--accent); }
  .btn[disabled] { opacity: 0.5; cursor: wait; }
  table { width: 100%; border-collapse: collapse; background: rgba(255,255,255,0.7); }
  th, td { text-align: left; padding: 8px; border-bottom: 1px solid var(--ledger); }
  th { font-family: 'IBM Plex Mono', monospace; font-size: 0.7rem; letter-spacing: 0.1em; text-transform: uppercase; color: var(--muted); }
  .date-invalid { color: var(--accent); font-style: italic; }
  .alert, .error, .file-error { color: var(--accent); font-family: 'IBM Plex Mono', monospace; font-size: 0.85rem; margin: 8px 0; }
  .icon-eye { cursor: pointer; }
  .modal-backdrop { position: fixed; inset: 0; background: rgba(13,17,23,0.6); display: flex; align-items: center; justify-content: center; }
  .modal { background: white; padding: 16px; max-width: 80vw; max-height: 90vh; overflow: auto; }
  .modal-header { display: flex; justify-content: space-between; align-items: center; }
  .modal img { max-width: 100%; }
  .status-group { margin-bottom: 32px; }
  .htmx-indicator { opacity: 0; transition: opacity 0.2s; }
  .htmx-request .htmx-indicator { opacity: 1; }
</style>
</head>
<body>
<div id="root">
{{if .Icons}}
<div class="layout">
  <nav class="vertical-navbar" data-testid="vertical-navbar">
    <div class="layout-title">Billed</div>
    {{range .Icons}}
    <a id="layout-{{.TestID}}" data-testid="{{.TestID}}" class="nav-icon{{if .Active}} active-icon{{end}}" href="{{.Path}}" hx-get="{{.Path}}" hx-target="body" hx-push-url="true">{{if eq .TestID "icon-window"}}&#x1F5D4;{{else}}&#x2709;{{end}}</a>
    {{end}}
    <form hx-post="{{.Logout}}" hx-target="body"><button type="submit" id="layout-disconnect" class="nav-icon" title="Se déconnecter" style="background:none;border:none;">&#x23FB;</button></form>
  </nav>
  <main class="content">{{.Content}}</main>
</div>
{{else}}
<main class="content" style="margin:0 auto;">
  {{if .Session}}<form hx-post="{{.Logout}}" hx-target="body" style="text-align:right;"><button type="submit" id="layout-disconnect" class="btn">Se déconnecter</button></form>{{end}}
  {{.Content}}
</main>
{{end}}
</div>
</body>
</html>{{end}}
`))
