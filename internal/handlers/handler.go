package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/csg33k/billed/internal/adapters/pdf"
	"github.com/csg33k/billed/internal/containers"
	"github.com/csg33k/billed/internal/domain"
	"github.com/csg33k/billed/internal/ports"
	"github.com/csg33k/billed/internal/router"
	"github.com/csg33k/billed/internal/session"
	"github.com/csg33k/billed/internal/views"
)

const defaultMaxUpload = 10 << 20

// Options configures a Handler. Store and Sessions are required.
type Options struct {
	Store     ports.BillStore
	Receipts  ports.ReceiptStorage
	Sessions  *session.Manager
	Logger    *slog.Logger
	Metrics   *Metrics
	MaxUpload int64
}

type Handler struct {
	deps      containers.Deps
	table     *router.Table
	receipts  ports.ReceiptStorage
	sessions  *session.Manager
	logger    *slog.Logger
	metrics   *Metrics
	maxUpload int64
}

func New(opts Options) (*Handler, error) {
	if opts.Store == nil || opts.Sessions == nil {
		return nil, errors.New("handlers: store and session manager are required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	deps := containers.Deps{Store: opts.Store, Guard: containers.NewSubmitGuard(), Logger: logger}
	table, err := router.NewTable(logger, containers.Routes(deps)...)
	if err != nil {
		return nil, err
	}
	h := &Handler{
		deps:      deps,
		table:     table,
		receipts:  opts.Receipts,
		sessions:  opts.Sessions,
		logger:    logger,
		metrics:   opts.Metrics,
		maxUpload: opts.MaxUpload,
	}
	if h.metrics == nil {
		h.metrics = NewMetrics()
	}
	if h.maxUpload <= 0 {
		h.maxUpload = defaultMaxUpload
	}
	return h, nil
}

func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	handle := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, h.metrics.instrument(pattern, fn))
	}
	handle("GET /{$}", h.index)
	handle("POST /login", h.login)
	handle("POST /logout", h.logout)
	handle("GET /employee/bills", h.page(router.Bills))
	handle("GET /employee/bills/rows", h.billRows)
	handle("GET /employee/bills/new", h.clickNewBill)
	handle("GET /employee/bills/{id}/receipt", h.openReceipt)
	handle("DELETE /employee/bills/receipt", h.closeReceipt)
	handle("GET /employee/bills/report.pdf", h.billsReport)
	handle("GET /employee/bill/new", h.page(router.NewBill))
	handle("POST /employee/bill/new/file", h.checkFile)
	handle("POST /employee/bill/new", h.submitBill)
	handle("GET /admin/dashboard", h.page(router.Dashboard))
	handle("GET /admin/dashboard/rows", h.dashboardRows)
	handle("PUT /admin/bills/{id}", h.decide)
	handle("GET /receipts/{key}", h.receipt)
	mux.Handle("GET /metrics", h.metrics.Handler())
	return logRequests(h.logger, h.sessions.Middleware(mux))
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	if sess, ok := session.FromContext(r.Context()); ok {
		home := router.Bills
		if sess.IsAdmin() {
			home = router.Dashboard
		}
		h.navigate(w, r, home)
		return
	}
	h.navigate(w, r, router.Login)
}

// page serves the full document of route id.
func (h *Handler) page(id router.PathID) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.navigate(w, r, id)
	}
}

func (h *Handler) navigate(w http.ResponseWriter, r *http.Request, id router.PathID) {
	page, err := h.table.Navigator().Navigate(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.renderPage(w, r, page, nil)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	nav := h.table.Navigator()
	sess, page, err := containers.NewLogin(nav, h.logger).HandleSubmit(r.Context(), r.FormValue("type"), r.FormValue("email"))
	if err != nil {
		page, navErr := nav.Navigate(context.WithoutCancel(r.Context()), router.Login)
		if navErr != nil {
			h.fail(w, r, navErr)
			return
		}
		page.Content = views.LoginPage(err.Error())
		h.renderPage(w, r, page, nil)
		return
	}
	if err := h.sessions.SetCookie(w, sess); err != nil {
		h.fail(w, r, err)
		return
	}
	h.renderPage(w, r, page, &sess)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	session.ClearCookie(w)
	page, err := h.table.Navigator().Navigate(context.Background(), router.Login)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.renderPage(w, r, page, nil)
}

func (h *Handler) billRows(w http.ResponseWriter, r *http.Request) {
	c, ok := h.bills(w, r)
	if !ok {
		return
	}
	render(w, r, c.Rows(r.Context()))
}

func (h *Handler) clickNewBill(w http.ResponseWriter, r *http.Request) {
	c, ok := h.bills(w, r)
	if !ok {
		return
	}
	page, err := c.HandleClickNewBill(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.renderPage(w, r, page, nil)
}

func (h *Handler) openReceipt(w http.ResponseWriter, r *http.Request) {
	c, ok := h.bills(w, r)
	if !ok {
		return
	}
	modal, err := c.OpenReceipt(r.Context(), r.PathValue("id"))
	switch {
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, "justificatif introuvable", http.StatusNotFound)
		return
	case err != nil:
		render(w, r, views.BillsError(err.Error()))
		return
	}
	render(w, r, modal)
}

func (h *Handler) closeReceipt(w http.ResponseWriter, r *http.Request) {
	c, ok := h.bills(w, r)
	if !ok {
		return
	}
	render(w, r, c.CloseReceipt())
}

func (h *Handler) billsReport(w http.ResponseWriter, r *http.Request) {
	c, ok := h.bills(w, r)
	if !ok {
		return
	}
	rows, err := c.LoadBills(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	sess, _ := session.FromContext(r.Context())
	var buf bytes.Buffer
	if err := pdf.GenerateBillsReport(sess, rows, &buf); err != nil {
		h.fail(w, r, err)
		return
	}
	filename := fmt.Sprintf("notes_de_frais_%s.pdf", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Write(buf.Bytes())
}

// checkFile validates the receipt chosen in the form. An accepted file
// gets 204 so the input keeps its selection; a rejected one swaps in a
// cleared input carrying the message.
func (h *Handler) checkFile(w http.ResponseWriter, r *http.Request) {
	c, ok := h.newBill(w, r)
	if !ok {
		return
	}
	if !h.parseUpload(w, r) {
		return
	}
	defer r.MultipartForm.RemoveAll()
	name := ""
	if f, header, err := r.FormFile("file"); err == nil {
		f.Close()
		name = header.Filename
	}
	if _, err := c.HandleFileChange(name); err != nil {
		h.metrics.rejected.WithLabelValues("file_type").Inc()
		render(w, r, views.FileField(err.Error()))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) submitBill(w http.ResponseWriter, r *http.Request) {
	nav := h.table.Navigator()
	sess, err := containers.RequireSession(r.Context(), domain.UserEmployee)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	c := containers.NewNewBill(h.deps, nav, sess)

	if !h.parseUpload(w, r) {
		return
	}
	defer r.MultipartForm.RemoveAll()
	in := containers.NewBillInput{
		Type:       r.FormValue("type"),
		Name:       r.FormValue("name"),
		Date:       r.FormValue("date"),
		Amount:     r.FormValue("amount"),
		VAT:        r.FormValue("vat"),
		Pct:        r.FormValue("pct"),
		Commentary: r.FormValue("commentary"),
	}
	if file, header, err := r.FormFile("file"); err == nil {
		defer file.Close()
		in.FileName = header.Filename
		in.File = file
	}

	page, err := c.HandleSubmit(r.Context(), in)
	switch {
	case errors.Is(err, domain.ErrSubmitInFlight):
		h.metrics.rejected.WithLabelValues("in_flight").Inc()
		w.WriteHeader(http.StatusConflict)
		return
	case err != nil:
		h.metrics.rejected.WithLabelValues(rejectReason(err)).Inc()
		form, navErr := nav.Navigate(r.Context(), router.NewBill)
		if navErr != nil {
			h.fail(w, r, navErr)
			return
		}
		form.Content = c.Form(in, err)
		h.renderPage(w, r, form, nil)
		return
	}
	h.metrics.created.Inc()
	h.renderPage(w, r, page, nil)
}

// parseUpload reads a multipart body of at most maxUpload bytes.
func (h *Handler) parseUpload(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	err := r.ParseMultipartForm(h.maxUpload)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
		http.Error(w, "justificatif trop volumineux", http.StatusRequestEntityTooLarge)
		return false
	}
	http.Error(w, err.Error(), http.StatusBadRequest)
	return false
}

func rejectReason(err error) string {
	var fileErr *domain.InvalidFileTypeError
	if errors.As(err, &fileErr) {
		return "file_type"
	}
	var storeErr *domain.StoreError
	if errors.As(err, &storeErr) {
		return "store"
	}
	return "invalid"
}

func (h *Handler) dashboardRows(w http.ResponseWriter, r *http.Request) {
	c, ok := h.dashboard(w, r)
	if !ok {
		return
	}
	render(w, r, c.Groups(r.Context(), ""))
}

// decide handles PUT /admin/bills/{id} and renders the regrouped bills.
func (h *Handler) decide(w http.ResponseWriter, r *http.Request) {
	c, ok := h.dashboard(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	msg := ""
	if _, err := c.Decide(r.Context(), r.PathValue("id"), domain.Status(r.FormValue("status")), r.FormValue("comment_admin")); err != nil {
		msg = err.Error()
	}
	render(w, r, c.Groups(r.Context(), msg))
}

// receipt streams a stored receipt. Employees only get the receipts of
// their own bills; admins get any.
func (h *Handler) receipt(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		h.fail(w, r, domain.ErrNoSession)
		return
	}
	if h.receipts == nil {
		http.NotFound(w, r)
		return
	}
	key := r.PathValue("key")
	if !sess.IsAdmin() {
		owned, err := h.ownsReceipt(r.Context(), sess.Email, views.ReceiptsPrefix+"/"+key)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		if !owned {
			http.NotFound(w, r)
			return
		}
	}
	rc, err := h.receipts.Open(r.Context(), key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.fail(w, r, err)
		return
	}
	defer rc.Close()
	head := make([]byte, 512)
	n, _ := io.ReadFull(rc, head)
	w.Header().Set("Content-Type", http.DetectContentType(head[:n]))
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Write(head[:n])
	io.Copy(w, rc)
}

func (h *Handler) ownsReceipt(ctx context.Context, email, url string) (bool, error) {
	bills, err := h.deps.Store.List(ctx, domain.ListScope{Email: email})
	if err != nil {
		return false, err
	}
	return slices.ContainsFunc(bills, func(b domain.Bill) bool { return b.FileURL == url }), nil
}

func (h *Handler) bills(w http.ResponseWriter, r *http.Request) (*containers.Bills, bool) {
	sess, err := containers.RequireSession(r.Context(), domain.UserEmployee)
	if err != nil {
		h.fail(w, r, err)
		return nil, false
	}
	return containers.NewBills(h.deps, h.table.Navigator(), sess), true
}

func (h *Handler) newBill(w http.ResponseWriter, r *http.Request) (*containers.NewBill, bool) {
	sess, err := containers.RequireSession(r.Context(), domain.UserEmployee)
	if err != nil {
		h.fail(w, r, err)
		return nil, false
	}
	return containers.NewNewBill(h.deps, h.table.Navigator(), sess), true
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) (*containers.Dashboard, bool) {
	sess, err := containers.RequireSession(r.Context(), domain.UserAdmin)
	if err != nil {
		h.fail(w, r, err)
		return nil, false
	}
	return containers.NewDashboard(h.deps, sess), true
}

// renderPage writes the full document of page and pushes its path to the
// browser history. sess overrides the request session, for the response
// that opens one.
func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, page *router.Page, sess *domain.Session) {
	if sess == nil {
		if s, ok := session.FromContext(r.Context()); ok {
			sess = &s
		}
	}
	if isHTMX(r) {
		w.Header().Set("HX-Push-Url", page.Route.Path)
	}
	render(w, r, views.Layout(page, sess))
}

// fail maps a navigation or container error to a response. A missing or
// mismatched session sends the browser back to the login page.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var unknown *domain.UnknownRouteError
	switch {
	case errors.Is(err, domain.ErrNoSession):
		if isHTMX(r) {
			w.Header().Set("HX-Redirect", "/")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case errors.As(err, &unknown):
		http.NotFound(w, r)
	default:
		h.logger.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// render writes a templ component to the response.
func render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	var buf bytes.Buffer
	if err := c.Render(r.Context(), &buf); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Write(buf.Bytes())
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
