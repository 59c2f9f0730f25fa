// Package views turns view models into HTML components. Every function here
// is pure: the same view model always renders the same markup, so pages can
// be tested without a browser.
package views

import (
	"context"
	"html/template"
	"io"

	"github.com/a-h/templ"
)

// Fragment endpoints requested by the pages below.
const (
	LoginAction       = "/login"
	LogoutAction      = "/logout"
	BillRowsPath      = "/employee/bills/rows"
	NewBillClickPath  = "/employee/bills/new"
	ReceiptClosePath  = "/employee/bills/receipt"
	ReportPath        = "/employee/bills/report.pdf"
	FileCheckPath     = "/employee/bill/new/file"
	DashboardRowsPath = "/admin/dashboard/rows"
	ReceiptsPrefix    = "/receipts"
)

var set = template.New("views").Funcs(template.FuncMap{
	"receiptURL": receiptURL,
	"decideURL":  decideURL,
})

// component executes the named template of the shared set as a templ component.
func component(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return set.ExecuteTemplate(w, name, data)
	})
}

// Empty renders nothing. Swapping it into a target clears the target.
func Empty() templ.Component {
	return templ.NopComponent
}
