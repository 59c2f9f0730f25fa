package views

import "net/url"

// receiptURL is the modal endpoint of a bill row.
func receiptURL(id string) string {
	return "/employee/bills/" + url.PathEscape(id) + "/receipt"
}

// decideURL is the dashboard endpoint accepting or refusing a bill.
func decideURL(id string) string {
	return "/admin/bills/" + url.PathEscape(id)
}
