// Package pdf renders an employee's expense reports as a printable PDF
// statement: a header with the employee, one table row per bill in list
// order, and the totals per status.
package pdf

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/csg33k/billed/internal/domain"
	"github.com/csg33k/billed/internal/format"
)

var totalsOrder = []domain.Status{domain.StatusPending, domain.StatusAccepted, domain.StatusRefused}

// GenerateBillsReport writes the statement of bills for sess to w. bills
// are printed in the order given.
func GenerateBillsReport(sess domain.Session, bills []domain.DisplayBill, w io.Writer) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(18, 18, 18)
	pdf.SetAutoPageBreak(true, 18)
	pdf.AliasNbPages("{nb}")
	tr := translator(pdf)

	pdf.SetFooterFunc(func() {
		pdf.SetY(-14)
		pdf.SetFont("Helvetica", "I", 7.5)
		pdf.SetTextColor(110, 110, 110)
		pdf.CellFormat(0, 5, tr(fmt.Sprintf("Billed · page %d / {nb}", pdf.PageNo())), "", 0, "R", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})

	pdf.AddPage()
	drawHeader(pdf, tr, sess)
	drawBills(pdf, tr, bills)
	drawTotals(pdf, tr, bills)

	return pdf.Output(w)
}

// translator maps UTF-8 text onto the cp1252 core fonts. Narrow and
// non-breaking spaces produced by the amount printer have no cp1252 glyph.
func translator(pdf *fpdf.Fpdf) func(string) string {
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	spaces := strings.NewReplacer("\u202f", " ", "\u00a0", " ")
	return func(s string) string { return tr(spaces.Replace(s)) }
}

func drawHeader(pdf *fpdf.Fpdf, tr func(string) string, sess domain.Session) {
	pageW, _ := pdf.GetPageSize()
	marginL, marginT, marginR, _ := pdf.GetMargins()
	contentW := pageW - marginL - marginR

	pdf.SetFillColor(13, 17, 23)
	pdf.Rect(marginL, marginT, contentW, 10, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetXY(marginL+2, marginT+1.5)
	pdf.CellFormat(contentW-4, 7, tr("NOTES DE FRAIS"), "", 0, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	pdf.SetXY(marginL, marginT+13)
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5.5, tr("EMPLOYÉ"), "LRT", 1, "L", true, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	half := contentW / 2
	pdf.CellFormat(half, 6.5, tr(sess.Email), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(half, 6.5, tr("Édité le "+time.Now().Format("02/01/2006")), "RB", 1, "R", false, 0, "")
	pdf.Ln(5)
}

type column struct {
	title string
	share float64
	align string
}

var billColumns = []column{
	{"Date", 0.16, "L"},
	{"Type", 0.20, "L"},
	{"Nom", 0.32, "L"},
	{"Montant", 0.16, "R"},
	{"Statut", 0.16, "C"},
}

func drawBills(pdf *fpdf.Fpdf, tr func(string) string, bills []domain.DisplayBill) {
	pageW, _ := pdf.GetPageSize()
	marginL, _, marginR, _ := pdf.GetMargins()
	contentW := pageW - marginL - marginR

	header := func() {
		pdf.SetFillColor(13, 17, 23)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Helvetica", "B", 8.5)
		for _, c := range billColumns {
			pdf.CellFormat(contentW*c.share, 7, tr(c.title), "1", 0, c.align, true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetTextColor(0, 0, 0)
	}
	header()

	if len(bills) == 0 {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(contentW, 7, tr("Aucune note de frais."), "1", 1, "C", false, 0, "")
		return
	}

	_, pageH := pdf.GetPageSize()
	_, _, _, marginB := pdf.GetMargins()
	for i, b := range bills {
		if pdf.GetY()+6.5 > pageH-marginB {
			pdf.AddPage()
			header()
		}
		fill := i%2 == 1
		pdf.SetFillColor(248, 246, 240)
		pdf.SetFont("Helvetica", "", 8.5)
		if b.DateInvalid {
			pdf.SetTextColor(192, 57, 43)
		}
		cells := []string{b.Date, b.Type, b.Name, b.AmountLabel, b.StatusLabel}
		for j, c := range billColumns {
			if j == 1 {
				pdf.SetTextColor(0, 0, 0)
			}
			pdf.CellFormat(contentW*c.share, 6.5, truncate(pdf, tr(cells[j]), contentW*c.share-2), "1", 0, c.align, fill, 0, "")
		}
		pdf.Ln(-1)
	}
}

func drawTotals(pdf *fpdf.Fpdf, tr func(string) string, bills []domain.DisplayBill) {
	totals := make(map[domain.Status]float64, len(totalsOrder))
	for _, b := range bills {
		totals[b.Status] += b.Amount
	}
	pageW, _ := pdf.GetPageSize()
	marginL, _, marginR, _ := pdf.GetMargins()
	contentW := pageW - marginL - marginR
	labelW := contentW * 0.68

	pdf.Ln(5)
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(contentW, 5.5, "TOTAUX", "1", 1, "L", true, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	for _, s := range totalsOrder {
		pdf.CellFormat(labelW, 6, tr(format.Status(s)), "LB", 0, "L", false, 0, "")
		pdf.CellFormat(contentW-labelW, 6, tr(format.Amount(totals[s])), "RB", 1, "R", false, 0, "")
	}
}

// truncate shortens s, already translated, to fit width.
func truncate(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > width {
		s = s[:len(s)-1]
	}
	return s + "..."
}
