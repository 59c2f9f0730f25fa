// Package format turns stored bill values into the French labels shown in
// the interface.
package format

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/csg33k/billed/internal/domain"
)

// Short French month labels: capitalised, cut to three letters, dotted.
var months = [...]string{
	"Jan.", "Fév.", "Mar.", "Avr.", "Mai.", "Jui.",
	"Jui.", "Aoû.", "Sep.", "Oct.", "Nov.", "Déc.",
}

var layouts = []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"}

var printer = message.NewPrinter(language.French)

// ParseDate parses an ISO bill date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, fmt.Errorf("parse date %q: %w", s, lastErr)
}

// Date formats an ISO date as "4 Avr. 04".
func Date(s string) (string, error) {
	t, err := ParseDate(s)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d %s %02d", t.Day(), months[t.Month()-1], t.Year()%100), nil
}

// Status returns the label for a bill status. Unknown values are returned as-is.
func Status(s domain.Status) string {
	switch s {
	case domain.StatusPending:
		return "En attente"
	case domain.StatusAccepted:
		return "Accepté"
	case domain.StatusRefused:
		return "Refusé"
	}
	return string(s)
}

// Amount formats euros with French separators, e.g. "1 234,50 €".
func Amount(v float64) string {
	return printer.Sprintf("%.2f €", v)
}

// Bill projects b for display. The returned error reports a date that could
// not be parsed; the projection is still complete in that case, carrying the
// raw date with DateInvalid set.
func Bill(b domain.Bill) (domain.DisplayBill, error) {
	d := domain.DisplayBill{
		ID:           b.ID,
		Email:        b.Email,
		Type:         b.Type,
		Name:         b.Name,
		RawDate:      b.Date,
		Amount:       b.Amount,
		AmountLabel:  Amount(b.Amount),
		Status:       b.Status,
		StatusLabel:  Status(b.Status),
		Commentary:   b.Commentary,
		CommentAdmin: b.CommentAdmin,
		FileURL:      b.FileURL,
		FileName:     b.FileName,
	}
	date, err := Date(b.Date)
	if err != nil {
		d.Date = b.Date
		d.DateInvalid = true
		return d, err
	}
	d.Date = date
	return d, nil
}
