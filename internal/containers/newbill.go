package containers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/a-h/templ"

	"github.com/csg33k/billed/internal/domain"
	"github.com/csg33k/billed/internal/format"
	"github.com/csg33k/billed/internal/ports"
	"github.com/csg33k/billed/internal/router"
	"github.com/csg33k/billed/internal/views"
)

var allowedReceiptContent = []string{"image/jpeg", "image/png"}

// NewBillInput is the submitted creation form.
type NewBillInput struct {
	Type       string
	Name       string
	Date       string
	Amount     string
	VAT        string
	Pct        string
	Commentary string
	FileName   string
	File       io.Reader
}

// NewBill drives the creation form.
type NewBill struct {
	store   ports.BillStore
	nav     Navigator
	session domain.Session
	guard   *SubmitGuard
	logger  *slog.Logger
	staged  string
}

func NewNewBill(d Deps, nav Navigator, sess domain.Session) *NewBill {
	guard := d.Guard
	if guard == nil {
		guard = NewSubmitGuard()
	}
	return &NewBill{store: d.Store, nav: nav, session: sess, guard: guard, logger: d.logger()}
}

// Page renders the empty form.
func (c *NewBill) Page() templ.Component {
	return c.Form(NewBillInput{}, nil)
}

// Form renders the form holding in, with err shown inline.
func (c *NewBill) Form(in NewBillInput, err error) templ.Component {
	f := views.NewBillForm{
		Action:     c.nav.Path(router.NewBill),
		Type:       in.Type,
		Name:       in.Name,
		Date:       in.Date,
		Amount:     in.Amount,
		VAT:        in.VAT,
		Pct:        in.Pct,
		Commentary: in.Commentary,
	}
	if err != nil {
		var fileErr *domain.InvalidFileTypeError
		if errors.As(err, &fileErr) {
			f.FileError = err.Error()
		} else {
			f.Error = err.Error()
		}
	}
	return views.NewBillPage(f)
}

// HandleFileChange validates the selected receipt name against the
// allow-list and stages it. A rejected file is not staged.
func (c *NewBill) HandleFileChange(fileName string) (string, error) {
	if err := checkExtension(fileName); err != nil {
		c.staged = ""
		return "", err
	}
	c.staged = fileName
	return fileName, nil
}

// Staged returns the name of the accepted receipt, or "".
func (c *NewBill) Staged() string {
	return c.staged
}

// HandleSubmit validates in, creates the bill and navigates to the list.
// Failures other than a rejected receipt are *domain.SubmitError.
func (c *NewBill) HandleSubmit(ctx context.Context, in NewBillInput) (*router.Page, error) {
	release, ok := c.guard.Acquire(c.session.Email)
	if !ok {
		return nil, &domain.SubmitError{Err: domain.ErrSubmitInFlight}
	}
	defer release()

	payload, err := c.payload(in)
	if err != nil {
		return nil, err
	}
	if _, err := c.store.Create(ctx, payload); err != nil {
		c.logger.ErrorContext(ctx, "create bill", "email", c.session.Email, "err", err)
		return nil, &domain.SubmitError{Err: err}
	}
	c.logger.InfoContext(ctx, "bill created", "email", c.session.Email, "name", payload.Name, "date", payload.Date)
	return c.nav.Navigate(ctx, router.Bills)
}

func (c *NewBill) payload(in NewBillInput) (*domain.NewBill, error) {
	fileName := in.FileName
	if fileName == "" {
		fileName = c.staged
	}
	if in.File == nil || fileName == "" {
		return nil, &domain.SubmitError{Err: errors.New("justificatif manquant")}
	}
	if _, err := c.HandleFileChange(fileName); err != nil {
		return nil, err
	}
	receipt, err := sniffImage(fileName, in.File)
	if err != nil {
		return nil, err
	}
	date := strings.TrimSpace(in.Date)
	if _, err := format.ParseDate(date); err != nil {
		return nil, &domain.SubmitError{Err: fmt.Errorf("date invalide %q", in.Date)}
	}
	amount, err := strconv.ParseFloat(strings.Replace(strings.TrimSpace(in.Amount), ",", ".", 1), 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return nil, &domain.SubmitError{Err: fmt.Errorf("montant invalide %q", in.Amount)}
	}
	pct := domain.DefaultPct
	if s := strings.TrimSpace(in.Pct); s != "" {
		if pct, err = strconv.Atoi(s); err != nil || pct < 0 {
			return nil, &domain.SubmitError{Err: fmt.Errorf("pourcentage invalide %q", in.Pct)}
		}
	}
	return &domain.NewBill{
		Email:      c.session.Email,
		Type:       strings.TrimSpace(in.Type),
		Name:       strings.TrimSpace(in.Name),
		Date:       date,
		Amount:     amount,
		VAT:        strings.TrimSpace(in.VAT),
		Pct:        pct,
		Commentary: strings.TrimSpace(in.Commentary),
		Status:     domain.StatusPending,
		FileName:   filepath.Base(fileName),
		Receipt:    receipt,
	}, nil
}

func checkExtension(fileName string) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	if !slices.Contains(domain.AllowedReceiptExtensions, ext) {
		return &domain.InvalidFileTypeError{FileName: fileName}
	}
	return nil
}

// sniffImage checks the leading bytes of r and returns a reader replaying
// the whole content.
func sniffImage(fileName string, r io.Reader) (io.Reader, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, &domain.SubmitError{Err: fmt.Errorf("lecture du justificatif: %w", err)}
	}
	head = head[:n]
	if !slices.Contains(allowedReceiptContent, http.DetectContentType(head)) {
		return nil, &domain.InvalidFileTypeError{FileName: fileName}
	}
	return io.MultiReader(bytes.NewReader(head), r), nil
}

// SubmitGuard rejects a second submission for the same key while one is in
// flight.
type SubmitGuard struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewSubmitGuard() *SubmitGuard {
	return &SubmitGuard{inFlight: make(map[string]struct{})}
}

// Acquire marks key in flight. ok is false when it already is; otherwise
// release must be called once the submission ends. release is idempotent.
func (g *SubmitGuard) Acquire(key string) (release func(), ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.inFlight[key]; busy {
		return nil, false
	}
	g.inFlight[key] = struct{}{}
	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.inFlight, key)
			g.mu.Unlock()
		})
	}, true
}
