package containers

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/a-h/templ"

	"github.com/csg33k/billed/internal/domain"
	"github.com/csg33k/billed/internal/router"
	"github.com/csg33k/billed/internal/session"
	"github.com/csg33k/billed/internal/views"
)

var errInvalidEmail = errors.New("adresse email invalide")

// Login opens a session for an employee or an administrator.
type Login struct {
	nav    Navigator
	logger *slog.Logger
}

func NewLogin(nav Navigator, logger *slog.Logger) *Login {
	if logger == nil {
		logger = slog.Default()
	}
	return &Login{nav: nav, logger: logger}
}

func (c *Login) Page() templ.Component {
	return views.LoginPage("")
}

// HandleSubmit builds the session and navigates to the user's home page:
// the bill list for employees, the dashboard for administrators.
func (c *Login) HandleSubmit(ctx context.Context, userType, email string) (domain.Session, *router.Page, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		return domain.Session{}, nil, errInvalidEmail
	}
	sess := domain.Session{Type: domain.UserType(userType), Email: strings.ToLower(addr.Address)}
	home := router.Bills
	switch sess.Type {
	case domain.UserEmployee:
	case domain.UserAdmin:
		home = router.Dashboard
	default:
		return domain.Session{}, nil, errors.New("type d'utilisateur inconnu")
	}
	page, err := c.nav.Navigate(session.WithSession(ctx, sess), home)
	if err != nil {
		return domain.Session{}, nil, err
	}
	c.logger.InfoContext(ctx, "session opened", "email", sess.Email, "type", sess.Type)
	return sess, page, nil
}
