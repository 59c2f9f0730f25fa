package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csg33k/billed/internal/domain"
	"github.com/csg33k/billed/internal/session"
)

func TestManager_RoundTrip(t *testing.T) {
	m := session.NewManager("test-secret", time.Hour)
	want := domain.Session{Type: domain.UserEmployee, Email: "a@a"}

	token, err := m.Encode(want)
	require.NoError(t, err)
	got, err := m.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestManager_RejectsForeignAndExpiredTokens(t *testing.T) {
	m := session.NewManager("test-secret", time.Hour)
	other := session.NewManager("other-secret", time.Hour)
	token, err := other.Encode(domain.Session{Type: domain.UserAdmin, Email: "x@x"})
	require.NoError(t, err)
	_, err = m.Decode(token)
	assert.ErrorIs(t, err, session.ErrInvalidToken)

	expired := session.NewManager("test-secret", -time.Minute)
	token, err = expired.Encode(domain.Session{Type: domain.UserAdmin, Email: "x@x"})
	require.NoError(t, err)
	_, err = m.Decode(token)
	assert.ErrorIs(t, err, session.ErrInvalidToken)

	_, err = m.Decode("garbage")
	assert.ErrorIs(t, err, session.ErrInvalidToken)
}

func TestManager_RejectsUnknownUserType(t *testing.T) {
	m := session.NewManager("test-secret", time.Hour)
	token, err := m.Encode(domain.Session{Type: "Guest", Email: "g@g"})
	require.NoError(t, err)
	_, err = m.Decode(token)
	assert.ErrorIs(t, err, session.ErrInvalidToken)
}

func TestMiddleware(t *testing.T) {
	m := session.NewManager("test-secret", time.Hour)
	var got domain.Session
	var ok bool
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = session.FromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	require.NoError(t, m.SetCookie(rec, domain.Session{Type: domain.UserAdmin, Email: "admin@company.tld"}))
	cookie := rec.Result().Cookies()[0]
	assert.Equal(t, session.CookieName, cookie.Name)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.True(t, ok)
	assert.Equal(t, "admin@company.tld", got.Email)
	assert.True(t, got.IsAdmin())

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, ok)
}
