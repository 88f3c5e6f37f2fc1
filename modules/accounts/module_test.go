package accounts_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/superlists/modules/accounts"
	"github.com/dmitrymomot/superlists/pkg/cookie"
	"github.com/dmitrymomot/superlists/pkg/email"
	"github.com/dmitrymomot/superlists/pkg/flash"
	"github.com/dmitrymomot/superlists/pkg/ratelimiter"
	"github.com/dmitrymomot/superlists/pkg/session"
)

const cookieSecret = "0123456789abcdef0123456789abcdef-accounts"

type mockAuthenticator struct {
	mock.Mock
}

func (m *mockAuthenticator) Authenticate(ctx context.Context, w http.ResponseWriter, r *http.Request, identity, backend string) error {
	return m.Called(identity, backend).Error(0)
}

func (m *mockAuthenticator) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return m.Called().Error(0)
}

type fixture struct {
	router  http.Handler
	store   *accounts.MemoryStorage
	outbox  *email.Outbox
	flashes *flash.Messages
}

func newFixture(t *testing.T, auth accounts.Authenticator, opts ...accounts.ModuleOption) fixture {
	t.Helper()

	cookies, err := cookie.New([]string{cookieSecret})
	require.NoError(t, err)

	store := accounts.NewMemoryStorage()
	outbox := email.NewOutbox()
	flashes := flash.New(cookies)
	svc := accounts.NewService(store, store, outbox)

	r := chi.NewRouter()
	r.Mount("/accounts", accounts.NewModule(svc, auth, flashes, opts...).Handle())
	return fixture{router: r, store: store, outbox: outbox, flashes: flashes}
}

func (f fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

// popFlashes reads the flash cookies set on rec.
func (f fixture) popFlashes(rec *httptest.ResponseRecorder) []flash.Message {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return f.flashes.Pop(httptest.NewRecorder(), req)
}

func sendLoginEmail(addr string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/accounts/send_login_email",
		strings.NewReader(url.Values{"email": {addr}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestModule_SendLoginEmail(t *testing.T) {
	t.Parallel()

	f := newFixture(t, &mockAuthenticator{}, accounts.WithBaseURL("https://superlists.example"))
	rec := f.do(sendLoginEmail("edith@example.com"))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	msg, ok := f.outbox.Last()
	require.True(t, ok)
	assert.Equal(t, "edith@example.com", msg.SendTo)
	assert.Contains(t, msg.BodyText, "https://superlists.example/accounts/login?token=")
	assert.Equal(t, 1, f.store.TokenCount())

	assert.Equal(t, []flash.Message{{Level: flash.Success, Text: accounts.MsgLoginEmailSent}}, f.popFlashes(rec))
}

func TestModule_SendLoginEmail_DerivesBaseURL(t *testing.T) {
	t.Parallel()

	f := newFixture(t, &mockAuthenticator{})
	req := sendLoginEmail("edith@example.com")
	req.Host = "localhost:8080"
	f.do(req)

	msg, ok := f.outbox.Last()
	require.True(t, ok)
	assert.Contains(t, msg.BodyText, "http://localhost:8080/accounts/login?token=")
}

func TestModule_SendLoginEmail_Invalid(t *testing.T) {
	t.Parallel()

	f := newFixture(t, &mockAuthenticator{})
	rec := f.do(sendLoginEmail("edith"))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Empty(t, f.outbox.Messages())
	assert.Zero(t, f.store.TokenCount())
	assert.Equal(t, []flash.Message{{Level: flash.Warning, Text: accounts.MsgInvalidEmail}}, f.popFlashes(rec))
}

func TestModule_SendLoginEmail_RateLimited(t *testing.T) {
	t.Parallel()

	limitStore := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0))
	t.Cleanup(limitStore.Close)
	bucket, err := ratelimiter.NewBucket(limitStore, ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: 1 << 40})
	require.NoError(t, err)

	f := newFixture(t, &mockAuthenticator{}, accounts.WithRateLimiter(bucket, func(*http.Request) string { return "login:192.0.2.1" }))

	first := f.do(sendLoginEmail("edith@example.com"))
	assert.Equal(t, http.StatusSeeOther, first.Code)

	second := f.do(sendLoginEmail("edith@example.com"))
	assert.Equal(t, http.StatusSeeOther, second.Code)
	assert.Equal(t, "/", second.Header().Get("Location"))
	assert.Equal(t, "0", second.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, []flash.Message{{Level: flash.Warning, Text: accounts.MsgTooManyRequests}}, f.popFlashes(second))

	assert.Len(t, f.outbox.Messages(), 1)
	assert.Equal(t, 1, f.store.TokenCount())
}

func TestModule_Login(t *testing.T) {
	t.Parallel()

	auth := &mockAuthenticator{}
	auth.On("Authenticate", "edith@example.com", accounts.Backend).Return(nil).Once()
	f := newFixture(t, auth)

	f.do(sendLoginEmail("edith@example.com"))
	msg, ok := f.outbox.Last()
	require.True(t, ok)
	uid := tokenFromEmail(t, msg)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/accounts/login?token="+uid, nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	auth.AssertExpectations(t)
}

func TestModule_Login_UnknownToken(t *testing.T) {
	t.Parallel()

	auth := &mockAuthenticator{}
	f := newFixture(t, auth)

	for _, target := range []string{"/accounts/login?token=abcd123", "/accounts/login"} {
		rec := f.do(httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusSeeOther, rec.Code, target)
		assert.Equal(t, "/", rec.Header().Get("Location"), target)
	}
	auth.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything)
}

func TestModule_Login_AuthenticateFails(t *testing.T) {
	t.Parallel()

	auth := &mockAuthenticator{}
	auth.On("Authenticate", "edith@example.com", accounts.Backend).Return(errors.New("store down"))
	f := newFixture(t, auth)

	f.do(sendLoginEmail("edith@example.com"))
	msg, _ := f.outbox.Last()

	rec := f.do(httptest.NewRequest(http.MethodGet, "/accounts/login?token="+tokenFromEmail(t, msg), nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestModule_Logout(t *testing.T) {
	t.Parallel()

	auth := &mockAuthenticator{}
	auth.On("Destroy").Return(nil).Twice()
	f := newFixture(t, auth)

	for _, method := range []string{http.MethodPost, http.MethodGet} {
		rec := f.do(httptest.NewRequest(method, "/accounts/logout", nil))
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))
	}
	auth.AssertExpectations(t)
}

func TestLoginScenario(t *testing.T) {
	t.Parallel()

	cookies, err := cookie.New([]string{cookieSecret})
	require.NoError(t, err)
	sessions := session.NewMemoryStore(0)
	manager := session.New(sessions, cookies)
	t.Cleanup(func() {
		_ = manager.Close()
		_ = sessions.Close()
	})

	f := newFixture(t, manager)

	f.do(sendLoginEmail("edith@example.com"))
	msg, ok := f.outbox.Last()
	require.True(t, ok)
	assert.Equal(t, accounts.LoginEmailSubject, msg.Subject)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/accounts/login?token="+tokenFromEmail(t, msg), nil))
	require.Equal(t, http.StatusSeeOther, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	sess, err := manager.Get(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "edith@example.com", sess.Identity)
	assert.Equal(t, accounts.Backend, sess.Backend)

	logout := httptest.NewRequest(http.MethodPost, "/accounts/logout", nil)
	for _, c := range req.Cookies() {
		logout.AddCookie(c)
	}
	out := f.do(logout)
	assert.Equal(t, http.StatusSeeOther, out.Code)

	_, err = manager.Get(context.Background(), req)
	assert.Error(t, err)
}
