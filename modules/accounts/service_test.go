package accounts_test

import (
	"context"
	"errors"
	"net/url"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/superlists/modules/accounts"
	"github.com/dmitrymomot/superlists/pkg/email"
	"github.com/dmitrymomot/superlists/pkg/validator"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) SendEmail(ctx context.Context, params email.SendEmailParams) error {
	return m.Called(ctx, params).Error(0)
}

var linkPattern = regexp.MustCompile(`https?://\S+`)

// tokenFromEmail extracts the uid from the login link in a message body.
func tokenFromEmail(t *testing.T, msg email.SendEmailParams) string {
	t.Helper()
	link := linkPattern.FindString(msg.BodyText)
	require.NotEmpty(t, link, "no link in %q", msg.BodyText)
	u, err := url.Parse(link)
	require.NoError(t, err)
	return u.Query().Get("token")
}

func TestService_RequestLogin(t *testing.T) {
	t.Parallel()

	store := accounts.NewMemoryStorage()
	outbox := email.NewOutbox()
	svc := accounts.NewService(store, store, outbox)

	token, err := svc.RequestLogin(context.Background(), "  Edith@Example.com ", "http://localhost:8080/")
	require.NoError(t, err)

	assert.Equal(t, "edith@example.com", token.Email)
	assert.NotEmpty(t, token.UID)
	assert.Equal(t, 1, store.TokenCount())

	msgs := outbox.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "edith@example.com", msgs[0].SendTo)
	assert.Equal(t, accounts.LoginEmailSubject, msgs[0].Subject)
	assert.Equal(t, "Use this link to log in:\n\nhttp://localhost:8080/accounts/login?token="+token.UID, msgs[0].BodyText)
	assert.Contains(t, msgs[0].BodyHTML, token.UID)
	assert.Equal(t, token.UID, tokenFromEmail(t, msgs[0]))
}

func TestService_RequestLogin_UniqueTokens(t *testing.T) {
	t.Parallel()

	store := accounts.NewMemoryStorage()
	svc := accounts.NewService(store, store, email.NewOutbox())

	seen := make(map[string]bool)
	for range 20 {
		token, err := svc.RequestLogin(context.Background(), "edith@example.com", "http://x")
		require.NoError(t, err)
		assert.False(t, seen[token.UID], "uid %s issued twice", token.UID)
		seen[token.UID] = true
	}
	assert.Equal(t, 20, store.TokenCount())
}

func TestService_RequestLogin_InvalidEmail(t *testing.T) {
	t.Parallel()

	for _, addr := range []string{"", "not-an-email", "Edith <edith@example.com>", "a@.com"} {
		store := accounts.NewMemoryStorage()
		outbox := email.NewOutbox()
		svc := accounts.NewService(store, store, outbox)

		_, err := svc.RequestLogin(context.Background(), addr, "http://x")
		require.Error(t, err, addr)
		assert.True(t, validator.IsValidationError(err), addr)
		assert.True(t, validator.ExtractValidationErrors(err).Has("email"), addr)
		assert.Zero(t, store.TokenCount(), addr)
		assert.Empty(t, outbox.Messages(), addr)
	}
}

func TestService_RequestLogin_SendFailure(t *testing.T) {
	t.Parallel()

	store := accounts.NewMemoryStorage()
	sender := &mockSender{}
	sender.On("SendEmail", mock.Anything, mock.MatchedBy(func(p email.SendEmailParams) bool {
		return p.SendTo == "edith@example.com"
	})).Return(errors.New("postmark down")).Once()

	svc := accounts.NewService(store, store, sender)
	_, err := svc.RequestLogin(context.Background(), "edith@example.com", "http://x")
	require.ErrorIs(t, err, accounts.ErrSendLoginEmail)
	sender.AssertExpectations(t)
}

func TestService_ExchangeToken(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := accounts.NewMemoryStorage()
	svc := accounts.NewService(store, store, email.NewOutbox())

	token, err := svc.RequestLogin(ctx, "edith@example.com", "http://x")
	require.NoError(t, err)

	_, err = store.GetUser(ctx, "edith@example.com")
	require.ErrorIs(t, err, accounts.ErrUserNotFound)

	user, err := svc.ExchangeToken(ctx, token.UID)
	require.NoError(t, err)
	assert.Equal(t, "edith@example.com", user.Email)

	// Tokens are reusable by default and resolve to the same user.
	again, err := svc.ExchangeToken(ctx, token.UID)
	require.NoError(t, err)
	assert.Equal(t, user, again)

	_, err = svc.ExchangeToken(ctx, "no-such-token")
	assert.ErrorIs(t, err, accounts.ErrTokenNotFound)

	_, err = svc.ExchangeToken(ctx, "")
	assert.ErrorIs(t, err, accounts.ErrTokenNotFound)
}

func TestService_ExchangeToken_TTL(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	store := accounts.NewMemoryStorage()
	svc := accounts.NewService(store, store, email.NewOutbox(),
		accounts.WithConfig(accounts.Config{TokenTTL: 15 * time.Minute}),
		accounts.WithClock(func() time.Time { return now }),
	)

	token, err := svc.RequestLogin(ctx, "edith@example.com", "http://x")
	require.NoError(t, err)

	now = now.Add(10 * time.Minute)
	_, err = svc.ExchangeToken(ctx, token.UID)
	require.NoError(t, err)

	now = now.Add(10 * time.Minute)
	_, err = svc.ExchangeToken(ctx, token.UID)
	assert.ErrorIs(t, err, accounts.ErrTokenNotFound)
}

func TestService_ExchangeToken_SingleUse(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := accounts.NewMemoryStorage()
	svc := accounts.NewService(store, store, email.NewOutbox(),
		accounts.WithConfig(accounts.Config{SingleUse: true}),
	)

	first, err := svc.RequestLogin(ctx, "edith@example.com", "http://x")
	require.NoError(t, err)
	second, err := svc.RequestLogin(ctx, "edith@example.com", "http://x")
	require.NoError(t, err)

	_, err = svc.ExchangeToken(ctx, first.UID)
	require.NoError(t, err)
	_, err = svc.ExchangeToken(ctx, first.UID)
	assert.ErrorIs(t, err, accounts.ErrTokenNotFound)

	// Issuing a new token never invalidates older ones.
	_, err = svc.ExchangeToken(ctx, second.UID)
	assert.NoError(t, err)
}

func TestLoginURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://superlists.example/accounts/login?token=abc-123",
		accounts.LoginURL("https://superlists.example/", "abc-123"))
	assert.Equal(t, "http://h/accounts/login?token=a%2Bb", accounts.LoginURL("http://h", "a+b"))
}
