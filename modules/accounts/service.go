package accounts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/superlists/pkg/email"
	"github.com/dmitrymomot/superlists/pkg/logger"
	"github.com/dmitrymomot/superlists/pkg/sanitizer"
	"github.com/dmitrymomot/superlists/pkg/validator"
)

const (
	LoginPath         = "/accounts/login"
	LoginEmailSubject = "Your login link for Superlists"
	loginEmailTag     = "login-link"
)

type Service struct {
	tokens TokenStorage
	users  UserStorage
	mailer email.EmailSender
	cfg    Config
	log    *slog.Logger
	now    func() time.Time
}

type ServiceOption func(*Service)

func WithConfig(cfg Config) ServiceOption {
	return func(s *Service) { s.cfg = cfg }
}

func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

func NewService(tokens TokenStorage, users UserStorage, mailer email.EmailSender, opts ...ServiceOption) *Service {
	s := &Service{
		tokens: tokens,
		users:  users,
		mailer: mailer,
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoginURL builds the link mailed for uid.
func LoginURL(baseURL, uid string) string {
	return strings.TrimRight(baseURL, "/") + LoginPath + "?token=" + url.QueryEscape(uid)
}

// RequestLogin issues a token for the address and mails the login link.
// No check is made that a user exists. Earlier tokens stay valid.
func (s *Service) RequestLogin(ctx context.Context, address, baseURL string) (Token, error) {
	address = sanitizer.NormalizeEmail(address)
	if err := validator.Apply(
		validator.ValidEmail("email", address),
	); err != nil {
		return Token{}, err
	}

	token := Token{
		UID:       uuid.NewString(),
		Email:     address,
		CreatedAt: s.now(),
	}
	if err := s.tokens.CreateToken(ctx, token); err != nil {
		return Token{}, errors.Join(ErrCreateToken, err)
	}

	link := LoginURL(baseURL, token.UID)
	html, err := email.Render(ctx, loginEmailHTML(link))
	if err != nil {
		return Token{}, errors.Join(ErrSendLoginEmail, err)
	}
	if err := s.mailer.SendEmail(ctx, email.SendEmailParams{
		SendTo:   address,
		Subject:  LoginEmailSubject,
		BodyText: fmt.Sprintf("Use this link to log in:\n\n%s", link),
		BodyHTML: html,
		Tag:      loginEmailTag,
	}); err != nil {
		return Token{}, errors.Join(ErrSendLoginEmail, err)
	}

	s.log.InfoContext(ctx, "login link sent",
		logger.Component("accounts"),
		logger.Email(address),
	)
	return token, nil
}

// ExchangeToken resolves uid to its user, creating the user on first use.
// Unknown uids, and expired ones when a TTL is configured, yield
// ErrTokenNotFound.
func (s *Service) ExchangeToken(ctx context.Context, uid string) (User, error) {
	if uid == "" {
		return User{}, ErrTokenNotFound
	}

	token, err := s.tokens.GetToken(ctx, uid)
	if err != nil {
		return User{}, err
	}

	if s.cfg.TokenTTL > 0 && s.now().Sub(token.CreatedAt) > s.cfg.TokenTTL {
		return User{}, ErrTokenNotFound
	}

	if s.cfg.SingleUse {
		// A concurrent exchange of the same uid loses here.
		if err := s.tokens.DeleteToken(ctx, uid); err != nil {
			return User{}, err
		}
	}

	user, err := s.users.GetOrCreateUser(ctx, token.Email)
	if err != nil {
		return User{}, fmt.Errorf("resolve user: %w", err)
	}
	return user, nil
}
