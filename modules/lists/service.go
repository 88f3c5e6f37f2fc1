package lists

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/dmitrymomot/superlists/pkg/logger"
	"github.com/dmitrymomot/superlists/pkg/sanitizer"
	"github.com/dmitrymomot/superlists/pkg/validator"
)

var cleanItemText = sanitizer.Compose(
	sanitizer.RemoveControlChars,
	sanitizer.NFC,
	sanitizer.Trim,
)

type Service struct {
	storage Storage
	log     *slog.Logger
}

type ServiceOption func(*Service)

func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func NewService(storage Storage, opts ...ServiceOption) *Service {
	s := &Service{
		storage: storage,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateList starts a list with its first item. owner may be empty.
func (s *Service) CreateList(ctx context.Context, text, owner string) (List, error) {
	text = cleanItemText(text)
	if text == "" {
		return List{}, emptyItemError()
	}
	if owner != "" {
		owner = sanitizer.NormalizeEmail(owner)
	}

	l, err := s.storage.CreateList(ctx, owner, text)
	if err != nil {
		return List{}, err
	}
	s.log.InfoContext(ctx, "list created",
		logger.Component("lists"),
		logger.ListID(l.ID),
		logger.Identity(owner),
	)
	return l, nil
}

// AddItem appends text to the list and returns the list's items in order.
func (s *Service) AddItem(ctx context.Context, listID int64, text string) ([]Item, error) {
	text = cleanItemText(text)
	if text == "" {
		return nil, emptyItemError()
	}

	exists, err := s.storage.HasItem(ctx, listID, text)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, duplicateItemError()
	}

	if _, err := s.storage.AddItem(ctx, listID, text); err != nil {
		if errors.Is(err, ErrDuplicateItem) {
			return nil, duplicateItemError()
		}
		return nil, err
	}
	return s.storage.Items(ctx, listID)
}

// ShareList gives email access to the list. Sharing twice is a no-op.
func (s *Service) ShareList(ctx context.Context, listID int64, email string) error {
	email = sanitizer.NormalizeEmail(email)
	if err := validator.Apply(
		validator.ValidEmail("sharee", email),
	); err != nil {
		return err
	}
	if err := s.storage.ShareList(ctx, listID, email); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "list shared",
		logger.Component("lists"),
		logger.ListID(listID),
		logger.Email(email),
	)
	return nil
}

func (s *Service) GetList(ctx context.Context, id int64) (List, error) {
	return s.storage.GetList(ctx, id)
}

// ListsForOwner returns the lists owned by email, oldest first.
func (s *Service) ListsForOwner(ctx context.Context, email string) ([]List, error) {
	return s.storage.ListsOwnedBy(ctx, sanitizer.NormalizeEmail(email))
}

func (s *Service) ListsSharedWith(ctx context.Context, email string) ([]List, error) {
	return s.storage.ListsSharedWith(ctx, sanitizer.NormalizeEmail(email))
}
