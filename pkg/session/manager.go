package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/superlists/pkg/cookie"
	"github.com/dmitrymomot/superlists/pkg/logger"
)

const activityQueueSize = 1000

// Option configures a Manager.
type Option func(*Manager)

func WithConfig(cfg Config) Option {
	return func(m *Manager) { m.config = cfg }
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// WithClock replaces time.Now; used by tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

type activityUpdate struct {
	token     string
	at        time.Time
	expiresAt time.Time
}

// Manager ties the session cookie to the session store.
type Manager struct {
	store   Store
	cookies *cookie.Manager
	config  Config
	log     *slog.Logger
	now     func() time.Time

	activity chan activityUpdate
	done     chan struct{}
	wg       sync.WaitGroup
	once     sync.Once
}

// New starts the activity worker; call Close on shutdown.
func New(store Store, cookies *cookie.Manager, opts ...Option) *Manager {
	m := &Manager{
		store:    store,
		cookies:  cookies,
		config:   DefaultConfig(),
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
		activity: make(chan activityUpdate, activityQueueSize),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.wg.Add(1)
	go m.activityWorker()

	return m
}

// Get loads the session referenced by the request cookie.
func (m *Manager) Get(ctx context.Context, r *http.Request) (*Session, error) {
	token, err := m.cookies.GetEncrypted(r, m.config.CookieName)
	if err != nil {
		return nil, ErrSessionNotFound
	}

	sess, err := m.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if sess.IsExpired(m.now()) {
		return nil, ErrSessionExpired
	}
	return sess, nil
}

// Authenticate binds identity to a session under a new token and writes the
// session cookie. Any session the request already carried is discarded.
func (m *Manager) Authenticate(ctx context.Context, w http.ResponseWriter, r *http.Request, identity, backend string) error {
	if identity == "" {
		return ErrEmptyIdentity
	}

	token, err := generateToken()
	if err != nil {
		return err
	}

	now := m.now()
	sess := &Session{
		ID:             uuid.New(),
		Token:          token,
		Identity:       identity,
		Backend:        backend,
		CreatedAt:      now,
		LastActivityAt: now,
		ExpiresAt:      expiry(now, now, m.config.IdleTimeout, m.config.MaxLifetime),
	}

	if prev, err := m.Get(ctx, r); err == nil {
		sess.ID = prev.ID
		if err := m.store.Delete(ctx, prev.Token); err != nil {
			m.log.WarnContext(ctx, "failed to drop previous session", logger.Component("session"), logger.Error(err))
		}
	}

	if err := m.store.Create(ctx, sess); err != nil {
		return err
	}

	return m.cookies.SetEncrypted(w, m.config.CookieName, token,
		cookie.WithMaxAge(int(m.config.MaxLifetime.Seconds())),
	)
}

// Destroy removes the session from the store and expires the cookie.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var err error
	if token, cerr := m.cookies.GetEncrypted(r, m.config.CookieName); cerr == nil {
		err = m.store.Delete(ctx, token)
	}
	m.cookies.Delete(w, m.config.CookieName)
	return err
}

// Close drains queued activity updates and stops the worker.
func (m *Manager) Close() error {
	m.once.Do(func() { close(m.done) })
	m.wg.Wait()
	return nil
}

func (m *Manager) touch(sess *Session) {
	now := m.now()
	if now.Sub(sess.LastActivityAt) < m.config.ActivityUpdateThreshold {
		return
	}
	update := activityUpdate{
		token:     sess.Token,
		at:        now,
		expiresAt: expiry(sess.CreatedAt, now, m.config.IdleTimeout, m.config.MaxLifetime),
	}
	select {
	case m.activity <- update:
	default:
	}
}

func (m *Manager) activityWorker() {
	defer m.wg.Done()

	apply := func(u activityUpdate) {
		if err := m.store.UpdateActivity(context.Background(), u.token, u.at, u.expiresAt); err != nil && !errors.Is(err, ErrSessionNotFound) {
			m.log.Warn("failed to update session activity", logger.Component("session"), logger.Error(err))
		}
	}

	for {
		select {
		case u := <-m.activity:
			apply(u)
		case <-m.done:
			for {
				select {
				case u := <-m.activity:
					apply(u)
				default:
					return
				}
			}
		}
	}
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
