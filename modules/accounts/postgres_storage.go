package accounts

import (
	"context"
	"fmt"

	"github.com/dmitrymomot/superlists/pkg/pg"
)

// PostgresStorage implements TokenStorage and UserStorage.
type PostgresStorage struct {
	db pg.DBTX
}

func NewPostgresStorage(db pg.DBTX) *PostgresStorage {
	return &PostgresStorage{db: db}
}

const createTokenQuery = `INSERT INTO login_tokens (uid, email, created_at) VALUES ($1, $2, $3)`

func (s *PostgresStorage) CreateToken(ctx context.Context, token Token) error {
	if _, err := s.db.ExecContext(ctx, createTokenQuery, token.UID, token.Email, token.CreatedAt); err != nil {
		return fmt.Errorf("insert login token: %w", err)
	}
	return nil
}

const getTokenQuery = `SELECT uid, email, created_at FROM login_tokens WHERE uid = $1`

func (s *PostgresStorage) GetToken(ctx context.Context, uid string) (Token, error) {
	var t Token
	err := s.db.QueryRowContext(ctx, getTokenQuery, uid).Scan(&t.UID, &t.Email, &t.CreatedAt)
	if pg.IsNotFoundError(err) {
		return Token{}, ErrTokenNotFound
	}
	if err != nil {
		return Token{}, fmt.Errorf("select login token: %w", err)
	}
	return t, nil
}

const deleteTokenQuery = `DELETE FROM login_tokens WHERE uid = $1`

func (s *PostgresStorage) DeleteToken(ctx context.Context, uid string) error {
	res, err := s.db.ExecContext(ctx, deleteTokenQuery, uid)
	if err != nil {
		return fmt.Errorf("delete login token: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete login token: %w", err)
	}
	if n == 0 {
		return ErrTokenNotFound
	}
	return nil
}

const getUserQuery = `SELECT email, created_at FROM users WHERE email = $1`

func (s *PostgresStorage) GetUser(ctx context.Context, email string) (User, error) {
	var u User
	err := s.db.QueryRowContext(ctx, getUserQuery, email).Scan(&u.Email, &u.CreatedAt)
	if pg.IsNotFoundError(err) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("select user: %w", err)
	}
	return u, nil
}

// The no-op update makes RETURNING yield the existing row on conflict.
const getOrCreateUserQuery = `
INSERT INTO users (email) VALUES ($1)
ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
RETURNING email, created_at`

func (s *PostgresStorage) GetOrCreateUser(ctx context.Context, email string) (User, error) {
	var u User
	if err := s.db.QueryRowContext(ctx, getOrCreateUserQuery, email).Scan(&u.Email, &u.CreatedAt); err != nil {
		return User{}, fmt.Errorf("upsert user: %w", err)
	}
	return u, nil
}
