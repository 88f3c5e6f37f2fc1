package accounts

import "context"

type TokenStorage interface {
	CreateToken(ctx context.Context, token Token) error
	// GetToken returns ErrTokenNotFound for unknown uids.
	GetToken(ctx context.Context, uid string) (Token, error)
	// DeleteToken returns ErrTokenNotFound when nothing was deleted.
	DeleteToken(ctx context.Context, uid string) error
}

type UserStorage interface {
	GetUser(ctx context.Context, email string) (User, error)
	// GetOrCreateUser is idempotent and safe under concurrent calls.
	GetOrCreateUser(ctx context.Context, email string) (User, error)
}
