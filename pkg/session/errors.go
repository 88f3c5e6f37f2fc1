package session

import "errors"

var (
	ErrSessionExpired  = errors.New("session.expired")
	ErrSessionNotFound = errors.New("session.not_found")
	ErrTokenGeneration = errors.New("session.token_generation_failed")
	ErrEmptyIdentity   = errors.New("session.empty_identity")
)
