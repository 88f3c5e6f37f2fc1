package accounts

import "errors"

var (
	ErrTokenNotFound  = errors.New("accounts.token_not_found")
	ErrUserNotFound   = errors.New("accounts.user_not_found")
	ErrCreateToken    = errors.New("accounts.create_token_failed")
	ErrSendLoginEmail = errors.New("accounts.send_login_email_failed")
)
