// Package accounts implements passwordless login by e-mailed link.
//
// RequestLogin stores a Token with a random uid and mails the visitor a
// link containing it. ExchangeToken resolves the uid back to a User; the
// HTTP Module then binds that user's e-mail to the session through an
// Authenticator. Unknown uids leave the visitor anonymous without an error
// page.
//
// Users are keyed by e-mail address. They are created lazily the first
// time a token is exchanged for them, or by other modules through
// UserStorage.GetOrCreateUser.
package accounts
