// Package cookie writes and reads HTTP cookies that are either signed
// (HMAC-SHA256) or encrypted (AES-256-GCM), plus one-shot flash messages.
//
// Every configured secret is expanded with HKDF into an independent
// encryption key and signing key. The first secret is used for writing; all
// of them are tried when reading, so secrets can be rotated by prepending a
// new one to COOKIE_SECRETS.
package cookie
