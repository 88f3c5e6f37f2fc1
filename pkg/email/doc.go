// Package email delivers transactional mail.
//
// EmailSender has three implementations: the Postmark client used in
// production, DevSender which writes each message to disk for local
// development, and Outbox which keeps messages in memory for tests.
// Render turns a templ component into the HTML body.
package email
