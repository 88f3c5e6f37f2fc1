// Package session keeps server-side sessions keyed by an opaque token that
// travels in an encrypted cookie.
//
// Manager.Authenticate binds a session to an identity (the user's e-mail
// address) and always issues a fresh token, so a token observed before login
// is useless afterwards. Expiry combines an idle timeout with a maximum
// lifetime. Activity updates that slide the idle window are handed to a
// single background worker and dropped when it falls behind.
//
// Sessions live in a Store. MemoryStore suits a single process and tests;
// RedisStore shares sessions between replicas.
//
//	mgr := session.New(store, cookies, session.WithConfig(cfg), session.WithLogger(log))
//	defer mgr.Close()
//	r.Use(mgr.Middleware)
//
//	if email, ok := session.IdentityFromContext(r.Context()); ok { ... }
package session
