package session

import "net/http"

// Middleware puts the request's session, when it has a valid one, into the
// request context. Requests without a session pass through unchanged.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := m.Get(r.Context(), r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		m.touch(sess)
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
	})
}
