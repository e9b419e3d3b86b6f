package auth

import (
	"context"
	"encoding/json"
	"net/http"
)

const CookieName = "barpos_session"

type ctxKey struct{}

// FromContext returns the authenticated session placed by Authenticate.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok
}

// Authenticate resolves the session cookie and stores the session in the
// request context. Unauthenticated requests get 401.
func Authenticate(store SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(CookieName)
			if err != nil || cookie.Value == "" {
				deny(w, http.StatusUnauthorized, "authentication required")
				return
			}
			s, ok, err := store.Get(r.Context(), cookie.Value)
			if err != nil {
				deny(w, http.StatusInternalServerError, "session lookup failed")
				return
			}
			if !ok {
				deny(w, http.StatusUnauthorized, "session expired or invalid")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, s)))
		})
	}
}

// RequireRole gates a subtree to the given roles.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := FromContext(r.Context())
			if !ok || !allowed[s.Role] {
				deny(w, http.StatusForbidden, "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func deny(w http.ResponseWriter, code int, detail string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"type":   "auth_error",
		"title":  http.StatusText(code),
		"status": code,
		"detail": detail,
	})
}
