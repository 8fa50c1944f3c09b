package server

import (
	"context"
	"net/http"

	"github.com/edusuite/school-admin-web/session"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeySession stores the authenticated console session
const ContextKeySession ContextKey = "session"

const sessionCookieName = "session_id"

// RequireSessionAuth is middleware for HTML routes that validates session cookies.
// Used for server-rendered UI routes like /admin/dashboard
func (s *Server) RequireSessionAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			// Get session cookie
			cookie, err := r.Cookie(sessionCookieName)
			if err != nil || cookie.Value == "" {
				// No session cookie - redirect to login
				http.Redirect(w, r, RouteLogin+"?error=Please+sign+in", http.StatusSeeOther)
				return
			}

			// Get session from the store; expiry is handled by the store itself
			sess, ok := s.sessions.Get(cookie.Value)
			if !ok {
				s.clearSessionCookie(w, r)
				http.Redirect(w, r, RouteLogin+"?error=Your+session+has+expired", http.StatusSeeOther)
				return
			}

			// Inject session into context
			ctx := context.WithValue(r.Context(), ContextKeySession, &sess)
			r = r.WithContext(ctx)

			next(w, r)
		}
	}
}

// sessionFrom returns the console session injected by RequireSessionAuth,
// or nil when the request is unauthenticated.
func sessionFrom(r *http.Request) *session.Session {
	sess, _ := r.Context().Value(ContextKeySession).(*session.Session)
	return sess
}
