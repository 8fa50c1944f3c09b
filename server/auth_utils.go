package server

import (
	"encoding/base64"
	"net/http"
	"net/url"
	"strings"

	"github.com/edusuite/school-admin-web/action"
)

func (s *Server) SetSessionCookie(w http.ResponseWriter, r *http.Request, sessionID string, maxAge int) {
	isSecure := getScheme(r) == "https"

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter, r *http.Request) {
	s.SetSessionCookie(w, r, "", -1)
}

// redirectTo helper for plain success redirects
func redirectTo(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// redirectWithError helper for login-page style error redirects (?error= query)
func redirectWithError(w http.ResponseWriter, r *http.Request, path, errorMsg string) {
	fullPath := path + "?error=" + url.QueryEscape(errorMsg)
	http.Redirect(w, r, fullPath, http.StatusSeeOther)
}

// guard redirects to the login page when a result demands re-authentication.
// Returns true when the handler should continue.
func (s *Server) guard(w http.ResponseWriter, r *http.Request, res action.Result) bool {
	if res.State == action.StateLoginRedirect {
		redirectWithError(w, r, RouteLogin, "Please sign in")
		return false
	}
	return true
}

const flashCookieName = "school_admin_flash"

// Flash is a one-time message surfaced at the top of the next rendered page.
type Flash struct {
	Kind    string // "success", "error" or "info"
	Message string
}

// setFlash stores a one-time message in a short-lived cookie. The message is
// base64url encoded so it survives cookie value restrictions.
func setFlash(w http.ResponseWriter, kind, message string) {
	value := kind + "|" + base64.RawURLEncoding.EncodeToString([]byte(message))
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   60,
	})
}

// popFlash reads and clears the flash cookie
func popFlash(w http.ResponseWriter, r *http.Request) (Flash, bool) {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil || cookie.Value == "" {
		return Flash{}, false
	}

	// Clear it regardless of whether the value decodes
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})

	parts := strings.SplitN(cookie.Value, "|", 2)
	if len(parts) != 2 {
		return Flash{}, false
	}
	message, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return Flash{}, false
	}
	return Flash{Kind: parts[0], Message: string(message)}, true
}

// flashSuccess sets a success flash and redirects
func (s *Server) flashSuccess(w http.ResponseWriter, r *http.Request, path, message string) {
	setFlash(w, "success", message)
	redirectTo(w, r, path)
}

// flashError sets an error flash and redirects
func (s *Server) flashError(w http.ResponseWriter, r *http.Request, path, message string) {
	setFlash(w, "error", message)
	redirectTo(w, r, path)
}

// flashInfo sets an info flash and redirects
func (s *Server) flashInfo(w http.ResponseWriter, r *http.Request, path, message string) {
	setFlash(w, "info", message)
	redirectTo(w, r, path)
}
