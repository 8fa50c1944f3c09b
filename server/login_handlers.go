package server

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/edusuite/school-admin-web/action"
	apperrors "github.com/edusuite/school-admin-web/internal/errors"
	"github.com/edusuite/school-admin-web/internal/metrics"
	"github.com/edusuite/school-admin-web/models"
	"github.com/edusuite/school-admin-web/session"
)

// authActTable names the platform auth calls and how each failure is surfaced
var authActTable = struct {
	login        action.Descriptor
	fetchAccount action.Descriptor
}{
	login: action.Descriptor{
		Name:         "login",
		Method:       http.MethodPost,
		Path:         "api/auth/login",
		TenantGlobal: true,
		OnFailure:    action.ReshowForm,
	},
	fetchAccount: action.Descriptor{
		Name:         "fetch-account",
		Method:       http.MethodGet,
		Path:         "api/users/%d",
		TenantGlobal: true,
		OnFailure:    action.ReshowForm,
	},
}

type loginCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginPageData contains data for rendering the login page
type LoginPageData struct {
	AppName string
	Error   string
	Email   string // Preserve email on error
}

// LoginPageUIHandler displays the login page (GET /login)
func (s *Server) LoginPageUIHandler() http.HandlerFunc {
	loginTmpl, err := ParseTemplate("login.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse login template")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		data := LoginPageData{
			AppName: s.config.GetAppName(),
			Error:   r.URL.Query().Get("error"),
			Email:   r.URL.Query().Get("email"),
		}

		w.Header().Set("Content-Type", contentTypeHTML)
		if err := loginTmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render login template")
			http.Error(w, "Failed to render login page", http.StatusInternalServerError)
		}
	}
}

// LoginSubmissionHandler processes the login form submission (POST /auth/login)
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		email := r.FormValue("email")
		password := r.FormValue("password")

		if email == "" || password == "" {
			s.renderLoginError(w, r, "Email and password are required", email)
			return
		}

		res := s.actions.Run(r.Context(), nil, authActTable.login, loginCredentials{Email: email, Password: password})
		if res.Failed {
			metrics.LoginFailures.Inc()
			s.renderLoginError(w, r, "Invalid email or password", email)
			return
		}

		var auth models.AuthResponse
		if err := res.Decode(&auth); err != nil || auth.Token == "" {
			log.Err(err).Msg("Login: unusable token response")
			s.renderLoginError(w, r, "Invalid email or password", email)
			return
		}

		userID, err := userIDFromToken(auth.Token)
		if err != nil {
			log.Err(err).Msg("Login: could not read user id from token")
			s.renderLoginError(w, r, "Invalid email or password", email)
			return
		}

		// Fetch the account with the fresh token: a session does not
		// exist yet, so the call is tenant-global with an explicit token.
		provisional := &session.Session{Token: auth.Token}
		res = s.actions.Run(r.Context(), provisional, authActTable.fetchAccount.Format(userID), nil)
		if res.Failed {
			s.renderLoginError(w, r, "Could not load your account details", email)
			return
		}

		var account models.User
		if err := res.Decode(&account); err != nil {
			log.Err(err).Msg("Login: could not decode account")
			s.renderLoginError(w, r, "Could not load your account details", email)
			return
		}

		// Console access is restricted to school staff with a school
		if account.RoleID != models.RoleTeacher || account.SchoolID == nil {
			metrics.LoginFailures.Inc()
			s.renderLoginError(w, r, "This account does not have console access", email)
			return
		}

		sessionID := uuid.NewString()
		err = s.sessions.Put(sessionID, session.Session{
			Token:     auth.Token,
			SchoolID:  *account.SchoolID,
			UserID:    account.UserID,
			UserName:  account.UserName,
			Email:     account.Email,
			CreatedAt: time.Now(),
		})
		if err != nil {
			log.Err(err).Msg("Login: could not store session")
			s.renderLoginError(w, r, "Could not sign you in, please try again", email)
			return
		}

		s.SetSessionCookie(w, r, sessionID, int(s.config.GetSessionIdleTimeout().Seconds()))
		redirectTo(w, r, RouteAdminDashboard)
	}
}

// LogoutHandler clears the session and sends the user back to login (GET /auth/logout)
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
			s.sessions.Delete(cookie.Value)
		}
		s.clearSessionCookie(w, r)
		redirectTo(w, r, RouteLogin)
	}
}

// IndexHandler sends the root path to the dashboard or the login page
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(sessionCookieName); err == nil {
			if _, ok := s.sessions.Get(cookie.Value); ok {
				redirectTo(w, r, RouteAdminDashboard)
				return
			}
		}
		redirectTo(w, r, RouteLogin)
	}
}

// renderLoginError redirects to the login page with an error message
func (s *Server) renderLoginError(w http.ResponseWriter, r *http.Request, errorMsg, email string) {
	redirectURL := RouteLogin + "?error=" + url.QueryEscape(errorMsg)
	if email != "" {
		redirectURL += "&email=" + url.QueryEscape(email)
	}
	redirectTo(w, r, redirectURL)
}

// userIDFromToken reads the UserID claim out of the platform token.
// The token is verified by the platform API on every call; the console
// only needs the claim to know which account to load.
func userIDFromToken(raw string) (int, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return 0, apperrors.Wrapf(err, "userIDFromToken %w", apperrors.ErrInvalidToken)
	}

	switch v := claims["UserID"].(type) {
	case string:
		id, err := strconv.Atoi(v)
		if err != nil {
			return 0, apperrors.Wrapf(err, "userIDFromToken %w", apperrors.ErrInvalidToken)
		}
		return id, nil
	case float64:
		return int(v), nil
	}
	return 0, apperrors.ErrInvalidToken
}
