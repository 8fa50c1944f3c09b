package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/edusuite/school-admin-web/models"
	"github.com/edusuite/school-admin-web/schoolapi"
	"github.com/edusuite/school-admin-web/session"
)

type testConfig struct{}

func (testConfig) GetPort() string                       { return ":0" }
func (testConfig) GetAppName() string                    { return "School Admin" }
func (testConfig) GetEnv() string                        { return "TEST" }
func (testConfig) GetAPIBaseURL() string                 { return "" }
func (testConfig) GetAPITimeout() time.Duration          { return time.Second }
func (testConfig) GetSessionIdleTimeout() time.Duration  { return 30 * time.Minute }

func signTestToken(t *testing.T, userID string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"UserID": userID})
	signed, err := token.SignedString([]byte("platform-secret"))
	require.NoError(t, err)
	return signed
}

func intPtr(v int) *int { return &v }

// fakePlatform is a stand-in for the school platform API
type fakePlatform struct {
	calls   atomic.Int64
	token   string
	account models.User
	handler func(w http.ResponseWriter, r *http.Request) bool
}

func (f *fakePlatform) serve(w http.ResponseWriter, r *http.Request) {
	f.calls.Add(1)

	if f.handler != nil && f.handler(w, r) {
		return
	}

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/api/auth/login":
		var creds struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Password != "correct" {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"message":"Wrong email or password"}`)
			return
		}
		fmt.Fprintf(w, `{"token":%q}`, f.token)
	case r.Method == http.MethodGet && r.URL.Path == fmt.Sprintf("/api/users/%d", f.account.UserID):
		_ = json.NewEncoder(w).Encode(f.account)
	default:
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"not found"}`)
	}
}

func newTestServer(t *testing.T, platform *fakePlatform) (*Server, *httptest.Server, session.Store) {
	t.Helper()
	upstream := httptest.NewServer(http.HandlerFunc(platform.serve))
	t.Cleanup(upstream.Close)

	sessions := session.NewInMemoryStore(30 * time.Minute)
	api := schoolapi.New(upstream.URL, time.Second)

	srv, err := New(testConfig{}, sessions, api)
	require.NoError(t, err)
	return srv, upstream, sessions
}

func loginForm(email, password string) *http.Request {
	form := url.Values{"email": {email}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, RouteAuthLogin, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func staffPlatform(t *testing.T) *fakePlatform {
	return &fakePlatform{
		token: signTestToken(t, "7"),
		account: models.User{
			UserID:   7,
			UserName: "Ana Maria",
			Email:    "ana@school.test",
			RoleID:   models.RoleTeacher,
			SchoolID: intPtr(3),
		},
	}
}

func TestLoginSuccessCreatesSessionAndRedirects(t *testing.T) {
	platform := staffPlatform(t)
	srv, _, sessions := newTestServer(t, platform)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, loginForm("ana@school.test", "correct"))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, RouteAdminDashboard, rec.Header().Get("Location"))

	var sessionID string
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName {
			sessionID = c.Value
			require.True(t, c.HttpOnly)
		}
	}
	require.NotEmpty(t, sessionID)

	sess, ok := sessions.Get(sessionID)
	require.True(t, ok)
	require.Equal(t, 3, sess.SchoolID)
	require.Equal(t, 7, sess.UserID)
	require.Equal(t, "Ana Maria", sess.UserName)
	require.Equal(t, platform.token, sess.Token)
}

func TestLoginWrongPasswordRedirectsWithError(t *testing.T) {
	platform := staffPlatform(t)
	srv, _, _ := newTestServer(t, platform)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, loginForm("ana@school.test", "wrong"))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	location := rec.Header().Get("Location")
	require.Contains(t, location, RouteLogin)
	require.Contains(t, location, "error=")
	require.Contains(t, location, "email=ana%40school.test")
	require.Empty(t, rec.Result().Cookies())
}

func TestLoginRejectsNonStaffAccounts(t *testing.T) {
	platform := staffPlatform(t)
	platform.account.RoleID = models.RoleStudent
	srv, _, _ := newTestServer(t, platform)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, loginForm("ana@school.test", "correct"))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Contains(t, rec.Header().Get("Location"), "console+access")
}

func TestLoginRejectsStaffWithoutSchool(t *testing.T) {
	platform := staffPlatform(t)
	platform.account.SchoolID = nil
	srv, _, _ := newTestServer(t, platform)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, loginForm("ana@school.test", "correct"))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Contains(t, rec.Header().Get("Location"), RouteLogin)
}

func TestAdminRoutesRedirectWithoutSession(t *testing.T) {
	platform := staffPlatform(t)
	srv, _, _ := newTestServer(t, platform)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, RouteAdminUsers, nil))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Contains(t, rec.Header().Get("Location"), RouteLogin)
	require.Zero(t, platform.calls.Load(), "no platform call may happen without a session")
}

// loggedIn seeds a session directly and returns the cookie to send
func loggedIn(t *testing.T, sessions session.Store, token string) *http.Cookie {
	t.Helper()
	err := sessions.Put("test-session-id", session.Session{
		Token:     token,
		SchoolID:  3,
		UserID:    7,
		UserName:  "Ana Maria",
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	return &http.Cookie{Name: sessionCookieName, Value: "test-session-id"}
}

func TestUsersListRendersAndScopesToSchool(t *testing.T) {
	platform := staffPlatform(t)
	var sawSchoolID string
	platform.handler = func(w http.ResponseWriter, r *http.Request) bool {
		if r.Method == http.MethodGet && r.URL.Path == "/api/users" {
			sawSchoolID = r.URL.Query().Get("schoolId")
			require.Equal(t, "Bearer "+platform.token, r.Header.Get("Authorization"))
			_ = json.NewEncoder(w).Encode([]models.User{
				{UserID: 1, UserName: "Beto", Email: "beto@school.test", RoleID: models.RoleStudent},
				{UserID: 2, UserName: "Carla", Email: "carla@school.test", RoleID: models.RoleTeacher},
			})
			return true
		}
		return false
	}
	srv, _, sessions := newTestServer(t, platform)
	cookie := loggedIn(t, sessions, platform.token)

	req := httptest.NewRequest(http.MethodGet, RouteAdminUsers, nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "3", sawSchoolID)
	require.Contains(t, rec.Body.String(), "Beto")
	require.Contains(t, rec.Body.String(), "Carla")
}

func TestUsersListSearchFiltersByName(t *testing.T) {
	platform := staffPlatform(t)
	platform.handler = func(w http.ResponseWriter, r *http.Request) bool {
		if r.Method == http.MethodGet && r.URL.Path == "/api/users" {
			_ = json.NewEncoder(w).Encode([]models.User{
				{UserID: 1, UserName: "Ana"},
				{UserID: 2, UserName: "Beto"},
				{UserID: 3, UserName: "ana2"},
			})
			return true
		}
		return false
	}
	srv, _, sessions := newTestServer(t, platform)
	cookie := loggedIn(t, sessions, platform.token)

	req := httptest.NewRequest(http.MethodGet, RouteAdminUsers+"?search=an", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "Ana")
	require.Contains(t, body, "ana2")
	require.NotContains(t, body, "Beto")
}

func TestCreateUserReshowsFormWithUpstreamMessage(t *testing.T) {
	platform := staffPlatform(t)
	platform.handler = func(w http.ResponseWriter, r *http.Request) bool {
		if r.Method == http.MethodPost && r.URL.Path == "/api/auth/register" {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"message":"Email already in use"}`)
			return true
		}
		return false
	}
	srv, _, sessions := newTestServer(t, platform)
	cookie := loggedIn(t, sessions, platform.token)

	form := url.Values{
		"userName": {"Dario"},
		"email":    {"dario@school.test"},
		"password": {"pw"},
		"roleID":   {"1"},
	}
	req := httptest.NewRequest(http.MethodPost, RouteAdminUsers, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	// Failure reshows the form inline, preserving the submitted values
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Email already in use")
	require.Contains(t, rec.Body.String(), "Dario")
}

func TestCoursesListShowsTeacherNames(t *testing.T) {
	platform := staffPlatform(t)
	platform.handler = func(w http.ResponseWriter, r *http.Request) bool {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/courses":
			require.Equal(t, "3", r.URL.Query().Get("schoolId"))
			_ = json.NewEncoder(w).Encode([]models.Course{
				{CourseID: 1, Name: "Math", UserID: 2},
				{CourseID: 2, Name: "History"},
			})
			return true
		case r.Method == http.MethodGet && r.URL.Path == "/api/users":
			_ = json.NewEncoder(w).Encode([]models.User{
				{UserID: 2, UserName: "Carla", RoleID: models.RoleTeacher},
			})
			return true
		}
		return false
	}
	srv, _, sessions := newTestServer(t, platform)
	cookie := loggedIn(t, sessions, platform.token)

	req := httptest.NewRequest(http.MethodGet, RouteAdminCourses, nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "Math")
	require.Contains(t, body, "Carla")
	require.Contains(t, body, "No teacher")
}

func TestEnrollmentsNotFoundShowsInfoNotError(t *testing.T) {
	platform := staffPlatform(t)
	platform.handler = func(w http.ResponseWriter, r *http.Request) bool {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/enrollments/user/9":
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message":"No enrollments found"}`)
			return true
		case r.Method == http.MethodGet && r.URL.Path == "/api/users/9":
			_ = json.NewEncoder(w).Encode(models.User{UserID: 9, UserName: "Eva", RoleID: models.RoleStudent})
			return true
		case r.Method == http.MethodGet && r.URL.Path == "/api/courses":
			fmt.Fprint(w, `[]`)
			return true
		}
		return false
	}
	srv, _, sessions := newTestServer(t, platform)
	cookie := loggedIn(t, sessions, platform.token)

	req := httptest.NewRequest(http.MethodGet, "/admin/users/9/enrollments", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "no enrollments")
	require.Contains(t, rec.Body.String(), "Eva")
}

func TestDeleteUserRedirectsWithFlash(t *testing.T) {
	platform := staffPlatform(t)
	platform.handler = func(w http.ResponseWriter, r *http.Request) bool {
		if r.Method == http.MethodDelete && r.URL.Path == "/api/users/4" {
			w.WriteHeader(http.StatusNoContent)
			return true
		}
		return false
	}
	srv, _, sessions := newTestServer(t, platform)
	cookie := loggedIn(t, sessions, platform.token)

	req := httptest.NewRequest(http.MethodPost, "/admin/users/4/delete", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, RouteAdminUsers, rec.Header().Get("Location"))

	var flashSet bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == flashCookieName && c.Value != "" {
			flashSet = true
		}
	}
	require.True(t, flashSet)
}

func TestLogoutClearsSession(t *testing.T) {
	platform := staffPlatform(t)
	srv, _, sessions := newTestServer(t, platform)
	cookie := loggedIn(t, sessions, platform.token)

	req := httptest.NewRequest(http.MethodGet, RouteAuthLogout, nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, RouteLogin, rec.Header().Get("Location"))

	_, ok := sessions.Get("test-session-id")
	require.False(t, ok)
}

func TestSearchUsersAnswersJSON(t *testing.T) {
	platform := staffPlatform(t)
	platform.handler = func(w http.ResponseWriter, r *http.Request) bool {
		if r.Method == http.MethodGet && r.URL.Path == "/api/users" {
			_ = json.NewEncoder(w).Encode([]models.User{
				{UserID: 1, UserName: "Ana"},
				{UserID: 2, UserName: "Beto"},
			})
			return true
		}
		return false
	}
	srv, _, sessions := newTestServer(t, platform)
	cookie := loggedIn(t, sessions, platform.token)

	req := httptest.NewRequest(http.MethodGet, RouteAdminUserSearch+"?search=be", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var users []models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	require.Len(t, users, 1)
	require.Equal(t, "Beto", users[0].UserName)
}

func TestUserIDFromToken(t *testing.T) {
	id, err := userIDFromToken(signTestToken(t, "42"))
	require.NoError(t, err)
	require.Equal(t, 42, id)

	_, err = userIDFromToken("not-a-token")
	require.Error(t, err)
}

func TestFlashRoundTrip(t *testing.T) {
	rec := httptest.NewRecorder()
	setFlash(rec, "success", "User registered")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}

	flash, ok := popFlash(httptest.NewRecorder(), req)
	require.True(t, ok)
	require.Equal(t, "success", flash.Kind)
	require.Equal(t, "User registered", flash.Message)

	// A request without the cookie yields nothing
	_, ok = popFlash(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.False(t, ok)
}
