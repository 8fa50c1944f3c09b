package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/edusuite/school-admin-web/action"
	"github.com/edusuite/school-admin-web/models"
)

// userActTable maps user management pages to their platform API calls
var userActTable = struct {
	list     action.Descriptor
	fetch    action.Descriptor
	register action.Descriptor
	update   action.Descriptor
	remove   action.Descriptor
	taught   action.Descriptor
}{
	list:  action.Descriptor{Name: "list-users", Method: http.MethodGet, Path: "api/users", OnFailure: action.ShowEmpty},
	fetch: action.Descriptor{Name: "fetch-user", Method: http.MethodGet, Path: "api/users/%d", OnFailure: action.RedirectBack},
	register: action.Descriptor{
		Name:         "register-user",
		Method:       http.MethodPost,
		Path:         "api/auth/register",
		TenantGlobal: true,
		OnFailure:    action.ReshowForm,
	},
	update: action.Descriptor{Name: "update-user", Method: http.MethodPut, Path: "api/users/%d", OnFailure: action.ReshowForm},
	remove: action.Descriptor{Name: "delete-user", Method: http.MethodDelete, Path: "api/users/%d", OnFailure: action.RedirectBack},
	taught: action.Descriptor{Name: "taught-courses", Method: http.MethodGet, Path: "api/courses/user/%d/taught-courses", OnFailure: action.RedirectBack},
}

type registerUserPayload struct {
	UserName string `json:"userName"`
	Email    string `json:"email"`
	Password string `json:"passwordHash"`
	RoleID   int    `json:"roleID"`
	SchoolID int    `json:"schoolID"`
}

type updateUserPayload struct {
	UserID   int    `json:"userID"`
	UserName string `json:"userName"`
	Email    string `json:"email"`
	RoleID   int    `json:"roleID"`
	SchoolID int    `json:"schoolID"`
}

// UsersListData backs the user listing page
type UsersListData struct {
	Users  []models.User
	Search string
	Error  string
}

// UserFormData backs the create and edit user forms
type UserFormData struct {
	Editing  bool
	UserID   int
	UserName string
	Email    string
	RoleID   int
	Error    string
}

// ListUsersHandler shows every user in the school (GET /admin/users)
func (s *Server) ListUsersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		search := r.URL.Query().Get("search")

		res := s.actions.Run(r.Context(), sess, userActTable.list, nil)
		if !s.guard(w, r, res) {
			return
		}

		data := UsersListData{Search: search}
		if res.Failed {
			data.Error = res.Flash
		} else {
			var users []models.User
			if err := res.Decode(&users); err != nil {
				log.Err(err).Msg("ListUsers: could not decode users")
			}
			data.Users = filterUsersByName(users, search)
		}

		s.renderAdminPage(w, r, "users", "Users", "users.html", data)
	}
}

// ListStudentsHandler shows the school's students only (GET /admin/students)
func (s *Server) ListStudentsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		search := r.URL.Query().Get("search")

		res := s.actions.Run(r.Context(), sess, userActTable.list, nil)
		if !s.guard(w, r, res) {
			return
		}

		data := UsersListData{Search: search}
		if res.Failed {
			data.Error = res.Flash
		} else {
			var users []models.User
			if err := res.Decode(&users); err != nil {
				log.Err(err).Msg("ListStudents: could not decode users")
			}
			data.Users = filterUsersByName(usersByRole(users, models.RoleStudent), search)
		}

		s.renderAdminPage(w, r, "students", "Students", "students.html", data)
	}
}

// SearchUsersHandler answers name lookups as JSON for form pickers
// (GET /admin/users/search?search=)
func (s *Server) SearchUsersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)

		res := s.actions.Run(r.Context(), sess, userActTable.list, nil)
		if res.State == action.StateLoginRedirect {
			http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
			return
		}
		if res.Failed {
			http.Error(w, `{"error":"upstream"}`, http.StatusBadGateway)
			return
		}

		var users []models.User
		if err := res.Decode(&users); err != nil {
			http.Error(w, `{"error":"decode"}`, http.StatusBadGateway)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(filterUsersByName(users, r.URL.Query().Get("search"))); err != nil {
			log.Err(err).Msg("SearchUsers: could not write response")
		}
	}
}

// CreateUserFormHandler shows the registration form (GET /admin/users/new)
func (s *Server) CreateUserFormHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.renderAdminPage(w, r, "users", "Register User", "user_form.html", UserFormData{})
	}
}

// CreateUserSubmissionHandler registers a user through the platform
// (POST /admin/users)
func (s *Server) CreateUserSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		form := UserFormData{
			UserName: r.FormValue("userName"),
			Email:    r.FormValue("email"),
			RoleID:   formInt(r, "roleID"),
		}
		password := r.FormValue("password")

		if form.UserName == "" || form.Email == "" || password == "" || form.RoleID == 0 {
			form.Error = "All fields are required"
			s.renderAdminPage(w, r, "users", "Register User", "user_form.html", form)
			return
		}
		if sess == nil {
			s.guard(w, r, action.Result{State: action.StateLoginRedirect})
			return
		}

		payload := registerUserPayload{
			UserName: form.UserName,
			Email:    form.Email,
			Password: password,
			RoleID:   form.RoleID,
			SchoolID: sess.SchoolID,
		}
		res := s.actions.Run(r.Context(), sess, userActTable.register, payload)
		if res.Failed {
			form.Error = res.Flash
			s.renderAdminPage(w, r, "users", "Register User", "user_form.html", form)
			return
		}

		s.flashSuccess(w, r, RouteAdminUserNew, "User registered")
	}
}

// EditUserFormHandler loads a user into the edit form (GET /admin/users/{id}/edit)
func (s *Server) EditUserFormHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		id, err := pathID(r)
		if err != nil {
			s.flashError(w, r, RouteAdminUsers, "Invalid user id")
			return
		}

		res := s.actions.Run(r.Context(), sess, userActTable.fetch.Format(id), nil)
		if !s.guard(w, r, res) {
			return
		}
		if res.Failed {
			s.flashError(w, r, RouteAdminUsers, res.Flash)
			return
		}

		var user models.User
		if err := res.Decode(&user); err != nil {
			s.flashError(w, r, RouteAdminUsers, "Could not load the user")
			return
		}

		form := UserFormData{
			Editing:  true,
			UserID:   user.UserID,
			UserName: user.UserName,
			Email:    user.Email,
			RoleID:   user.RoleID,
		}
		s.renderAdminPage(w, r, "users", "Edit User", "user_form.html", form)
	}
}

// EditUserSubmissionHandler saves user changes (POST /admin/users/{id}/edit)
func (s *Server) EditUserSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		id, err := pathID(r)
		if err != nil {
			s.flashError(w, r, RouteAdminUsers, "Invalid user id")
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		form := UserFormData{
			Editing:  true,
			UserID:   id,
			UserName: r.FormValue("userName"),
			Email:    r.FormValue("email"),
			RoleID:   formInt(r, "roleID"),
		}

		schoolID := 0
		if sess != nil {
			schoolID = sess.SchoolID
		}
		payload := updateUserPayload{
			UserID:   id,
			UserName: form.UserName,
			Email:    form.Email,
			RoleID:   form.RoleID,
			SchoolID: schoolID,
		}

		res := s.actions.Run(r.Context(), sess, userActTable.update.Format(id), payload)
		if !s.guard(w, r, res) {
			return
		}
		if res.Failed {
			form.Error = res.Flash
			s.renderAdminPage(w, r, "users", "Edit User", "user_form.html", form)
			return
		}

		s.flashSuccess(w, r, RouteAdminUsers, "User updated")
	}
}

// DeleteUserHandler removes a user (POST /admin/users/{id}/delete)
func (s *Server) DeleteUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		id, err := pathID(r)
		if err != nil {
			s.flashError(w, r, RouteAdminUsers, "Invalid user id")
			return
		}

		res := s.actions.Run(r.Context(), sess, userActTable.remove.Format(id), nil)
		if !s.guard(w, r, res) {
			return
		}
		if res.Failed {
			s.flashError(w, r, RouteAdminUsers, res.Flash)
			return
		}

		s.flashSuccess(w, r, RouteAdminUsers, "User deleted")
	}
}

// TaughtCoursesData backs the per-teacher course listing
type TaughtCoursesData struct {
	TeacherID   int
	TeacherName string
	Courses     []models.Course
}

// TaughtCoursesHandler lists the courses a teacher gives
// (GET /admin/users/{id}/courses)
func (s *Server) TaughtCoursesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		id, err := pathID(r)
		if err != nil {
			s.flashError(w, r, RouteAdminUsers, "Invalid user id")
			return
		}

		res := s.actions.Run(r.Context(), sess, userActTable.taught.Format(id), nil)
		if !s.guard(w, r, res) {
			return
		}
		if res.Failed {
			s.flashError(w, r, RouteAdminUsers, res.Flash)
			return
		}

		data := TaughtCoursesData{TeacherID: id, TeacherName: "Unknown teacher"}
		if err := res.Decode(&data.Courses); err != nil {
			log.Err(err).Msg("TaughtCourses: could not decode courses")
		}

		// Dependent lookup for the page heading
		nameRes := s.actions.Run(r.Context(), sess, userActTable.fetch.Format(id), nil)
		if !nameRes.Failed {
			var teacher models.User
			if err := nameRes.Decode(&teacher); err == nil && teacher.UserName != "" {
				data.TeacherName = teacher.UserName
			}
		}

		s.renderAdminPage(w, r, "users", fmt.Sprintf("Courses taught by %s", data.TeacherName), "taught_courses.html", data)
	}
}
