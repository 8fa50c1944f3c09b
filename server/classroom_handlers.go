package server

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/edusuite/school-admin-web/action"
	"github.com/edusuite/school-admin-web/models"
)

// classroomActTable maps classroom pages to their platform API calls
var classroomActTable = struct {
	list    action.Descriptor
	fetch   action.Descriptor
	create  action.Descriptor
	update  action.Descriptor
	remove  action.Descriptor
	assign  action.Descriptor
}{
	list:   action.Descriptor{Name: "list-classrooms", Method: http.MethodGet, Path: "api/classrooms", OnFailure: action.ShowEmpty},
	fetch:  action.Descriptor{Name: "fetch-classroom", Method: http.MethodGet, Path: "api/classrooms/%d", OnFailure: action.RedirectBack},
	create: action.Descriptor{Name: "create-classroom", Method: http.MethodPost, Path: "api/classrooms/create", OnFailure: action.ReshowForm},
	update: action.Descriptor{Name: "update-classroom", Method: http.MethodPut, Path: "api/classrooms/%d", OnFailure: action.ReshowForm},
	remove: action.Descriptor{Name: "delete-classroom", Method: http.MethodDelete, Path: "api/classrooms/%d", OnFailure: action.RedirectBack},
	assign: action.Descriptor{Name: "assign-student", Method: http.MethodPost, Path: "api/classrooms/assign-student", OnFailure: action.RedirectBack},
}

type classroomPayload struct {
	ClassroomID int    `json:"classroomID,omitempty"`
	Name        string `json:"name"`
	Capacity    int    `json:"capacity"`
}

type assignStudentPayload struct {
	UserID      int `json:"userID"`
	ClassroomID int `json:"classroomID"`
}

// ClassroomsListData backs the classroom listing page
type ClassroomsListData struct {
	Classrooms []models.Classroom
	Error      string
}

// ClassroomFormData backs the create and edit classroom forms
type ClassroomFormData struct {
	Editing     bool
	ClassroomID int
	Name        string
	Capacity    int
	Error       string
}

// ListClassroomsHandler shows the school's classrooms (GET /admin/classrooms)
func (s *Server) ListClassroomsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)

		res := s.actions.Run(r.Context(), sess, classroomActTable.list, nil)
		if !s.guard(w, r, res) {
			return
		}

		data := ClassroomsListData{}
		if res.Failed {
			data.Error = res.Flash
		} else if err := res.Decode(&data.Classrooms); err != nil {
			log.Err(err).Msg("ListClassrooms: could not decode classrooms")
		}

		s.renderAdminPage(w, r, "classrooms", "Classrooms", "classrooms.html", data)
	}
}

// CreateClassroomFormHandler shows the new classroom form (GET /admin/classrooms/new)
func (s *Server) CreateClassroomFormHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.renderAdminPage(w, r, "classrooms", "New Classroom", "classroom_form.html", ClassroomFormData{})
	}
}

// CreateClassroomSubmissionHandler creates a classroom (POST /admin/classrooms)
func (s *Server) CreateClassroomSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		form := ClassroomFormData{
			Name:     r.FormValue("name"),
			Capacity: formInt(r, "capacity"),
		}

		if form.Name == "" {
			form.Error = "Classroom name is required"
			s.renderAdminPage(w, r, "classrooms", "New Classroom", "classroom_form.html", form)
			return
		}

		res := s.actions.Run(r.Context(), sess, classroomActTable.create, classroomPayload{Name: form.Name, Capacity: form.Capacity})
		if !s.guard(w, r, res) {
			return
		}
		if res.Failed {
			form.Error = res.Flash
			s.renderAdminPage(w, r, "classrooms", "New Classroom", "classroom_form.html", form)
			return
		}

		s.flashSuccess(w, r, RouteAdminClassrooms, "Classroom created")
	}
}

// EditClassroomFormHandler loads a classroom into the edit form
// (GET /admin/classrooms/{id}/edit)
func (s *Server) EditClassroomFormHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		id, err := pathID(r)
		if err != nil {
			s.flashError(w, r, RouteAdminClassrooms, "Invalid classroom id")
			return
		}

		res := s.actions.Run(r.Context(), sess, classroomActTable.fetch.Format(id), nil)
		if !s.guard(w, r, res) {
			return
		}
		if res.Failed {
			s.flashError(w, r, RouteAdminClassrooms, res.Flash)
			return
		}

		var classroom models.Classroom
		if err := res.Decode(&classroom); err != nil {
			s.flashError(w, r, RouteAdminClassrooms, "Could not load the classroom")
			return
		}

		form := ClassroomFormData{
			Editing:     true,
			ClassroomID: classroom.ClassroomID,
			Name:        classroom.Name,
			Capacity:    classroom.Capacity,
		}
		s.renderAdminPage(w, r, "classrooms", "Edit Classroom", "classroom_form.html", form)
	}
}

// EditClassroomSubmissionHandler saves classroom changes
// (POST /admin/classrooms/{id}/edit)
func (s *Server) EditClassroomSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		id, err := pathID(r)
		if err != nil {
			s.flashError(w, r, RouteAdminClassrooms, "Invalid classroom id")
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		form := ClassroomFormData{
			Editing:     true,
			ClassroomID: id,
			Name:        r.FormValue("name"),
			Capacity:    formInt(r, "capacity"),
		}

		payload := classroomPayload{ClassroomID: id, Name: form.Name, Capacity: form.Capacity}
		res := s.actions.Run(r.Context(), sess, classroomActTable.update.Format(id), payload)
		if !s.guard(w, r, res) {
			return
		}
		if res.Failed {
			form.Error = res.Flash
			s.renderAdminPage(w, r, "classrooms", "Edit Classroom", "classroom_form.html", form)
			return
		}

		s.flashSuccess(w, r, RouteAdminClassrooms, "Classroom updated")
	}
}

// DeleteClassroomHandler removes a classroom (POST /admin/classrooms/{id}/delete)
func (s *Server) DeleteClassroomHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		id, err := pathID(r)
		if err != nil {
			s.flashError(w, r, RouteAdminClassrooms, "Invalid classroom id")
			return
		}

		res := s.actions.Run(r.Context(), sess, classroomActTable.remove.Format(id), nil)
		if !s.guard(w, r, res) {
			return
		}
		if res.Failed {
			s.flashError(w, r, RouteAdminClassrooms, res.Flash)
			return
		}

		s.flashSuccess(w, r, RouteAdminClassrooms, "Classroom deleted")
	}
}

// AssignStudentFormData backs the assign-to-classroom form
type AssignStudentFormData struct {
	Students   []models.User
	Classrooms []models.Classroom
}

// AssignStudentFormHandler shows the assign-student form
// (GET /admin/classrooms/assign)
func (s *Server) AssignStudentFormHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		form := AssignStudentFormData{}

		usersRes := s.actions.Run(r.Context(), sess, userActTable.list, nil)
		if !s.guard(w, r, usersRes) {
			return
		}
		if !usersRes.Failed {
			var users []models.User
			if err := usersRes.Decode(&users); err == nil {
				form.Students = usersByRole(users, models.RoleStudent)
			}
		}

		roomsRes := s.actions.Run(r.Context(), sess, classroomActTable.list, nil)
		if !roomsRes.Failed {
			if err := roomsRes.Decode(&form.Classrooms); err != nil {
				log.Err(err).Msg("AssignStudentForm: could not decode classrooms")
			}
		}

		s.renderAdminPage(w, r, "classrooms", "Assign Student", "assign_student.html", form)
	}
}

// AssignStudentSubmissionHandler places a student in a classroom
// (POST /admin/classrooms/assign)
func (s *Server) AssignStudentSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		userID := formInt(r, "userId")
		classroomID := formInt(r, "classroomId")
		if userID == 0 || classroomID == 0 {
			s.flashError(w, r, RouteAdminClassroomAssign, "Select a student and a classroom")
			return
		}

		res := s.actions.Run(r.Context(), sess, classroomActTable.assign, assignStudentPayload{UserID: userID, ClassroomID: classroomID})
		if !s.guard(w, r, res) {
			return
		}
		if res.Failed {
			s.flashError(w, r, RouteAdminClassroomAssign, res.Flash)
			return
		}

		s.flashSuccess(w, r, RouteAdminClassroomAssign, "Student assigned")
	}
}
