package server

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/edusuite/school-admin-web/action"
	"github.com/edusuite/school-admin-web/models"
)

// enrollmentActTable maps enrollment pages to their platform API calls
var enrollmentActTable = struct {
	listForUser action.Descriptor
	create      action.Descriptor
	remove      action.Descriptor
}{
	listForUser: action.Descriptor{Name: "list-enrollments", Method: http.MethodGet, Path: "api/enrollments/user/%d", OnFailure: action.ShowEmpty},
	create:      action.Descriptor{Name: "create-enrollment", Method: http.MethodPost, Path: "api/enrollments", OnFailure: action.RedirectBack},
	remove:      action.Descriptor{Name: "delete-enrollment", Method: http.MethodDelete, Path: "api/enrollments/%d", OnFailure: action.RedirectBack},
}

type enrollmentPayload struct {
	UserID   int `json:"userID"`
	CourseID int `json:"courseID"`
}

// EnrollmentRow pairs an enrollment with its course name
type EnrollmentRow struct {
	models.Enrollment
	CourseName string
}

// EnrollmentsData backs the per-user enrollment listing
type EnrollmentsData struct {
	UserID      int
	UserName    string
	Enrollments []EnrollmentRow
	Info        string
	Error       string
}

func enrollmentsPath(userID int) string {
	return fmt.Sprintf("/admin/users/%d/enrollments", userID)
}

// ViewEnrollmentsHandler lists a student's enrollments
// (GET /admin/users/{id}/enrollments)
func (s *Server) ViewEnrollmentsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		id, err := pathID(r)
		if err != nil {
			s.flashError(w, r, RouteAdminStudents, "Invalid user id")
			return
		}

		res := s.actions.Run(r.Context(), sess, enrollmentActTable.listForUser.Format(id), nil)
		if !s.guard(w, r, res) {
			return
		}

		data := EnrollmentsData{UserID: id}
		switch {
		case res.NotFound():
			// The platform answers 404 for a student with no enrollments
			data.Info = "This user has no enrollments"
		case res.Failed:
			data.Error = res.Flash
		default:
			var enrollments []models.Enrollment
			if err := res.Decode(&enrollments); err != nil {
				log.Err(err).Msg("ViewEnrollments: could not decode enrollments")
			}

			courses := s.loadCourses(r)
			for _, e := range enrollments {
				row := EnrollmentRow{Enrollment: e, CourseName: courseName(courses, e.CourseID)}
				if row.CourseName == "" {
					row.CourseName = "Unknown course"
				}
				data.Enrollments = append(data.Enrollments, row)
			}
		}

		// Dependent lookup for the page heading
		nameRes := s.actions.Run(r.Context(), sess, userActTable.fetch.Format(id), nil)
		if !nameRes.Failed {
			var user models.User
			if err := nameRes.Decode(&user); err == nil {
				data.UserName = user.UserName
			}
		}

		s.renderAdminPage(w, r, "students", "Enrollments", "enrollments.html", data)
	}
}

// EnrollFormData backs the assign-course form
type EnrollFormData struct {
	UserID   int
	UserName string
	Courses  []models.Course
}

// AssignCourseFormHandler shows the enroll-student form
// (GET /admin/users/{id}/enroll)
func (s *Server) AssignCourseFormHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		id, err := pathID(r)
		if err != nil {
			s.flashError(w, r, RouteAdminStudents, "Invalid user id")
			return
		}

		form := EnrollFormData{UserID: id, Courses: s.loadCourses(r)}

		nameRes := s.actions.Run(r.Context(), sess, userActTable.fetch.Format(id), nil)
		if !s.guard(w, r, nameRes) {
			return
		}
		if !nameRes.Failed {
			var user models.User
			if err := nameRes.Decode(&user); err == nil {
				form.UserName = user.UserName
			}
		}

		s.renderAdminPage(w, r, "students", "Enroll Student", "enroll_form.html", form)
	}
}

// CreateEnrollmentHandler enrolls a student on a course (POST /admin/enrollments)
func (s *Server) CreateEnrollmentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		userID := formInt(r, "userId")
		courseID := formInt(r, "courseId")
		if userID == 0 || courseID == 0 {
			s.flashError(w, r, RouteAdminStudents, "Select a student and a course")
			return
		}

		res := s.actions.Run(r.Context(), sess, enrollmentActTable.create, enrollmentPayload{UserID: userID, CourseID: courseID})
		if !s.guard(w, r, res) {
			return
		}
		if res.Failed {
			s.flashError(w, r, fmt.Sprintf("/admin/users/%d/enroll", userID), res.Flash)
			return
		}

		s.flashSuccess(w, r, enrollmentsPath(userID), "Student enrolled")
	}
}

// DeleteEnrollmentHandler removes an enrollment
// (POST /admin/enrollments/{id}/delete)
func (s *Server) DeleteEnrollmentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		id, err := pathID(r)
		if err != nil {
			s.flashError(w, r, RouteAdminStudents, "Invalid enrollment id")
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		// The listing page to return to travels with the form
		back := RouteAdminStudents
		if userID := formInt(r, "userId"); userID != 0 {
			back = enrollmentsPath(userID)
		}

		res := s.actions.Run(r.Context(), sess, enrollmentActTable.remove.Format(id), nil)
		if !s.guard(w, r, res) {
			return
		}
		if res.Failed {
			s.flashError(w, r, back, res.Flash)
			return
		}

		s.flashSuccess(w, r, back, "Enrollment removed")
	}
}

// loadCourses fetches the school's courses for dropdowns and joins.
// Soft-fails to an empty slice.
func (s *Server) loadCourses(r *http.Request) []models.Course {
	res := s.actions.Run(r.Context(), sessionFrom(r), courseActTable.list, nil)
	if res.Failed {
		return nil
	}
	var courses []models.Course
	if err := res.Decode(&courses); err != nil {
		log.Err(err).Msg("loadCourses: could not decode courses")
		return nil
	}
	return courses
}

// courseName looks up a course's name by id, returning "" when absent
func courseName(courses []models.Course, courseID int) string {
	for _, c := range courses {
		if c.CourseID == courseID {
			return c.Name
		}
	}
	return ""
}
