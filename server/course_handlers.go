package server

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/edusuite/school-admin-web/action"
	"github.com/edusuite/school-admin-web/models"
)

// courseActTable maps course management pages to their platform API calls
var courseActTable = struct {
	list     action.Descriptor
	fetch    action.Descriptor
	create   action.Descriptor
	update   action.Descriptor
	remove   action.Descriptor
	students action.Descriptor
}{
	list:     action.Descriptor{Name: "list-courses", Method: http.MethodGet, Path: "api/courses", OnFailure: action.ShowEmpty},
	fetch:    action.Descriptor{Name: "fetch-course", Method: http.MethodGet, Path: "api/courses/%d", OnFailure: action.RedirectBack},
	create:   action.Descriptor{Name: "create-course", Method: http.MethodPost, Path: "api/courses/create", OnFailure: action.ReshowForm},
	update:   action.Descriptor{Name: "update-course", Method: http.MethodPut, Path: "api/courses/%d", OnFailure: action.ReshowForm},
	remove:   action.Descriptor{Name: "delete-course", Method: http.MethodDelete, Path: "api/courses/%d", OnFailure: action.RedirectBack},
	students: action.Descriptor{Name: "course-students", Method: http.MethodGet, Path: "api/enrollments/course/%d/students", OnFailure: action.RedirectBack},
}

type coursePayload struct {
	CourseID    int    `json:"courseID,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description"`
	DayOfWeek   int    `json:"dayOfWeek"`
	UserID      int    `json:"userID"`
}

// CourseRow pairs a course with its teacher's display name
type CourseRow struct {
	models.Course
	TeacherName string
}

// CoursesListData backs the course listing page
type CoursesListData struct {
	Courses []CourseRow
	Search  string
	Error   string
}

// CourseFormData backs the create and edit course forms
type CourseFormData struct {
	Editing     bool
	CourseID    int
	Name        string
	Description string
	DayOfWeek   int
	UserID      int
	Teachers    []models.User
	Error       string
}

// loadTeachers fetches the school's staff for the teacher dropdown.
// Soft-fails to an empty slice so forms stay usable.
func (s *Server) loadTeachers(r *http.Request) []models.User {
	res := s.actions.Run(r.Context(), sessionFrom(r), userActTable.list, nil)
	if res.Failed {
		return nil
	}
	var users []models.User
	if err := res.Decode(&users); err != nil {
		log.Err(err).Msg("loadTeachers: could not decode users")
		return nil
	}
	return usersByRole(users, models.RoleTeacher)
}

// ListCoursesHandler shows the school's courses with their teachers
// (GET /admin/courses)
func (s *Server) ListCoursesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		search := r.URL.Query().Get("search")

		res := s.actions.Run(r.Context(), sess, courseActTable.list, nil)
		if !s.guard(w, r, res) {
			return
		}

		data := CoursesListData{Search: search}
		if res.Failed {
			data.Error = res.Flash
		} else {
			var courses []models.Course
			if err := res.Decode(&courses); err != nil {
				log.Err(err).Msg("ListCourses: could not decode courses")
			}
			courses = filterCoursesByName(courses, search)

			teachers := s.loadTeachers(r)
			for _, c := range courses {
				row := CourseRow{Course: c, TeacherName: userName(teachers, c.UserID)}
				if row.TeacherName == "" {
					row.TeacherName = "No teacher"
				}
				data.Courses = append(data.Courses, row)
			}
		}

		s.renderAdminPage(w, r, "courses", "Courses", "courses.html", data)
	}
}

// CreateCourseFormHandler shows the new course form (GET /admin/courses/new)
func (s *Server) CreateCourseFormHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form := CourseFormData{Teachers: s.loadTeachers(r)}
		s.renderAdminPage(w, r, "courses", "New Course", "course_form.html", form)
	}
}

// CreateCourseSubmissionHandler creates a course (POST /admin/courses)
func (s *Server) CreateCourseSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		form := CourseFormData{
			Name:        r.FormValue("name"),
			Description: r.FormValue("description"),
			DayOfWeek:   formInt(r, "dayOfWeek"),
			UserID:      formInt(r, "userID"),
		}

		if form.Name == "" {
			form.Error = "Course name is required"
			form.Teachers = s.loadTeachers(r)
			s.renderAdminPage(w, r, "courses", "New Course", "course_form.html", form)
			return
		}

		payload := coursePayload{
			Name:        form.Name,
			Description: form.Description,
			DayOfWeek:   form.DayOfWeek,
			UserID:      form.UserID,
		}
		res := s.actions.Run(r.Context(), sess, courseActTable.create, payload)
		if !s.guard(w, r, res) {
			return
		}
		if res.Failed {
			form.Error = res.Flash
			form.Teachers = s.loadTeachers(r)
			s.renderAdminPage(w, r, "courses", "New Course", "course_form.html", form)
			return
		}

		s.flashSuccess(w, r, RouteAdminCourseNew, "Course created")
	}
}

// EditCourseFormHandler loads a course into the edit form
// (GET /admin/courses/{id}/edit)
func (s *Server) EditCourseFormHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		id, err := pathID(r)
		if err != nil {
			s.flashError(w, r, RouteAdminCourses, "Invalid course id")
			return
		}

		res := s.actions.Run(r.Context(), sess, courseActTable.fetch.Format(id), nil)
		if !s.guard(w, r, res) {
			return
		}
		if res.Failed {
			s.flashError(w, r, RouteAdminCourses, res.Flash)
			return
		}

		var course models.Course
		if err := res.Decode(&course); err != nil {
			s.flashError(w, r, RouteAdminCourses, "Could not load the course")
			return
		}

		form := CourseFormData{
			Editing:     true,
			CourseID:    course.CourseID,
			Name:        course.Name,
			Description: course.Description,
			DayOfWeek:   course.DayOfWeek,
			UserID:      course.UserID,
			Teachers:    s.loadTeachers(r),
		}
		s.renderAdminPage(w, r, "courses", "Edit Course", "course_form.html", form)
	}
}

// EditCourseSubmissionHandler saves course changes (POST /admin/courses/{id}/edit)
func (s *Server) EditCourseSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		id, err := pathID(r)
		if err != nil {
			s.flashError(w, r, RouteAdminCourses, "Invalid course id")
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		form := CourseFormData{
			Editing:     true,
			CourseID:    id,
			Name:        r.FormValue("name"),
			Description: r.FormValue("description"),
			DayOfWeek:   formInt(r, "dayOfWeek"),
			UserID:      formInt(r, "userID"),
		}

		payload := coursePayload{
			CourseID:    id,
			Name:        form.Name,
			Description: form.Description,
			DayOfWeek:   form.DayOfWeek,
			UserID:      form.UserID,
		}
		res := s.actions.Run(r.Context(), sess, courseActTable.update.Format(id), payload)
		if !s.guard(w, r, res) {
			return
		}
		if res.Failed {
			form.Error = res.Flash
			form.Teachers = s.loadTeachers(r)
			s.renderAdminPage(w, r, "courses", "Edit Course", "course_form.html", form)
			return
		}

		s.flashSuccess(w, r, RouteAdminCourses, "Course updated")
	}
}

// DeleteCourseHandler removes a course (POST /admin/courses/{id}/delete)
func (s *Server) DeleteCourseHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		id, err := pathID(r)
		if err != nil {
			s.flashError(w, r, RouteAdminCourses, "Invalid course id")
			return
		}

		res := s.actions.Run(r.Context(), sess, courseActTable.remove.Format(id), nil)
		if !s.guard(w, r, res) {
			return
		}
		if res.Failed {
			s.flashError(w, r, RouteAdminCourses, res.Flash)
			return
		}

		s.flashSuccess(w, r, RouteAdminCourses, "Course deleted")
	}
}

// CourseStudentsData backs the per-course roster page
type CourseStudentsData struct {
	CourseID   int
	CourseName string
	Students   []models.User
}

// CourseStudentsHandler lists the students enrolled on a course
// (GET /admin/courses/{id}/students)
func (s *Server) CourseStudentsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		id, err := pathID(r)
		if err != nil {
			s.flashError(w, r, RouteAdminCourses, "Invalid course id")
			return
		}

		res := s.actions.Run(r.Context(), sess, courseActTable.students.Format(id), nil)
		if !s.guard(w, r, res) {
			return
		}
		if res.Failed {
			s.flashError(w, r, RouteAdminCourses, res.Flash)
			return
		}

		data := CourseStudentsData{CourseID: id, CourseName: "Course"}
		if err := res.Decode(&data.Students); err != nil {
			log.Err(err).Msg("CourseStudents: could not decode students")
		}

		// Dependent lookup for the page heading
		nameRes := s.actions.Run(r.Context(), sess, courseActTable.fetch.Format(id), nil)
		if !nameRes.Failed {
			var course models.Course
			if err := nameRes.Decode(&course); err == nil && course.Name != "" {
				data.CourseName = course.Name
			}
		}

		s.renderAdminPage(w, r, "courses", "Course Students", "course_students.html", data)
	}
}
