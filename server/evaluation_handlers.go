package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/edusuite/school-admin-web/action"
	"github.com/edusuite/school-admin-web/models"
)

// evaluationActTable maps evaluation pages to their platform API calls
var evaluationActTable = struct {
	listByCourse action.Descriptor
	fetch        action.Descriptor
	create       action.Descriptor
	update       action.Descriptor
	remove       action.Descriptor
	grades       action.Descriptor
	terms        action.Descriptor
}{
	listByCourse: action.Descriptor{Name: "list-evaluations", Method: http.MethodGet, Path: "api/evaluations/course/%d", OnFailure: action.ShowEmpty},
	fetch:        action.Descriptor{Name: "fetch-evaluation", Method: http.MethodGet, Path: "api/evaluations/%d", OnFailure: action.RedirectBack},
	create:       action.Descriptor{Name: "create-evaluation", Method: http.MethodPost, Path: "api/evaluations/create", OnFailure: action.ReshowForm},
	update:       action.Descriptor{Name: "update-evaluation", Method: http.MethodPut, Path: "api/evaluations/%d", OnFailure: action.ReshowForm},
	remove:       action.Descriptor{Name: "delete-evaluation", Method: http.MethodDelete, Path: "api/evaluations/%d", OnFailure: action.RedirectBack},
	grades:       action.Descriptor{Name: "evaluation-grades", Method: http.MethodGet, Path: "api/evaluations/%d/grades", OnFailure: action.RedirectBack},
	terms:        action.Descriptor{Name: "list-terms", Method: http.MethodGet, Path: "api/terms", OnFailure: action.ShowEmpty},
}

type evaluationPayload struct {
	EvaluationID int       `json:"evaluationID,omitempty"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Date         time.Time `json:"date"`
	CourseID     int       `json:"courseID"`
	TermID       int       `json:"termID"`
}

const evaluationDateLayout = "2006-01-02"

func courseEvaluationsPath(courseID int) string {
	return fmt.Sprintf("/admin/courses/%d/evaluations", courseID)
}

// EvaluationsData backs the per-course evaluation listing
type EvaluationsData struct {
	CourseID    int
	CourseName  string
	Evaluations []models.Evaluation
	Error       string
}

// ListEvaluationsHandler shows a course's evaluations
// (GET /admin/courses/{id}/evaluations)
func (s *Server) ListEvaluationsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		courseID, err := pathID(r)
		if err != nil {
			s.flashError(w, r, RouteAdminCourses, "Invalid course id")
			return
		}

		res := s.actions.Run(r.Context(), sess, evaluationActTable.listByCourse.Format(courseID), nil)
		if !s.guard(w, r, res) {
			return
		}

		data := EvaluationsData{CourseID: courseID, CourseName: "Course"}
		if res.Failed {
			data.Error = res.Flash
		} else if err := res.Decode(&data.Evaluations); err != nil {
			log.Err(err).Msg("ListEvaluations: could not decode evaluations")
		}

		// Dependent lookup for the page heading
		nameRes := s.actions.Run(r.Context(), sess, courseActTable.fetch.Format(courseID), nil)
		if !nameRes.Failed {
			var course models.Course
			if err := nameRes.Decode(&course); err == nil && course.Name != "" {
				data.CourseName = course.Name
			}
		}

		s.renderAdminPage(w, r, "courses", "Evaluations", "evaluations.html", data)
	}
}

// EvaluationFormData backs the create and edit evaluation forms
type EvaluationFormData struct {
	Editing      bool
	EvaluationID int
	Title        string
	Description  string
	Date         string // yyyy-mm-dd, as the date input expects
	CourseID     int
	TermID       int
	Terms        []models.Term
	Error        string
}

// loadTerms fetches the school's grading periods for the term dropdown.
// Soft-fails to an empty slice.
func (s *Server) loadTerms(r *http.Request) []models.Term {
	res := s.actions.Run(r.Context(), sessionFrom(r), evaluationActTable.terms, nil)
	if res.Failed {
		return nil
	}
	var terms []models.Term
	if err := res.Decode(&terms); err != nil {
		log.Err(err).Msg("loadTerms: could not decode terms")
		return nil
	}
	return terms
}

// CreateEvaluationFormHandler shows the new evaluation form
// (GET /admin/evaluations/new?courseId=)
func (s *Server) CreateEvaluationFormHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courseID, _ := strconv.Atoi(r.URL.Query().Get("courseId"))
		form := EvaluationFormData{CourseID: courseID, Terms: s.loadTerms(r)}
		s.renderAdminPage(w, r, "courses", "New Evaluation", "evaluation_form.html", form)
	}
}

// CreateEvaluationSubmissionHandler creates an evaluation
// (POST /admin/evaluations/new)
func (s *Server) CreateEvaluationSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		form := EvaluationFormData{
			Title:       r.FormValue("title"),
			Description: r.FormValue("description"),
			Date:        r.FormValue("date"),
			CourseID:    formInt(r, "courseId"),
			TermID:      formInt(r, "termId"),
		}

		reshow := func(errorMsg string) {
			form.Error = errorMsg
			form.Terms = s.loadTerms(r)
			s.renderAdminPage(w, r, "courses", "New Evaluation", "evaluation_form.html", form)
		}

		if form.Title == "" || form.CourseID == 0 {
			reshow("Title and course are required")
			return
		}

		date, err := time.Parse(evaluationDateLayout, form.Date)
		if err != nil {
			reshow("Enter a valid date")
			return
		}

		payload := evaluationPayload{
			Title:       form.Title,
			Description: form.Description,
			Date:        date,
			CourseID:    form.CourseID,
			TermID:      form.TermID,
		}
		res := s.actions.Run(r.Context(), sess, evaluationActTable.create, payload)
		if !s.guard(w, r, res) {
			return
		}
		if res.Failed {
			reshow(res.Flash)
			return
		}

		s.flashSuccess(w, r, courseEvaluationsPath(form.CourseID), "Evaluation created")
	}
}

// EditEvaluationFormHandler loads an evaluation into the edit form
// (GET /admin/evaluations/{id}/edit)
func (s *Server) EditEvaluationFormHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		id, err := pathID(r)
		if err != nil {
			s.flashError(w, r, RouteAdminCourses, "Invalid evaluation id")
			return
		}

		res := s.actions.Run(r.Context(), sess, evaluationActTable.fetch.Format(id), nil)
		if !s.guard(w, r, res) {
			return
		}
		if res.Failed {
			s.flashError(w, r, RouteAdminCourses, res.Flash)
			return
		}

		var evaluation models.Evaluation
		if err := res.Decode(&evaluation); err != nil {
			s.flashError(w, r, RouteAdminCourses, "Could not load the evaluation")
			return
		}

		form := EvaluationFormData{
			Editing:      true,
			EvaluationID: evaluation.EvaluationID,
			Title:        evaluation.Title,
			Description:  evaluation.Description,
			Date:         evaluation.Date.Format(evaluationDateLayout),
			CourseID:     evaluation.CourseID,
			TermID:       evaluation.TermID,
			Terms:        s.loadTerms(r),
		}
		s.renderAdminPage(w, r, "courses", "Edit Evaluation", "evaluation_form.html", form)
	}
}

// EditEvaluationSubmissionHandler saves evaluation changes
// (POST /admin/evaluations/{id}/edit)
func (s *Server) EditEvaluationSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		id, err := pathID(r)
		if err != nil {
			s.flashError(w, r, RouteAdminCourses, "Invalid evaluation id")
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		form := EvaluationFormData{
			Editing:      true,
			EvaluationID: id,
			Title:        r.FormValue("title"),
			Description:  r.FormValue("description"),
			Date:         r.FormValue("date"),
			CourseID:     formInt(r, "courseId"),
			TermID:       formInt(r, "termId"),
		}

		reshow := func(errorMsg string) {
			form.Error = errorMsg
			form.Terms = s.loadTerms(r)
			s.renderAdminPage(w, r, "courses", "Edit Evaluation", "evaluation_form.html", form)
		}

		date, err := time.Parse(evaluationDateLayout, form.Date)
		if err != nil {
			reshow("Enter a valid date")
			return
		}

		payload := evaluationPayload{
			EvaluationID: id,
			Title:        form.Title,
			Description:  form.Description,
			Date:         date,
			CourseID:     form.CourseID,
			TermID:       form.TermID,
		}
		res := s.actions.Run(r.Context(), sess, evaluationActTable.update.Format(id), payload)
		if !s.guard(w, r, res) {
			return
		}
		if res.Failed {
			reshow(res.Flash)
			return
		}

		s.flashSuccess(w, r, courseEvaluationsPath(form.CourseID), "Evaluation updated")
	}
}

// DeleteEvaluationHandler removes an evaluation
// (POST /admin/evaluations/{id}/delete)
func (s *Server) DeleteEvaluationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		id, err := pathID(r)
		if err != nil {
			s.flashError(w, r, RouteAdminCourses, "Invalid evaluation id")
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		// The course listing to return to travels with the form
		back := RouteAdminCourses
		if courseID := formInt(r, "courseId"); courseID != 0 {
			back = courseEvaluationsPath(courseID)
		}

		res := s.actions.Run(r.Context(), sess, evaluationActTable.remove.Format(id), nil)
		if !s.guard(w, r, res) {
			return
		}
		if res.Failed {
			s.flashError(w, r, back, res.Flash)
			return
		}

		s.flashSuccess(w, r, back, "Evaluation deleted")
	}
}

// GradesData backs the per-evaluation grade listing
type GradesData struct {
	EvaluationID    int
	EvaluationTitle string
	CourseID        int
	Grades          []models.Grade
}

// GradesHandler lists the grades recorded for an evaluation
// (GET /admin/evaluations/{id}/grades)
func (s *Server) GradesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		id, err := pathID(r)
		if err != nil {
			s.flashError(w, r, RouteAdminCourses, "Invalid evaluation id")
			return
		}

		res := s.actions.Run(r.Context(), sess, evaluationActTable.grades.Format(id), nil)
		if !s.guard(w, r, res) {
			return
		}
		if res.Failed {
			s.flashError(w, r, RouteAdminCourses, res.Flash)
			return
		}

		data := GradesData{EvaluationID: id, EvaluationTitle: "Evaluation"}
		if err := res.Decode(&data.Grades); err != nil {
			log.Err(err).Msg("Grades: could not decode grades")
		}

		// Dependent lookup for the page heading and back link
		nameRes := s.actions.Run(r.Context(), sess, evaluationActTable.fetch.Format(id), nil)
		if !nameRes.Failed {
			var evaluation models.Evaluation
			if err := nameRes.Decode(&evaluation); err == nil {
				if evaluation.Title != "" {
					data.EvaluationTitle = evaluation.Title
				}
				data.CourseID = evaluation.CourseID
			}
		}

		s.renderAdminPage(w, r, "courses", "Grades", "grades.html", data)
	}
}
