package server

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/edusuite/school-admin-web/action"
	"github.com/edusuite/school-admin-web/models"
)

// activityActTable maps extracurricular activity pages to platform calls
var activityActTable = struct {
	list   action.Descriptor
	fetch  action.Descriptor
	create action.Descriptor
	update action.Descriptor
	remove action.Descriptor
}{
	list:   action.Descriptor{Name: "list-activities", Method: http.MethodGet, Path: "api/activities", OnFailure: action.ShowEmpty},
	fetch:  action.Descriptor{Name: "fetch-activity", Method: http.MethodGet, Path: "api/activities/%d", OnFailure: action.RedirectBack},
	create: action.Descriptor{Name: "create-activity", Method: http.MethodPost, Path: "api/activities/create", OnFailure: action.ReshowForm},
	update: action.Descriptor{Name: "update-activity", Method: http.MethodPut, Path: "api/activities/%d", OnFailure: action.ReshowForm},
	remove: action.Descriptor{Name: "delete-activity", Method: http.MethodDelete, Path: "api/activities/%d", OnFailure: action.RedirectBack},
}

type activityPayload struct {
	ActivityID  int    `json:"activityID,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description"`
	DayOfWeek   int    `json:"dayOfWeek"`
	UserID      *int   `json:"userID,omitempty"`
}

// ActivityRow pairs an activity with its supervisor's display name
type ActivityRow struct {
	models.Activity
	SupervisorName string
}

// ActivitiesListData backs the activity listing page
type ActivitiesListData struct {
	Activities []ActivityRow
	Error      string
}

// ActivityFormData backs the create and edit activity forms
type ActivityFormData struct {
	Editing     bool
	ActivityID  int
	Name        string
	Description string
	DayOfWeek   int
	UserID      int
	Teachers    []models.User
	Error       string
}

// ListActivitiesHandler shows the school's extracurricular activities
// (GET /admin/activities)
func (s *Server) ListActivitiesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)

		res := s.actions.Run(r.Context(), sess, activityActTable.list, nil)
		if !s.guard(w, r, res) {
			return
		}

		data := ActivitiesListData{}
		if res.Failed {
			data.Error = res.Flash
		} else {
			var activities []models.Activity
			if err := res.Decode(&activities); err != nil {
				log.Err(err).Msg("ListActivities: could not decode activities")
			}

			teachers := s.loadTeachers(r)
			for _, a := range activities {
				row := ActivityRow{Activity: a, SupervisorName: "Unsupervised"}
				if a.UserID != nil {
					if name := userName(teachers, *a.UserID); name != "" {
						row.SupervisorName = name
					}
				}
				data.Activities = append(data.Activities, row)
			}
		}

		s.renderAdminPage(w, r, "activities", "Activities", "activities.html", data)
	}
}

// CreateActivityFormHandler shows the new activity form
// (GET /admin/activities/new)
func (s *Server) CreateActivityFormHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form := ActivityFormData{Teachers: s.loadTeachers(r)}
		s.renderAdminPage(w, r, "activities", "New Activity", "activity_form.html", form)
	}
}

// CreateActivitySubmissionHandler creates an activity (POST /admin/activities)
func (s *Server) CreateActivitySubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		form := ActivityFormData{
			Name:        r.FormValue("name"),
			Description: r.FormValue("description"),
			DayOfWeek:   formInt(r, "dayOfWeek"),
			UserID:      formInt(r, "userID"),
		}

		if form.Name == "" {
			form.Error = "Activity name is required"
			form.Teachers = s.loadTeachers(r)
			s.renderAdminPage(w, r, "activities", "New Activity", "activity_form.html", form)
			return
		}

		res := s.actions.Run(r.Context(), sess, activityActTable.create, form.payload(0))
		if !s.guard(w, r, res) {
			return
		}
		if res.Failed {
			form.Error = res.Flash
			form.Teachers = s.loadTeachers(r)
			s.renderAdminPage(w, r, "activities", "New Activity", "activity_form.html", form)
			return
		}

		s.flashSuccess(w, r, RouteAdminActivities, "Activity created")
	}
}

// EditActivityFormHandler loads an activity into the edit form
// (GET /admin/activities/{id}/edit)
func (s *Server) EditActivityFormHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		id, err := pathID(r)
		if err != nil {
			s.flashError(w, r, RouteAdminActivities, "Invalid activity id")
			return
		}

		res := s.actions.Run(r.Context(), sess, activityActTable.fetch.Format(id), nil)
		if !s.guard(w, r, res) {
			return
		}
		if res.Failed {
			s.flashError(w, r, RouteAdminActivities, res.Flash)
			return
		}

		var activity models.Activity
		if err := res.Decode(&activity); err != nil {
			s.flashError(w, r, RouteAdminActivities, "Could not load the activity")
			return
		}

		form := ActivityFormData{
			Editing:     true,
			ActivityID:  activity.ActivityID,
			Name:        activity.Name,
			Description: activity.Description,
			DayOfWeek:   activity.DayOfWeek,
			Teachers:    s.loadTeachers(r),
		}
		if activity.UserID != nil {
			form.UserID = *activity.UserID
		}
		s.renderAdminPage(w, r, "activities", "Edit Activity", "activity_form.html", form)
	}
}

// EditActivitySubmissionHandler saves activity changes
// (POST /admin/activities/{id}/edit)
func (s *Server) EditActivitySubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		id, err := pathID(r)
		if err != nil {
			s.flashError(w, r, RouteAdminActivities, "Invalid activity id")
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		form := ActivityFormData{
			Editing:     true,
			ActivityID:  id,
			Name:        r.FormValue("name"),
			Description: r.FormValue("description"),
			DayOfWeek:   formInt(r, "dayOfWeek"),
			UserID:      formInt(r, "userID"),
		}

		res := s.actions.Run(r.Context(), sess, activityActTable.update.Format(id), form.payload(id))
		if !s.guard(w, r, res) {
			return
		}
		if res.Failed {
			form.Error = res.Flash
			form.Teachers = s.loadTeachers(r)
			s.renderAdminPage(w, r, "activities", "Edit Activity", "activity_form.html", form)
			return
		}

		s.flashSuccess(w, r, RouteAdminActivities, "Activity updated")
	}
}

// DeleteActivityHandler removes an activity (POST /admin/activities/{id}/delete)
func (s *Server) DeleteActivityHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		id, err := pathID(r)
		if err != nil {
			s.flashError(w, r, RouteAdminActivities, "Invalid activity id")
			return
		}

		res := s.actions.Run(r.Context(), sess, activityActTable.remove.Format(id), nil)
		if !s.guard(w, r, res) {
			return
		}
		if res.Failed {
			s.flashError(w, r, RouteAdminActivities, res.Flash)
			return
		}

		s.flashSuccess(w, r, RouteAdminActivities, "Activity deleted")
	}
}

func (f ActivityFormData) payload(id int) activityPayload {
	p := activityPayload{
		ActivityID:  id,
		Name:        f.Name,
		Description: f.Description,
		DayOfWeek:   f.DayOfWeek,
	}
	if f.UserID != 0 {
		userID := f.UserID
		p.UserID = &userID
	}
	return p
}
