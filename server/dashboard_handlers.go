package server

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/edusuite/school-admin-web/action"
	"github.com/edusuite/school-admin-web/models"
)

// dashboardActTable lists the aggregate calls behind the dashboard tiles
var dashboardActTable = struct {
	countUsers    action.Descriptor
	countStudents action.Descriptor
	countTeachers action.Descriptor
	countParents  action.Descriptor
	listCourses   action.Descriptor
}{
	countUsers:    action.Descriptor{Name: "count-users", Method: http.MethodGet, Path: "api/users/active-count", OnFailure: action.ShowEmpty},
	countStudents: action.Descriptor{Name: "count-students", Method: http.MethodGet, Path: "api/users/active-count-students", OnFailure: action.ShowEmpty},
	countTeachers: action.Descriptor{Name: "count-teachers", Method: http.MethodGet, Path: "api/users/active-count-teachers", OnFailure: action.ShowEmpty},
	countParents:  action.Descriptor{Name: "count-parents", Method: http.MethodGet, Path: "api/users/active-count-parents", OnFailure: action.ShowEmpty},
	listCourses:   action.Descriptor{Name: "list-courses", Method: http.MethodGet, Path: "api/courses", OnFailure: action.ShowEmpty},
}

// DashboardData contains the aggregate tiles for the landing page
type DashboardData struct {
	TotalUsers int
	Students   int
	Teachers   int
	Parents    int
	Courses    int
	Error      string
}

// DashboardHandler renders the admin landing page (GET /admin/dashboard)
func (s *Server) DashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		data := DashboardData{}

		count := func(d action.Descriptor, into *int) bool {
			res := s.actions.Run(r.Context(), sess, d, nil)
			if !s.guard(w, r, res) {
				return false
			}
			if res.Failed {
				data.Error = res.Flash
				return true
			}
			if err := res.Decode(into); err != nil {
				log.Err(err).Str("action", d.Name).Msg("Dashboard: could not decode count")
			}
			return true
		}

		if !count(dashboardActTable.countUsers, &data.TotalUsers) {
			return
		}
		if !count(dashboardActTable.countStudents, &data.Students) {
			return
		}
		if !count(dashboardActTable.countTeachers, &data.Teachers) {
			return
		}
		if !count(dashboardActTable.countParents, &data.Parents) {
			return
		}

		res := s.actions.Run(r.Context(), sess, dashboardActTable.listCourses, nil)
		if !s.guard(w, r, res) {
			return
		}
		if res.Failed {
			data.Error = res.Flash
		} else {
			var courses []models.Course
			if err := res.Decode(&courses); err == nil {
				data.Courses = len(courses)
			}
		}

		s.renderAdminPage(w, r, "dashboard", "Dashboard", "dashboard.html", data)
	}
}
