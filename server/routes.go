package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// protected wraps an admin handler in the HTML middleware chain plus
// session authentication
func (s *Server) protected(h http.HandlerFunc) http.HandlerFunc {
	return ChainMiddleware(h, s.HTMLMiddleWare(s.RequireSessionAuth())...)
}

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("GET /{$}", s.IndexHandler())

	// LOGIN
	s.RegisterRouteFunc("GET "+RouteLogin, ChainMiddleware(s.LoginPageUIHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteFunc("POST "+RouteAuthLogin, ChainMiddleware(s.LoginSubmissionHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteFunc("GET "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.HTMLMiddleWare()...))

	// Operations
	s.RegisterRouteHandler("GET "+RouteMetrics, promhttp.Handler())

	// Admin routes require a console session
	s.RegisterRouteFunc("GET "+RouteAdminDashboard, s.protected(s.DashboardHandler()))

	// Users & students
	s.RegisterRouteFunc("GET "+RouteAdminUsers, s.protected(s.ListUsersHandler()))
	s.RegisterRouteFunc("GET "+RouteAdminUserNew, s.protected(s.CreateUserFormHandler()))
	s.RegisterRouteFunc("POST "+RouteAdminUsers, s.protected(s.CreateUserSubmissionHandler()))
	s.RegisterRouteFunc("GET "+RouteAdminUserEdit, s.protected(s.EditUserFormHandler()))
	s.RegisterRouteFunc("POST "+RouteAdminUserEdit, s.protected(s.EditUserSubmissionHandler()))
	s.RegisterRouteFunc("POST "+RouteAdminUserDelete, s.protected(s.DeleteUserHandler()))
	s.RegisterRouteFunc("GET "+RouteAdminUserCourses, s.protected(s.TaughtCoursesHandler()))
	s.RegisterRouteFunc("GET "+RouteAdminUserSearch, s.protected(s.SearchUsersHandler()))
	s.RegisterRouteFunc("GET "+RouteAdminStudents, s.protected(s.ListStudentsHandler()))

	// Family relationships
	s.RegisterRouteFunc("GET "+RouteAdminRelationshipNew, s.protected(s.RelationshipFormHandler()))
	s.RegisterRouteFunc("POST "+RouteAdminRelationshipNew, s.protected(s.CreateRelationshipHandler()))

	// Courses
	s.RegisterRouteFunc("GET "+RouteAdminCourses, s.protected(s.ListCoursesHandler()))
	s.RegisterRouteFunc("GET "+RouteAdminCourseNew, s.protected(s.CreateCourseFormHandler()))
	s.RegisterRouteFunc("POST "+RouteAdminCourses, s.protected(s.CreateCourseSubmissionHandler()))
	s.RegisterRouteFunc("GET "+RouteAdminCourseEdit, s.protected(s.EditCourseFormHandler()))
	s.RegisterRouteFunc("POST "+RouteAdminCourseEdit, s.protected(s.EditCourseSubmissionHandler()))
	s.RegisterRouteFunc("POST "+RouteAdminCourseDelete, s.protected(s.DeleteCourseHandler()))
	s.RegisterRouteFunc("GET "+RouteAdminCourseStudents, s.protected(s.CourseStudentsHandler()))

	// Enrollments
	s.RegisterRouteFunc("GET "+RouteAdminUserEnrollments, s.protected(s.ViewEnrollmentsHandler()))
	s.RegisterRouteFunc("GET "+RouteAdminUserEnroll, s.protected(s.AssignCourseFormHandler()))
	s.RegisterRouteFunc("POST "+RouteAdminEnrollments, s.protected(s.CreateEnrollmentHandler()))
	s.RegisterRouteFunc("POST "+RouteAdminEnrollmentDelete, s.protected(s.DeleteEnrollmentHandler()))

	// Classrooms
	s.RegisterRouteFunc("GET "+RouteAdminClassrooms, s.protected(s.ListClassroomsHandler()))
	s.RegisterRouteFunc("GET "+RouteAdminClassroomNew, s.protected(s.CreateClassroomFormHandler()))
	s.RegisterRouteFunc("POST "+RouteAdminClassrooms, s.protected(s.CreateClassroomSubmissionHandler()))
	s.RegisterRouteFunc("GET "+RouteAdminClassroomEdit, s.protected(s.EditClassroomFormHandler()))
	s.RegisterRouteFunc("POST "+RouteAdminClassroomEdit, s.protected(s.EditClassroomSubmissionHandler()))
	s.RegisterRouteFunc("POST "+RouteAdminClassroomDelete, s.protected(s.DeleteClassroomHandler()))
	s.RegisterRouteFunc("GET "+RouteAdminClassroomAssign, s.protected(s.AssignStudentFormHandler()))
	s.RegisterRouteFunc("POST "+RouteAdminClassroomAssign, s.protected(s.AssignStudentSubmissionHandler()))

	// Notifications
	s.RegisterRouteFunc("GET "+RouteAdminNotifications, s.protected(s.NotificationFormHandler()))
	s.RegisterRouteFunc("POST "+RouteAdminNotifications, s.protected(s.SendNotificationHandler()))

	// Evaluations & grades
	s.RegisterRouteFunc("GET "+RouteAdminCourseEvaluations, s.protected(s.ListEvaluationsHandler()))
	s.RegisterRouteFunc("GET "+RouteAdminEvaluationNew, s.protected(s.CreateEvaluationFormHandler()))
	s.RegisterRouteFunc("POST "+RouteAdminEvaluationNew, s.protected(s.CreateEvaluationSubmissionHandler()))
	s.RegisterRouteFunc("GET "+RouteAdminEvaluationEdit, s.protected(s.EditEvaluationFormHandler()))
	s.RegisterRouteFunc("POST "+RouteAdminEvaluationEdit, s.protected(s.EditEvaluationSubmissionHandler()))
	s.RegisterRouteFunc("POST "+RouteAdminEvaluationDelete, s.protected(s.DeleteEvaluationHandler()))
	s.RegisterRouteFunc("GET "+RouteAdminEvaluationGrades, s.protected(s.GradesHandler()))

	// Activities
	s.RegisterRouteFunc("GET "+RouteAdminActivities, s.protected(s.ListActivitiesHandler()))
	s.RegisterRouteFunc("GET "+RouteAdminActivityNew, s.protected(s.CreateActivityFormHandler()))
	s.RegisterRouteFunc("POST "+RouteAdminActivities, s.protected(s.CreateActivitySubmissionHandler()))
	s.RegisterRouteFunc("GET "+RouteAdminActivityEdit, s.protected(s.EditActivityFormHandler()))
	s.RegisterRouteFunc("POST "+RouteAdminActivityEdit, s.protected(s.EditActivitySubmissionHandler()))
	s.RegisterRouteFunc("POST "+RouteAdminActivityDelete, s.protected(s.DeleteActivityHandler()))
}
