package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Auth Routes - Login & Logout
	RouteLogin      = "/login"
	RouteAuthLogin  = "/auth/login"
	RouteAuthLogout = "/auth/logout"

	// Operations
	RouteMetrics = "/metrics"

	// Admin Routes - Dashboard
	RouteAdminDashboard = "/admin/dashboard"

	// Admin Routes - Users & Students
	RouteAdminUsers           = "/admin/users"
	RouteAdminUserNew         = "/admin/users/new"
	RouteAdminUserEdit        = "/admin/users/{id}/edit"
	RouteAdminUserDelete      = "/admin/users/{id}/delete"
	RouteAdminUserCourses     = "/admin/users/{id}/courses"
	RouteAdminUserEnrollments = "/admin/users/{id}/enrollments"
	RouteAdminUserEnroll      = "/admin/users/{id}/enroll"
	RouteAdminUserSearch      = "/admin/users/search"
	RouteAdminStudents        = "/admin/students"

	// Admin Routes - Family Relationships
	RouteAdminRelationshipNew = "/admin/relationships/new"

	// Admin Routes - Courses
	RouteAdminCourses           = "/admin/courses"
	RouteAdminCourseNew         = "/admin/courses/new"
	RouteAdminCourseEdit        = "/admin/courses/{id}/edit"
	RouteAdminCourseDelete      = "/admin/courses/{id}/delete"
	RouteAdminCourseStudents    = "/admin/courses/{id}/students"
	RouteAdminCourseEvaluations = "/admin/courses/{id}/evaluations"

	// Admin Routes - Enrollments
	RouteAdminEnrollments      = "/admin/enrollments"
	RouteAdminEnrollmentDelete = "/admin/enrollments/{id}/delete"

	// Admin Routes - Classrooms
	RouteAdminClassrooms      = "/admin/classrooms"
	RouteAdminClassroomNew    = "/admin/classrooms/new"
	RouteAdminClassroomEdit   = "/admin/classrooms/{id}/edit"
	RouteAdminClassroomDelete = "/admin/classrooms/{id}/delete"
	RouteAdminClassroomAssign = "/admin/classrooms/assign"

	// Admin Routes - Notifications
	RouteAdminNotifications = "/admin/notifications"

	// Admin Routes - Evaluations & Grades
	RouteAdminEvaluationNew    = "/admin/evaluations/new"
	RouteAdminEvaluationEdit   = "/admin/evaluations/{id}/edit"
	RouteAdminEvaluationDelete = "/admin/evaluations/{id}/delete"
	RouteAdminEvaluationGrades = "/admin/evaluations/{id}/grades"

	// Admin Routes - Activities
	RouteAdminActivities     = "/admin/activities"
	RouteAdminActivityNew    = "/admin/activities/new"
	RouteAdminActivityEdit   = "/admin/activities/{id}/edit"
	RouteAdminActivityDelete = "/admin/activities/{id}/delete"
)
