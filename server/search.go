package server

import (
	"strings"

	"github.com/edusuite/school-admin-web/models"
)

// filterUsersByName returns the users whose name contains the term,
// case-insensitively, preserving the original order. An empty term
// returns the input unchanged.
func filterUsersByName(users []models.User, term string) []models.User {
	if term == "" {
		return users
	}
	term = strings.ToLower(term)
	filtered := make([]models.User, 0, len(users))
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.UserName), term) {
			filtered = append(filtered, u)
		}
	}
	return filtered
}

// filterCoursesByName returns the courses whose name contains the term,
// case-insensitively, preserving the original order.
func filterCoursesByName(courses []models.Course, term string) []models.Course {
	if term == "" {
		return courses
	}
	term = strings.ToLower(term)
	filtered := make([]models.Course, 0, len(courses))
	for _, c := range courses {
		if strings.Contains(strings.ToLower(c.Name), term) {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

// usersByRole returns the users holding the given role, preserving order
func usersByRole(users []models.User, roleID int) []models.User {
	filtered := make([]models.User, 0, len(users))
	for _, u := range users {
		if u.RoleID == roleID {
			filtered = append(filtered, u)
		}
	}
	return filtered
}

// userName looks up a user's display name by id, returning "" when absent
func userName(users []models.User, userID int) string {
	for _, u := range users {
		if u.UserID == userID {
			return u.UserName
		}
	}
	return ""
}
