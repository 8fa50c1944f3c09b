// Package models holds the transport records exchanged with the school
// platform API. They are plain DTOs: the API owns the data, this
// application only displays it.
package models

import "time"

// Role ids as assigned by the platform API.
const (
	RoleStudent = 1
	RoleTeacher = 2
	RoleParent  = 3
)

// User is the platform user record. SchoolID is a pointer because the
// API omits it for accounts that are not attached to a school yet.
type User struct {
	UserID   int    `json:"userID"`
	UserName string `json:"userName"`
	Email    string `json:"email"`
	RoleID   int    `json:"roleID"`
	SchoolID *int   `json:"schoolID"`
}

// AuthResponse is the body returned by the login endpoint.
type AuthResponse struct {
	Token string `json:"token"`
}

type Course struct {
	CourseID    int    `json:"courseID"`
	Name        string `json:"name"`
	Description string `json:"description"`
	DayOfWeek   int    `json:"dayOfWeek"`
	UserID      int    `json:"userID"` // teacher
}

type Enrollment struct {
	EnrollmentID int    `json:"enrollmentID"`
	UserID       int    `json:"userID"`
	CourseID     int    `json:"courseID"`
	UserName     string `json:"userName,omitempty"`
	CourseName   string `json:"courseName,omitempty"`
}

type Classroom struct {
	ClassroomID int    `json:"classroomID"`
	Name        string `json:"name"`
	Capacity    int    `json:"capacity"`
	SchoolID    int    `json:"schoolID"`
}

type Relationship struct {
	User1ID          int    `json:"user1ID"`
	User2ID          int    `json:"user2ID"`
	RelationshipType string `json:"relationshipType"`
}

type Notification struct {
	Title   string    `json:"title"`
	Content string    `json:"content"`
	Date    time.Time `json:"date"`
	IsRead  bool      `json:"isRead"`
	UserID  int       `json:"userID"`
}

type Evaluation struct {
	EvaluationID int       `json:"evaluationID"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Date         time.Time `json:"date"`
	CourseID     int       `json:"courseID"`
	TermID       int       `json:"termID"`
}

// Term is a grading period.
type Term struct {
	TermID    int       `json:"termID"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

type Grade struct {
	EvaluationID int      `json:"evaluationID"`
	UserID       int      `json:"userID"`
	UserName     string   `json:"userName,omitempty"`
	GradeValue   *float64 `json:"gradeValue"`
	Comments     string   `json:"comments,omitempty"`
	HasGrade     bool     `json:"hasGrade"`
}

// Activity is an extracurricular activity.
type Activity struct {
	ActivityID  int    `json:"activityID"`
	Name        string `json:"name"`
	Description string `json:"description"`
	DayOfWeek   int    `json:"dayOfWeek"`
	UserID      *int   `json:"userID"` // supervising teacher, optional
	SchoolID    int    `json:"schoolID"`
}
