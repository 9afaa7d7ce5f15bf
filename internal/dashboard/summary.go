package dashboard

import "github.com/cambridgepathway/pathway-backend/internal/progress"

// Session carries the authenticated caller's identity into a build. Built
// once per request from the token context; builders never read ambient
// state.
type Session struct {
	UserID string
	Role   string
	Locale string
}

// One summary type per role. Shapes are closed: a student payload never
// carries parent fields and vice versa.

type StudentSummary struct {
	TotalCourses     int                      `json:"total_courses"`
	CompletedLessons int                      `json:"completed_lessons"`
	TotalLessons     int                      `json:"total_lessons"`
	AverageScore     int                      `json:"average_score"`
	Courses          []progress.CourseSummary `json:"courses"`
}

type ChildSummary struct {
	StudentID        string                   `json:"student_id"`
	FirstName        string                   `json:"first_name"`
	LastName         string                   `json:"last_name"`
	TotalCourses     int                      `json:"total_courses"`
	CompletedLessons int                      `json:"completed_lessons"`
	TotalLessons     int                      `json:"total_lessons"`
	AverageScore     int                      `json:"average_score"`
	LastActivity     int64                    `json:"last_activity,omitempty"`
	Courses          []progress.CourseSummary `json:"courses"`
}

type ParentSummary struct {
	Children []ChildSummary `json:"children"`
}

// CourseStats is a per-course rollup over that course's enrolled population.
type CourseStats struct {
	CourseID          string `json:"course_id"`
	Title             string `json:"title"`
	Subject           string `json:"subject"`
	Level             string `json:"level"`
	EnrolledStudents  int    `json:"enrolled_students"`
	CompletionPercent int    `json:"completion_percent"`
	AverageScore      int    `json:"average_score"`
}

type TeacherSummary struct {
	TotalCourses  int           `json:"total_courses"`
	TotalStudents int           `json:"total_students"` // unique across assigned courses
	Courses       []CourseStats `json:"courses"`
}

type AdminSummary struct {
	TotalUsers        int           `json:"total_users"`
	TotalStudents     int           `json:"total_students"`
	TotalTeachers     int           `json:"total_teachers"`
	TotalParents      int           `json:"total_parents"`
	TotalCourses      int           `json:"total_courses"`
	TotalLessons      int           `json:"total_lessons"`
	ActiveEnrollments int           `json:"active_enrollments"`
	ForumPosts        int           `json:"forum_posts"`
	QuizAttempts      int           `json:"quiz_attempts"`
	Courses           []CourseStats `json:"courses"`
}
