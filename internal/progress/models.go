package progress

// Record is one lesson-progress row, unique per (user, lesson). Re-marking
// a lesson complete overwrites last_accessed rather than adding a row.
type Record struct {
	ID           string `json:"id"`
	UserID       string `json:"user_id"`
	CourseID     string `json:"course_id"`
	LessonID     string `json:"lesson_id"`
	Completed    bool   `json:"completed"`
	LastAccessed int64  `json:"last_accessed"`
}

// CourseSummary is a derived per-course view for one learner. Never persisted.
type CourseSummary struct {
	CourseID          string `json:"course_id"`
	TotalLessons      int    `json:"total_lessons"`
	CompletedLessons  int    `json:"completed_lessons"`
	CompletionPercent int    `json:"completion_percent"`
}

// LearnerSummary rolls a learner's progress and quiz attempts into the
// numbers the dashboards show.
type LearnerSummary struct {
	CompletedLessons int `json:"completed_lessons"`
	TotalLessons     int `json:"total_lessons"`
	AverageScore     int `json:"average_score"`
}
