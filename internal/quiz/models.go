package quiz

// Question types supported by the auto-scorer.
const (
	TypeMultipleChoice = "multiple_choice"
	TypeShortAnswer    = "short_answer"
)

type Question struct {
	ID            string   `json:"id"`
	QuizID        string   `json:"quiz_id,omitempty"`
	Type          string   `json:"type"`
	Prompt        string   `json:"prompt"`
	Options       []string `json:"options,omitempty"` // multiple_choice only
	CorrectAnswer string   `json:"correct_answer,omitempty"`
	Points        int      `json:"points"`
	OrderIndex    int      `json:"order_index"`
}

type Quiz struct {
	ID        string     `json:"id"`
	LessonID  string     `json:"lesson_id"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// EvaluatedAnswer is one graded response. Immutable once produced.
type EvaluatedAnswer struct {
	QuestionID   string `json:"question_id"`
	Answer       string `json:"answer"` // trimmed submission
	IsCorrect    bool   `json:"is_correct"`
	PointsEarned int    `json:"points_earned"`
	Explanation  string `json:"explanation,omitempty"`
}

// Attempt is one scored submission. A retake is always a new Attempt.
type Attempt struct {
	ID          string            `json:"id"`
	UserID      string            `json:"user_id"`
	QuizID      string            `json:"quiz_id"`
	Answers     []EvaluatedAnswer `json:"answers,omitempty"`
	Score       int               `json:"score"` // percentage, 0-100
	TotalPoints int               `json:"total_points"`
	Completed   bool              `json:"completed"`
	CreatedAt   int64             `json:"created_at"`
}

// StripAnswerKeys clears grading fields before a quiz is served to a learner.
func StripAnswerKeys(q *Quiz) {
	for i := range q.Questions {
		q.Questions[i].CorrectAnswer = ""
	}
}
