package quiz

import (
	"fmt"
	"strings"
)

// Evaluate grades a single submission against a question. Pure function:
// no store access, no error conditions. An empty or missing submission is
// simply incorrect.
//
// Multiple-choice answers compare case-sensitively (the submission is one
// of the stored options verbatim). Short answers compare case-insensitively.
// Both sides of the comparison see the submission trimmed of surrounding
// whitespace.
func Evaluate(q Question, submitted string) EvaluatedAnswer {
	ans := strings.TrimSpace(submitted)
	pts := q.Points
	if pts <= 0 {
		pts = 1
	}

	var correct bool
	switch q.Type {
	case TypeShortAnswer:
		correct = strings.ToLower(ans) == strings.ToLower(q.CorrectAnswer)
	default: // multiple_choice and any unrecognized type: exact match
		correct = ans == q.CorrectAnswer
	}

	ea := EvaluatedAnswer{QuestionID: q.ID, Answer: ans, IsCorrect: correct}
	if correct {
		ea.PointsEarned = pts
		ea.Explanation = "Correct!"
		return ea
	}
	if q.Type == TypeShortAnswer {
		ea.Explanation = fmt.Sprintf("The correct answer is %q (any capitalization accepted).", q.CorrectAnswer)
	} else {
		ea.Explanation = fmt.Sprintf("The correct answer is %q.", q.CorrectAnswer)
	}
	return ea
}
