package progress

import (
	"math"

	"github.com/cambridgepathway/pathway-backend/internal/quiz"
)

// SummarizeCourse computes one learner's completion for a single course.
// totalLessons is the number of lessons that exist in the course, which may
// exceed the rows in rows: lessons never opened are implicitly incomplete.
func SummarizeCourse(courseID string, totalLessons int, rows []Record) CourseSummary {
	completed := 0
	for _, r := range rows {
		if r.CourseID == courseID && r.Completed {
			completed++
		}
	}
	return CourseSummary{
		CourseID:          courseID,
		TotalLessons:      totalLessons,
		CompletedLessons:  completed,
		CompletionPercent: Percent(completed, totalLessons),
	}
}

// SummarizeLearner rolls all of a learner's progress rows and quiz attempts
// into one summary. totalLessons spans every enrolled course.
func SummarizeLearner(totalLessons int, rows []Record, attempts []quiz.Attempt) LearnerSummary {
	completed := 0
	for _, r := range rows {
		if r.Completed {
			completed++
		}
	}
	return LearnerSummary{
		CompletedLessons: completed,
		TotalLessons:     totalLessons,
		AverageScore:     AverageScore(attempts),
	}
}

// AverageScore is the rounded mean score over completed attempts, 0 when
// there are none.
func AverageScore(attempts []quiz.Attempt) int {
	sum, n := 0, 0
	for _, a := range attempts {
		if !a.Completed {
			continue
		}
		sum += a.Score
		n++
	}
	if n == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(n)))
}

// Percent is round(n/d*100), 0 when d is not positive.
func Percent(n, d int) int {
	if d <= 0 {
		return 0
	}
	return int(math.Round(float64(n) / float64(d) * 100))
}
