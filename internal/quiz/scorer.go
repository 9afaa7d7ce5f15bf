package quiz

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// AttemptWriter persists a scored attempt together with its answer rows.
type AttemptWriter interface {
	CreateAttempt(ctx context.Context, a Attempt) error
}

// Scorer turns a full quiz plus a learner's raw answers into a persisted
// Attempt.
type Scorer struct {
	store AttemptWriter
	now   func() time.Time
}

func NewScorer(store AttemptWriter) *Scorer {
	return &Scorer{store: store, now: time.Now}
}

// Score evaluates every question in quiz order, missing submissions counting
// as empty, and persists the resulting attempt. TotalPoints covers the whole
// question set regardless of which questions were answered.
//
// When the write fails the computed attempt is still returned alongside the
// error so the caller can show the score; the write is not retried.
func (s *Scorer) Score(ctx context.Context, userID string, qz Quiz, answers map[string]string) (Attempt, error) {
	total := 0
	earned := 0
	evaluated := make([]EvaluatedAnswer, 0, len(qz.Questions))
	for _, q := range qz.Questions {
		pts := q.Points
		if pts <= 0 {
			pts = 1
		}
		total += pts
		ea := Evaluate(q, answers[q.ID])
		earned += ea.PointsEarned
		evaluated = append(evaluated, ea)
	}

	denom := total
	if denom < 1 {
		denom = 1
	}
	score := int(math.Round(float64(earned) / float64(denom) * 100))

	a := Attempt{
		ID:          uuid.NewString(),
		UserID:      userID,
		QuizID:      qz.ID,
		Answers:     evaluated,
		Score:       score,
		TotalPoints: total,
		Completed:   true,
		CreatedAt:   s.now().Unix(),
	}
	if err := s.store.CreateAttempt(ctx, a); err != nil {
		return a, fmt.Errorf("persist attempt: %w", err)
	}
	return a, nil
}
