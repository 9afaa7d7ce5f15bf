package quiz

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

var ErrNotFound = errors.New("quiz: not found")

// Store is the data-access contract for quizzes and attempts.
type Store interface {
	ForLesson(ctx context.Context, lessonID string) (Quiz, error)
	Get(ctx context.Context, id string) (Quiz, error)
	CreateAttempt(ctx context.Context, a Attempt) error
	AttemptsForUser(ctx context.Context, userID string) ([]Attempt, error)
	AttemptsForCourse(ctx context.Context, courseID string) ([]Attempt, error)
	CountAttempts(ctx context.Context) (int, error)
}

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) ForLesson(ctx context.Context, lessonID string) (Quiz, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, lesson_id, title FROM quizzes WHERE lesson_id=$1`, lessonID)
	return s.scanQuiz(ctx, row)
}

func (s *SQLStore) Get(ctx context.Context, id string) (Quiz, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, lesson_id, title FROM quizzes WHERE id=$1`, id)
	return s.scanQuiz(ctx, row)
}

func (s *SQLStore) scanQuiz(ctx context.Context, row *sql.Row) (Quiz, error) {
	var q Quiz
	if err := row.Scan(&q.ID, &q.LessonID, &q.Title); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Quiz{}, ErrNotFound
		}
		return Quiz{}, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, type, prompt, options_json, correct_answer, points, order_index
		 FROM questions WHERE quiz_id=$1 ORDER BY order_index`, q.ID)
	if err != nil {
		return Quiz{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var qu Question
		var optsJSON string
		if err := rows.Scan(&qu.ID, &qu.Type, &qu.Prompt, &optsJSON, &qu.CorrectAnswer, &qu.Points, &qu.OrderIndex); err != nil {
			return Quiz{}, err
		}
		qu.QuizID = q.ID
		if err := json.Unmarshal([]byte(optsJSON), &qu.Options); err != nil {
			qu.Options = nil
		}
		q.Questions = append(q.Questions, qu)
	}
	return q, rows.Err()
}

// CreateAttempt writes the attempt row and its answer rows in one
// transaction so a partial attempt never becomes visible.
func (s *SQLStore) CreateAttempt(ctx context.Context, a Attempt) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO quiz_attempts (id, user_id, quiz_id, score, total_points, completed, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		a.ID, a.UserID, a.QuizID, a.Score, a.TotalPoints, a.Completed, a.CreatedAt); err != nil {
		return err
	}
	for _, ans := range a.Answers {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO quiz_answers (attempt_id, question_id, answer_text, is_correct, points_earned)
			 VALUES ($1,$2,$3,$4,$5)`,
			a.ID, ans.QuestionID, ans.Answer, ans.IsCorrect, ans.PointsEarned); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLStore) AttemptsForUser(ctx context.Context, userID string) ([]Attempt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, quiz_id, score, total_points, completed, created_at
		 FROM quiz_attempts WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAttempts(rows)
}

// AttemptsForCourse joins attempts through quizzes and lessons back to the
// owning course.
func (s *SQLStore) AttemptsForCourse(ctx context.Context, courseID string) ([]Attempt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT a.id, a.user_id, a.quiz_id, a.score, a.total_points, a.completed, a.created_at
		 FROM quiz_attempts a
		 JOIN quizzes q ON q.id = a.quiz_id
		 JOIN lessons l ON l.id = q.lesson_id
		 WHERE l.course_id=$1`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAttempts(rows)
}

func (s *SQLStore) CountAttempts(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM quiz_attempts`).Scan(&n)
	return n, err
}

func scanAttempts(rows *sql.Rows) ([]Attempt, error) {
	var out []Attempt
	for rows.Next() {
		var a Attempt
		if err := rows.Scan(&a.ID, &a.UserID, &a.QuizID, &a.Score, &a.TotalPoints, &a.Completed, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
