package quiz_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/cambridgepathway/pathway-backend/internal/db"
	"github.com/cambridgepathway/pathway-backend/internal/quiz"
)

func openQuizDB(t *testing.T, name string) (*sql.DB, *quiz.SQLStore) {
	t.Helper()
	dbh, err := db.Open(context.Background(), db.DriverSQLite, "file:"+name+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { dbh.Close() })

	seed := []string{
		`INSERT INTO users (id,email,password_hash,role,created_at) VALUES ('u1','u1@test','x','student',0)`,
		`INSERT INTO courses (id,title,subject,created_at) VALUES ('c1','Algebra','math',0)`,
		`INSERT INTO lessons (id,course_id,title,order_index) VALUES ('l1','c1','Fractions',1)`,
		`INSERT INTO quizzes (id,lesson_id,title) VALUES ('qz1','l1','Fractions check')`,
		`INSERT INTO questions (id,quiz_id,type,prompt,options_json,correct_answer,points,order_index)
		 VALUES ('q2','qz1','short_answer','Capital of France?','[]','Paris',2,2)`,
		`INSERT INTO questions (id,quiz_id,type,prompt,options_json,correct_answer,points,order_index)
		 VALUES ('q1','qz1','multiple_choice','1/2 + 1/2?','["1","2"]','1',1,1)`,
	}
	for _, q := range seed {
		if _, err := dbh.Exec(q); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return dbh, quiz.NewSQLStore(dbh)
}

func TestForLesson_OrdersQuestions(t *testing.T) {
	_, store := openQuizDB(t, "quiz_order")

	qz, err := store.ForLesson(context.Background(), "l1")
	if err != nil {
		t.Fatalf("for lesson: %v", err)
	}
	if len(qz.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(qz.Questions))
	}
	// Seeded out of order; the store must return quiz-defined order.
	if qz.Questions[0].ID != "q1" || qz.Questions[1].ID != "q2" {
		t.Fatalf("questions out of order: %s, %s", qz.Questions[0].ID, qz.Questions[1].ID)
	}
	if len(qz.Questions[0].Options) != 2 {
		t.Fatalf("options should round-trip, got %v", qz.Questions[0].Options)
	}
}

func TestForLesson_NoQuiz(t *testing.T) {
	_, store := openQuizDB(t, "quiz_missing")

	_, err := store.ForLesson(context.Background(), "l-none")
	if !errors.Is(err, quiz.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateAttempt_WritesAnswerRows(t *testing.T) {
	dbh, store := openQuizDB(t, "quiz_attempt")
	ctx := context.Background()

	a := quiz.Attempt{
		ID: "a1", UserID: "u1", QuizID: "qz1", Score: 67, TotalPoints: 3, Completed: true, CreatedAt: 10,
		Answers: []quiz.EvaluatedAnswer{
			{QuestionID: "q1", Answer: "1", IsCorrect: true, PointsEarned: 1},
			{QuestionID: "q2", Answer: "Lyon", IsCorrect: false, PointsEarned: 0},
		},
	}
	if err := store.CreateAttempt(ctx, a); err != nil {
		t.Fatalf("create attempt: %v", err)
	}

	var n int
	if err := dbh.QueryRow(`SELECT COUNT(*) FROM quiz_answers WHERE attempt_id='a1'`).Scan(&n); err != nil {
		t.Fatalf("count answers: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 answer rows, got %d", n)
	}

	attempts, err := store.AttemptsForUser(ctx, "u1")
	if err != nil {
		t.Fatalf("attempts for user: %v", err)
	}
	if len(attempts) != 1 || attempts[0].Score != 67 {
		t.Fatalf("unexpected attempts: %+v", attempts)
	}
}

func TestAttemptsForCourse_JoinsThroughLessons(t *testing.T) {
	_, store := openQuizDB(t, "quiz_course_join")
	ctx := context.Background()

	for _, a := range []quiz.Attempt{
		{ID: "a1", UserID: "u1", QuizID: "qz1", Score: 50, TotalPoints: 3, Completed: true, CreatedAt: 1},
		{ID: "a2", UserID: "u1", QuizID: "qz1", Score: 100, TotalPoints: 3, Completed: true, CreatedAt: 2},
	} {
		if err := store.CreateAttempt(ctx, a); err != nil {
			t.Fatalf("create attempt: %v", err)
		}
	}

	attempts, err := store.AttemptsForCourse(ctx, "c1")
	if err != nil {
		t.Fatalf("attempts for course: %v", err)
	}
	if len(attempts) != 2 {
		t.Fatalf("expected both retakes, got %d", len(attempts))
	}

	n, err := store.CountAttempts(ctx)
	if err != nil || n != 2 {
		t.Fatalf("count attempts = %d, %v", n, err)
	}
}
