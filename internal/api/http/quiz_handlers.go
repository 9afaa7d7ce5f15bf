package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	auth "github.com/cambridgepathway/pathway-backend/internal/auth/middleware"
	"github.com/cambridgepathway/pathway-backend/internal/course"
	"github.com/cambridgepathway/pathway-backend/internal/quiz"
)

func orderParam(r *http.Request) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, "order"))
	return n, err == nil && n > 0
}

// GetLessonQuizHandler resolves course+order to a lesson, then the lesson's
// quiz. The lesson lookup has to land first; the two reads are sequenced.
// Answer keys are stripped before the quiz goes out.
func GetLessonQuizHandler(courses course.Store, quizzes quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courseID := chi.URLParam(r, "courseID")
		order, ok := orderParam(r)
		if !ok {
			http.Error(w, "bad order", http.StatusBadRequest)
			return
		}
		lesson, err := courses.LessonByOrder(r.Context(), courseID, order)
		if err != nil {
			http.Error(w, "lesson not found", http.StatusNotFound)
			return
		}
		qz, err := quizzes.ForLesson(r.Context(), lesson.ID)
		if err != nil {
			if errors.Is(err, quiz.ErrNotFound) {
				http.Error(w, "no quiz for this lesson", http.StatusNotFound)
				return
			}
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		quiz.StripAnswerKeys(&qz)
		_ = json.NewEncoder(w).Encode(qz)
	}
}

// SubmitQuizHandler scores a submission and records the attempt. When the
// attempt row cannot be written the score is still returned; the submission
// is at-most-once and never retried.
func SubmitQuizHandler(quizzes quiz.Store, scorer *quiz.Scorer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := auth.SubjectFromContext(r.Context())
		quizID := chi.URLParam(r, "quizID")

		var req struct {
			Answers map[string]string `json:"answers"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}

		qz, err := quizzes.Get(r.Context(), quizID)
		if err != nil {
			if errors.Is(err, quiz.ErrNotFound) {
				http.Error(w, "quiz not found", http.StatusNotFound)
				return
			}
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}

		attempt, err := scorer.Score(r.Context(), sub, qz, req.Answers)
		if err != nil {
			log.Printf("attempt %s not persisted: %v", attempt.ID, err)
		}
		_ = json.NewEncoder(w).Encode(attempt)
	}
}

func MyAttemptsHandler(quizzes quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := auth.SubjectFromContext(r.Context())
		attempts, err := quizzes.AttemptsForUser(r.Context(), sub)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		if attempts == nil {
			attempts = []quiz.Attempt{}
		}
		_ = json.NewEncoder(w).Encode(attempts)
	}
}
