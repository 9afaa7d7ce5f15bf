package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	auth "github.com/cambridgepathway/pathway-backend/internal/auth/middleware"
	"github.com/cambridgepathway/pathway-backend/internal/course"
)

func ListCoursesHandler(store course.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subject := r.URL.Query().Get("subject")
		cs, err := store.ListPublished(r.Context(), subject)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		if cs == nil {
			cs = []course.Course{}
		}
		_ = json.NewEncoder(w).Encode(cs)
	}
}

func GetCourseHandler(store course.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "courseID")
		c, err := store.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, course.ErrNotFound) {
				http.Error(w, "course not found", http.StatusNotFound)
				return
			}
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		lessons, err := store.Lessons(r.Context(), id)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"course": c, "lessons": lessons})
	}
}

func GetLessonHandler(store course.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courseID := chi.URLParam(r, "courseID")
		order, ok := orderParam(r)
		if !ok {
			http.Error(w, "bad order", http.StatusBadRequest)
			return
		}
		l, err := store.LessonByOrder(r.Context(), courseID, order)
		if err != nil {
			if errors.Is(err, course.ErrNotFound) {
				http.Error(w, "lesson not found", http.StatusNotFound)
				return
			}
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(l)
	}
}

func EnrollHandler(store course.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := auth.SubjectFromContext(r.Context())
		courseID := chi.URLParam(r, "courseID")
		if _, err := store.Get(r.Context(), courseID); err != nil {
			http.Error(w, "course not found", http.StatusNotFound)
			return
		}
		if err := store.Enroll(r.Context(), sub, courseID); err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "enrolled", "course_id": courseID})
	}
}
