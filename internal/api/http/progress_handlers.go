package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	auth "github.com/cambridgepathway/pathway-backend/internal/auth/middleware"
	"github.com/cambridgepathway/pathway-backend/internal/course"
	"github.com/cambridgepathway/pathway-backend/internal/progress"
)

// MarkLessonCompleteHandler upserts the caller's progress row for a lesson.
// Marking twice refreshes the timestamp on the same row.
func MarkLessonCompleteHandler(courses course.Store, store progress.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := auth.SubjectFromContext(r.Context())
		var req struct {
			CourseID string `json:"course_id" validate:"required"`
			LessonID string `json:"lesson_id" validate:"required"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if _, err := courses.Get(r.Context(), req.CourseID); err != nil {
			http.Error(w, "course not found", http.StatusNotFound)
			return
		}
		rec := progress.Record{
			ID:           uuid.NewString(),
			UserID:       sub,
			CourseID:     req.CourseID,
			LessonID:     req.LessonID,
			Completed:    true,
			LastAccessed: time.Now().Unix(),
		}
		if err := store.Upsert(r.Context(), rec); err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}
