package http

import (
	"encoding/json"
	"net/http"

	auth "github.com/cambridgepathway/pathway-backend/internal/auth/middleware"
	"github.com/cambridgepathway/pathway-backend/internal/dashboard"
	"github.com/cambridgepathway/pathway-backend/internal/rbac"
)

func sessionFrom(r *http.Request) dashboard.Session {
	return dashboard.Session{
		UserID: auth.SubjectFromContext(r.Context()),
		Role:   rbac.RoleFromContext(r.Context()),
	}
}

func StudentDashboardHandler(b *dashboard.Builder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(b.Student(r.Context(), sessionFrom(r)))
	}
}

func ParentDashboardHandler(b *dashboard.Builder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(b.Parent(r.Context(), sessionFrom(r)))
	}
}

func TeacherDashboardHandler(b *dashboard.Builder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(b.Teacher(r.Context(), sessionFrom(r)))
	}
}

func AdminDashboardHandler(b *dashboard.Builder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(b.Admin(r.Context(), sessionFrom(r)))
	}
}
