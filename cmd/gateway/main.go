package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	api "github.com/cambridgepathway/pathway-backend/internal/api/http"
	auth "github.com/cambridgepathway/pathway-backend/internal/auth/middleware"
	"github.com/cambridgepathway/pathway-backend/internal/config"
	"github.com/cambridgepathway/pathway-backend/internal/course"
	"github.com/cambridgepathway/pathway-backend/internal/dashboard"
	"github.com/cambridgepathway/pathway-backend/internal/db"
	"github.com/cambridgepathway/pathway-backend/internal/forum"
	"github.com/cambridgepathway/pathway-backend/internal/progress"
	"github.com/cambridgepathway/pathway-backend/internal/quiz"
	"github.com/cambridgepathway/pathway-backend/internal/rbac"
	"github.com/cambridgepathway/pathway-backend/internal/users"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	userStore := users.NewSQLStore(dbh)
	courseStore := course.NewSQLStore(dbh)
	progressStore := progress.NewSQLStore(dbh)
	quizStore := quiz.NewSQLStore(dbh)
	forumStore := forum.NewSQLStore(dbh)

	scorer := quiz.NewScorer(quizStore)
	builder := dashboard.NewBuilder(courseStore, progressStore, quizStore, userStore, forumStore)

	if cfg.AdminEmail != "" && cfg.AdminPassHash != "" {
		seedAdmin(ctx, dbh, cfg.AdminEmail, cfg.AdminPassHash)
	}

	authSvc := auth.NewAuthService(cfg.JWTSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Public surface: account creation, login, course catalogue.
	r.Post("/auth/signup", api.SignupHandler(userStore))
	r.Post("/auth/login", auth.LoginHandler(authSvc, userStore))
	r.Get("/courses", api.ListCoursesHandler(courseStore))
	r.Get("/courses/{courseID}", api.GetCourseHandler(courseStore))

	// Protected API (JWT → role from DB → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))
		pr.Use(auth.AttachRoleFromDB(dbh, cfg.Mode == config.ModeDev))

		pr.With(rbac.Require("course:enroll")).
			Post("/courses/{courseID}/enroll", api.EnrollHandler(courseStore))
		pr.With(rbac.Require("lesson:view")).
			Get("/courses/{courseID}/lessons/{order}", api.GetLessonHandler(courseStore))
		pr.With(rbac.Require("quiz:view")).
			Get("/courses/{courseID}/lessons/{order}/quiz", api.GetLessonQuizHandler(courseStore, quizStore))

		pr.With(rbac.Require("quiz:submit")).
			Post("/quizzes/{quizID}/attempts", api.SubmitQuizHandler(quizStore, scorer))
		pr.With(rbac.RequireAny("attempt:view-own", "attempt:view-all")).
			Get("/attempts", api.MyAttemptsHandler(quizStore))

		pr.With(rbac.Require("progress:write")).
			Post("/progress", api.MarkLessonCompleteHandler(courseStore, progressStore))

		pr.With(rbac.Require("dashboard:student")).
			Get("/dashboard/student", api.StudentDashboardHandler(builder))
		pr.With(rbac.Require("dashboard:parent")).
			Get("/dashboard/parent", api.ParentDashboardHandler(builder))
		pr.With(rbac.Require("dashboard:teacher")).
			Get("/dashboard/teacher", api.TeacherDashboardHandler(builder))
		pr.With(rbac.Require("dashboard:admin")).
			Get("/dashboard/admin", api.AdminDashboardHandler(builder))

		pr.With(rbac.Require("forum:view")).
			Get("/forum/posts", api.ListPostsHandler(forumStore))
		pr.With(rbac.Require("forum:post")).
			Post("/forum/posts", api.CreatePostHandler(forumStore))
		pr.With(rbac.Require("forum:view")).
			Get("/forum/posts/{postID}/replies", api.ListRepliesHandler(forumStore))
		pr.With(rbac.Require("forum:post")).
			Post("/forum/posts/{postID}/replies", api.AddReplyHandler(forumStore))
		pr.With(rbac.Require("forum:vote")).
			Post("/forum/posts/{postID}/vote", api.VotePostHandler(forumStore))

		pr.With(rbac.Require("profile:view")).
			Get("/profile", api.ProfileHandler(userStore))
		pr.With(rbac.Require("profile:update")).
			Put("/profile", api.UpdateProfileHandler(userStore))
		pr.With(rbac.Require("dashboard:parent")).
			Post("/profile/children", api.LinkChildHandler(userStore))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}

func seedAdmin(ctx context.Context, dbh *sql.DB, email, passHash string) {
	var exists int
	err := dbh.QueryRowContext(ctx, `SELECT 1 FROM users WHERE email=$1`, email).Scan(&exists)
	if err == nil {
		return
	}
	_, err = dbh.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, role, first_name, last_name, locale, created_at)
		 VALUES ($1,$2,$3,'admin','Platform','Admin','en',$4)`,
		uuid.NewString(), email, passHash, time.Now().Unix())
	if err != nil {
		log.Printf("seed admin: %v", err)
	}
}
