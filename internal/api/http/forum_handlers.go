package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	auth "github.com/cambridgepathway/pathway-backend/internal/auth/middleware"
	"github.com/cambridgepathway/pathway-backend/internal/forum"
)

func ListPostsHandler(store forum.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := store.ListPosts(r.Context(), r.URL.Query().Get("course_id"))
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		if posts == nil {
			posts = []forum.Post{}
		}
		_ = json.NewEncoder(w).Encode(posts)
	}
}

type createPostRequest struct {
	CourseID string   `json:"course_id"`
	Title    string   `json:"title" validate:"required,min=3"`
	Content  string   `json:"content" validate:"required"`
	Tags     []string `json:"tags"`
}

func CreatePostHandler(store forum.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := auth.SubjectFromContext(r.Context())
		var req createPostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		p := forum.Post{
			ID:        uuid.NewString(),
			UserID:    sub,
			CourseID:  req.CourseID,
			Title:     req.Title,
			Content:   req.Content,
			Tags:      req.Tags,
			CreatedAt: time.Now().Unix(),
		}
		if err := store.CreatePost(r.Context(), p); err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(p)
	}
}

func ListRepliesHandler(store forum.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID := chi.URLParam(r, "postID")
		replies, err := store.Replies(r.Context(), postID)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		if replies == nil {
			replies = []forum.Reply{}
		}
		_ = json.NewEncoder(w).Encode(replies)
	}
}

func AddReplyHandler(store forum.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := auth.SubjectFromContext(r.Context())
		postID := chi.URLParam(r, "postID")
		var req struct {
			Content string `json:"content" validate:"required"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		reply := forum.Reply{
			ID:        uuid.NewString(),
			PostID:    postID,
			UserID:    sub,
			Content:   req.Content,
			CreatedAt: time.Now().Unix(),
		}
		if err := store.AddReply(r.Context(), reply); err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(reply)
	}
}

func VotePostHandler(store forum.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := auth.SubjectFromContext(r.Context())
		postID := chi.URLParam(r, "postID")
		var req struct {
			Upvote bool `json:"upvote"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := store.Vote(r.Context(), postID, sub, req.Upvote); err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}
