package forum

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

var ErrNotFound = errors.New("forum: not found")

type Store interface {
	CreatePost(ctx context.Context, p Post) error
	ListPosts(ctx context.Context, courseID string) ([]Post, error)
	AddReply(ctx context.Context, r Reply) error
	Replies(ctx context.Context, postID string) ([]Reply, error)
	Vote(ctx context.Context, postID, userID string, upvote bool) error
	CountPosts(ctx context.Context) (int, error)
}

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) CreatePost(ctx context.Context, p Post) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO forum_posts (id, user_id, course_id, title, content, tags, is_resolved, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		p.ID, p.UserID, p.CourseID, p.Title, p.Content, strings.Join(p.Tags, ","), p.Resolved, p.CreatedAt)
	return err
}

// ListPosts returns newest-first posts with vote and reply tallies joined in.
func (s *SQLStore) ListPosts(ctx context.Context, courseID string) ([]Post, error) {
	q := `SELECT p.id, p.user_id, COALESCE(p.course_id,''), p.title, p.content, p.tags, p.is_resolved, p.created_at,
	        (SELECT COUNT(*) FROM forum_votes v WHERE v.post_id=p.id AND v.is_upvote=$1),
	        (SELECT COUNT(*) FROM forum_votes v WHERE v.post_id=p.id AND v.is_upvote=$2),
	        (SELECT COUNT(*) FROM forum_replies r WHERE r.post_id=p.id)
	      FROM forum_posts p`
	args := []any{true, false}
	if courseID != "" {
		q += ` WHERE p.course_id=$3`
		args = append(args, courseID)
	}
	q += ` ORDER BY p.created_at DESC`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Post
	for rows.Next() {
		var p Post
		var tags string
		if err := rows.Scan(&p.ID, &p.UserID, &p.CourseID, &p.Title, &p.Content, &tags, &p.Resolved, &p.CreatedAt,
			&p.Upvotes, &p.Downvotes, &p.ReplyCount); err != nil {
			return nil, err
		}
		if tags != "" {
			p.Tags = strings.Split(tags, ",")
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQLStore) AddReply(ctx context.Context, r Reply) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO forum_replies (id, post_id, user_id, content, is_accepted, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		r.ID, r.PostID, r.UserID, r.Content, r.Accepted, r.CreatedAt)
	return err
}

func (s *SQLStore) Replies(ctx context.Context, postID string) ([]Reply, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, post_id, user_id, content, is_accepted, created_at
		 FROM forum_replies WHERE post_id=$1 ORDER BY created_at`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Reply
	for rows.Next() {
		var r Reply
		if err := rows.Scan(&r.ID, &r.PostID, &r.UserID, &r.Content, &r.Accepted, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Vote toggles: same direction removes the vote, opposite direction flips it,
// no prior vote inserts one. One row per (post, user).
func (s *SQLStore) Vote(ctx context.Context, postID, userID string, upvote bool) error {
	var existing bool
	err := s.db.QueryRowContext(ctx,
		`SELECT is_upvote FROM forum_votes WHERE post_id=$1 AND user_id=$2`, postID, userID).Scan(&existing)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = s.db.ExecContext(ctx,
			`INSERT INTO forum_votes (post_id, user_id, is_upvote) VALUES ($1,$2,$3)`, postID, userID, upvote)
		return err
	case err != nil:
		return err
	case existing == upvote:
		_, err = s.db.ExecContext(ctx,
			`DELETE FROM forum_votes WHERE post_id=$1 AND user_id=$2`, postID, userID)
		return err
	default:
		_, err = s.db.ExecContext(ctx,
			`UPDATE forum_votes SET is_upvote=$1 WHERE post_id=$2 AND user_id=$3`, upvote, postID, userID)
		return err
	}
}

func (s *SQLStore) CountPosts(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM forum_posts`).Scan(&n)
	return n, err
}
