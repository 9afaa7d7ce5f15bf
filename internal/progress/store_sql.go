package progress

import (
	"context"
	"database/sql"
)

type Store interface {
	Upsert(ctx context.Context, rec Record) error
	ForUser(ctx context.Context, userID string) ([]Record, error)
	ForCourse(ctx context.Context, courseID string) ([]Record, error)
}

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

// Upsert keeps exactly one row per (user, lesson); a repeat write refreshes
// the completed flag and timestamp.
func (s *SQLStore) Upsert(ctx context.Context, rec Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO progress (id, user_id, course_id, lesson_id, completed, last_accessed)
		 VALUES ($1,$2,$3,$4,$5,$6)
		 ON CONFLICT (user_id, lesson_id) DO UPDATE SET
		   completed=EXCLUDED.completed, last_accessed=EXCLUDED.last_accessed`,
		rec.ID, rec.UserID, rec.CourseID, rec.LessonID, rec.Completed, rec.LastAccessed)
	return err
}

func (s *SQLStore) ForUser(ctx context.Context, userID string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, course_id, lesson_id, completed, last_accessed
		 FROM progress WHERE user_id=$1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

func (s *SQLStore) ForCourse(ctx context.Context, courseID string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, course_id, lesson_id, completed, last_accessed
		 FROM progress WHERE course_id=$1`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.UserID, &r.CourseID, &r.LessonID, &r.Completed, &r.LastAccessed); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
