package course

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var ErrNotFound = errors.New("course: not found")

type Store interface {
	ListPublished(ctx context.Context, subject string) ([]Course, error)
	ListAll(ctx context.Context) ([]Course, error)
	Get(ctx context.Context, id string) (Course, error)
	Lessons(ctx context.Context, courseID string) ([]Lesson, error)
	LessonByOrder(ctx context.Context, courseID string, order int) (Lesson, error)
	CountLessons(ctx context.Context) (int, error)
	CountLessonsIn(ctx context.Context, courseID string) (int, error)
	Enroll(ctx context.Context, userID, courseID string) error
	EnrolledCourses(ctx context.Context, userID string) ([]Course, error)
	Enrollments(ctx context.Context, courseID string) ([]Enrollment, error)
	CountActiveEnrollments(ctx context.Context) (int, error)
	CoursesForTeacher(ctx context.Context, teacherID string) ([]Course, error)
}

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

const courseCols = `id, title, description, subject, level, image_url, is_published, created_at`

func (s *SQLStore) ListPublished(ctx context.Context, subject string) ([]Course, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if subject == "" {
		rows, err = s.db.QueryContext(ctx,
			`SELECT `+courseCols+` FROM courses WHERE is_published=$1 ORDER BY title`, true)
	} else {
		rows, err = s.db.QueryContext(ctx,
			`SELECT `+courseCols+` FROM courses WHERE is_published=$1 AND subject=$2 ORDER BY title`, true, subject)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCourses(rows)
}

func (s *SQLStore) ListAll(ctx context.Context) ([]Course, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+courseCols+` FROM courses ORDER BY title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCourses(rows)
}

func (s *SQLStore) Get(ctx context.Context, id string) (Course, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+courseCols+` FROM courses WHERE id=$1`, id)
	var c Course
	if err := row.Scan(&c.ID, &c.Title, &c.Description, &c.Subject, &c.Level, &c.ImageURL, &c.Published, &c.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Course{}, ErrNotFound
		}
		return Course{}, err
	}
	return c, nil
}

const lessonCols = `id, course_id, title, description, content, video_url, order_index, duration_min`

func (s *SQLStore) Lessons(ctx context.Context, courseID string) ([]Lesson, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+lessonCols+` FROM lessons WHERE course_id=$1 ORDER BY order_index`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Lesson
	for rows.Next() {
		var l Lesson
		if err := rows.Scan(&l.ID, &l.CourseID, &l.Title, &l.Description, &l.Content, &l.VideoURL, &l.OrderIndex, &l.DurationMin); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *SQLStore) LessonByOrder(ctx context.Context, courseID string, order int) (Lesson, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+lessonCols+` FROM lessons WHERE course_id=$1 AND order_index=$2`, courseID, order)
	var l Lesson
	if err := row.Scan(&l.ID, &l.CourseID, &l.Title, &l.Description, &l.Content, &l.VideoURL, &l.OrderIndex, &l.DurationMin); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Lesson{}, ErrNotFound
		}
		return Lesson{}, err
	}
	return l, nil
}

func (s *SQLStore) CountLessons(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM lessons`).Scan(&n)
	return n, err
}

func (s *SQLStore) CountLessonsIn(ctx context.Context, courseID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM lessons WHERE course_id=$1`, courseID).Scan(&n)
	return n, err
}

// Enroll activates (or re-activates) the learner's enrollment.
func (s *SQLStore) Enroll(ctx context.Context, userID, courseID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO enrollments (user_id, course_id, is_active, created_at)
		 VALUES ($1,$2,$3,$4)
		 ON CONFLICT (user_id, course_id) DO UPDATE SET is_active=EXCLUDED.is_active`,
		userID, courseID, true, time.Now().Unix())
	return err
}

func (s *SQLStore) EnrolledCourses(ctx context.Context, userID string) ([]Course, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.id, c.title, c.description, c.subject, c.level, c.image_url, c.is_published, c.created_at
		 FROM courses c
		 JOIN enrollments e ON e.course_id = c.id
		 WHERE e.user_id=$1 AND e.is_active=$2 ORDER BY c.title`, userID, true)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCourses(rows)
}

func (s *SQLStore) Enrollments(ctx context.Context, courseID string) ([]Enrollment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, course_id, is_active FROM enrollments WHERE course_id=$1 AND is_active=$2`,
		courseID, true)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Enrollment
	for rows.Next() {
		var e Enrollment
		if err := rows.Scan(&e.UserID, &e.CourseID, &e.Active); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLStore) CountActiveEnrollments(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM enrollments WHERE is_active=$1`, true).Scan(&n)
	return n, err
}

func (s *SQLStore) CoursesForTeacher(ctx context.Context, teacherID string) ([]Course, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.id, c.title, c.description, c.subject, c.level, c.image_url, c.is_published, c.created_at
		 FROM courses c
		 JOIN course_instructors ci ON ci.course_id = c.id
		 WHERE ci.teacher_id=$1 ORDER BY c.title`, teacherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCourses(rows)
}

func scanCourses(rows *sql.Rows) ([]Course, error) {
	var out []Course
	for rows.Next() {
		var c Course
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.Subject, &c.Level, &c.ImageURL, &c.Published, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
