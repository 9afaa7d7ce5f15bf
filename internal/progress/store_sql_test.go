package progress_test

import (
	"context"
	"testing"

	"github.com/cambridgepathway/pathway-backend/internal/db"
	"github.com/cambridgepathway/pathway-backend/internal/progress"
)

func openTestDB(t *testing.T, name string) *progress.SQLStore {
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
	}
	for _, q := range seed {
		if _, err := dbh.Exec(q); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return progress.NewSQLStore(dbh)
}

func TestUpsert_RemarkKeepsSingleRow(t *testing.T) {
	store := openTestDB(t, "progress_upsert")
	ctx := context.Background()

	first := progress.Record{ID: "p1", UserID: "u1", CourseID: "c1", LessonID: "l1", Completed: true, LastAccessed: 100}
	if err := store.Upsert(ctx, first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	// Re-mark with a later timestamp and a fresh candidate id.
	second := progress.Record{ID: "p2", UserID: "u1", CourseID: "c1", LessonID: "l1", Completed: true, LastAccessed: 200}
	if err := store.Upsert(ctx, second); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	rows, err := store.ForUser(ctx, "u1")
	if err != nil {
		t.Fatalf("for user: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected exactly one row per (user, lesson), got %d", len(rows))
	}
	if rows[0].LastAccessed != 200 {
		t.Fatalf("timestamp should move to the latest mark, got %d", rows[0].LastAccessed)
	}
	if !rows[0].Completed {
		t.Fatalf("row should stay completed")
	}
}

func TestForCourse_FiltersByCourse(t *testing.T) {
	store := openTestDB(t, "progress_course")
	ctx := context.Background()

	if err := store.Upsert(ctx, progress.Record{ID: "p1", UserID: "u1", CourseID: "c1", LessonID: "l1", Completed: true, LastAccessed: 1}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	rows, err := store.ForCourse(ctx, "c1")
	if err != nil {
		t.Fatalf("for course: %v", err)
	}
	if len(rows) != 1 || rows[0].LessonID != "l1" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
	other, err := store.ForCourse(ctx, "c2")
	if err != nil {
		t.Fatalf("for course: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("expected no rows for other course, got %d", len(other))
	}
}
