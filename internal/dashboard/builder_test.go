package dashboard_test

import (
	"context"
	"errors"
	"testing"

	"github.com/cambridgepathway/pathway-backend/internal/course"
	"github.com/cambridgepathway/pathway-backend/internal/dashboard"
	"github.com/cambridgepathway/pathway-backend/internal/forum"
	"github.com/cambridgepathway/pathway-backend/internal/progress"
	"github.com/cambridgepathway/pathway-backend/internal/quiz"
	"github.com/cambridgepathway/pathway-backend/internal/users"
)

/* ---------------- In-memory fakes for the five store interfaces ---------------- */

var errDown = errors.New("store unavailable")

// fixture is the shared backing data; the fake stores read from it and fail
// every fetch for user ids listed in failUsers.
type fixture struct {
	enrolled          map[string][]course.Course
	lessonsIn         map[string]int
	teacherCourses    map[string][]course.Course
	allCourses        []course.Course
	enrollments       map[string][]course.Enrollment
	progressByUser    map[string][]progress.Record
	progressByCourse  map[string][]progress.Record
	attemptsByUser    map[string][]quiz.Attempt
	attemptsByCourse  map[string][]quiz.Attempt
	children          map[string][]users.User
	roleCounts        map[string]int
	lessonTotal       int
	activeEnrollments int
	postCount         int
	attemptCount      int
	failUsers         map[string]bool
}

func newFixture() *fixture {
	return &fixture{
		enrolled:         map[string][]course.Course{},
		lessonsIn:        map[string]int{},
		teacherCourses:   map[string][]course.Course{},
		enrollments:      map[string][]course.Enrollment{},
		progressByUser:   map[string][]progress.Record{},
		progressByCourse: map[string][]progress.Record{},
		attemptsByUser:   map[string][]quiz.Attempt{},
		attemptsByCourse: map[string][]quiz.Attempt{},
		children:         map[string][]users.User{},
		roleCounts:       map[string]int{},
		failUsers:        map[string]bool{},
	}
}

type fakeCourseStore struct{ f *fixture }

func (s fakeCourseStore) ListPublished(context.Context, string) ([]course.Course, error) {
	return nil, nil
}
func (s fakeCourseStore) ListAll(context.Context) ([]course.Course, error) {
	return s.f.allCourses, nil
}
func (s fakeCourseStore) Get(context.Context, string) (course.Course, error) {
	return course.Course{}, course.ErrNotFound
}
func (s fakeCourseStore) Lessons(context.Context, string) ([]course.Lesson, error) { return nil, nil }
func (s fakeCourseStore) LessonByOrder(context.Context, string, int) (course.Lesson, error) {
	return course.Lesson{}, course.ErrNotFound
}
func (s fakeCourseStore) CountLessons(context.Context) (int, error) { return s.f.lessonTotal, nil }
func (s fakeCourseStore) CountLessonsIn(_ context.Context, courseID string) (int, error) {
	return s.f.lessonsIn[courseID], nil
}
func (s fakeCourseStore) Enroll(context.Context, string, string) error { return nil }
func (s fakeCourseStore) EnrolledCourses(_ context.Context, userID string) ([]course.Course, error) {
	if s.f.failUsers[userID] {
		return nil, errDown
	}
	return s.f.enrolled[userID], nil
}
func (s fakeCourseStore) Enrollments(_ context.Context, courseID string) ([]course.Enrollment, error) {
	return s.f.enrollments[courseID], nil
}
func (s fakeCourseStore) CountActiveEnrollments(context.Context) (int, error) {
	return s.f.activeEnrollments, nil
}
func (s fakeCourseStore) CoursesForTeacher(_ context.Context, teacherID string) ([]course.Course, error) {
	return s.f.teacherCourses[teacherID], nil
}

type fakeProgressStore struct{ f *fixture }

func (s fakeProgressStore) Upsert(context.Context, progress.Record) error { return nil }
func (s fakeProgressStore) ForUser(_ context.Context, userID string) ([]progress.Record, error) {
	if s.f.failUsers[userID] {
		return nil, errDown
	}
	return s.f.progressByUser[userID], nil
}
func (s fakeProgressStore) ForCourse(_ context.Context, courseID string) ([]progress.Record, error) {
	return s.f.progressByCourse[courseID], nil
}

type fakeQuizStore struct{ f *fixture }

func (s fakeQuizStore) ForLesson(context.Context, string) (quiz.Quiz, error) {
	return quiz.Quiz{}, quiz.ErrNotFound
}
func (s fakeQuizStore) Get(context.Context, string) (quiz.Quiz, error) {
	return quiz.Quiz{}, quiz.ErrNotFound
}
func (s fakeQuizStore) CreateAttempt(context.Context, quiz.Attempt) error { return nil }
func (s fakeQuizStore) AttemptsForUser(_ context.Context, userID string) ([]quiz.Attempt, error) {
	if s.f.failUsers[userID] {
		return nil, errDown
	}
	return s.f.attemptsByUser[userID], nil
}
func (s fakeQuizStore) AttemptsForCourse(_ context.Context, courseID string) ([]quiz.Attempt, error) {
	return s.f.attemptsByCourse[courseID], nil
}
func (s fakeQuizStore) CountAttempts(context.Context) (int, error) { return s.f.attemptCount, nil }

type fakeUserStore struct{ f *fixture }

func (s fakeUserStore) Create(context.Context, users.User) error { return nil }
func (s fakeUserStore) ByEmail(context.Context, string) (users.User, error) {
	return users.User{}, users.ErrNotFound
}
func (s fakeUserStore) ByID(context.Context, string) (users.User, error) {
	return users.User{}, users.ErrNotFound
}
func (s fakeUserStore) UpdateProfile(context.Context, string, string, string, string) error {
	return nil
}
func (s fakeUserStore) Children(_ context.Context, parentID string) ([]users.User, error) {
	return s.f.children[parentID], nil
}
func (s fakeUserStore) LinkChild(context.Context, string, string) error { return nil }
func (s fakeUserStore) RoleCounts(context.Context) (map[string]int, error) {
	return s.f.roleCounts, nil
}

type fakeForumStore struct{ f *fixture }

func (s fakeForumStore) CreatePost(context.Context, forum.Post) error      { return nil }
func (s fakeForumStore) ListPosts(context.Context, string) ([]forum.Post, error) { return nil, nil }
func (s fakeForumStore) AddReply(context.Context, forum.Reply) error       { return nil }
func (s fakeForumStore) Replies(context.Context, string) ([]forum.Reply, error) { return nil, nil }
func (s fakeForumStore) Vote(context.Context, string, string, bool) error  { return nil }
func (s fakeForumStore) CountPosts(context.Context) (int, error)           { return s.f.postCount, nil }

func newBuilder(f *fixture) *dashboard.Builder {
	return dashboard.NewBuilder(
		fakeCourseStore{f}, fakeProgressStore{f}, fakeQuizStore{f}, fakeUserStore{f}, fakeForumStore{f},
	)
}

/* ------------------------------------------ Tests ------------------------------------------ */

func TestBuilder_StudentSummary(t *testing.T) {
	f := newFixture()
	f.enrolled["u1"] = []course.Course{{ID: "c1", Title: "Algebra"}, {ID: "c2", Title: "Essays"}}
	f.lessonsIn["c1"] = 4
	f.lessonsIn["c2"] = 2
	f.progressByUser["u1"] = []progress.Record{
		{CourseID: "c1", LessonID: "l1", Completed: true, LastAccessed: 5},
		{CourseID: "c1", LessonID: "l2", Completed: true, LastAccessed: 9},
		{CourseID: "c1", LessonID: "l3", Completed: false, LastAccessed: 2},
	}
	f.attemptsByUser["u1"] = []quiz.Attempt{
		{Score: 80, Completed: true},
		{Score: 61, Completed: true},
	}

	s := newBuilder(f).Student(context.Background(), dashboard.Session{UserID: "u1", Role: "student"})

	if s.TotalCourses != 2 {
		t.Fatalf("expected 2 courses, got %d", s.TotalCourses)
	}
	if s.TotalLessons != 6 || s.CompletedLessons != 2 {
		t.Fatalf("expected 2/6 lessons, got %d/%d", s.CompletedLessons, s.TotalLessons)
	}
	if s.AverageScore != 71 {
		t.Fatalf("expected average 71, got %d", s.AverageScore)
	}
	if len(s.Courses) != 2 {
		t.Fatalf("expected a summary per enrolled course, got %d", len(s.Courses))
	}
	if s.Courses[0].CompletionPercent != 50 {
		t.Fatalf("expected 50%% on c1, got %d", s.Courses[0].CompletionPercent)
	}
	if s.Courses[1].CompletionPercent != 0 {
		t.Fatalf("untouched course should be 0%%, got %d", s.Courses[1].CompletionPercent)
	}
}

func TestBuilder_ParentToleratesFailedChild(t *testing.T) {
	f := newFixture()
	f.children["p1"] = []users.User{
		{ID: "kid1", FirstName: "Ada", LastName: "L"},
		{ID: "kid2", FirstName: "Ben", LastName: "L"},
	}
	f.enrolled["kid1"] = []course.Course{{ID: "c1"}}
	f.lessonsIn["c1"] = 2
	f.progressByUser["kid1"] = []progress.Record{
		{CourseID: "c1", LessonID: "l1", Completed: true, LastAccessed: 42},
	}
	f.attemptsByUser["kid1"] = []quiz.Attempt{{Score: 90, Completed: true}}
	f.failUsers["kid2"] = true // every fetch for this child fails

	s := newBuilder(f).Parent(context.Background(), dashboard.Session{UserID: "p1", Role: "parent"})

	if len(s.Children) != 2 {
		t.Fatalf("both children must be reported, got %d", len(s.Children))
	}
	ada := s.Children[0]
	if ada.StudentID != "kid1" || ada.CompletedLessons != 1 || ada.AverageScore != 90 {
		t.Fatalf("healthy child summary wrong: %+v", ada)
	}
	if ada.LastActivity != 42 {
		t.Fatalf("expected last activity 42, got %d", ada.LastActivity)
	}
	ben := s.Children[1]
	if ben.StudentID != "kid2" || ben.FirstName != "Ben" {
		t.Fatalf("failed child must keep its identity: %+v", ben)
	}
	if ben.TotalCourses != 0 || ben.CompletedLessons != 0 || ben.AverageScore != 0 {
		t.Fatalf("failed child must be zeroed, got %+v", ben)
	}
}

func TestBuilder_TeacherCourseRollups(t *testing.T) {
	f := newFixture()
	f.teacherCourses["t1"] = []course.Course{{ID: "c1", Title: "Algebra", Subject: "math"}}
	f.enrollments["c1"] = []course.Enrollment{
		{UserID: "u1", CourseID: "c1", Active: true},
		{UserID: "u2", CourseID: "c1", Active: true},
	}
	f.progressByCourse["c1"] = []progress.Record{
		{UserID: "u1", LessonID: "l1", Completed: true},
		{UserID: "u1", LessonID: "l2", Completed: true},
		{UserID: "u2", LessonID: "l1", Completed: true},
		{UserID: "u2", LessonID: "l2", Completed: false},
	}
	f.attemptsByCourse["c1"] = []quiz.Attempt{
		{UserID: "u1", Score: 60, Completed: true},
		{UserID: "u2", Score: 80, Completed: true},
	}

	s := newBuilder(f).Teacher(context.Background(), dashboard.Session{UserID: "t1", Role: "teacher"})

	if s.TotalCourses != 1 || s.TotalStudents != 2 {
		t.Fatalf("expected 1 course / 2 students, got %d / %d", s.TotalCourses, s.TotalStudents)
	}
	c := s.Courses[0]
	if c.EnrolledStudents != 2 {
		t.Fatalf("expected 2 enrolled, got %d", c.EnrolledStudents)
	}
	if c.CompletionPercent != 75 {
		t.Fatalf("expected 75%% completion, got %d", c.CompletionPercent)
	}
	if c.AverageScore != 70 {
		t.Fatalf("expected average 70, got %d", c.AverageScore)
	}
}

func TestBuilder_AdminPlatformCounts(t *testing.T) {
	f := newFixture()
	f.roleCounts = map[string]int{"student": 5, "teacher": 2, "parent": 1, "admin": 1}
	f.allCourses = []course.Course{{ID: "c1", Title: "Algebra", Subject: "math"}}
	f.lessonTotal = 10
	f.activeEnrollments = 7
	f.postCount = 4
	f.attemptCount = 12
	f.enrollments["c1"] = []course.Enrollment{{UserID: "u1", CourseID: "c1", Active: true}}
	f.progressByCourse["c1"] = []progress.Record{
		{UserID: "u1", LessonID: "l1", Completed: true},
		{UserID: "u1", LessonID: "l2", Completed: false},
	}

	s := newBuilder(f).Admin(context.Background(), dashboard.Session{UserID: "a1", Role: "admin"})

	if s.TotalUsers != 9 || s.TotalStudents != 5 || s.TotalTeachers != 2 || s.TotalParents != 1 {
		t.Fatalf("unexpected user counts: %+v", s)
	}
	if s.TotalCourses != 1 || s.TotalLessons != 10 || s.ActiveEnrollments != 7 {
		t.Fatalf("unexpected platform counts: %+v", s)
	}
	if s.ForumPosts != 4 || s.QuizAttempts != 12 {
		t.Fatalf("forum/attempt counts must come from real aggregation, got %d / %d", s.ForumPosts, s.QuizAttempts)
	}
	if len(s.Courses) != 1 || s.Courses[0].CompletionPercent != 50 {
		t.Fatalf("unexpected course rollup: %+v", s.Courses)
	}
}
