package dashboard

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/cambridgepathway/pathway-backend/internal/course"
	"github.com/cambridgepathway/pathway-backend/internal/forum"
	"github.com/cambridgepathway/pathway-backend/internal/progress"
	"github.com/cambridgepathway/pathway-backend/internal/quiz"
	"github.com/cambridgepathway/pathway-backend/internal/users"
)

// Builder computes role-specific dashboard summaries. Every build is a
// stateless read-and-compute pass: independent fetches fan out, the compute
// phase runs on the joined snapshot. A failed fetch zeroes the figures it
// would have fed instead of failing the build, so no error crosses this
// boundary.
type Builder struct {
	courses  course.Store
	progress progress.Store
	quizzes  quiz.Store
	users    users.Store
	forum    forum.Store
}

func NewBuilder(c course.Store, p progress.Store, q quiz.Store, u users.Store, f forum.Store) *Builder {
	return &Builder{courses: c, progress: p, quizzes: q, users: u, forum: f}
}

func (b *Builder) Student(ctx context.Context, sess Session) StudentSummary {
	enrolled, rows, attempts := b.learnerSnapshot(ctx, sess.UserID)

	summaries, totalLessons := b.courseSummaries(ctx, enrolled, rows)
	learner := progress.SummarizeLearner(totalLessons, rows, attempts)
	return StudentSummary{
		TotalCourses:     len(enrolled),
		CompletedLessons: learner.CompletedLessons,
		TotalLessons:     learner.TotalLessons,
		AverageScore:     learner.AverageScore,
		Courses:          summaries,
	}
}

func (b *Builder) Parent(ctx context.Context, sess Session) ParentSummary {
	children, err := b.users.Children(ctx, sess.UserID)
	if err != nil {
		return ParentSummary{Children: []ChildSummary{}}
	}

	out := make([]ChildSummary, len(children))
	var g errgroup.Group
	for i, child := range children {
		i, child := i, child
		g.Go(func() error {
			out[i] = b.childSummary(ctx, child)
			return nil
		})
	}
	_ = g.Wait()
	return ParentSummary{Children: out}
}

func (b *Builder) Teacher(ctx context.Context, sess Session) TeacherSummary {
	assigned, err := b.courses.CoursesForTeacher(ctx, sess.UserID)
	if err != nil {
		return TeacherSummary{Courses: []CourseStats{}}
	}

	stats := make([]CourseStats, len(assigned))
	students := make([]map[string]struct{}, len(assigned))
	var g errgroup.Group
	for i, c := range assigned {
		i, c := i, c
		g.Go(func() error {
			stats[i], students[i] = b.courseStats(ctx, c)
			return nil
		})
	}
	_ = g.Wait()

	unique := map[string]struct{}{}
	for _, set := range students {
		for id := range set {
			unique[id] = struct{}{}
		}
	}
	return TeacherSummary{
		TotalCourses:  len(assigned),
		TotalStudents: len(unique),
		Courses:       stats,
	}
}

func (b *Builder) Admin(ctx context.Context, _ Session) AdminSummary {
	var sum AdminSummary
	var allCourses []course.Course

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if counts, err := b.users.RoleCounts(gctx); err == nil {
			for _, n := range counts {
				sum.TotalUsers += n
			}
			sum.TotalStudents = counts[users.RoleStudent]
			sum.TotalTeachers = counts[users.RoleTeacher]
			sum.TotalParents = counts[users.RoleParent]
		}
		return nil
	})
	g.Go(func() error {
		if cs, err := b.courses.ListAll(gctx); err == nil {
			allCourses = cs
			sum.TotalCourses = len(cs)
		}
		return nil
	})
	g.Go(func() error {
		if n, err := b.courses.CountLessons(gctx); err == nil {
			sum.TotalLessons = n
		}
		return nil
	})
	g.Go(func() error {
		if n, err := b.courses.CountActiveEnrollments(gctx); err == nil {
			sum.ActiveEnrollments = n
		}
		return nil
	})
	g.Go(func() error {
		if n, err := b.forum.CountPosts(gctx); err == nil {
			sum.ForumPosts = n
		}
		return nil
	})
	g.Go(func() error {
		if n, err := b.quizzes.CountAttempts(gctx); err == nil {
			sum.QuizAttempts = n
		}
		return nil
	})
	_ = g.Wait()

	stats := make([]CourseStats, len(allCourses))
	var cg errgroup.Group
	for i, c := range allCourses {
		i, c := i, c
		cg.Go(func() error {
			stats[i], _ = b.courseStats(ctx, c)
			return nil
		})
	}
	_ = cg.Wait()
	sum.Courses = stats
	return sum
}

// learnerSnapshot issues the three independent reads a learner-level summary
// needs and joins on all of them.
func (b *Builder) learnerSnapshot(ctx context.Context, userID string) ([]course.Course, []progress.Record, []quiz.Attempt) {
	var (
		enrolled []course.Course
		rows     []progress.Record
		attempts []quiz.Attempt
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if cs, err := b.courses.EnrolledCourses(gctx, userID); err == nil {
			enrolled = cs
		}
		return nil
	})
	g.Go(func() error {
		if rs, err := b.progress.ForUser(gctx, userID); err == nil {
			rows = rs
		}
		return nil
	})
	g.Go(func() error {
		if as, err := b.quizzes.AttemptsForUser(gctx, userID); err == nil {
			attempts = as
		}
		return nil
	})
	_ = g.Wait()
	return enrolled, rows, attempts
}

// courseSummaries needs each course's lesson count, so it runs after the
// course list has resolved.
func (b *Builder) courseSummaries(ctx context.Context, enrolled []course.Course, rows []progress.Record) ([]progress.CourseSummary, int) {
	summaries := make([]progress.CourseSummary, 0, len(enrolled))
	totalLessons := 0
	for _, c := range enrolled {
		total, err := b.courses.CountLessonsIn(ctx, c.ID)
		if err != nil {
			summaries = append(summaries, progress.CourseSummary{CourseID: c.ID})
			continue
		}
		totalLessons += total
		summaries = append(summaries, progress.SummarizeCourse(c.ID, total, rows))
	}
	return summaries, totalLessons
}

func (b *Builder) childSummary(ctx context.Context, child users.User) ChildSummary {
	enrolled, rows, attempts := b.learnerSnapshot(ctx, child.ID)

	summaries, totalLessons := b.courseSummaries(ctx, enrolled, rows)
	learner := progress.SummarizeLearner(totalLessons, rows, attempts)

	var lastActivity int64
	for _, r := range rows {
		if r.LastAccessed > lastActivity {
			lastActivity = r.LastAccessed
		}
	}
	return ChildSummary{
		StudentID:        child.ID,
		FirstName:        child.FirstName,
		LastName:         child.LastName,
		TotalCourses:     len(enrolled),
		CompletedLessons: learner.CompletedLessons,
		TotalLessons:     learner.TotalLessons,
		AverageScore:     learner.AverageScore,
		LastActivity:     lastActivity,
		Courses:          summaries,
	}
}

// courseStats rolls one course up over its own enrolled population. The
// completion figure is completed progress rows over all progress rows
// observed for the course; learners who never opened a lesson contribute
// nothing to it.
func (b *Builder) courseStats(ctx context.Context, c course.Course) (CourseStats, map[string]struct{}) {
	stats := CourseStats{CourseID: c.ID, Title: c.Title, Subject: c.Subject, Level: c.Level}
	enrolledSet := map[string]struct{}{}

	var (
		enrollments []course.Enrollment
		rows        []progress.Record
		attempts    []quiz.Attempt
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if es, err := b.courses.Enrollments(gctx, c.ID); err == nil {
			enrollments = es
		}
		return nil
	})
	g.Go(func() error {
		if rs, err := b.progress.ForCourse(gctx, c.ID); err == nil {
			rows = rs
		}
		return nil
	})
	g.Go(func() error {
		if as, err := b.quizzes.AttemptsForCourse(gctx, c.ID); err == nil {
			attempts = as
		}
		return nil
	})
	_ = g.Wait()

	for _, e := range enrollments {
		enrolledSet[e.UserID] = struct{}{}
	}
	completed := 0
	for _, r := range rows {
		if r.Completed {
			completed++
		}
	}
	stats.EnrolledStudents = len(enrollments)
	stats.CompletionPercent = progress.Percent(completed, len(rows))
	stats.AverageScore = progress.AverageScore(attempts)
	return stats, enrolledSet
}
