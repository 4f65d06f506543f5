package canvas

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	defaultWindowMonths = 12
	defaultConcurrency  = 4
)

// CollectorOptions bound the course window and the per-course fan-out.
type CollectorOptions struct {
	WindowMonths int
	Concurrency  int
}

// Collector assembles the working data set for one wrapped request:
// recent courses, the acting user, and every submitted submission
// enriched with its assignment and course fields.
type Collector struct {
	client       *Client
	windowMonths int
	concurrency  int
	now          func() time.Time
}

func NewCollector(client *Client, opts CollectorOptions) *Collector {
	if opts.WindowMonths <= 0 {
		opts.WindowMonths = defaultWindowMonths
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	return &Collector{
		client:       client,
		windowMonths: opts.WindowMonths,
		concurrency:  opts.Concurrency,
		now:          time.Now,
	}
}

// Collection is the collector output, ordered by upstream course order
// and assignment order within each course.
type Collection struct {
	UserName    string
	Courses     []Course
	Submissions []Submission
}

// Collect fails only when the course list or the self lookup fails.
// Per-course and per-submission fetch failures are logged and skipped.
func (c *Collector) Collect(ctx context.Context) (*Collection, error) {
	courses, err := c.client.Courses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch courses: %w", err)
	}

	// Month rollback, not a day-count approximation.
	cutoff := c.now().AddDate(0, -c.windowMonths, 0)
	recent := make([]Course, 0, len(courses))
	for _, course := range courses {
		if course.CourseCode == "" || course.CreatedAt == nil {
			continue
		}
		if course.CreatedAt.Before(cutoff) {
			continue
		}
		recent = append(recent, course)
	}

	user, err := c.client.Self(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	// Index-addressed results keep the flattened output in course order
	// regardless of which goroutine finishes first.
	perCourse := make([][]Submission, len(recent))
	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for i, course := range recent {
		i, course := i, course
		g.Go(func() error {
			perCourse[i] = c.collectCourse(ctx, course, user.ID)
			return nil
		})
	}
	_ = g.Wait()

	collection := &Collection{
		UserName:    user.Name,
		Courses:     recent,
		Submissions: make([]Submission, 0),
	}
	for _, subs := range perCourse {
		collection.Submissions = append(collection.Submissions, subs...)
	}

	slog.Info("collected canvas data",
		"user", user.Name,
		"courses", len(recent),
		"submissions", len(collection.Submissions),
	)
	return collection, nil
}

func (c *Collector) collectCourse(ctx context.Context, course Course, userID int64) []Submission {
	assignments, err := c.client.Assignments(ctx, course.ID)
	if err != nil {
		slog.Warn("skipping course, failed to fetch assignments", "course_id", course.ID, "err", err)
		return nil
	}

	var submissions []Submission
	for _, assignment := range assignments {
		record, err := c.client.Submission(ctx, course.ID, assignment.ID, userID)
		if err != nil {
			slog.Warn("skipping submission",
				"course_id", course.ID,
				"assignment_id", assignment.ID,
				"err", err,
			)
			continue
		}
		if record.SubmittedAt == nil {
			continue
		}
		submissions = append(submissions, Submission{
			SubmittedAt:    *record.SubmittedAt,
			Score:          record.Score,
			AssignmentName: assignment.Name,
			CourseID:       course.ID,
			CourseName:     course.Name,
			CourseCode:     course.CourseCode,
			DueAt:          assignment.DueAt,
			UnlockAt:       assignment.UnlockAt,
			PointsPossible: assignment.PointsPossible,
		})
	}
	return submissions
}
