package canvas

import "time"

// Course as returned by GET /api/v1/courses. CreatedAt is nullable
// upstream; courses without it are dropped by the collector.
type Course struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	CourseCode string     `json:"course_code"`
	CreatedAt  *time.Time `json:"created_at"`
}

// User as returned by GET /api/v1/users/self.
type User struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Assignment as returned by GET /api/v1/courses/{id}/assignments.
type Assignment struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	DueAt          *time.Time `json:"due_at"`
	UnlockAt       *time.Time `json:"unlock_at"`
	PointsPossible *float64   `json:"points_possible"`
}

// SubmissionRecord is the raw per-(user, assignment) submission payload.
// A nil SubmittedAt means the user never turned the assignment in.
type SubmissionRecord struct {
	SubmittedAt *time.Time `json:"submitted_at"`
	Score       *float64   `json:"score"`
}

// Submission is the denormalized working record the metrics engine
// consumes: the raw submission enriched with its parent assignment and
// course fields. Invariant: SubmittedAt is always set, the collector
// drops unsubmitted records.
type Submission struct {
	SubmittedAt    time.Time
	Score          *float64
	AssignmentName string
	CourseID       int64
	CourseName     string
	CourseCode     string
	DueAt          *time.Time
	UnlockAt       *time.Time
	PointsPossible *float64
}
