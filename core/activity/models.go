package activity

import (
	"context"
	"time"
)

type Kind string

const (
	KindDatasetUploaded      Kind = "dataset.uploaded"
	KindDatasetDeleted       Kind = "dataset.deleted"
	KindAchievementSubmitted Kind = "achievement.submitted"
	KindSubmissionSubmitted  Kind = "submission.submitted"
	KindSubmissionReviewed   Kind = "submission.reviewed"
)

const (
	AudienceStudents = "students"
	AudienceTeachers = "teachers"

	studentAudiencePrefix = "student:"
)

// StudentAudience is the private audience of a single student.
func StudentAudience(regNo string) string {
	return studentAudiencePrefix + regNo
}

// Event is one entry of the activity feed.
type Event struct {
	ID       string    `json:"id"`
	Kind     Kind      `json:"kind"`
	Audience string    `json:"audience"`
	RegNo    string    `json:"regNo,omitempty"`
	Semester int       `json:"semester,omitempty"`
	Message  string    `json:"message"`
	At       time.Time `json:"at"` // UTC
}

// Feed stores and serves activity events per audience.
type Feed interface {
	Publish(ctx context.Context, evt Event) error
	// Recent returns the events of audience newer than since (all when zero), newest first, at most limit.
	Recent(ctx context.Context, audience string, since time.Time, limit int) ([]Event, error)
}
