package activity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recLogger struct{ errors []string }

func (l *recLogger) Debug(string, ...interface{})       {}
func (l *recLogger) Info(string, ...interface{})        {}
func (l *recLogger) Warn(string, ...interface{})        {}
func (l *recLogger) Error(msg string, _ ...interface{}) { l.errors = append(l.errors, msg) }
func (l *recLogger) Fatal(string, ...interface{})       {}

type brokenFeed struct{}

func (brokenFeed) Publish(context.Context, Event) error { return errors.New("boom") }
func (brokenFeed) Recent(context.Context, string, time.Time, int) ([]Event, error) {
	return nil, errors.New("boom")
}

func TestService_Notify(t *testing.T) {
	now := time.Date(2024, time.May, 2, 8, 0, 0, 0, time.UTC)
	NowFunc = func() time.Time { return now }
	defer func() { NowFunc = time.Now }()

	ctx := context.Background()
	feed := NewMemoryFeed(10)
	svc := NewService(feed, &recLogger{})

	svc.Notify(ctx, Event{Kind: KindDatasetUploaded, Audience: AudienceStudents, Semester: 3, Message: "new results"})

	evts, err := feed.Recent(ctx, AudienceStudents, time.Time{}, 0)
	require.NoError(t, err)
	require.Len(t, evts, 1)
	assert.NotEmpty(t, evts[0].ID)
	assert.Equal(t, now, evts[0].At)
	assert.Equal(t, 3, evts[0].Semester)
}

func TestService_Notify_feedError(t *testing.T) {
	logger := &recLogger{}
	svc := NewService(brokenFeed{}, logger)

	svc.Notify(context.Background(), Event{Kind: KindSubmissionReviewed, Audience: AudienceTeachers})
	assert.Len(t, logger.errors, 1)

	_, err := svc.ForTeachers(context.Background(), time.Time{}, 0)
	assert.Error(t, err)
}

func TestService_ForStudent(t *testing.T) {
	ctx := context.Background()
	feed := NewMemoryFeed(10)
	svc := NewService(feed, &recLogger{})
	base := time.Date(2024, time.May, 2, 8, 0, 0, 0, time.UTC)

	svc.Notify(ctx, Event{ID: "1", Audience: AudienceStudents, At: base})
	svc.Notify(ctx, Event{ID: "2", Audience: StudentAudience("21CS001"), At: base.Add(time.Minute)})
	svc.Notify(ctx, Event{ID: "3", Audience: StudentAudience("21CS002"), At: base.Add(2 * time.Minute)})
	svc.Notify(ctx, Event{ID: "4", Audience: AudienceStudents, At: base.Add(3 * time.Minute)})
	svc.Notify(ctx, Event{ID: "5", Audience: AudienceTeachers, At: base.Add(4 * time.Minute)})

	evts, err := svc.ForStudent(ctx, "21CS001", time.Time{}, 0)
	require.NoError(t, err)
	got := make([]string, 0, len(evts))
	for _, e := range evts {
		got = append(got, e.ID)
	}
	assert.Equal(t, []string{"4", "2", "1"}, got)

	evts, err = svc.ForStudent(ctx, "21CS001", base, 0)
	require.NoError(t, err)
	assert.Len(t, evts, 2)

	evts, err = svc.ForTeachers(ctx, time.Time{}, 0)
	require.NoError(t, err)
	require.Len(t, evts, 1)
	assert.Equal(t, "5", evts[0].ID)
}
