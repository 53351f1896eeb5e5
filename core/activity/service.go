package activity

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/edugrade/portal/core"
)

const DefaultLimit = 50

var NowFunc = time.Now // mockable

type Service struct {
	feed   Feed
	logger core.Logger
}

func NewService(feed Feed, logger core.Logger) *Service {
	return &Service{feed: feed, logger: logger}
}

// Notify publishes an event. Feed failures are logged, never returned: activity is best effort.
func (svc *Service) Notify(ctx context.Context, evt Event) {
	if evt.ID == "" {
		evt.ID = uuid.NewString()
	}
	if evt.At.IsZero() {
		evt.At = NowFunc().UTC()
	}
	if err := svc.feed.Publish(ctx, evt); err != nil {
		svc.logger.Error(fmt.Sprintf("publishing %s event: %v", evt.Kind, err), err)
	}
}

// ForStudent merges the broadcast and private events of a student, newest first.
func (svc *Service) ForStudent(ctx context.Context, regNo string, since time.Time, limit int) ([]Event, error) {
	return svc.merge(ctx, since, limit, AudienceStudents, StudentAudience(regNo))
}

func (svc *Service) ForTeachers(ctx context.Context, since time.Time, limit int) ([]Event, error) {
	return svc.merge(ctx, since, limit, AudienceTeachers)
}

func (svc *Service) merge(ctx context.Context, since time.Time, limit int, audiences ...string) ([]Event, error) {
	if limit <= 0 || limit > DefaultLimit {
		limit = DefaultLimit
	}
	events := make([]Event, 0)
	for _, aud := range audiences {
		evts, err := svc.feed.Recent(ctx, aud, since, limit)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %q events", aud)
		}
		events = append(events, evts...)
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].At.After(events[j].At) })
	if len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}
