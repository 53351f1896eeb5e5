package activity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryFeed_Recent(t *testing.T) {
	ctx := context.Background()
	feed := NewMemoryFeed(3)
	base := time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, feed.Publish(ctx, Event{
			ID:       string(rune('a' + i)),
			Audience: AudienceStudents,
			At:       base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, feed.Publish(ctx, Event{ID: "t", Audience: AudienceTeachers, At: base}))

	ids := func(evts []Event) []string {
		res := make([]string, 0, len(evts))
		for _, e := range evts {
			res = append(res, e.ID)
		}
		return res
	}

	tests := []struct {
		name     string
		audience string
		since    time.Time
		limit    int
		want     []string
	}{
		{name: "capped, newest first", audience: AudienceStudents, want: []string{"e", "d", "c"}},
		{name: "limit", audience: AudienceStudents, limit: 2, want: []string{"e", "d"}},
		{name: "since is exclusive", audience: AudienceStudents, since: base.Add(3 * time.Minute), want: []string{"e"}},
		{name: "other audience", audience: AudienceTeachers, want: []string{"t"}},
		{name: "unknown audience", audience: StudentAudience("X1"), want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evts, err := feed.Recent(ctx, tt.audience, tt.since, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(evts))
		})
	}
}
