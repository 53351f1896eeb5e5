package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/edugrade/portal/core/activity"
)

func evt(id string, at time.Time) activity.Event {
	return activity.Event{ID: id, Message: "event " + id, At: at}
}

func TestEventLog(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	log := NewEventLog()
	assert.True(t, log.Newest().IsZero())
	assert.Empty(t, log.Events())

	added := log.Merge([]activity.Event{evt("a", t0), evt("b", t0.Add(time.Hour))})
	assert.Equal(t, 2, added)

	added = log.Merge([]activity.Event{evt("b", t0.Add(time.Hour)), evt("c", t0.Add(2*time.Hour))})
	assert.Equal(t, 1, added)

	ids := make([]string, 0)
	for _, e := range log.Events() {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"c", "b", "a"}, ids)
	assert.Equal(t, t0.Add(2*time.Hour), log.Newest())

	tests := []struct {
		name  string
		since time.Time
		want  int
	}{
		{"never seen", time.Time{}, 3},
		{"seen first", t0, 2},
		{"seen all", t0.Add(2 * time.Hour), 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, log.Unread(tc.since))
		})
	}
}

func TestSessionLoggedIn(t *testing.T) {
	var nilSess *Session
	assert.False(t, nilSess.LoggedIn())
	assert.False(t, (&Session{RegNo: "21CS001"}).LoggedIn())
	assert.True(t, (&Session{Token: "tok", RegNo: "21CS001"}).LoggedIn())
}
