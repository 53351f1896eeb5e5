package main

import (
	"sort"
	"time"

	"github.com/edugrade/portal/core/activity"
)

// Session is the signed-in state of the client.
type Session struct {
	Token    string
	RegNo    string
	Semester int
	LastSeen time.Time // newest event the student has looked at
}

func (s *Session) LoggedIn() bool { return s != nil && s.Token != "" }

// EventLog accumulates the activity events fetched so far, newest first and without duplicates.
type EventLog struct {
	events []activity.Event
	seen   map[string]bool
}

func NewEventLog() *EventLog {
	return &EventLog{seen: make(map[string]bool)}
}

// Merge adds the events not yet in the log and returns how many were new.
func (l *EventLog) Merge(evts []activity.Event) int {
	var added int
	for _, e := range evts {
		if l.seen[e.ID] {
			continue
		}
		l.seen[e.ID] = true
		l.events = append(l.events, e)
		added++
	}
	sort.SliceStable(l.events, func(i, j int) bool { return l.events[i].At.After(l.events[j].At) })
	return added
}

func (l *EventLog) Events() []activity.Event { return l.events }

// Newest is the time of the most recent event, zero when empty.
func (l *EventLog) Newest() time.Time {
	if len(l.events) == 0 {
		return time.Time{}
	}
	return l.events[0].At
}

// Unread counts the events newer than since.
func (l *EventLog) Unread(since time.Time) int {
	var n int
	for _, e := range l.events {
		if !e.At.After(since) {
			break
		}
		n++
	}
	return n
}
