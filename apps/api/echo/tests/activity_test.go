package tests

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edugrade/portal/core/activity"
)

func Test_activityApi_query(t *testing.T) {
	env := setup(t)
	start := time.Now().UTC().Add(-time.Second)

	uploadGrades(t, env, "3", gradeRows...)
	submitAchievement(t, env, env.studentToken)

	events := func(t *testing.T, token, query string) []activity.Event {
		req, rec := newAuthRequest(http.MethodGet, "/api/activity"+query, token)
		env.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp struct {
			Events []activity.Event `json:"events"`
		}
		decode(t, rec, &resp)
		return resp.Events
	}
	kinds := func(evts []activity.Event) []activity.Kind {
		ks := make([]activity.Kind, 0, len(evts))
		for _, e := range evts {
			ks = append(ks, e.Kind)
		}
		return ks
	}

	t.Run("missing token", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/activity", "")
		env.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}, rec)
	})
	t.Run("invalid since", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/activity?since=yesterday", env.studentToken)
		env.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "since must be an RFC3339 time"}),
		}, rec)
	})
	t.Run("student", func(t *testing.T) {
		evts := events(t, env.studentToken, "")
		assert.Equal(t, []activity.Kind{activity.KindDatasetUploaded}, kinds(evts))
		assert.Equal(t, 3, evts[0].Semester)
	})
	t.Run("teacher", func(t *testing.T) {
		evts := events(t, env.teacherToken, "")
		assert.ElementsMatch(t, []activity.Kind{activity.KindDatasetUploaded, activity.KindAchievementSubmitted}, kinds(evts))
	})
	t.Run("since", func(t *testing.T) {
		assert.Len(t, events(t, env.teacherToken, "?since="+url.QueryEscape(start.Format(time.RFC3339))), 2)
		future := time.Now().UTC().Add(time.Hour).Format(time.RFC3339)
		assert.Empty(t, events(t, env.teacherToken, "?since="+url.QueryEscape(future)))
	})
	t.Run("limit", func(t *testing.T) {
		assert.Len(t, events(t, env.teacherToken, "?limit=1"), 1)
	})
}
