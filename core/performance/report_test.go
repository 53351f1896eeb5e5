package performance

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edugrade/portal/core"
	"github.com/edugrade/portal/core/dataset"
)

type recordsStub map[string]dataset.StudentRecord

func (s recordsStub) GetStudentRecord(_ context.Context, regNo string, semester int) (dataset.StudentRecord, error) {
	rec, ok := s[regNo]
	if !ok || rec.Semester != semester {
		return dataset.StudentRecord{}, dataset.ErrNotFound
	}
	return rec, nil
}

func TestService_Report(t *testing.T) {
	svc := NewService(recordsStub{
		"21CS001": {
			RegNo:    "21CS001",
			Name:     "Asha",
			Semester: 3,
			SubjectMarks: dataset.Marks{
				{Code: "MA23111", Value: 30},
				{Code: "AL23311", Value: 20},
				{Code: "CS23411", Value: 25},
				{Code: "CS23312", Value: 40},
				{Code: "EC23331", Value: 10},
			},
		},
	})
	ctx := context.Background()

	tests := []struct {
		name    string
		query   Query
		wantErr error
	}{
		{name: "missing regNo", query: Query{Semester: "3"}, wantErr: ErrQueryRequired},
		{name: "blank regNo", query: Query{RegNo: "  ", Semester: "3"}, wantErr: ErrQueryRequired},
		{name: "missing semester", query: Query{RegNo: "21CS001"}, wantErr: ErrQueryRequired},
		{name: "bad semester", query: Query{RegNo: "21CS001", Semester: "x"}, wantErr: dataset.ErrInvalidSemester},
		{name: "unknown student", query: Query{RegNo: "21CS999", Semester: "3"}, wantErr: dataset.ErrNotFound},
		{name: "other semester", query: Query{RegNo: "21CS001", Semester: "4"}, wantErr: dataset.ErrNotFound},
		{name: "found", query: Query{RegNo: " 21CS001", Semester: "3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep, err := svc.Report(ctx, tt.query)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, StudentInfo{RegNo: "21CS001", Name: "Asha", Semester: 3}, rep.Student)
			assert.Equal(t, 5, rep.TotalSubjects)
			assert.Equal(t, 50.0, rep.OverallPercentage)
			require.Len(t, rep.WeakSubjects, 2)
			assert.Equal(t, "AL23311", rep.WeakSubjects[0].Code)
			assert.Equal(t, "EC23331", rep.ImprovementPlan[1].SubjectCode)
		})
	}
	assert.True(t, core.IsNotFound(dataset.ErrNotFound))
}

func TestReport_JSON(t *testing.T) {
	rep := BuildReport(dataset.StudentRecord{
		RegNo:        "21CS001",
		Name:         "Asha",
		Semester:     3,
		SubjectMarks: dataset.Marks{{Code: "EC23331", Value: 10}},
	})
	data, err := json.Marshal(rep)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, map[string]interface{}{"reg_no": "21CS001", "name": "Asha", "semester": 3.0}, got["student"])
	assert.Equal(t, 1.0, got["totalSubjects"])
	assert.Equal(t, 20.0, got["overallPercentage"])

	subj := got["subjects"].([]interface{})[0].(map[string]interface{})
	assert.ElementsMatch(t, []string{"code", "name", "total", "percentage", "status"}, keys(subj))

	weak := got["weakSubjects"].([]interface{})[0].(map[string]interface{})
	assert.ElementsMatch(t, []string{"code", "name", "plan", "links"}, keys(weak))

	item := got["improvementPlan"].([]interface{})[0].(map[string]interface{})
	assert.ElementsMatch(t, []string{"subjectCode", "subjectName", "plan", "links"}, keys(item))

	link := item["links"].([]interface{})[0].(map[string]interface{})
	assert.ElementsMatch(t, []string{"label", "url"}, keys(link))
}

func TestQuery_semesterAsNumberOrString(t *testing.T) {
	for _, body := range []string{`{"regNo":"a","semester":3}`, `{"regNo":"a","semester":"3"}`} {
		var q Query
		require.NoError(t, json.Unmarshal([]byte(body), &q))
		assert.Equal(t, json.Number("3"), q.Semester)
	}
}

func keys(m map[string]interface{}) []string {
	res := make([]string, 0, len(m))
	for k := range m {
		res = append(res, k)
	}
	return res
}
