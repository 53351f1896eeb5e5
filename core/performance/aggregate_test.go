package performance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/edugrade/portal/core/dataset"
)

func TestPercentageAndStatus(t *testing.T) {
	tests := []struct {
		mark       float64
		wantPct    float64
		wantStatus string
	}{
		{mark: 0, wantPct: 0, wantStatus: StatusWeak},
		{mark: 24.9, wantPct: 49.8, wantStatus: StatusWeak},
		{mark: 25, wantPct: 50, wantStatus: StatusStrong},
		{mark: 33, wantPct: 66, wantStatus: StatusStrong},
		{mark: 33.33, wantPct: 66.7, wantStatus: StatusStrong},
		{mark: 50, wantPct: 100, wantStatus: StatusStrong},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.wantPct, Percentage(tt.mark), "Percentage(%v)", tt.mark)
		assert.Equal(t, tt.wantStatus, Status(tt.mark), "Status(%v)", tt.mark)
	}
}

func TestEvaluate(t *testing.T) {
	marks := dataset.Marks{
		{Code: "MA23111", Value: 30},
		{Code: "AL23311", Value: 20},
		{Code: "CS23411", Value: 25},
		{Code: "CS23312", Value: 40},
		{Code: "EC23331", Value: 10},
	}
	eval := Evaluate(marks)

	assert.Equal(t, []SubjectResult{
		{Code: "MA23111", Name: "Discrete Maths", Total: 30, Percentage: 60, Status: StatusStrong},
		{Code: "AL23311", Name: "Artificial Intelligence", Total: 20, Percentage: 40, Status: StatusWeak},
		{Code: "CS23411", Name: "Database Management System", Total: 25, Percentage: 50, Status: StatusStrong},
		{Code: "CS23312", Name: "Object Oriented Programming", Total: 40, Percentage: 80, Status: StatusStrong},
		{Code: "EC23331", Name: "Digital Principles and Computer Organisation", Total: 10, Percentage: 20, Status: StatusWeak},
	}, eval.Subjects)
	assert.Equal(t, 50.0, eval.OverallPercentage)
	assert.Equal(t, []string{"AL23311", "EC23331"}, []string{eval.Weak[0].Code, eval.Weak[1].Code})
}

func TestEvaluate_edgeCases(t *testing.T) {
	tests := []struct {
		name        string
		marks       dataset.Marks
		wantCount   int
		wantOverall float64
		wantWeak    int
	}{
		{name: "no marks", marks: nil, wantCount: 0, wantOverall: 0, wantWeak: 0},
		{name: "only excluded keys", marks: dataset.Marks{{Code: "failed", Value: 2}, {Code: "absent", Value: 1}}},
		{
			name:        "excluded keys skipped",
			marks:       dataset.Marks{{Code: "MA23111", Value: 50}, {Code: "failed", Value: 1}, {Code: "absent", Value: 0}},
			wantCount:   1,
			wantOverall: 100,
		},
		{
			name:        "text coerced to zero",
			marks:       dataset.Marks{{Code: "MA23111", Text: "AB"}, {Code: "AL23311", Text: "40"}},
			wantCount:   2,
			wantOverall: 40,
			wantWeak:    1,
		},
		{
			name:        "rounding",
			marks:       dataset.Marks{{Code: "MA23111", Value: 33}, {Code: "AL23311", Value: 34}, {Code: "CS23411", Value: 34}},
			wantCount:   3,
			wantOverall: 67.3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eval := Evaluate(tt.marks)
			assert.Len(t, eval.Subjects, tt.wantCount)
			assert.Equal(t, tt.wantOverall, eval.OverallPercentage)
			assert.Len(t, eval.Weak, tt.wantWeak)
			assert.NotNil(t, eval.Subjects)
			assert.NotNil(t, eval.Weak)
		})
	}
}

func TestEvaluate_unknownSubject(t *testing.T) {
	eval := Evaluate(dataset.Marks{{Code: "PH23001", Value: 12}})
	assert.Equal(t, UnknownSubject, eval.Subjects[0].Name)
	assert.Equal(t, 24.0, eval.Subjects[0].Percentage)
}
