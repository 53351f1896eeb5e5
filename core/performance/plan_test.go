package performance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDepartmentAdvice(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{code: "MA23111", want: departmentAdvice["MA"]},
		{code: "CS23312", want: departmentAdvice["CS"]},
		{code: "AL23311", want: departmentAdvice["AL"]},
		{code: "EC23331", want: departmentAdvice["EC"]},
		{code: "IT1", want: departmentAdvice["IT"]},
		{code: "EE", want: departmentAdvice["EE"]},
		{code: "ME9", want: departmentAdvice["ME"]},
		{code: "CE0", want: departmentAdvice["CE"]},
		{code: "PH23001", want: genericAdvice},
		{code: "cs23312", want: genericAdvice},
		{code: "C", want: genericAdvice},
		{code: "", want: genericAdvice},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DepartmentAdvice(tt.code), "DepartmentAdvice(%q)", tt.code)
	}
}

func TestSubjectPlan(t *testing.T) {
	assert.Equal(t,
		"Dedicate 2 hours daily to Object Oriented Programming. Practice coding problems, work on algorithms, and strengthen programming fundamentals.",
		SubjectPlan("Object Oriented Programming", "CS23312"),
	)
	assert.Equal(t,
		"Spend 1 hour daily revising concepts and practicing problems of Discrete Maths.",
		RevisionPlan("Discrete Maths"),
	)
}

func TestResourceLinks(t *testing.T) {
	links := ResourceLinks("MA23111", "ignored")
	require.Len(t, links, 3)
	assert.Equal(t, Link{Label: "YouTube lecture", URL: "https://www.youtube.com/results?search_query=Discrete%20Maths%20lecture"}, links[0])
	assert.Equal(t, Link{Label: "Concept notes", URL: "https://www.google.com/search?q=Discrete%20Maths%20notes%20tutorial"}, links[1])
	assert.Equal(t, Link{Label: "Practice problems", URL: "https://www.google.com/search?q=Discrete%20Maths%20practice%20problems"}, links[2])

	// callers cannot alter the curated table
	links[0].URL = "changed"
	assert.NotEqual(t, "changed", ResourceLinks("MA23111", "")[0].URL)

	generic := ResourceLinks("PH23001", "Physics & Optics")
	require.Len(t, generic, 3)
	assert.Equal(t, "https://www.google.com/search?q=Physics%20%26%20Optics%20practice%20problems", generic[2].URL)
}

func TestImprovementPlan(t *testing.T) {
	weak := []SubjectResult{
		{Code: "AL23311", Name: "Artificial Intelligence", Total: 20, Status: StatusWeak},
		{Code: "XX00001", Name: UnknownSubject, Total: 3, Status: StatusWeak},
	}

	plan := ImprovementPlan(weak)
	require.Len(t, plan, 2)
	assert.Equal(t, "AL23311", plan[0].SubjectCode)
	assert.Equal(t, "Artificial Intelligence", plan[0].SubjectName)
	assert.Equal(t, SubjectPlan("Artificial Intelligence", "AL23311"), plan[0].Plan)
	assert.Len(t, plan[0].Links, 3)
	assert.Equal(t, "Dedicate 2 hours daily to Unknown Subject. "+genericAdvice, plan[1].Plan)

	summary := WeakSubjects(weak)
	require.Len(t, summary, 2)
	assert.Equal(t, RevisionPlan("Artificial Intelligence"), summary[0].Plan)

	assert.Empty(t, ImprovementPlan(nil))
	assert.NotNil(t, ImprovementPlan(nil))
}
