package performance

import "fmt"

const genericAdvice = "Focus on core concepts and practice problems regularly."

// departmentAdvice is keyed by the first two characters of the subject code.
var departmentAdvice = map[string]string{
	"MA": "Focus on mathematical concepts, practice problem-solving, and work on theoretical understanding.",
	"CS": "Practice coding problems, work on algorithms, and strengthen programming fundamentals.",
	"AL": "Study AI algorithms, machine learning concepts, and work on practical implementations.",
	"EC": "Focus on circuit analysis, digital systems, and electronic component understanding.",
	"IT": "Work on system design, database concepts, and information technology applications.",
	"EE": "Study electrical circuits, power systems, and electrical engineering principles.",
	"ME": "Focus on mechanical systems, thermodynamics, and engineering mechanics.",
	"CE": "Study structural analysis, construction materials, and civil engineering principles.",
}

type WeakSubject struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Plan  string `json:"plan"`
	Links []Link `json:"links"`
}

type PlanItem struct {
	SubjectCode string `json:"subjectCode"`
	SubjectName string `json:"subjectName"`
	Plan        string `json:"plan"`
	Links       []Link `json:"links"`
}

// DepartmentAdvice returns the study advice for the department of code.
func DepartmentAdvice(code string) string {
	if len(code) >= 2 {
		if advice, ok := departmentAdvice[code[:2]]; ok {
			return advice
		}
	}
	return genericAdvice
}

func SubjectPlan(name, code string) string {
	return fmt.Sprintf("Dedicate 2 hours daily to %s. %s", name, DepartmentAdvice(code))
}

func RevisionPlan(name string) string {
	return fmt.Sprintf("Spend 1 hour daily revising concepts and practicing problems of %s.", name)
}

// WeakSubjects builds the short revision summary of the weak subjects.
func WeakSubjects(weak []SubjectResult) []WeakSubject {
	res := make([]WeakSubject, 0, len(weak))
	for _, s := range weak {
		res = append(res, WeakSubject{
			Code:  s.Code,
			Name:  s.Name,
			Plan:  RevisionPlan(s.Name),
			Links: ResourceLinks(s.Code, s.Name),
		})
	}
	return res
}

// ImprovementPlan builds the detailed plan of the weak subjects.
func ImprovementPlan(weak []SubjectResult) []PlanItem {
	res := make([]PlanItem, 0, len(weak))
	for _, s := range weak {
		res = append(res, PlanItem{
			SubjectCode: s.Code,
			SubjectName: s.Name,
			Plan:        SubjectPlan(s.Name, s.Code),
			Links:       ResourceLinks(s.Code, s.Name),
		})
	}
	return res
}
