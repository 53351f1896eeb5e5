package performance

import (
	"github.com/edugrade/portal/core"
	"github.com/edugrade/portal/core/dataset"
)

const (
	MaxMark      = 50
	PassMark     = 25
	StatusStrong = "Strong"
	StatusWeak   = "Weak"
)

// keys of the marks object that are not subjects
var nonSubjectKeys = map[string]bool{"failed": true, "absent": true}

type SubjectResult struct {
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	Total      float64 `json:"total"`
	Percentage float64 `json:"percentage"`
	Status     string  `json:"status"`
}

func (r SubjectResult) IsWeak() bool { return r.Status == StatusWeak }

type Evaluation struct {
	Subjects          []SubjectResult
	OverallPercentage float64
	Weak              []SubjectResult
}

// Percentage returns mark out of MaxMark as a percentage rounded to one decimal.
func Percentage(mark float64) float64 {
	return core.Round1(mark / MaxMark * 100)
}

// Status classifies a mark.
func Status(mark float64) string {
	if mark >= PassMark {
		return StatusStrong
	}
	return StatusWeak
}

// Evaluate grades each subject of marks, in stored order.
func Evaluate(marks dataset.Marks) Evaluation {
	eval := Evaluation{
		Subjects: make([]SubjectResult, 0, len(marks)),
		Weak:     make([]SubjectResult, 0),
	}

	var total float64
	for _, m := range marks {
		if nonSubjectKeys[m.Code] {
			continue
		}
		mark := m.Number()
		res := SubjectResult{
			Code:       m.Code,
			Name:       SubjectName(m.Code),
			Total:      mark,
			Percentage: Percentage(mark),
			Status:     Status(mark),
		}
		total += mark
		eval.Subjects = append(eval.Subjects, res)
		if res.IsWeak() {
			eval.Weak = append(eval.Weak, res)
		}
	}

	if n := len(eval.Subjects); n > 0 {
		eval.OverallPercentage = core.Round1(total / float64(n*MaxMark) * 100)
	}
	return eval
}
