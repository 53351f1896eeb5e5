package performance

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/edugrade/portal/core"
	"github.com/edugrade/portal/core/dataset"
)

var ErrQueryRequired = core.NewValidationError(errors.New("regNo and semester are required"))

type StudentInfo struct {
	RegNo    string `json:"reg_no"`
	Name     string `json:"name"`
	Semester int    `json:"semester"`
}

// Report is the performance view of a student for one semester. It is derived, never stored.
type Report struct {
	Student           StudentInfo     `json:"student"`
	Subjects          []SubjectResult `json:"subjects"`
	TotalSubjects     int             `json:"totalSubjects"`
	OverallPercentage float64         `json:"overallPercentage"`
	WeakSubjects      []WeakSubject   `json:"weakSubjects"`
	ImprovementPlan   []PlanItem      `json:"improvementPlan"`
}

// Query is the body of a performance request. Semester is accepted as a JSON number or string.
type Query struct {
	RegNo    string      `json:"regNo"`
	Semester json.Number `json:"semester"`
}

// BuildReport derives the Report of a stored record.
func BuildReport(rec dataset.StudentRecord) Report {
	eval := Evaluate(rec.SubjectMarks)
	return Report{
		Student: StudentInfo{
			RegNo:    rec.RegNo,
			Name:     rec.Name,
			Semester: rec.Semester,
		},
		Subjects:          eval.Subjects,
		TotalSubjects:     len(eval.Subjects),
		OverallPercentage: eval.OverallPercentage,
		WeakSubjects:      WeakSubjects(eval.Weak),
		ImprovementPlan:   ImprovementPlan(eval.Weak),
	}
}

type RecordGetter interface {
	GetStudentRecord(ctx context.Context, regNo string, semester int) (dataset.StudentRecord, error)
}

type Service struct {
	records RecordGetter
}

func NewService(records RecordGetter) *Service {
	return &Service{records: records}
}

// Report looks the student up and builds their report.
func (svc *Service) Report(ctx context.Context, q Query) (Report, error) {
	regNo := core.CleanString(q.RegNo)
	if regNo == "" || q.Semester == "" {
		return Report{}, ErrQueryRequired
	}
	semester, err := dataset.ParseSemester(q.Semester.String())
	if err != nil {
		return Report{}, err
	}

	rec, err := svc.records.GetStudentRecord(ctx, regNo, semester)
	if err != nil {
		if core.IsNotFound(err) {
			return Report{}, err
		}
		return Report{}, errors.Wrap(err, "getting student record")
	}
	return BuildReport(rec), nil
}
