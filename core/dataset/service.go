package dataset

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/edugrade/portal/core"
	"github.com/edugrade/portal/core/activity"
)

const uploadedMessage = "Dataset uploaded successfully"

var (
	NowFunc = time.Now // mockable

	// errors
	ErrNotFound        = core.NewNotFoundError("Student not found")
	ErrDatasetNotFound = core.NewNotFoundError("No dataset found for this semester")
	ErrNoFile          = core.NewValidationError(errors.New("No file uploaded"))
)

type (
	Repository interface {
		// ReplaceSemester atomically deletes the datasets and records of ds.Semester, then stores ds and records.
		ReplaceSemester(ctx context.Context, ds Dataset, records []StudentRecord) error
		ListDatasets(ctx context.Context, ordering ...core.DBOrdering) ([]Dataset, error)
		// DeleteSemester removes the datasets and records of semester and returns how many datasets existed.
		DeleteSemester(ctx context.Context, semester int) (int, error)
		// GetStudentRecord returns the first record of regNo in semester.
		GetStudentRecord(ctx context.Context, regNo string, semester int) (StudentRecord, error)
	}

	Service struct {
		repo     Repository
		activity *activity.Service
	}
)

func NewService(repo Repository, activitySvc *activity.Service) *Service {
	return &Service{repo: repo, activity: activitySvc}
}

// Upload parses a grade sheet and replaces the records of its semester.
func (svc *Service) Upload(ctx context.Context, req UploadRequest) (UploadResult, error) {
	if len(req.File) == 0 {
		return UploadResult{}, ErrNoFile
	}
	semester, err := ParseSemester(req.Semester)
	if err != nil {
		return UploadResult{}, err
	}

	rows, err := OpenRows(req.File, req.Filename)
	if err != nil {
		return UploadResult{}, err
	}
	defer func() { _ = rows.Close() }()

	ds := Dataset{
		ID:         uuid.NewString(),
		Name:       fmt.Sprintf("Semester %d - %s", semester, filepath.Base(req.Filename)),
		Semester:   semester,
		UploadedBy: req.UploadedBy,
		UploadedAt: NowFunc().UTC(),
	}
	batch, err := Normalize(rows, semester, ds.ID)
	if err != nil {
		return UploadResult{}, err
	}
	ds.StudentCount = len(batch.Records)

	if err = svc.repo.ReplaceSemester(ctx, ds, batch.Records); err != nil {
		return UploadResult{}, errors.Wrap(err, "replacing semester records")
	}

	svc.activity.Notify(ctx, activity.Event{
		Kind:     activity.KindDatasetUploaded,
		Audience: activity.AudienceStudents,
		Semester: semester,
		Message:  fmt.Sprintf("Semester %d results have been published", semester),
	})
	svc.activity.Notify(ctx, activity.Event{
		Kind:     activity.KindDatasetUploaded,
		Audience: activity.AudienceTeachers,
		Semester: semester,
		Message:  fmt.Sprintf("%s uploaded: %d students, %d rows skipped", ds.Name, ds.StudentCount, batch.RowsSkipped),
	})

	return UploadResult{
		Message:           uploadedMessage,
		StudentsProcessed: len(batch.Records),
		RowsSkipped:       batch.RowsSkipped,
		DatasetID:         ds.ID,
	}, nil
}

func (svc *Service) List(ctx context.Context, ordering ...core.DBOrdering) ([]Dataset, error) {
	ordering = core.CleanOrderings(ordering, "name", "semester", "uploaded_at", "student_count")
	if len(ordering) == 0 {
		ordering = []core.DBOrdering{{Field: "uploaded_at"}}
	}
	return svc.repo.ListDatasets(ctx, ordering...)
}

func (svc *Service) DeleteSemester(ctx context.Context, semester int) error {
	n, err := svc.repo.DeleteSemester(ctx, semester)
	if err != nil {
		return errors.Wrap(err, "deleting semester")
	}
	if n == 0 {
		return ErrDatasetNotFound
	}
	svc.activity.Notify(ctx, activity.Event{
		Kind:     activity.KindDatasetDeleted,
		Audience: activity.AudienceTeachers,
		Semester: semester,
		Message:  fmt.Sprintf("Semester %d dataset deleted", semester),
	})
	return nil
}

func (svc *Service) GetStudentRecord(ctx context.Context, regNo string, semester int) (StudentRecord, error) {
	return svc.repo.GetStudentRecord(ctx, core.CleanString(regNo), semester)
}
