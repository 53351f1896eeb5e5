package dummydb

import (
	"context"
	"sort"

	"github.com/edugrade/portal/core"
	"github.com/edugrade/portal/core/dataset"
)

type datasetRepository struct {
	db *datasetTables
}

var _ dataset.Repository = (*datasetRepository)(nil) // interface compliance check

func NewDatasetRepository(db *DB) dataset.Repository {
	return &datasetRepository{db: db.dataset}
}

func (repo *datasetRepository) ReplaceSemester(_ context.Context, ds dataset.Dataset, records []dataset.StudentRecord) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.deleteSemester(ds.Semester)
	repo.db.datasets = append(repo.db.datasets, ds)
	for _, rec := range records {
		repo.db.pkCount++
		rec.ID = repo.db.pkCount
		repo.db.records = append(repo.db.records, rec)
	}
	return nil
}

func (repo *datasetRepository) ListDatasets(_ context.Context, ordering ...core.DBOrdering) ([]dataset.Dataset, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	datasets := make([]dataset.Dataset, len(repo.db.datasets))
	copy(datasets, repo.db.datasets)
	sort.SliceStable(datasets, func(i, j int) bool {
		for _, ord := range ordering {
			if c := compareDatasets(datasets[i], datasets[j], ord.Field); c != 0 {
				if ord.Ascending {
					return c < 0
				}
				return c > 0
			}
		}
		return false
	})
	return datasets, nil
}

func compareDatasets(a, b dataset.Dataset, field string) int {
	switch field {
	case "name":
		return compare(a.Name < b.Name, a.Name > b.Name)
	case "semester":
		return compare(a.Semester < b.Semester, a.Semester > b.Semester)
	case "student_count":
		return compare(a.StudentCount < b.StudentCount, a.StudentCount > b.StudentCount)
	case "uploaded_at":
		return compare(a.UploadedAt.Before(b.UploadedAt), a.UploadedAt.After(b.UploadedAt))
	}
	return 0
}

func compare(less, greater bool) int {
	switch {
	case less:
		return -1
	case greater:
		return 1
	}
	return 0
}

func (repo *datasetRepository) DeleteSemester(_ context.Context, semester int) (int, error) {
	repo.db.Lock()
	defer repo.db.Unlock()
	return repo.deleteSemester(semester), nil
}

func (repo *datasetRepository) deleteSemester(semester int) int {
	var n int
	datasets := make([]dataset.Dataset, 0, len(repo.db.datasets))
	for _, ds := range repo.db.datasets {
		if ds.Semester == semester {
			n++
			continue
		}
		datasets = append(datasets, ds)
	}
	records := make([]dataset.StudentRecord, 0, len(repo.db.records))
	for _, rec := range repo.db.records {
		if rec.Semester != semester {
			records = append(records, rec)
		}
	}
	repo.db.datasets, repo.db.records = datasets, records
	return n
}

func (repo *datasetRepository) GetStudentRecord(_ context.Context, regNo string, semester int) (dataset.StudentRecord, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, rec := range repo.db.records {
		if rec.RegNo == regNo && rec.Semester == semester {
			return rec, nil
		}
	}
	return dataset.StudentRecord{}, dataset.ErrNotFound
}
