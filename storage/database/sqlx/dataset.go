package sqlxrepos

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/edugrade/portal/core"
	"github.com/edugrade/portal/core/dataset"
)

const datasetColumns = `id, name, semester, uploaded_by, uploaded_at, student_count`

type datasetRepository struct {
	db *sqlx.DB
}

var _ dataset.Repository = (*datasetRepository)(nil) // interface compliance check

func NewDatasetRepository(db *sqlx.DB) dataset.Repository {
	return &datasetRepository{db: db}
}

// ReplaceSemester runs in one transaction, holding a per-semester advisory lock so that concurrent uploads of
// the same semester apply one after the other.
func (repo *datasetRepository) ReplaceSemester(ctx context.Context, ds dataset.Dataset, records []dataset.StudentRecord) (err error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, ds.Semester); err != nil {
		return errors.Wrap(err, "locking semester")
	}
	if _, err = deleteSemester(ctx, tx, ds.Semester); err != nil {
		return err
	}

	q := `INSERT INTO dataset (` + datasetColumns + `)
		VALUES (:id, :name, :semester, :uploaded_by, :uploaded_at, :student_count)`
	if _, err = tx.NamedExecContext(ctx, q, ds); err != nil {
		return errors.Wrap(err, "inserting dataset")
	}

	q = `INSERT INTO student_record (reg_no, name, semester, dataset_id, subject_marks)
		VALUES (:reg_no, :name, :semester, :dataset_id, :subject_marks)`
	for start := 0; start < len(records); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(records) {
			end = len(records)
		}
		if _, err = tx.NamedExecContext(ctx, q, records[start:end]); err != nil {
			return errors.Wrap(err, "inserting student records")
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "committing transaction")
	}
	return nil
}

// 5 params per record, psql allows 65535 params per statement
const insertBatchSize = 1000

func (repo *datasetRepository) ListDatasets(ctx context.Context, ordering ...core.DBOrdering) ([]dataset.Dataset, error) {
	q := `SELECT ` + datasetColumns + ` FROM dataset`
	if len(ordering) > 0 {
		orderList := make([]string, 0, len(ordering))
		for _, ord := range ordering {
			orderList = append(orderList, ord.String())
		}
		q += ` ORDER BY ` + strings.Join(orderList, ", ")
	}

	datasets := make([]dataset.Dataset, 0)
	if err := repo.db.SelectContext(ctx, &datasets, q); err != nil {
		return nil, errors.Wrap(err, "querying datasets")
	}
	return datasets, nil
}

func (repo *datasetRepository) DeleteSemester(ctx context.Context, semester int) (int, error) {
	return deleteSemester(ctx, repo.db, semester)
}

// deleteSemester removes the records and datasets of semester and returns the number of datasets removed.
func deleteSemester(ctx context.Context, exec sqlx.ExecerContext, semester int) (int, error) {
	if _, err := exec.ExecContext(ctx, `DELETE FROM student_record WHERE semester = $1`, semester); err != nil {
		return 0, errors.Wrap(err, "deleting student records")
	}
	res, err := exec.ExecContext(ctx, `DELETE FROM dataset WHERE semester = $1`, semester)
	if err != nil {
		return 0, errors.Wrap(err, "deleting datasets")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "counting deleted datasets")
	}
	return int(n), nil
}

func (repo *datasetRepository) GetStudentRecord(ctx context.Context, regNo string, semester int) (dataset.StudentRecord, error) {
	var rec dataset.StudentRecord
	q := `SELECT id, reg_no, name, semester, dataset_id, subject_marks FROM student_record
		WHERE reg_no = $1 AND semester = $2 ORDER BY id LIMIT 1`
	if err := repo.db.GetContext(ctx, &rec, q, regNo, semester); err != nil {
		return dataset.StudentRecord{}, trapNoRowsErr(err, dataset.ErrNotFound, "finding student record")
	}
	return rec, nil
}
