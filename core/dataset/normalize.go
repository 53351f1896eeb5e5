package dataset

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/edugrade/portal/core"
)

// Template column offsets (0-based).
const (
	colRegNo = 1
	colName  = 2
)

const unknownName = "Unknown"

// markColumns lists, in stored order, the subject codes and their template columns.
var markColumns = []struct {
	code string
	col  int
}{
	{"MA23111", 5},
	{"AL23311", 8},
	{"CS23411", 11},
	{"CS23312", 14},
	{"EC23331", 17},
}

var (
	ErrSemesterRequired = core.NewValidationError(errors.New("semester is required"))
	ErrInvalidSemester  = core.NewValidationError(errors.New("semester must be a positive number"))
	ErrNoRows           = core.NewValidationError(errors.New("the file has no rows after the template header"))
)

// ParseSemester parses the semester form value.
func ParseSemester(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrSemesterRequired
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, ErrInvalidSemester
	}
	return n, nil
}

// Normalize turns the raw rows of a grade sheet into student records. The first HeaderRows rows are skipped,
// rows without a register number are dropped and counted in Batch.RowsSkipped.
func Normalize(rows RowReader, semester int, datasetID string) (Batch, error) {
	batch := Batch{Records: make([]StudentRecord, 0)}

	var idx, dataRows int
	for rows.Next() {
		idx++
		if idx <= HeaderRows {
			continue
		}
		dataRows++

		cols, err := rows.Columns()
		if err != nil {
			return Batch{}, errors.Wrapf(err, "reading row %d", idx)
		}

		regNo := cell(cols, colRegNo)
		if regNo == "" || regNo == "undefined" {
			batch.RowsSkipped++
			continue
		}
		name := cell(cols, colName)
		if name == "" {
			name = unknownName
		}

		batch.Records = append(batch.Records, StudentRecord{
			RegNo:        regNo,
			Name:         name,
			Semester:     semester,
			DatasetID:    datasetID,
			SubjectMarks: rowMarks(cols),
		})
	}
	if err := rows.Err(); err != nil {
		return Batch{}, errors.Wrap(err, "iterating rows")
	}
	if dataRows == 0 {
		return Batch{}, ErrNoRows
	}
	return batch, nil
}

func cell(cols []string, i int) string {
	if i < len(cols) {
		return strings.TrimSpace(cols[i])
	}
	return ""
}

// rowMarks reads the mark columns. Blank cells default to 0, numeric cells are parsed and anything else is
// kept as text (coerced to 0 when aggregated).
func rowMarks(cols []string) Marks {
	marks := make(Marks, 0, len(markColumns))
	for _, mc := range markColumns {
		m := Mark{Code: mc.code}
		if raw := cell(cols, mc.col); raw != "" {
			if v, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
				m.Value = v
			} else {
				m.Text = raw
			}
		}
		marks = append(marks, m)
	}
	return marks
}
