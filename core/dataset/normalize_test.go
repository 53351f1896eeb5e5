package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testutil "github.com/edugrade/portal/tests"
)

func TestParseSemester(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr error
	}{
		{in: "3", want: 3},
		{in: " 8 ", want: 8},
		{in: "", wantErr: ErrSemesterRequired},
		{in: "  ", wantErr: ErrSemesterRequired},
		{in: "three", wantErr: ErrInvalidSemester},
		{in: "0", wantErr: ErrInvalidSemester},
		{in: "-1", wantErr: ErrInvalidSemester},
		{in: "2.5", wantErr: ErrInvalidSemester},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSemester(tt.in)
			assert.Equal(t, tt.wantErr, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func normalizeCSV(t *testing.T, rows ...testutil.GradeRow) (Batch, error) {
	t.Helper()
	rr, err := OpenRows(testutil.GradeCSV(rows...), "grades.csv")
	require.NoError(t, err)
	return Normalize(rr, 4, "ds-1")
}

func TestNormalize(t *testing.T) {
	batch, err := normalizeCSV(t,
		testutil.GradeRow{RegNo: "21CS001", Name: "Asha", Marks: [5]interface{}{30, 20, 25, 40, 10}},
		testutil.GradeRow{RegNo: "", Name: "Ghost", Marks: [5]interface{}{1, 2, 3, 4, 5}},
		testutil.GradeRow{RegNo: "undefined", Name: "Nobody"},
		testutil.GradeRow{RegNo: " 21CS002 ", Name: "  ", Marks: [5]interface{}{"AB", nil, 24.5, 50, 0}},
	)
	require.NoError(t, err)

	assert.Equal(t, 2, batch.RowsSkipped)
	require.Len(t, batch.Records, 2)

	first := batch.Records[0]
	assert.Equal(t, "21CS001", first.RegNo)
	assert.Equal(t, "Asha", first.Name)
	assert.Equal(t, 4, first.Semester)
	assert.Equal(t, "ds-1", first.DatasetID)
	assert.Equal(t, Marks{
		{Code: "MA23111", Value: 30},
		{Code: "AL23311", Value: 20},
		{Code: "CS23411", Value: 25},
		{Code: "CS23312", Value: 40},
		{Code: "EC23331", Value: 10},
	}, first.SubjectMarks)

	second := batch.Records[1]
	assert.Equal(t, "21CS002", second.RegNo)
	assert.Equal(t, unknownName, second.Name)
	assert.Equal(t, Marks{
		{Code: "MA23111", Text: "AB"},
		{Code: "AL23311"},
		{Code: "CS23411", Value: 24.5},
		{Code: "CS23312", Value: 50},
		{Code: "EC23331"},
	}, second.SubjectMarks)
}

func TestNormalize_xlsx(t *testing.T) {
	buf := testutil.GradeWorkbook(t,
		testutil.GradeRow{RegNo: "21CS001", Name: "Asha", Marks: [5]interface{}{30, 20, 25, 40, 10}},
		testutil.GradeRow{Name: "no regno"},
	)
	rr, err := OpenRows(buf, "grades.xlsx")
	require.NoError(t, err)
	defer func() { _ = rr.Close() }()

	batch, err := Normalize(rr, 1, "ds-2")
	require.NoError(t, err)
	assert.Equal(t, 1, batch.RowsSkipped)
	require.Len(t, batch.Records, 1)
	assert.Equal(t, 40.0, batch.Records[0].SubjectMarks[3].Value)
}

func TestNormalize_shortRows(t *testing.T) {
	// a row that stops after the name column still yields five zero marks
	csv := []byte("1\n2\n3\n4\n5\n6\n,21CS009,Ravi\n")
	rr, err := OpenRows(csv, "short.csv")
	require.NoError(t, err)

	batch, err := Normalize(rr, 2, "ds-3")
	require.NoError(t, err)
	require.Len(t, batch.Records, 1)
	require.Len(t, batch.Records[0].SubjectMarks, 5)
	for _, m := range batch.Records[0].SubjectMarks {
		assert.Equal(t, 0.0, m.Number())
	}
}

func TestNormalize_allSkipped(t *testing.T) {
	batch, err := normalizeCSV(t, testutil.GradeRow{RegNo: "undefined"})
	require.NoError(t, err)
	assert.Empty(t, batch.Records)
	assert.Equal(t, 1, batch.RowsSkipped)
}

func TestNormalize_headerOnly(t *testing.T) {
	_, err := normalizeCSV(t)
	assert.Equal(t, ErrNoRows, err)
}
