package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// GradeRow is one student line of the grade template.
type GradeRow struct {
	RegNo string
	Name  string
	Marks [5]interface{} // MA23111, AL23311, CS23411, CS23312, EC23331; nil is a blank cell
}

// cells lays the row out on the template columns: 1 regNo, 2 name, 5/8/11/14/17 marks.
func (r GradeRow) cells() []interface{} {
	cells := make([]interface{}, 18)
	for i := range cells {
		cells[i] = ""
	}
	cells[1] = r.RegNo
	cells[2] = r.Name
	for i, m := range r.Marks {
		if m != nil {
			cells[5+3*i] = m
		}
	}
	return cells
}

func headerRows() [][]interface{} {
	return [][]interface{}{
		{"ANNA UNIVERSITY"},
		{"B.E. Computer Science and Engineering"},
		{"Internal assessment"},
		{"Semester results"},
		{"S.No", "Register No", "Name"},
		{"", "", "", "", "", "MA23111", "", "", "AL23311", "", "", "CS23411", "", "", "CS23312", "", "", "EC23331"},
	}
}

// GradeWorkbook builds an xlsx grade sheet: the 6 template header rows followed by rows.
func GradeWorkbook(t *testing.T, rows ...GradeRow) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	sheet := f.GetSheetName(0)

	all := headerRows()
	for _, r := range rows {
		all = append(all, r.cells())
	}
	for i, cells := range all {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("GradeWorkbook() failed: %v", err)
		}
		if err = f.SetSheetRow(sheet, cell, &cells); err != nil {
			t.Fatalf("GradeWorkbook() failed: %v", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("GradeWorkbook() failed: %v", err)
	}
	return buf.Bytes()
}

// GradeCSV builds the CSV version of GradeWorkbook.
func GradeCSV(rows ...GradeRow) []byte {
	var b strings.Builder
	for _, cells := range headerRows() {
		writeCSVLine(&b, cells)
	}
	for _, r := range rows {
		writeCSVLine(&b, r.cells())
	}
	return []byte(b.String())
}

func writeCSVLine(b *strings.Builder, cells []interface{}) {
	for i, c := range cells {
		if i > 0 {
			b.WriteByte(',')
		}
		_, _ = fmt.Fprint(b, c)
	}
	b.WriteString("\r\n")
}
