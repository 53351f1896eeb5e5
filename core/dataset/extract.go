package dataset

import (
	"bytes"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/edugrade/portal/core"
)

// HeaderRows is the number of leading template rows that never hold student data.
const HeaderRows = 6

var (
	ErrUnsupportedFile = core.NewValidationError(errors.New("unsupported file type: only .csv and .xlsx, .xlsm, .xltx, .xltm workbooks are accepted"))
	ErrUnreadableFile  = core.NewValidationError(errors.New("could not read the uploaded file"))

	lineSplitRegex = regexp.MustCompile(`\r?\n`)
)

// RowReader is a forward-only iterator over the raw rows of the first sheet.
// Re-reading a file means calling OpenRows again on the same buffer.
type RowReader interface {
	// Next advances to the next row, it returns false at the end of the rows or on error.
	Next() bool
	// Columns returns the raw cell values of the current row. Trailing empty cells may be omitted.
	Columns() ([]string, error)
	// Err returns the error, if any, that stopped the iteration.
	Err() error
	Close() error
}

// OpenRows picks the row reader matching the extension of filename.
func OpenRows(buf []byte, filename string) (RowReader, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return newCSVRows(buf), nil
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return newXLSXRows(buf)
	default:
		return nil, ErrUnsupportedFile
	}
}

// csvRows splits lines on `\r?\n` and fields on commas. Quoting is not supported: the grade template never quotes.
type csvRows struct {
	lines []string
	pos   int
}

func newCSVRows(buf []byte) *csvRows {
	lines := make([]string, 0)
	for _, line := range lineSplitRegex.Split(string(buf), -1) {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return &csvRows{lines: lines, pos: -1}
}

func (r *csvRows) Next() bool {
	if r.pos+1 >= len(r.lines) {
		return false
	}
	r.pos++
	return true
}

func (r *csvRows) Columns() ([]string, error) {
	if r.pos < 0 || r.pos >= len(r.lines) {
		return nil, errors.New("csv: Columns called without a current row")
	}
	cols := strings.Split(r.lines[r.pos], ",")
	for i := range cols {
		cols[i] = strings.TrimSpace(cols[i])
	}
	return cols, nil
}

func (r *csvRows) Err() error   { return nil }
func (r *csvRows) Close() error { return nil }

type xlsxRows struct {
	file *excelize.File
	rows *excelize.Rows
}

func newXLSXRows(buf []byte) (*xlsxRows, error) {
	f, err := excelize.OpenReader(bytes.NewReader(buf))
	if err != nil {
		return nil, ErrUnreadableFile
	}
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		_ = f.Close()
		return nil, ErrUnreadableFile
	}
	rows, err := f.Rows(sheets[0])
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrapf(err, "reading sheet %q", sheets[0])
	}
	return &xlsxRows{file: f, rows: rows}, nil
}

func (r *xlsxRows) Next() bool { return r.rows.Next() }

func (r *xlsxRows) Columns() ([]string, error) {
	return r.rows.Columns(excelize.Options{RawCellValue: true})
}

func (r *xlsxRows) Err() error { return r.rows.Error() }

func (r *xlsxRows) Close() error {
	rErr := r.rows.Close()
	if err := r.file.Close(); err != nil {
		return err
	}
	return rErr
}
