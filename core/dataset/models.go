package dataset

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Mark is the mark of one subject. Non-numeric cells are kept in Text, as uploaded.
type Mark struct {
	Code  string
	Value float64
	Text  string
}

// Number returns the numeric mark, coercing text to a number (0 when not numeric).
func (m Mark) Number() float64 {
	if m.Text == "" {
		return m.Value
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(m.Text), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Marks maps subject codes to marks, in upload order.
type Marks []Mark

// Get returns the mark of code.
func (ms Marks) Get(code string) (Mark, bool) {
	for _, m := range ms {
		if m.Code == code {
			return m, true
		}
	}
	return Mark{}, false
}

func (ms Marks) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range ms {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(m.Code)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		var val []byte
		if m.Text != "" {
			val, err = json.Marshal(m.Text)
		} else {
			val, err = json.Marshal(m.Value)
		}
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (ms *Marks) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil { // null
		*ms = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("marks: expected object, got %v", tok)
	}

	marks := make(Marks, 0, 5)
	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return err
		}
		code, ok := tok.(string)
		if !ok {
			return fmt.Errorf("marks: expected key, got %v", tok)
		}
		var raw json.RawMessage
		if err = dec.Decode(&raw); err != nil {
			return err
		}
		marks = append(marks, decodeMark(code, raw))
	}
	if _, err = dec.Token(); err != nil && err != io.EOF {
		return err
	}
	*ms = marks
	return nil
}

func decodeMark(code string, raw json.RawMessage) Mark {
	m := Mark{Code: code}
	switch {
	case len(raw) == 0 || string(raw) == "null":
	case raw[0] == '"':
		_ = json.Unmarshal(raw, &m.Text)
	default:
		if err := json.Unmarshal(raw, &m.Value); err != nil {
			m.Text = string(raw) // true, false, objects...
		}
	}
	return m
}

// Value implements driver.Valuer, marks are stored as a JSON object. A string is returned as lib/pq would
// send a []byte as bytea.
func (ms Marks) Value() (driver.Value, error) {
	b, err := ms.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (ms *Marks) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*ms = nil
		return nil
	case []byte:
		return ms.UnmarshalJSON(v)
	case string:
		return ms.UnmarshalJSON([]byte(v))
	default:
		return errors.Errorf("marks: cannot scan %T", src)
	}
}

// StudentRecord is one row of a semester's results.
type StudentRecord struct {
	ID           int64  `json:"id" db:"id"`
	RegNo        string `json:"reg_no" db:"reg_no"`
	Name         string `json:"name" db:"name"`
	Semester     int    `json:"semester" db:"semester"`
	DatasetID    string `json:"dataset_id" db:"dataset_id"`
	SubjectMarks Marks  `json:"subject_marks" db:"subject_marks"`
}

// Dataset is one upload batch.
type Dataset struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Semester     int       `json:"semester" db:"semester"`
	UploadedBy   string    `json:"uploaded_by" db:"uploaded_by"`
	UploadedAt   time.Time `json:"uploaded_at" db:"uploaded_at"` // UTC
	StudentCount int       `json:"student_count" db:"student_count"`
}

// Batch is the normalized content of an upload.
type Batch struct {
	Records     []StudentRecord
	RowsSkipped int
}

type UploadRequest struct {
	File       []byte
	Filename   string
	Semester   string
	UploadedBy string
}

type UploadResult struct {
	Message           string `json:"message"`
	StudentsProcessed int    `json:"studentsProcessed"`
	RowsSkipped       int    `json:"rowsSkipped"`
	DatasetID         string `json:"datasetId"`
}
