package dataset

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarks_JSON(t *testing.T) {
	marks := Marks{
		{Code: "EC23331", Value: 10},
		{Code: "MA23111", Value: 24.5},
		{Code: "absent", Text: "AB"},
	}
	data, err := json.Marshal(marks)
	require.NoError(t, err)
	assert.Equal(t, `{"EC23331":10,"MA23111":24.5,"absent":"AB"}`, string(data))

	var decoded Marks
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, marks, decoded)
}

func TestMarks_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    Marks
		wantErr bool
	}{
		{name: "null", data: `null`, want: nil},
		{name: "empty", data: `{}`, want: Marks{}},
		{name: "order kept", data: `{"b":1,"a":2}`, want: Marks{{Code: "b", Value: 1}, {Code: "a", Value: 2}}},
		{name: "null value", data: `{"a":null}`, want: Marks{{Code: "a"}}},
		{name: "numeric text", data: `{"a":"30"}`, want: Marks{{Code: "a", Text: "30"}}},
		{name: "bool", data: `{"a":true}`, want: Marks{{Code: "a", Text: "true"}}},
		{name: "array", data: `[1,2]`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Marks
			err := json.Unmarshal([]byte(tt.data), &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMark_Number(t *testing.T) {
	tests := []struct {
		mark Mark
		want float64
	}{
		{mark: Mark{Value: 42}, want: 42},
		{mark: Mark{Text: " 30 "}, want: 30},
		{mark: Mark{Text: "AB"}, want: 0},
		{mark: Mark{Text: "NaN"}, want: 0},
		{mark: Mark{Text: "true"}, want: 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.mark.Number(), "%+v", tt.mark)
	}
}

func TestMarks_Scan(t *testing.T) {
	var marks Marks
	require.NoError(t, marks.Scan([]byte(`{"MA23111":30}`)))
	assert.Equal(t, Marks{{Code: "MA23111", Value: 30}}, marks)

	require.NoError(t, marks.Scan(`{"CS23411":"x"}`))
	assert.Equal(t, Marks{{Code: "CS23411", Text: "x"}}, marks)

	require.NoError(t, marks.Scan(nil))
	assert.Nil(t, marks)

	assert.Error(t, marks.Scan(42))

	val, err := Marks{{Code: "AL23311", Value: 20}}.Value()
	require.NoError(t, err)
	assert.Equal(t, `{"AL23311":20}`, val)
}

func TestMarks_Get(t *testing.T) {
	marks := Marks{{Code: "MA23111", Value: 30}}
	m, ok := marks.Get("MA23111")
	assert.True(t, ok)
	assert.Equal(t, 30.0, m.Value)
	_, ok = marks.Get("XX")
	assert.False(t, ok)
}
