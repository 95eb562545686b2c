package batch

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStringOrArray(t *testing.T) {
	tests := []struct {
		name    string
		param   interface{}
		want    []string
		wantErr bool
	}{
		{"single string", "file-1", []string{"file-1"}, false},
		{"array of strings", []interface{}{"a", "b"}, []string{"a", "b"}, false},
		{"nil", nil, nil, true},
		{"empty string", "", nil, true},
		{"empty array", []interface{}{}, nil, true},
		{"array with empty element", []interface{}{"a", ""}, nil, true},
		{"array with non-string", []interface{}{"a", 7}, nil, true},
		{"number", 42, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStringOrArray(tt.param, "ids")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseStringOrArrayErrorNamesParameter(t *testing.T) {
	_, err := ParseStringOrArray(nil, "files")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "files")
}

func TestSummarizeCounts(t *testing.T) {
	out := Summarize([]Result{
		Succeeded("a", "done"),
		Failed("b", errors.New("boom")),
		Succeeded("c", "done"),
	})

	assert.Contains(t, out, `"total": 3`)
	assert.Contains(t, out, `"successful": 2`)
	assert.Contains(t, out, `"failed": 1`)
	assert.Contains(t, out, `"boom"`)
}

func TestResultConstructors(t *testing.T) {
	ok := Succeeded("a", "uploaded as id-1")
	assert.Equal(t, "success", ok.Status)
	assert.Equal(t, "uploaded as id-1", ok.Result)
	assert.Empty(t, ok.Error)

	bad := Failed("b", errors.New("no such file"))
	assert.Equal(t, "error", bad.Status)
	assert.Equal(t, "no such file", bad.Error)
	assert.Empty(t, bad.Result)
}
