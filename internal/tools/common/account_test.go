package common

import (
	"reflect"
	"testing"
)

func TestGetAccountFromArgs(t *testing.T) {
	tests := []struct {
		name string
		args map[string]interface{}
		want string
	}{
		{"explicit account", map[string]interface{}{"account": "work"}, "work"},
		{"empty account", map[string]interface{}{"account": ""}, "default"},
		{"missing account", map[string]interface{}{}, "default"},
		{"nil args", nil, "default"},
		{"non-string account", map[string]interface{}{"account": 7}, "default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetAccountFromArgs(tt.args); got != tt.want {
				t.Errorf("GetAccountFromArgs() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseCommaSeparatedList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"single", "folder-1", []string{"folder-1"}},
		{"multiple", "a,b,c", []string{"a", "b", "c"}},
		{"whitespace", " a , b ", []string{"a", "b"}},
		{"empty elements", "a,,b,", []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseCommaSeparatedList(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseCommaSeparatedList(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
