// Package batch provides helpers for tools that operate on several
// items in one call and need per-item success/failure reporting.
package batch

import (
	"encoding/json"
	"fmt"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Result is the outcome of one item in a batch. A batch never fails as
// a whole; each item carries its own status.
type Result struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Succeeded builds a success result for one item
func Succeeded(id, message string) Result {
	return Result{ID: id, Status: statusSuccess, Result: message}
}

// Failed builds an error result for one item
func Failed(id string, err error) Result {
	return Result{ID: id, Status: statusError, Error: err.Error()}
}

// ParseStringOrArray accepts a tool argument that may be a single
// string or an array of strings and normalizes it to a slice. Empty
// values and non-string elements are rejected with an error naming the
// parameter.
func ParseStringOrArray(param interface{}, paramName string) ([]string, error) {
	switch v := param.(type) {
	case nil:
		return nil, fmt.Errorf("%s is required", paramName)
	case string:
		if v == "" {
			return nil, fmt.Errorf("%s cannot be empty", paramName)
		}
		return []string{v}, nil
	case []interface{}:
		if len(v) == 0 {
			return nil, fmt.Errorf("%s cannot be empty", paramName)
		}
		items := make([]string, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s[%d] must be a string", paramName, i)
			}
			if s == "" {
				return nil, fmt.Errorf("%s[%d] cannot be empty", paramName, i)
			}
			items[i] = s
		}
		return items, nil
	default:
		return nil, fmt.Errorf("%s must be a string or array of strings", paramName)
	}
}

// Summarize renders per-item results as indented JSON with
// total/successful/failed counts up front.
func Summarize(results []Result) string {
	summary := struct {
		Total      int      `json:"total"`
		Successful int      `json:"successful"`
		Failed     int      `json:"failed"`
		Results    []Result `json:"results"`
	}{
		Total:   len(results),
		Results: results,
	}

	for _, r := range results {
		if r.Status == statusSuccess {
			summary.Successful++
		} else {
			summary.Failed++
		}
	}

	out, _ := json.MarshalIndent(summary, "", "  ")
	return string(out)
}
