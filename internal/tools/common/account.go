// Package common holds helpers shared by the tool packages: account
// resolution and the instrumentation wrapper applied to every tool
// handler.
package common

import (
	"strings"
)

// GetAccountFromArgs extracts the account name from request arguments,
// defaulting to "default" when absent. Account names let one server
// hold tokens for several Google accounts (default, work, personal).
func GetAccountFromArgs(args map[string]interface{}) string {
	if accountVal, ok := args["account"].(string); ok && accountVal != "" {
		return accountVal
	}
	return "default"
}

// ParseCommaSeparatedList splits a comma-separated string into a slice
// of trimmed, non-empty values. Returns nil for an empty input.
func ParseCommaSeparatedList(value string) []string {
	if value == "" {
		return nil
	}

	var result []string
	for _, item := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
