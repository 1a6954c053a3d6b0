package common

import (
	"encoding/json"
	"fmt"
)

// ParseJSON locates and unmarshals a JSON object inside free-form model
// output. LLM responses are not contractually valid JSON, so the object is
// sliced between the first '{' and the last '}' before parsing, which strips
// markdown fences and surrounding prose.
func ParseJSON[T any](response string) (T, error) {
	var zero T

	start := -1
	end := -1
	for i, c := range response {
		if c == '{' {
			start = i
			break
		}
	}
	for i := len(response) - 1; i >= 0; i-- {
		if response[i] == '}' {
			end = i + 1
			break
		}
	}

	if start == -1 || end == -1 || start >= end {
		return zero, fmt.Errorf("no JSON object found in response")
	}

	var result T
	if err := json.Unmarshal([]byte(response[start:end]), &result); err != nil {
		return zero, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}

	return result, nil
}

// Truncate cuts s to at most max bytes.
func Truncate(s string, max int) string {
	if max >= 0 && len(s) > max {
		return s[:max]
	}
	return s
}
