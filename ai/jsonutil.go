package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Models wrap JSON in markdown fences or chat framing often enough that a
// direct parse is not good enough. Strategies, in order: parse as-is, strip
// code fences, extract the outermost object from mixed content.
var (
	codeFenceRegex = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)\\n?```")
	objectRegex    = regexp.MustCompile(`(?s)\{.*\}`)
)

// parseModelJSON decodes the model's reply into out.
func parseModelJSON(text string, out any) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return fmt.Errorf("empty model output")
	}

	if err := json.Unmarshal([]byte(trimmed), out); err == nil {
		return nil
	}

	if m := codeFenceRegex.FindStringSubmatch(trimmed); m != nil {
		if err := json.Unmarshal([]byte(strings.TrimSpace(m[1])), out); err == nil {
			return nil
		}
	}

	if m := objectRegex.FindString(trimmed); m != "" {
		if err := json.Unmarshal([]byte(m), out); err == nil {
			return nil
		}
	}

	return fmt.Errorf("no parseable JSON in model output")
}
