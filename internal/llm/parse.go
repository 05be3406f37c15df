package llm

import (
	"encoding/json"
	"strings"

	"frontdesk/internal/errs"
)

// StripCodeFence removes a surrounding markdown code fence from model
// output. Language tags after the opening fence are dropped too.
func StripCodeFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	if nl := strings.IndexByte(trimmed, '\n'); nl >= 0 {
		// first line may be a language tag such as "json"
		first := strings.TrimSpace(trimmed[:nl])
		if first == "" || !strings.ContainsAny(first, " {[") {
			trimmed = trimmed[nl+1:]
		}
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

// ParseJSONObject parses a JSON object from model output. It tries the
// fence-stripped content whole, then the first {...} block. Failure is
// a parse error: the caller gets nothing salvageable.
func ParseJSONObject(content string) (map[string]any, error) {
	cleaned := StripCodeFence(content)

	var fields map[string]any
	if err := json.Unmarshal([]byte(cleaned), &fields); err == nil {
		return fields, nil
	}

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end <= start {
		return nil, errs.New(errs.CodeParse, "no JSON object found in llm response")
	}
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &fields); err != nil {
		return nil, errs.Wrap(errs.CodeParse, err, "failed to parse JSON from llm response")
	}
	return fields, nil
}
