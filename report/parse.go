// CLAUDE:SUMMARY Tolerant JSON extraction from model responses: code-fence stripping plus a repair pass.
package report

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	codeFenceRE = regexp.MustCompile("(?s)```(?:json)?[ \\t]*\\n?(.*?)```")

	// Models sometimes write alternatives inline:
	//   "value": "some text" or similar alternative text
	// Truncate at the first unquoted `or` after a closing quote.
	inlineOrRE = regexp.MustCompile(`("(?:[^"\\]|\\.)*")\s+or\s+[^,\]\}]+`)
)

// StripCodeFence removes a ```json ... ``` wrapper from a model response,
// returning the inner text trimmed. Responses without a fence pass through
// trimmed.
func StripCodeFence(text string) string {
	if m := codeFenceRE.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(text)
}

func repairJSON(text string) string {
	return inlineOrRE.ReplaceAllString(text, "$1")
}

// SafeParse parses JSON out of a model response: strip the code fence,
// parse, and on failure retry once after the repair pass. The result is
// the generic decoding (map[string]any / []any) the normalizers consume.
func SafeParse(text string) (any, error) {
	cleaned := StripCodeFence(text)

	var v any
	if err := json.Unmarshal([]byte(cleaned), &v); err == nil {
		return v, nil
	}

	repaired := repairJSON(cleaned)
	if err := json.Unmarshal([]byte(repaired), &v); err != nil {
		return nil, fmt.Errorf("parse model response: %w", err)
	}
	return v, nil
}
