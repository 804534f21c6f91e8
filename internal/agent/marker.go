package agent

import (
	"encoding/json"
	"strings"
)

// MarkerParser handles line-oriented replies:
//
//	THOUGHT: <reasoning>
//	ACTION: <tool name>
//	PARAMETERS: <JSON object, possibly spanning multiple lines>
//
// The PARAMETERS block runs until the next marker or end of input.
type MarkerParser struct{}

var markerPrefixes = []string{"THOUGHT:", "ACTION:", "PARAMETERS:", "OBSERVATION:"}

func isMarkerLine(line string) bool {
	for _, p := range markerPrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

// Parse implements Parser.
func (MarkerParser) Parse(raw string) (*ParsedAction, error) {
	lines := strings.Split(strings.TrimSpace(raw), "\n")

	var thought, toolName, paramsText string
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		switch {
		case strings.HasPrefix(line, "THOUGHT:"):
			thought = strings.TrimSpace(strings.TrimPrefix(line, "THOUGHT:"))
		case strings.HasPrefix(line, "ACTION:"):
			toolName = strings.TrimSpace(strings.TrimPrefix(line, "ACTION:"))
		case strings.HasPrefix(line, "PARAMETERS:"):
			parts := []string{strings.TrimSpace(strings.TrimPrefix(line, "PARAMETERS:"))}
			j := i + 1
			for j < len(lines) && !isMarkerLine(lines[j]) {
				parts = append(parts, lines[j])
				j++
			}
			paramsText = strings.Join(parts, "\n")
			i = j - 1
		}
	}

	if toolName == "" {
		return nil, ErrMissingAction
	}

	return &ParsedAction{
		Thought:    thought,
		ToolName:   toolName,
		Parameters: decodeParameters(paramsText),
	}, nil
}

// decodeParameters parses a PARAMETERS block. Malformed JSON gets one
// recovery attempt on the first balanced {...} substring; if that also fails
// the parameter set is empty rather than fatal.
func decodeParameters(text string) map[string]any {
	text = strings.TrimSpace(text)
	if text == "" {
		return map[string]any{}
	}

	params := map[string]any{}
	if err := json.Unmarshal([]byte(text), &params); err == nil && params != nil {
		return params
	}

	if frag, ok := firstJSONObject(text); ok {
		params = map[string]any{}
		if err := json.Unmarshal([]byte(frag), &params); err == nil && params != nil {
			return params
		}
	}
	return map[string]any{}
}

// FormatInstructions implements Parser.
func (MarkerParser) FormatInstructions() string {
	return `Format your responses as:

THOUGHT: [Your reasoning about what to do next]
ACTION: [Tool name]
PARAMETERS: [JSON object with parameters]

Example:
THOUGHT: I need to see what files are in the repository first.
ACTION: list_files
PARAMETERS: {"directory": "."}

After you use a tool, I will respond with:
OBSERVATION: [Tool execution result]

Then you continue with your next THOUGHT/ACTION cycle.`
}

// WrapObservation implements Parser.
func (MarkerParser) WrapObservation(serialized string) string {
	return "OBSERVATION: " + serialized
}
