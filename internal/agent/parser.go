package agent

import (
	"errors"
	"fmt"
	"strings"
)

// ParsedAction is the structured interpretation of one model reply: the
// reasoning text, the chosen tool, and its parameters. It is produced
// transiently by a Parser and consumed immediately by the loop.
type ParsedAction struct {
	Thought    string
	ToolName   string
	Parameters map[string]any
}

// ErrMissingAction reports a reply that parsed structurally but named no
// tool. The loop must not guess a default tool; it asks the model to retry.
var ErrMissingAction = errors.New("no action found in model reply")

// MalformedInputError reports an encoding-level parse failure.
type MalformedInputError struct {
	Encoding string
	Err      error
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed %s reply: %v", e.Encoding, e.Err)
}

func (e *MalformedInputError) Unwrap() error { return e.Err }

// Parser turns one raw model reply into a ParsedAction. Models emit replies
// in incompatible encodings, so each encoding gets its own implementation,
// selected once at agent construction rather than sniffed per reply.
type Parser interface {
	// Parse extracts the action from a raw reply. It returns ErrMissingAction
	// when no tool was chosen and *MalformedInputError on encoding failures.
	Parse(raw string) (*ParsedAction, error)

	// FormatInstructions returns the output-format contract rendered into the
	// system prompt, including a worked example.
	FormatInstructions() string

	// WrapObservation wraps a serialized ToolResult in the textual marker the
	// model was instructed to expect for this encoding.
	WrapObservation(serialized string) string
}

// NewParser returns the parser for the given mode ("marker" or "tag").
func NewParser(mode string) (Parser, error) {
	switch mode {
	case "", "marker":
		return MarkerParser{}, nil
	case "tag":
		return TagParser{}, nil
	default:
		return nil, fmt.Errorf("unknown parser mode %q (want marker or tag)", mode)
	}
}

// firstJSONObject extracts the first balanced {...} substring of s, honoring
// JSON string quoting. Models occasionally wrap valid JSON in prose; this is
// the one recovery attempt made before giving up on a parameter block.
func firstJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return s[start : i+1], true
				}
			}
		}
	}
	return "", false
}
