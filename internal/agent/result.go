package agent

import "encoding/json"

// ToolResult is the uniform shape of every tool execution result. It is
// always a mapping, never a bare scalar, so it can be serialized into an
// observation turn the same way regardless of which tool ran. A failing
// result carries "success": false and an "error" message.
type ToolResult map[string]any

// OK builds a successful result from tool-specific fields.
func OK(fields map[string]any) ToolResult {
	r := ToolResult{"success": true}
	for k, v := range fields {
		r[k] = v
	}
	return r
}

// Fail builds a failing result with the given error message.
func Fail(msg string) ToolResult {
	return ToolResult{"success": false, "error": msg}
}

// Success reports whether the result carries "success": true.
func (r ToolResult) Success() bool {
	ok, _ := r["success"].(bool)
	return ok
}

// ErrorMessage returns the "error" field, or "" for successful results.
func (r ToolResult) ErrorMessage() string {
	msg, _ := r["error"].(string)
	return msg
}

// Serialize renders the result as JSON with stable key order. encoding/json
// sorts map keys, so equal results always serialize identically.
func (r ToolResult) Serialize() string {
	raw, err := json.Marshal(r)
	if err != nil {
		// A map of JSON-decoded values always marshals; anything else is a
		// programming error worth surfacing to the model rather than hiding.
		return `{"success":false,"error":"unserializable tool result"}`
	}
	return string(raw)
}

// ParseToolResult decodes a serialized result back into a ToolResult.
func ParseToolResult(raw string) (ToolResult, error) {
	var r ToolResult
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return nil, err
	}
	return r, nil
}
