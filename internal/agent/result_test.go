package agent

import "testing"

func TestToolResultBuilders(t *testing.T) {
	ok := OK(map[string]any{"count": 3})
	if !ok.Success() {
		t.Error("OK result not successful")
	}
	if ok["count"] != 3 {
		t.Errorf("count = %v", ok["count"])
	}

	fail := Fail("boom")
	if fail.Success() {
		t.Error("Fail result reported success")
	}
	if fail.ErrorMessage() != "boom" {
		t.Errorf("ErrorMessage = %q", fail.ErrorMessage())
	}
	if ok.ErrorMessage() != "" {
		t.Errorf("OK ErrorMessage = %q, want empty", ok.ErrorMessage())
	}
}

func TestSerializeStableKeyOrder(t *testing.T) {
	a := ToolResult{"b": 1.0, "a": "x", "success": true}
	b := ToolResult{"success": true, "a": "x", "b": 1.0}

	if a.Serialize() != b.Serialize() {
		t.Errorf("equal results serialized differently:\n%s\n%s", a.Serialize(), b.Serialize())
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	orig := OK(map[string]any{
		"files": []any{"a.py", "sub/b.py"},
		"count": 2.0,
	})

	parsed, err := ParseToolResult(orig.Serialize())
	if err != nil {
		t.Fatalf("ParseToolResult failed: %v", err)
	}
	if !parsed.Success() {
		t.Error("round-tripped result lost success flag")
	}
	if parsed["count"] != 2.0 {
		t.Errorf("count = %v", parsed["count"])
	}
	// Round-tripping must be idempotent on the serialized form.
	if parsed.Serialize() != orig.Serialize() {
		t.Errorf("serialize not stable across round trip:\n%s\n%s", orig.Serialize(), parsed.Serialize())
	}
}

func TestParseToolResultRejectsNonObject(t *testing.T) {
	if _, err := ParseToolResult("not json"); err == nil {
		t.Error("ParseToolResult accepted garbage")
	}
	if _, err := ParseToolResult(`["a","b"]`); err == nil {
		t.Error("ParseToolResult accepted a JSON array")
	}
}
