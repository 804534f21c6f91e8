package agent

import "testing"

func TestRegistrySeedsTerminalTool(t *testing.T) {
	r := NewRegistry()

	if !r.Has(TerminalToolName) {
		t.Fatal("new registry missing terminal tool")
	}
	if _, ok := r.Resolve(TerminalToolName); ok {
		t.Error("terminal tool resolved to a handler, want loop-policy only")
	}
	if r.Count() != 1 {
		t.Errorf("Count = %d, want 1", r.Count())
	}
}

func TestRegistryRegisterAndResolve(t *testing.T) {
	r := NewRegistry()
	r.Register(Descriptor{Name: "echo", Description: "echoes"}, func(params map[string]any) ToolResult {
		return OK(map[string]any{"echo": params["msg"]})
	})

	handler, ok := r.Resolve("echo")
	if !ok {
		t.Fatal("echo not resolved")
	}
	result := handler(map[string]any{"msg": "hi"})
	if result["echo"] != "hi" {
		t.Errorf("result = %v", result)
	}

	if _, ok := r.Resolve("missing"); ok {
		t.Error("resolved a tool that was never registered")
	}
}

func TestRegistryDescribeAllOrder(t *testing.T) {
	r := NewRegistry()
	noop := func(map[string]any) ToolResult { return OK(nil) }
	r.Register(Descriptor{Name: "alpha"}, noop)
	r.Register(Descriptor{Name: "beta"}, noop)
	r.Register(Descriptor{Name: "gamma"}, noop)

	// Re-registering must keep the original catalog position.
	r.Register(Descriptor{Name: "beta", Description: "updated"}, noop)

	got := r.DescribeAll()
	want := []string{TerminalToolName, "alpha", "beta", "gamma"}
	if len(got) != len(want) {
		t.Fatalf("DescribeAll len = %d, want %d", len(got), len(want))
	}
	for i, name := range want {
		if got[i].Name != name {
			t.Errorf("DescribeAll[%d] = %q, want %q", i, got[i].Name, name)
		}
	}
	if got[2].Description != "updated" {
		t.Errorf("re-registered descriptor not replaced: %q", got[2].Description)
	}
}
