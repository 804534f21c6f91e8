package agent

import "sync"

// TerminalToolName is the designated tool call that ends a run successfully.
// It is always present in the registry so the model sees it in the catalog,
// but the loop handles it directly instead of executing a handler.
const TerminalToolName = "task_complete"

// Handler executes a tool with parsed parameters. Handlers must not panic for
// expected failure modes (missing file, bad path); they return a failing
// ToolResult instead. Unexpected panics are still caught by the loop.
type Handler func(params map[string]any) ToolResult

// Descriptor describes a tool for prompt rendering and remote discovery.
// Parameters holds a structured or informal schema keyed by parameter name.
type Descriptor struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

type registered struct {
	desc    Descriptor
	handler Handler
}

// Registry maps tool names to handlers and descriptors. Registration happens
// at startup only; after that the registry is safe for concurrent read-only
// use across agent instances.
type Registry struct {
	mu    sync.RWMutex
	order []string
	tools map[string]registered
}

// NewRegistry creates a registry pre-seeded with the terminal tool descriptor.
func NewRegistry() *Registry {
	r := &Registry{tools: make(map[string]registered)}
	r.Register(Descriptor{
		Name:        TerminalToolName,
		Description: "Call this when the task is complete. Provide a summary of what was accomplished.",
		Parameters:  map[string]any{"summary": "string (required)"},
	}, nil)
	return r
}

// Register adds a tool. Re-registering an existing name replaces the entry in
// place, keeping its original position in the catalog.
func (r *Registry) Register(desc Descriptor, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[desc.Name]; !exists {
		r.order = append(r.order, desc.Name)
	}
	r.tools[desc.Name] = registered{desc: desc, handler: h}
}

// Resolve returns the handler for name. The terminal tool resolves to false
// because it is loop policy, not an executable handler.
func (r *Registry) Resolve(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	if !ok || t.handler == nil {
		return nil, false
	}
	return t.handler, true
}

// Has reports whether name is registered, including the terminal tool.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tools[name]
	return ok
}

// DescribeAll returns every descriptor in registration order, for rendering
// the tool catalog into the system prompt.
func (r *Registry) DescribeAll() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Descriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name].desc)
	}
	return out
}

// Count returns the number of registered tools.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}
