// Package llm contains the model-provider collaborators for the agent loop.
// The loop only needs one thing from a provider: given the fixed system
// instructions and the ordered conversation, produce one textual reply.
package llm

import "context"

// Message roles accepted by every provider.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one conversation entry in provider wire order.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Provider is the model backend contract. Errors are surfaced as returned
// faults; the loop converts them into corrective observations rather than
// aborting the run.
type Provider interface {
	Complete(ctx context.Context, systemPrompt string, messages []Message) (string, error)
}
