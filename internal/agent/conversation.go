package agent

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Turn is a single message exchanged between the agent and the model.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Conversation is the ordered message history replayed to the model on every
// call. It is append-only: turns are immutable once recorded, and corrections
// happen by appending new turns, never by editing history. Insertion order is
// chronological order and must be preserved verbatim, because position encodes
// who said what and when.
type Conversation struct {
	turns []Turn
}

// NewConversation creates an empty conversation.
func NewConversation() *Conversation {
	return &Conversation{turns: make([]Turn, 0)}
}

// Append records a new turn at the end of the history.
func (c *Conversation) Append(role Role, content string) {
	c.turns = append(c.turns, Turn{Role: role, Content: content})
}

// Turns returns a copy of the history in insertion order.
func (c *Conversation) Turns() []Turn {
	out := make([]Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

// Len returns the number of turns recorded so far.
func (c *Conversation) Len() int {
	return len(c.turns)
}

// Last returns the most recent turn, if any.
func (c *Conversation) Last() (Turn, bool) {
	if len(c.turns) == 0 {
		return Turn{}, false
	}
	return c.turns[len(c.turns)-1], true
}
