package agent

import "testing"

func TestConversationAppendOnly(t *testing.T) {
	conv := NewConversation()
	conv.Append(RoleUser, "Task: x")
	conv.Append(RoleAssistant, "THOUGHT: ...")

	if conv.Len() != 2 {
		t.Fatalf("Len = %d, want 2", conv.Len())
	}

	last, ok := conv.Last()
	if !ok || last.Role != RoleAssistant {
		t.Errorf("Last = %+v, %v", last, ok)
	}

	// Turns returns a copy; mutating it must not touch the history.
	turns := conv.Turns()
	turns[0].Content = "tampered"
	if got := conv.Turns()[0].Content; got != "Task: x" {
		t.Errorf("history mutated through Turns copy: %q", got)
	}
}
