package agent

import (
	"encoding/json"
	"strings"
)

// BuildSystemPrompt renders the fixed system instructions: the ReAct contract,
// the tool catalog, and the output-format contract for the active encoding.
func BuildSystemPrompt(tools []Descriptor, parser Parser) string {
	var b strings.Builder

	b.WriteString(`You are a software development agent that can interact with a code repository.
You follow the ReAct pattern: Reasoning + Acting.

For each step:
1. THINK: Reason about what you need to do next
2. ACT: Choose a tool to use and specify the parameters
3. OBSERVE: You'll receive the result of the tool execution

Available Tools:
`)

	for _, t := range tools {
		b.WriteString("\nTool: ")
		b.WriteString(t.Name)
		b.WriteString("\nDescription: ")
		b.WriteString(t.Description)
		b.WriteString("\nParameters: ")
		b.WriteString(renderSchema(t.Parameters))
		b.WriteString("\n")
	}

	b.WriteString(`
Instructions:
- Always start by exploring the repository to understand its structure
- Think step by step about what needs to be done
- Use the tools to read, search, and modify files as needed
- When you've completed the task, call the 'task_complete' tool with a summary
- `)
	b.WriteString(parser.FormatInstructions())
	b.WriteString("\n")

	return b.String()
}

// renderSchema serializes a parameter schema with stable key order.
func renderSchema(schema map[string]any) string {
	if len(schema) == 0 {
		return "{}"
	}
	raw, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(raw)
}
