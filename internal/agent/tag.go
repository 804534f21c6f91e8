package agent

import (
	"encoding/xml"
	"strings"
)

// TagParser handles tag-delimited replies:
//
//	<THOUGHT>reasoning</THOUGHT>
//	<ACTION>
//	  <tool_name>list_files</tool_name>
//	  <parameters>
//	    <directory>.</directory>
//	  </parameters>
//	</ACTION>
//
// A reply is rarely one well-formed document, so the fragment is wrapped in a
// synthetic root element before decoding. Parameter values are read as raw
// per-field text; no interpolation or evaluation happens here.
type TagParser struct{}

type xmlNode struct {
	XMLName xml.Name
	Text    string    `xml:",chardata"`
	Nodes   []xmlNode `xml:",any"`
}

// Parse implements Parser.
func (TagParser) Parse(raw string) (*ParsedAction, error) {
	dec := xml.NewDecoder(strings.NewReader("<root>" + raw + "</root>"))
	dec.Strict = false

	var root xmlNode
	if err := dec.Decode(&root); err != nil {
		return nil, &MalformedInputError{Encoding: "tag", Err: err}
	}

	var thought, toolName string
	params := map[string]any{}
	for _, n := range root.Nodes {
		switch n.XMLName.Local {
		case "THOUGHT":
			thought = strings.TrimSpace(n.Text)
		case "ACTION":
			for _, c := range n.Nodes {
				switch c.XMLName.Local {
				case "tool_name":
					toolName = strings.TrimSpace(c.Text)
				case "parameters":
					for _, p := range c.Nodes {
						params[p.XMLName.Local] = strings.TrimSpace(p.Text)
					}
				}
			}
		}
	}

	if toolName == "" {
		return nil, ErrMissingAction
	}

	return &ParsedAction{Thought: thought, ToolName: toolName, Parameters: params}, nil
}

// FormatInstructions implements Parser.
func (TagParser) FormatInstructions() string {
	return `Format your responses as:

<THOUGHT>[Your reasoning about what to do next]</THOUGHT>
<ACTION>
  <tool_name>[Tool name]</tool_name>
  <parameters>
    <param_name>[value]</param_name>
  </parameters>
</ACTION>

Example:
<THOUGHT>I need to see what files are in the repository first.</THOUGHT>
<ACTION>
  <tool_name>list_files</tool_name>
  <parameters>
    <directory>.</directory>
  </parameters>
</ACTION>

After you use a tool, I will respond with:
<OBSERVATION>[Tool execution result]</OBSERVATION>

Then you continue with your next THOUGHT/ACTION cycle.`
}

// WrapObservation implements Parser.
func (TagParser) WrapObservation(serialized string) string {
	return "<OBSERVATION>" + serialized + "</OBSERVATION>"
}
