// Package agent implements the turn-taking protocol engine: the conversation
// state, the response parsers, the tool registry, and the loop that drives a
// model through repeated reason-then-act cycles until it signals completion
// or the iteration budget runs out.
package agent

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/reagent-dev/reagent/internal/llm"
)

// State is the lifecycle state of a run. A run enters StateRunning once and
// ends in exactly one of the two terminal states.
type State string

const (
	StateRunning   State = "running"
	StateComplete  State = "complete"
	StateExhausted State = "exhausted"
)

// DefaultMaxIterations bounds a run when no explicit budget is configured.
const DefaultMaxIterations = 10

// RunResult reports how a run ended. It is always populated, success or not;
// callers must not infer success from the absence of an error.
type RunResult struct {
	State              State  `json:"state"`
	Summary            string `json:"summary,omitempty"`
	Iterations         int    `json:"iterations"`
	ConversationLength int    `json:"conversation_length"`
	Conversation       []Turn `json:"conversation,omitempty"`
}

// Bridge is the remote tool source contract. Implementations must fail soft:
// Discover returns an empty slice on any error, Invoke returns a failing
// ToolResult. The loop never needs to guard against a bridge fault.
type Bridge interface {
	Discover(ctx context.Context) []Descriptor
	Invoke(ctx context.Context, name string, params map[string]any) ToolResult
}

// Options configures an Agent beyond its required collaborators.
type Options struct {
	MaxIterations int
	Parser        Parser
	Bridge        Bridge
	Logger        *zap.Logger
}

// Agent drives the reason-then-act loop: request a completion, parse it,
// dispatch the chosen tool, record the observation, and re-enter until the
// terminal tool fires or the iteration budget runs out. One Agent owns one
// run's conversation at a time; run tasks concurrently with separate Agents.
type Agent struct {
	provider      llm.Provider
	registry      *Registry
	bridge        Bridge
	parser        Parser
	maxIterations int
	logger        *zap.Logger
}

// New creates an Agent. The registry should already hold every local tool;
// registration after startup is not supported.
func New(provider llm.Provider, registry *Registry, opts Options) *Agent {
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultMaxIterations
	}
	if opts.Parser == nil {
		opts.Parser = MarkerParser{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Agent{
		provider:      provider,
		registry:      registry,
		bridge:        opts.Bridge,
		parser:        opts.Parser,
		maxIterations: opts.MaxIterations,
		logger:        opts.Logger,
	}
}

// Run executes the loop for one task until completion, exhaustion, or
// cancellation. On cancellation the partial result is returned together with
// the context error so the caller can report the conversation so far.
func (a *Agent) Run(ctx context.Context, task string) (*RunResult, error) {
	conv := NewConversation()
	conv.Append(RoleUser, fmt.Sprintf(
		"Task: %s\n\nPlease complete this task using the available tools. Think step by step about what you need to do.",
		task))

	// Remote discovery happens once per run, not per turn, so the advertised
	// tool set stays fixed for the whole conversation.
	remoteNames, catalog := a.buildCatalog(ctx)
	systemPrompt := BuildSystemPrompt(catalog, a.parser)

	a.logger.Info("starting run",
		zap.Int("max_iterations", a.maxIterations),
		zap.Int("local_tools", a.registry.Count()),
		zap.Int("remote_tools", len(remoteNames)),
	)

	iterations := 0
	for iterations < a.maxIterations {
		// An external interrupt stops the loop before the next provider call;
		// the partial conversation is reported, not discarded.
		select {
		case <-ctx.Done():
			return a.result(StateRunning, "", iterations, conv), ctx.Err()
		default:
		}

		iterations++
		a.logger.Info("iteration",
			zap.Int("n", iterations),
			zap.Int("max", a.maxIterations),
		)

		reply, err := a.provider.Complete(ctx, systemPrompt, toMessages(conv.Turns()))
		if err != nil {
			// Provider faults consume one unit of the shared iteration budget
			// instead of a separate retry counter.
			a.logger.Warn("provider call failed", zap.Error(err))
			conv.Append(RoleUser, fmt.Sprintf("Error occurred: %v. Please try a different approach.", err))
			continue
		}

		// The raw reply is recorded verbatim even when it fails to parse; the
		// model must see its own prior output reflected back.
		conv.Append(RoleAssistant, reply)

		action, err := a.parser.Parse(reply)
		if err != nil {
			a.logger.Warn("unparseable reply", zap.Error(err))
			conv.Append(RoleUser,
				"Your previous response could not be parsed. Reformat it to match the required response format exactly and try again.")
			continue
		}

		if action.ToolName == TerminalToolName {
			summary, _ := action.Parameters["summary"].(string)
			if summary == "" {
				summary = "Task completed"
			}
			a.logger.Info("task complete", zap.String("summary", summary))
			return a.result(StateComplete, summary, iterations, conv), nil
		}

		result := a.dispatch(ctx, action, remoteNames)
		conv.Append(RoleUser, a.parser.WrapObservation(result.Serialize()))
	}

	a.logger.Warn("iteration budget exhausted", zap.Int("iterations", iterations))
	return a.result(StateExhausted, "", iterations, conv), nil
}

// buildCatalog merges local descriptors with remote ones discovered from the
// bridge. Local tools win name collisions, so shadowed remote tools are
// filtered out before the model ever sees them.
func (a *Agent) buildCatalog(ctx context.Context) (map[string]struct{}, []Descriptor) {
	catalog := a.registry.DescribeAll()
	remoteNames := make(map[string]struct{})
	if a.bridge == nil {
		return remoteNames, catalog
	}
	for _, d := range a.bridge.Discover(ctx) {
		if a.registry.Has(d.Name) {
			a.logger.Warn("remote tool shadowed by local tool", zap.String("tool", d.Name))
			continue
		}
		remoteNames[d.Name] = struct{}{}
		catalog = append(catalog, d)
	}
	return remoteNames, catalog
}

// dispatch resolves and executes one parsed action, local registry first.
// Handler panics and unknown names are downgraded to failing ToolResults so
// a single bad tool call never aborts the run.
func (a *Agent) dispatch(ctx context.Context, action *ParsedAction, remoteNames map[string]struct{}) (result ToolResult) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("tool handler panicked",
				zap.String("tool", action.ToolName),
				zap.Any("panic", r),
			)
			result = Fail(fmt.Sprintf("Tool execution failed: %v", r))
		}
	}()

	a.logger.Info("executing tool",
		zap.String("tool", action.ToolName),
		zap.Int("params", len(action.Parameters)),
	)

	if handler, ok := a.registry.Resolve(action.ToolName); ok {
		return handler(action.Parameters)
	}
	if _, ok := remoteNames[action.ToolName]; ok && a.bridge != nil {
		return a.bridge.Invoke(ctx, action.ToolName, action.Parameters)
	}
	return Fail(fmt.Sprintf("Unknown tool: %s", action.ToolName))
}

func (a *Agent) result(state State, summary string, iterations int, conv *Conversation) *RunResult {
	return &RunResult{
		State:              state,
		Summary:            summary,
		Iterations:         iterations,
		ConversationLength: conv.Len(),
		Conversation:       conv.Turns(),
	}
}

// toMessages converts history turns into provider wire messages. System
// content lives in the system prompt, never in the replayed conversation.
func toMessages(turns []Turn) []llm.Message {
	messages := make([]llm.Message, 0, len(turns))
	for _, t := range turns {
		switch t.Role {
		case RoleUser:
			messages = append(messages, llm.Message{Role: llm.RoleUser, Content: t.Content})
		case RoleAssistant:
			messages = append(messages, llm.Message{Role: llm.RoleAssistant, Content: t.Content})
		}
	}
	return messages
}
