package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/reagent-dev/reagent/internal/agent"
	"github.com/reagent-dev/reagent/internal/config"
	"github.com/reagent-dev/reagent/internal/llm"
	"github.com/reagent-dev/reagent/internal/remote"
	"github.com/reagent-dev/reagent/internal/tools"
	"github.com/reagent-dev/reagent/internal/transcript"
)

func newRunCmd() *cobra.Command {
	var (
		repoPath      string
		maxIterations int
		parserMode    string
		providerName  string
		model         string
		mcpServer     string
		taskFile      string
		noSave        bool
	)

	cmd := &cobra.Command{
		Use:   "run -- <task>",
		Short: "Run the agent on a task",
		Long: `Run the agent loop on a task against a code repository.

Everything after "--" is treated as the task text. Alternatively, pass a
YAML task manifest with -f.`,
		Example: `  reagent run -- "Find all TODO comments and summarize them"
  reagent run --parser tag -- "Add a license header to every Go file"
  reagent run -f task.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// 1. Apply CLI overrides on top of the loaded config.
			if cmd.Flags().Changed("repo") {
				cfg.Agent.RepoPath = repoPath
			}
			if cmd.Flags().Changed("max-iterations") {
				cfg.Agent.MaxIterations = maxIterations
			}
			if cmd.Flags().Changed("parser") {
				cfg.Agent.ParserMode = parserMode
			}
			if cmd.Flags().Changed("provider") {
				cfg.Provider.Name = providerName
			}
			if cmd.Flags().Changed("model") {
				cfg.Provider.Model = model
			}
			if cmd.Flags().Changed("mcp-server") {
				cfg.Agent.MCPServerURL = mcpServer
			}

			// 2. Resolve the task text: manifest file or trailing args.
			taskText := strings.Join(args, " ")
			if taskFile != "" {
				manifests, err := config.ParseTaskFile(taskFile)
				if err != nil {
					return err
				}
				if len(manifests) != 1 {
					return fmt.Errorf("task file %s must contain exactly one Task, found %d", taskFile, len(manifests))
				}
				applyTaskManifest(cfg, manifests[0])
				taskText = manifests[0].Task
			}
			if taskText == "" {
				return fmt.Errorf("task required: reagent run -- \"your task here\"")
			}

			// 3. Create logger.
			logger, err := cfg.Log.BuildLogger()
			if err != nil {
				return fmt.Errorf("creating logger: %w", err)
			}
			defer logger.Sync()

			// 4. Build the provider, the local tool set, and the registry.
			provider, err := buildProvider(cfg, logger)
			if err != nil {
				return err
			}

			repo, err := tools.NewRepo(cfg.Agent.RepoPath, logger)
			if err != nil {
				return err
			}
			registry := agent.NewRegistry()
			repo.RegisterAll(registry)

			parser, err := agent.NewParser(cfg.Agent.ParserMode)
			if err != nil {
				return err
			}

			opts := agent.Options{
				MaxIterations: cfg.Agent.MaxIterations,
				Parser:        parser,
				Logger:        logger,
			}
			if cfg.Agent.MCPServerURL != "" {
				opts.Bridge = remote.New(cfg.Agent.MCPServerURL, logger)
			}

			ag := agent.New(provider, registry, opts)

			// 5. Run with signal-driven cancellation.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			banner := color.New(color.FgCyan, color.Bold)
			banner.Println("Reagent")
			fmt.Printf("   Repo:       %s\n", repo.Root())
			fmt.Printf("   Provider:   %s (%s)\n", cfg.Provider.Name, cfg.Provider.Model)
			fmt.Printf("   Parser:     %s\n", cfg.Agent.ParserMode)
			if cfg.Agent.MCPServerURL != "" {
				fmt.Printf("   MCP Server: %s\n", cfg.Agent.MCPServerURL)
			}
			fmt.Println()

			startedAt := time.Now()
			result, runErr := ag.Run(ctx, taskText)
			finishedAt := time.Now()

			// 6. Persist the transcript before reporting the verdict.
			if !noSave && result != nil {
				if err := saveTranscript(cfg, taskText, result, startedAt, finishedAt, logger); err != nil {
					logger.Warn("saving transcript failed", zap.Error(err))
				}
			}
			if runErr != nil {
				return runErr
			}

			// 7. Report the verdict.
			fmt.Println()
			switch result.State {
			case agent.StateComplete:
				color.New(color.FgGreen, color.Bold).Println("Task Complete")
				fmt.Println(strings.Repeat("-", 60))
				fmt.Println(result.Summary)
				fmt.Printf("\n(%d iterations, %d turns)\n", result.Iterations, result.ConversationLength)
				return nil
			case agent.StateExhausted:
				color.New(color.FgYellow, color.Bold).Println("Iteration Budget Exhausted")
				fmt.Println(strings.Repeat("-", 60))
				fmt.Printf("The agent did not complete the task in %d iterations.\n", result.Iterations)
				return fmt.Errorf("task did not complete")
			default:
				return fmt.Errorf("run ended in unexpected state %q", result.State)
			}
		},
	}

	cmd.Flags().StringVar(&repoPath, "repo", ".", "Repository path the tools operate on")
	cmd.Flags().IntVar(&maxIterations, "max-iterations", agent.DefaultMaxIterations, "Maximum agent iterations")
	cmd.Flags().StringVar(&parserMode, "parser", "marker", "Response encoding: marker|tag")
	cmd.Flags().StringVar(&providerName, "provider", "anthropic", "LLM provider: anthropic|gemini")
	cmd.Flags().StringVar(&model, "model", "", "Model name (provider default if empty)")
	cmd.Flags().StringVar(&mcpServer, "mcp-server", "", "Remote tool server URL (disabled if empty)")
	cmd.Flags().StringVarP(&taskFile, "file", "f", "", "YAML task manifest")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Do not persist the run transcript")

	return cmd
}

// applyTaskManifest overlays a task manifest's spec onto the config.
func applyTaskManifest(cfg *config.Config, t *config.Task) {
	if t.Spec.RepoPath != "" {
		cfg.Agent.RepoPath = t.Spec.RepoPath
	}
	if t.Spec.MaxIterations > 0 {
		cfg.Agent.MaxIterations = t.Spec.MaxIterations
	}
	if t.Spec.ParserMode != "" {
		cfg.Agent.ParserMode = t.Spec.ParserMode
	}
	if t.Spec.Provider != "" {
		cfg.Provider.Name = t.Spec.Provider
	}
	if t.Spec.Model != "" {
		cfg.Provider.Model = t.Spec.Model
	}
	if t.Spec.MCPServerURL != "" {
		cfg.Agent.MCPServerURL = t.Spec.MCPServerURL
	}
}

// buildProvider constructs the configured LLM provider from environment
// credentials.
func buildProvider(cfg *config.Config, logger *zap.Logger) (llm.Provider, error) {
	switch cfg.Provider.Name {
	case "anthropic":
		apiKey := os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable is not set")
		}
		return llm.NewAnthropicClient(apiKey, cfg.Provider.Model, cfg.Provider.MaxTokens, logger), nil
	case "gemini":
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY environment variable is not set")
		}
		return llm.NewGeminiClient(apiKey, cfg.Provider.Model, logger), nil
	default:
		return nil, fmt.Errorf("unknown provider: %q (expected anthropic or gemini)", cfg.Provider.Name)
	}
}

// saveTranscript stores a finished run in the configured transcript store.
func saveTranscript(cfg *config.Config, task string, result *agent.RunResult, startedAt, finishedAt time.Time, logger *zap.Logger) error {
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	rec := &transcript.Record{
		ID:           uuid.New().String(),
		Task:         task,
		State:        result.State,
		Summary:      result.Summary,
		Iterations:   result.Iterations,
		StartedAt:    startedAt,
		FinishedAt:   finishedAt,
		Conversation: result.Conversation,
	}
	if err := store.Save(rec); err != nil {
		return err
	}
	logger.Info("transcript saved", zap.String("id", rec.ID))
	fmt.Printf("\nTranscript: %s\n", rec.ID)
	return nil
}

// openStore opens the transcript store named in the config.
func openStore(cfg *config.Config) (transcript.Store, error) {
	switch cfg.Store.Type {
	case "memory":
		return transcript.NewMemoryStore(), nil
	case "bolt", "":
		if err := os.MkdirAll(cfg.Store.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("creating data directory %s: %w", cfg.Store.DataDir, err)
		}
		return transcript.NewBoltStore(cfg.DBPath())
	default:
		return nil, fmt.Errorf("unknown store type: %q (expected bolt or memory)", cfg.Store.Type)
	}
}
