package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/reagent-dev/reagent/internal/agent"
	"github.com/reagent-dev/reagent/internal/tools"
	"github.com/reagent-dev/reagent/internal/toolserver"
)

func newServeCmd() *cobra.Command {
	var (
		port     int
		host     string
		repoPath string
		dataDir  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the tool server",
		Long: `Start an HTTP tool server exposing the repository tools.

Agents on other machines (or other processes) discover and invoke these
tools through the remote bridge.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// 1. Build configuration with CLI overrides.
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("repo") {
				cfg.Agent.RepoPath = repoPath
			}
			if cmd.Flags().Changed("data-dir") {
				cfg.Store.DataDir = dataDir
			}

			// 2. Create logger.
			logger, err := cfg.Log.BuildLogger()
			if err != nil {
				return fmt.Errorf("creating logger: %w", err)
			}
			defer logger.Sync()

			// 3. Register the repository tools.
			repo, err := tools.NewRepo(cfg.Agent.RepoPath, logger)
			if err != nil {
				return err
			}
			registry := agent.NewRegistry()
			repo.RegisterAll(registry)

			// 4. Open the transcript store for the /runs endpoints.
			store, err := openStore(cfg)
			if err != nil {
				return fmt.Errorf("opening store: %w", err)
			}
			defer store.Close()

			// 5. Create the server.
			addr := cfg.ServerAddress()
			srv := toolserver.NewServer(addr, registry, store, logger)

			banner := color.New(color.FgCyan, color.Bold)
			banner.Println("Reagent Tool Server")
			fmt.Printf("   Address: http://%s\n", addr)
			fmt.Printf("   Repo:    %s\n", repo.Root())
			fmt.Printf("   Tools:   %d\n", registry.Count()-1) // task_complete stays local
			fmt.Println()

			// Start the server in a goroutine.
			errCh := make(chan error, 1)
			go func() {
				if err := srv.Start(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
			}()

			// 6. Wait for interrupt signal for graceful shutdown.
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			select {
			case sig := <-sigCh:
				logger.Info("received shutdown signal", zap.String("signal", sig.String()))
			case err := <-errCh:
				logger.Error("tool server error", zap.Error(err))
				return err
			}

			fmt.Println()
			logger.Info("shutting down gracefully...")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("tool server shutdown error", zap.Error(err))
			}

			logger.Info("tool server stopped")
			return nil
		},
	}

	cmd.Flags().IntVar(&port, "port", 7342, "Tool server port")
	cmd.Flags().StringVar(&host, "host", "127.0.0.1", "Tool server host")
	cmd.Flags().StringVar(&repoPath, "repo", ".", "Repository path the tools operate on")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "Data directory (default: ~/.reagent/data)")

	return cmd
}
