// Package cli define a árvore de comandos do travel-supervisor.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/cmd/launcher"
	"google.golang.org/adk/cmd/launcher/full"

	"github.com/vitormoschetta/travel-supervisor/internal/agents"
	"github.com/vitormoschetta/travel-supervisor/internal/config"
	"github.com/vitormoschetta/travel-supervisor/internal/llm"
	"github.com/vitormoschetta/travel-supervisor/internal/logging"
	"github.com/vitormoschetta/travel-supervisor/internal/server"
	"github.com/vitormoschetta/travel-supervisor/internal/tools"
)

var version = "0.1.0"

// Execute executa o comando raiz com os.Args.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func NewRootCmd() *cobra.Command {
	serve := serveCmd()

	rootCmd := &cobra.Command{
		Use:     "travel-supervisor",
		Short:   "Travel supervisor chatbot backend",
		Long:    `travel-supervisor serves a chat API backed by a supervisor agent that delegates to flight, hotel and math agents.`,
		Version: version,
		// serve é a ação padrão
		RunE:          serve.RunE,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.Flags().AddFlagSet(serve.Flags())

	rootCmd.AddCommand(serve)
	rootCmd.AddCommand(consoleCmd())
	rootCmd.AddCommand(toolsCmd())

	return rootCmd
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			if addr != "" {
				cfg.Server.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv, err := server.NewServer(ctx, cfg)
			if err != nil {
				return fmt.Errorf("failed to create server: %w", err)
			}
			return srv.Start(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides SERVER_ADDR)")
	return cmd
}

func consoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:                "console [launcher args]",
		Short:              "Run the supervisor with the ADK launcher (console or web UI)",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			m, err := llm.New(ctx, cfg)
			if err != nil {
				return err
			}
			sup, err := agents.NewSupervisorWithRemote(m, tools.NewDefaultRegistry(), cfg.MCP)
			if err != nil {
				return err
			}

			l := full.NewLauncher()
			if err := l.Execute(ctx, &launcher.Config{AgentLoader: agent.NewSingleLoader(sup)}, args); err != nil {
				return fmt.Errorf("run failed: %w\n\n%s", err, l.CommandLineSyntax())
			}
			return nil
		},
	}
}

func toolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Inspect and call the registered tools",
	}
	cmd.AddCommand(toolsListCmd())
	cmd.AddCommand(toolsCallCmd())
	return cmd
}

func toolsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tools with their parameter schemas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd.OutOrStdout(), tools.NewDefaultRegistry().List())
		},
	}
}

func toolsCallCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "call NAME [JSON]",
		Short:   "Call a tool directly",
		Example: `  travel-supervisor tools call divide '{"a": 10, "b": 2}'`,
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw json.RawMessage
			if len(args) == 2 {
				raw = json.RawMessage(args[1])
			}
			res, err := tools.NewDefaultRegistry().Invoke(context.Background(), args[0], raw)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
}

func loadConfig() *config.Config {
	cfg := config.Load()
	logging.Setup(cfg.Log.Level, cfg.Log.Format)
	log.Debug().Fields(cfg.Diagnostics()).Msg("configuration loaded")
	return cfg
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
