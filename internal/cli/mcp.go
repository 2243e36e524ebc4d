package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	madmcp "github.com/Renzo-Tognella/MultiAgentDeveloper/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  "Commands for running the mad MCP (Model Context Protocol) server.",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the mad MCP server on stdio",
	Long: `Start the mad MCP server on stdio transport.

The server exposes card processing as MCP tools that AI coding assistants
can call: parse_card, ask_user, send_update, analyze_codebase.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Parser == nil || Analyzer == nil {
			return fmt.Errorf("services not initialized")
		}

		var interactor madmcp.Interactor
		if Interaction != nil {
			interactor = Interaction
		}
		srv := madmcp.NewServer(Parser, interactor, Analyzer, appVersion)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if err := srv.Run(ctx); err != nil {
			return fmt.Errorf("running MCP server: %w", err)
		}

		return nil
	},
}

func init() {
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}
