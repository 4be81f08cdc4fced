package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dshills/gohistory-mcp/internal/config"
	"github.com/dshills/gohistory-mcp/internal/mcp"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	if err := Execute(os.Args[1:]); err != nil {
		os.Exit(1)
	}
}

// Execute is the entry point for the CLI, extracted for testing.
func Execute(args []string) error {
	rootCmd := &cobra.Command{
		Use:          "gohistory",
		Short:        "GoHistory MCP Server",
		Long:         "Stateless search over conversation history logs, served over MCP on stdio",
		Version:      fmt.Sprintf("%s (built %s)", version, buildTime),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Flags())
		},
	}
	config.RegisterFlags(rootCmd.Flags())
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func serve(flags *pflag.FlagSet) error {
	settings, err := config.LoadSettingsWithFlags(flags)
	if err != nil {
		return err
	}

	// Stdout carries the MCP protocol; all logging goes to stderr.
	logger := config.NewLogger(os.Stderr, settings.LogLevel)
	logger.Info("gohistory mcp server starting", "version", version)
	config.Log(settings, logger)

	server, err := mcp.NewServer(settings, logger)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		logger.Info("listening on stdio")
		errChan <- server.Serve(ctx)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		return nil
	case err := <-errChan:
		if err != nil {
			logger.Error("server stopped", "error", err)
		}
		return err
	}
}
