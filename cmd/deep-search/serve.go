// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdiddy/deep-search/internal/files"
	"github.com/pdiddy/deep-search/internal/mcpserver"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve web_search, read_file, and ls to an agent over MCP (stdio)",
	Long: `Serve runs a Model Context Protocol server on stdin/stdout. Every
web_search call is applied to the session store in one transaction before the
digest is returned, so read_file sees the new files immediately.

Logs go to the configured log output; keep it off stdout while serving.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	tool, err := newTool(ctx, cfg)
	if err != nil {
		return err
	}
	store, err := files.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()

	log.Info("serving MCP on stdio", "session", cfg.Store.Session, "store", cfg.Store.Path)
	return mcpserver.New(tool, store, cfg.Store.Session, version, log).Serve(ctx, os.Stdin, os.Stdout)
}
