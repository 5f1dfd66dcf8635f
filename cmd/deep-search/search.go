// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pdiddy/deep-search/internal/files"
	"github.com/pdiddy/deep-search/internal/research"
	"github.com/pdiddy/deep-search/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the web and save summarized results to the session",
	Long: `Search calls the configured search provider once, fetches every result
page, summarizes it with the configured model, saves one file per result in
the session store, and prints the digest an agent would receive.

Pages that cannot be fetched fall back to the provider's own summary; a model
failure falls back to the first 1000 characters of the page.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().Int("max-results", 1, "maximum number of results to return")
	searchCmd.Flags().String("topic", "general", "search topic: general, news, or finance")
	searchCmd.Flags().Bool("no-save", false, "print the digest without writing to the session store")
	searchCmd.Flags().Bool("json", false, "print the full update (files and message) as JSON")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	maxResults, _ := cmd.Flags().GetInt("max-results")
	topic, _ := cmd.Flags().GetString("topic")
	noSave, _ := cmd.Flags().GetBool("no-save")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	tool, err := newTool(ctx, cfg)
	if err != nil {
		return err
	}

	tc := types.ToolContext{ToolCallID: uuid.NewString()}
	var store *files.Store
	if !noSave {
		store, err = files.Open(cfg.Store)
		if err != nil {
			return err
		}
		defer store.Close()
		if tc.Files, err = store.Load(ctx, cfg.Store.Session); err != nil {
			return err
		}
	}

	upd, err := tool.Run(ctx, research.Args{
		Query:      strings.Join(args, " "),
		MaxResults: maxResults,
		Topic:      types.Topic(topic),
	}, tc)
	if err != nil {
		return err
	}

	if store != nil {
		if err := store.Apply(ctx, cfg.Store.Session, upd); err != nil {
			return fmt.Errorf("saving results: %w", err)
		}
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(upd)
	}
	fmt.Fprintln(os.Stdout, upd.Message())
	return nil
}
