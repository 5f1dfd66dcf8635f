// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/deep-search/internal/files"
)

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "Inspect files saved in the session store",
	Long: `Files reads the SQLite session store written by "search" and "serve".
Use subcommands to list, read, full-text search, or export a session.`,
}

var filesLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List files in the session",
	Args:  cobra.NoArgs,
	RunE:  runFilesLs,
}

var filesReadCmd = &cobra.Command{
	Use:   "read <name>",
	Short: "Print a file with line numbers",
	Args:  cobra.ExactArgs(1),
	RunE:  runFilesRead,
}

var filesGrepCmd = &cobra.Command{
	Use:   "grep <query>",
	Short: "Full-text search over file contents (FTS5 syntax)",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFilesGrep,
}

var filesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the session as YAML or JSON",
	Args:  cobra.NoArgs,
	RunE:  runFilesExport,
}

var filesSessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List sessions that hold files",
	Args:  cobra.NoArgs,
	RunE:  runFilesSessions,
}

func init() {
	filesReadCmd.Flags().Int("offset", 0, "line to start reading from (0-based)")
	filesReadCmd.Flags().Int("limit", files.DefaultLineLimit, "maximum number of lines")

	filesGrepCmd.Flags().Int("limit", 20, "maximum number of matches")

	filesExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	filesExportCmd.Flags().StringP("output", "o", "", "write to file instead of stdout")

	filesCmd.AddCommand(filesLsCmd, filesReadCmd, filesGrepCmd, filesExportCmd, filesSessionsCmd)
	rootCmd.AddCommand(filesCmd)
}

func openStore() (*files.Store, string, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, "", err
	}
	store, err := files.Open(cfg.Store)
	if err != nil {
		return nil, "", err
	}
	return store, cfg.Store.Session, nil
}

func runFilesLs(cmd *cobra.Command, args []string) error {
	store, session, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	infos, err := store.List(cmd.Context(), session)
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Println("No files saved.")
		return nil
	}
	for _, fi := range infos {
		fmt.Fprintf(os.Stdout, "%-50s  %8d  %s\n", fi.Name, fi.Size, fi.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func runFilesRead(cmd *cobra.Command, args []string) error {
	store, session, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	content, err := store.Read(cmd.Context(), session, args[0])
	if err != nil {
		return err
	}
	offset, _ := cmd.Flags().GetInt("offset")
	limit, _ := cmd.Flags().GetInt("limit")
	text, err := files.FormatLines(content, offset, limit)
	if err != nil {
		return err
	}
	fmt.Println(text)
	return nil
}

func runFilesGrep(cmd *cobra.Command, args []string) error {
	store, session, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	matches, err := store.Grep(cmd.Context(), session, strings.Join(args, " "), limit)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		fmt.Println("No matches found.")
		return nil
	}
	for _, m := range matches {
		fmt.Fprintf(os.Stdout, "%s: %s\n", m.Name, m.Snippet)
	}
	return nil
}

func runFilesExport(cmd *cobra.Command, args []string) error {
	store, session, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	w := os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating %s: %w", output, err)
		}
		defer f.Close()
		w = f
	}

	switch strings.ToLower(format) {
	case "yaml", "yml":
		return store.ExportYAML(cmd.Context(), session, w)
	case "json":
		return store.ExportJSON(cmd.Context(), session, w)
	default:
		return fmt.Errorf("unknown export format %q: use yaml or json", format)
	}
}

func runFilesSessions(cmd *cobra.Command, args []string) error {
	store, _, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	sessions, err := store.Sessions(cmd.Context())
	if err != nil {
		return err
	}
	for _, s := range sessions {
		fmt.Println(s)
	}
	return nil
}
