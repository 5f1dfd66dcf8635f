// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the deep-search CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/deep-search/internal/logger"
	"github.com/pdiddy/deep-search/internal/secrets"
	"github.com/pdiddy/deep-search/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// loadedSecrets holds API keys loaded from .secrets/ at startup.
	loadedSecrets map[string]string

	log       = slog.Default()
	closeLogs = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "deep-search",
	Short: "Web search with context offloading for research agents",
	Long: `deep-search runs a web search, fetches and summarizes every result page,
saves the full pages as files in a session store, and returns a short digest
that points at those files.

Run a one-off search with "search", inspect saved files with "files", or
serve the tools to an agent over MCP with "serve".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := secrets.LoadEnv(); err != nil {
			return err
		}
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		l, closer, err := logger.New(cfg.Log)
		if err != nil {
			return err
		}
		log, closeLogs = l, closer
		slog.SetDefault(l)

		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			log.Debug("loaded secrets", "keys", keys)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLogs()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./deep-search.yaml or ~/.config/deep-search/config.yaml)")
	pf.String("session", "", "session whose files are read and written (default \"default\")")
	pf.String("db", "", "session store database (default deep-search.db)")
	pf.String("log-level", "", "log level: debug, info, warn, error")

	_ = viper.BindPFlag("store.session", pf.Lookup("session"))
	_ = viper.BindPFlag("store.path", pf.Lookup("db"))
	_ = viper.BindPFlag("log.level", pf.Lookup("log-level"))

	setDefaults()
}

func setDefaults() {
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")
	viper.SetDefault("log.output", "stderr")

	viper.SetDefault("search.provider", "tavily")
	viper.SetDefault("search.api_key", "")
	viper.SetDefault("search.base_url", "")
	viper.SetDefault("search.timeout", 30*time.Second)
	viper.SetDefault("search.user_agent", "deep-search/"+version)

	viper.SetDefault("fetch.timeout", 30*time.Second)
	viper.SetDefault("fetch.user_agent", "deep-search/"+version)
	viper.SetDefault("fetch.delay", time.Duration(0))
	viper.SetDefault("fetch.max_body_bytes", 5<<20)

	viper.SetDefault("convert.backend", string(types.ConvertHTML))

	viper.SetDefault("summarize.backend", string(types.SummarizeOpenAI))
	viper.SetDefault("summarize.model", "")
	viper.SetDefault("summarize.api_key", "")
	viper.SetDefault("summarize.base_url", "")
	viper.SetDefault("summarize.timeout", 60*time.Second)
	viper.SetDefault("summarize.breaker.max_failures", 5)
	viper.SetDefault("summarize.breaker.timeout", 30*time.Second)

	viper.SetDefault("store.path", "deep-search.db")
	viper.SetDefault("store.session", "default")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("deep-search")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "deep-search"))
		}
	}

	viper.SetEnvPrefix("DEEP_SEARCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig decodes viper state into a Config and fills API keys from
// secrets when the config leaves them empty.
func loadConfig() (types.Config, error) {
	var cfg types.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}

	if cfg.Search.APIKey == "" {
		cfg.Search.APIKey = secrets.Get(loadedSecrets, secrets.TavilyAPIKey)
	}
	if cfg.Summarize.APIKey == "" {
		switch cfg.Summarize.Backend {
		case types.SummarizeAnthropic:
			cfg.Summarize.APIKey = secrets.Get(loadedSecrets, secrets.AnthropicAPIKey)
		case types.SummarizeOpenAI, "":
			cfg.Summarize.APIKey = secrets.Get(loadedSecrets, secrets.OpenAIAPIKey)
		}
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
