package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "deep-search/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// LogConfig selects the log level, handler format, and destination.
type LogConfig struct {
	// Level is one of debug, info, warn, error (default info).
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is text or json (default text).
	Format string `json:"format" yaml:"format" mapstructure:"format"`

	// Output is stderr, stdout, or a file path (default stderr).
	Output string `json:"output" yaml:"output" mapstructure:"output"`
}

// SearchConfig holds settings for the search provider.
type SearchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Provider names the search backend. Only "tavily" is supported.
	Provider string `json:"provider" yaml:"provider" mapstructure:"provider"`

	// APIKey authenticates against the provider.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// BaseURL overrides the provider endpoint root.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`
}

// FetchConfig holds settings for fetching result pages.
type FetchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Delay is the minimum spacing between consecutive page requests (0 disables pacing).
	Delay time.Duration `json:"delay" yaml:"delay" mapstructure:"delay"`

	// MaxBodyBytes caps how much of each page body is read (default 5 MiB).
	MaxBodyBytes int64 `json:"max_body_bytes" yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
}

// ConvertBackend identifies the HTML conversion tool.
type ConvertBackend string

const (
	ConvertHTML       ConvertBackend = "html"
	ConvertMarkitdown ConvertBackend = "markitdown"
)

// ConvertConfig selects how fetched pages are turned into readable text.
type ConvertConfig struct {
	Backend ConvertBackend `json:"backend" yaml:"backend" mapstructure:"backend"`
}

// SummarizeBackend identifies the language-model API used for summaries.
type SummarizeBackend string

const (
	SummarizeOpenAI    SummarizeBackend = "openai"
	SummarizeAnthropic SummarizeBackend = "anthropic"
	SummarizeOllama    SummarizeBackend = "ollama"
)

// BreakerConfig configures the circuit breaker around the model.
type BreakerConfig struct {
	// MaxFailures is the number of consecutive failures before the circuit opens.
	MaxFailures uint32 `json:"max_failures" yaml:"max_failures" mapstructure:"max_failures"`

	// Timeout is how long the circuit stays open before a probe is allowed.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

// SummarizeConfig holds settings for page summarization.
type SummarizeConfig struct {
	// Backend selects the model API: openai, anthropic, or ollama.
	Backend SummarizeBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// Model is the model identifier (e.g. "gpt-4o-mini").
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey is the authentication key for the model API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// BaseURL overrides the backend endpoint root.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`

	// Timeout bounds a single model call.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	Breaker BreakerConfig `json:"breaker" yaml:"breaker" mapstructure:"breaker"`
}

// StoreConfig locates the session file store.
type StoreConfig struct {
	// Path is the SQLite database file.
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// Session is the default session whose files the CLI reads and writes.
	Session string `json:"session" yaml:"session" mapstructure:"session"`
}

// Config groups all settings for the deep-search binary.
type Config struct {
	Log       LogConfig       `json:"log" yaml:"log" mapstructure:"log"`
	Search    SearchConfig    `json:"search" yaml:"search" mapstructure:"search"`
	Fetch     FetchConfig     `json:"fetch" yaml:"fetch" mapstructure:"fetch"`
	Convert   ConvertConfig   `json:"convert" yaml:"convert" mapstructure:"convert"`
	Summarize SummarizeConfig `json:"summarize" yaml:"summarize" mapstructure:"summarize"`
	Store     StoreConfig     `json:"store" yaml:"store" mapstructure:"store"`
}
