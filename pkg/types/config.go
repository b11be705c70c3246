package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. Zero leaves the client default
	// (no timeout) in place.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "pubdoi/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// CrossrefConfig holds settings for the Crossref works registry.
type CrossrefConfig struct {
	// BaseURL is the works endpoint (default https://api.crossref.org/works).
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// Mailto is sent as the mailto parameter for polite pool access.
	Mailto string `json:"mailto,omitempty" yaml:"mailto,omitempty" mapstructure:"mailto"`

	// PlusToken is an optional Crossref Plus API token.
	PlusToken string `json:"plus_token,omitempty" yaml:"plus_token,omitempty" mapstructure:"plus_token"`

	// Rows is the number of candidate works requested per lookup (default 3).
	Rows int `json:"rows" yaml:"rows" mapstructure:"rows"`
}

// ResolverConfig holds settings for DOI resolution.
type ResolverConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	Crossref CrossrefConfig `json:"crossref" yaml:"crossref" mapstructure:"crossref"`

	// MinSimilarity is the title similarity a candidate must exceed to be
	// accepted (default 0.85).
	MinSimilarity float64 `json:"min_similarity" yaml:"min_similarity" mapstructure:"min_similarity"`

	// AuthorHint adds the author hint to the registry query as
	// query.author. Off by default.
	AuthorHint bool `json:"author_hint" yaml:"author_hint" mapstructure:"author_hint"`
}

// BatchConfig holds settings for batch resolution.
type BatchConfig struct {
	// Delay is the pause between consecutive lookups (default 1s).
	Delay time.Duration `json:"delay" yaml:"delay" mapstructure:"delay"`

	// Rate, when positive, replaces the fixed delay with a token bucket
	// allowing Rate lookups per second.
	Rate float64 `json:"rate" yaml:"rate" mapstructure:"rate"`
}

// StoreConfig holds settings for the session store.
type StoreConfig struct {
	// Path is the SQLite database file (default pubdoi.db).
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// Config groups all settings for the CLI.
type Config struct {
	Resolver ResolverConfig `json:"resolver" yaml:"resolver" mapstructure:"resolver"`
	Batch    BatchConfig    `json:"batch" yaml:"batch" mapstructure:"batch"`
	Store    StoreConfig    `json:"store" yaml:"store" mapstructure:"store"`

	// SecretsFile is a dotenv file holding Crossref credentials (default .env).
	SecretsFile string `json:"secrets_file" yaml:"secrets_file" mapstructure:"secrets_file"`
}
