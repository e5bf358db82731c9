package model

import "time"

// Config is the complete keyphrase configuration.
// Tags serve both viper decoding and YAML rendering.
type Config struct {
	Extraction   ExtractionConfig  `yaml:"extraction" mapstructure:"extraction"`
	Ranking      RankingConfig     `yaml:"ranking" mapstructure:"ranking"`
	HTTP         HTTPConfig        `yaml:"http" mapstructure:"http"`
	RateLimiting RateLimitConfig   `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Concurrency  ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Cache        CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Log          LogConfig         `yaml:"log" mapstructure:"log"`
	Output       OutputConfig      `yaml:"output" mapstructure:"output"`
}

// ExtractionConfig controls candidate phrase generation.
type ExtractionConfig struct {
	NGram       int    `yaml:"ngram" mapstructure:"ngram"`
	TermLenLow  int    `yaml:"term_len_low" mapstructure:"term_len_low"`
	TermLenHigh int    `yaml:"term_len_high" mapstructure:"term_len_high"`
	Stopwords   string `yaml:"stopwords" mapstructure:"stopwords"` // empty selects the embedded list
	TopThird    bool   `yaml:"top_third" mapstructure:"top_third"`
}

// RankingConfig controls query re-ranking.
type RankingConfig struct {
	TopN      int     `yaml:"top_n" mapstructure:"top_n"`
	Scale     float64 `yaml:"scale" mapstructure:"scale"`
	PowerBase float64 `yaml:"power_base" mapstructure:"power_base"`
	Epsilon   float64 `yaml:"epsilon" mapstructure:"epsilon"`
}

// HTTPConfig controls fetching of URL sources.
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	HTTPProxy     string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
}

// RateLimitConfig is applied per domain.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// ConcurrencyConfig sizes the batch worker pool.
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// CacheConfig controls the in-memory cache of fetched documents.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// LogConfig selects logger level and encoding.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // console or json
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Extraction: ExtractionConfig{
			NGram:       5,
			TermLenLow:  3,
			TermLenHigh: 50,
		},
		Ranking: RankingConfig{
			TopN:      10,
			Scale:     10,
			PowerBase: 0.5,
			Epsilon:   0.01,
		},
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "keyphrase/0.1 (+https://github.com/ppiankov/keyphrase)",
			MaxBodyBytes:  2_000_000,
			RespectRobots: true,
		},
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 2,
			BurstSize:         5,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     time.Hour,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
	}
}
