package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
)

// Credential environment variables read in addition to NEWSLENS_* keys
const (
	EnvNewsAPIKey    = "NEWS_API_KEY"
	EnvGuardianKey   = "GUARDIAN_API_KEY"
	EnvGeminiKey     = "GEMINI_API_KEY"
	EnvOpenRouterKey = "OPEN_ROUTER_API"
)

// Config is the complete newslens configuration
type Config struct {
	Query       string `mapstructure:"query" yaml:"query" validate:"required"`
	TargetCount int    `mapstructure:"target_count" yaml:"target_count" validate:"min=2"`
	OutputDir   string `mapstructure:"output_dir" yaml:"output_dir" validate:"required"`

	HTTP      HTTPConfig      `mapstructure:"http" yaml:"http"`
	Sources   SourcesConfig   `mapstructure:"sources" yaml:"sources"`
	Analyzer  LLMConfig       `mapstructure:"analyzer" yaml:"analyzer"`
	Validator LLMConfig       `mapstructure:"validator" yaml:"validator"`
	Cache     CacheConfig     `mapstructure:"cache" yaml:"cache"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit" yaml:"rate_limit"`
	Enrich    EnrichConfig    `mapstructure:"enrich" yaml:"enrich"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
}

// HTTPConfig applies to every outbound HTTP request except LLM SDK calls
type HTTPConfig struct {
	TimeoutSecs  int    `mapstructure:"timeout_secs" yaml:"timeout_secs" validate:"gt=0"`
	UserAgent    string `mapstructure:"user_agent" yaml:"user_agent"`
	MaxBodyBytes int64  `mapstructure:"max_body_bytes" yaml:"max_body_bytes" validate:"gt=0"`
	HTTPProxy    string `mapstructure:"http_proxy" yaml:"http_proxy,omitempty"`
	HTTPSProxy   string `mapstructure:"https_proxy" yaml:"https_proxy,omitempty"`
	NoProxy      string `mapstructure:"no_proxy" yaml:"no_proxy,omitempty"`
}

// Timeout returns the per-request timeout
func (c HTTPConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// SourcesConfig holds both news APIs
type SourcesConfig struct {
	NewsAPI  SourceConfig `mapstructure:"newsapi" yaml:"newsapi"`
	Guardian SourceConfig `mapstructure:"guardian" yaml:"guardian"`
}

// SourceConfig configures one news API
type SourceConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	BaseURL string `mapstructure:"base_url" yaml:"base_url" validate:"required,url"`
	APIKey  string `mapstructure:"api_key" yaml:"api_key"`
}

// LLMConfig configures one LLM role (analyzer or validator)
type LLMConfig struct {
	Provider    string  `mapstructure:"provider" yaml:"provider" validate:"omitempty,oneof=gemini google openai openrouter anthropic claude ollama"`
	Model       string  `mapstructure:"model" yaml:"model"`
	APIKey      string  `mapstructure:"api_key" yaml:"api_key"`
	BaseURL     string  `mapstructure:"base_url" yaml:"base_url,omitempty"`
	TimeoutSecs int     `mapstructure:"timeout_secs" yaml:"timeout_secs" validate:"gte=0"`
	Temperature float32 `mapstructure:"temperature" yaml:"temperature" validate:"gte=0,lte=2"`
	MaxTokens   int     `mapstructure:"max_tokens" yaml:"max_tokens" validate:"gte=0"`
}

// CacheConfig controls response caching for news API and LLM calls
type CacheConfig struct {
	Enabled    bool   `mapstructure:"enabled" yaml:"enabled"`
	Dir        string `mapstructure:"dir" yaml:"dir"`
	TTLMinutes int    `mapstructure:"ttl_minutes" yaml:"ttl_minutes" validate:"gte=0"`
}

// TTL returns the cache entry lifetime
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

// RateLimitConfig throttles requests per host
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second" yaml:"requests_per_second" validate:"gt=0"`
	Burst             int     `mapstructure:"burst" yaml:"burst" validate:"gt=0"`
}

// EnrichConfig controls full-text fetching for articles without content
type EnrichConfig struct {
	Enabled       bool  `mapstructure:"enabled" yaml:"enabled"`
	RespectRobots bool  `mapstructure:"respect_robots" yaml:"respect_robots"`
	MinChars      int   `mapstructure:"min_chars" yaml:"min_chars" validate:"gte=0"`
	MaxBodyBytes  int64 `mapstructure:"max_body_bytes" yaml:"max_body_bytes" validate:"gte=0"`
}

// LogConfig controls the zap logger
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=console json"`
}

// Default returns the built-in configuration
func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		Query:       "India politics",
		TargetCount: 12,
		OutputDir:   "output",
		HTTP: HTTPConfig{
			TimeoutSecs:  10,
			UserAgent:    "newslens/0.1 (+https://github.com/ppiankov/newslens)",
			MaxBodyBytes: 5_000_000,
		},
		Sources: SourcesConfig{
			NewsAPI:  SourceConfig{Enabled: true, BaseURL: "https://newsapi.org"},
			Guardian: SourceConfig{Enabled: true, BaseURL: "https://content.guardianapis.com"},
		},
		Analyzer: LLMConfig{
			Provider:    "gemini",
			Model:       "gemini-3-flash-preview",
			TimeoutSecs: 60,
		},
		Validator: LLMConfig{
			Provider:    "openai",
			Model:       "mistralai/mistral-7b-instruct",
			BaseURL:     "https://openrouter.ai/api/v1",
			TimeoutSecs: 60,
			Temperature: 0.3,
			MaxTokens:   500,
		},
		Cache: CacheConfig{
			Enabled:    true,
			Dir:        filepath.Join(home, ".newslens", "cache"),
			TTLMinutes: 15,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 2,
			Burst:             2,
		},
		Enrich: EnrichConfig{
			Enabled:       false,
			RespectRobots: true,
			MinChars:      200,
			MaxBodyBytes:  2_000_000,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads configuration from defaults, an optional YAML file and the
// environment. An empty cfgFile searches ./config.yaml and ~/.newslens/config.yaml.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".newslens"))
		}
	}

	v.SetEnvPrefix("NEWSLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Credentials keep their conventional names
	bindings := map[string]string{
		"sources.newsapi.api_key":  EnvNewsAPIKey,
		"sources.guardian.api_key": EnvGuardianKey,
		"analyzer.api_key":         EnvGeminiKey,
		"validator.api_key":        EnvOpenRouterKey,
	}
	for key, env := range bindings {
		prefixed := "NEWSLENS_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, env); err != nil {
			return nil, eris.Wrapf(err, "config: bind env %s", env)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the configuration for structural errors
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return eris.Wrap(err, "config: invalid")
	}
	return nil
}

// Redacted returns a copy safe for display
func (c Config) Redacted() Config {
	c.Sources.NewsAPI.APIKey = mask(c.Sources.NewsAPI.APIKey)
	c.Sources.Guardian.APIKey = mask(c.Sources.Guardian.APIKey)
	c.Analyzer.APIKey = mask(c.Analyzer.APIKey)
	c.Validator.APIKey = mask(c.Validator.APIKey)
	return c
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 4 {
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("query", d.Query)
	v.SetDefault("target_count", d.TargetCount)
	v.SetDefault("output_dir", d.OutputDir)

	v.SetDefault("http.timeout_secs", d.HTTP.TimeoutSecs)
	v.SetDefault("http.user_agent", d.HTTP.UserAgent)
	v.SetDefault("http.max_body_bytes", d.HTTP.MaxBodyBytes)
	v.SetDefault("http.http_proxy", "")
	v.SetDefault("http.https_proxy", "")
	v.SetDefault("http.no_proxy", "")

	v.SetDefault("sources.newsapi.enabled", d.Sources.NewsAPI.Enabled)
	v.SetDefault("sources.newsapi.base_url", d.Sources.NewsAPI.BaseURL)
	v.SetDefault("sources.guardian.enabled", d.Sources.Guardian.Enabled)
	v.SetDefault("sources.guardian.base_url", d.Sources.Guardian.BaseURL)

	for role, llm := range map[string]LLMConfig{"analyzer": d.Analyzer, "validator": d.Validator} {
		v.SetDefault(role+".provider", llm.Provider)
		v.SetDefault(role+".model", llm.Model)
		v.SetDefault(role+".base_url", llm.BaseURL)
		v.SetDefault(role+".timeout_secs", llm.TimeoutSecs)
		v.SetDefault(role+".temperature", llm.Temperature)
		v.SetDefault(role+".max_tokens", llm.MaxTokens)
	}

	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.dir", d.Cache.Dir)
	v.SetDefault("cache.ttl_minutes", d.Cache.TTLMinutes)

	v.SetDefault("rate_limit.requests_per_second", d.RateLimit.RequestsPerSecond)
	v.SetDefault("rate_limit.burst", d.RateLimit.Burst)

	v.SetDefault("enrich.enabled", d.Enrich.Enabled)
	v.SetDefault("enrich.respect_robots", d.Enrich.RespectRobots)
	v.SetDefault("enrich.min_chars", d.Enrich.MinChars)
	v.SetDefault("enrich.max_body_bytes", d.Enrich.MaxBodyBytes)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}
