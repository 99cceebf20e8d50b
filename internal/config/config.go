// Package config loads server settings from defaults, an optional YAML file
// and the environment, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"

	"github.com/example/transcript-studio/internal/auth"
	"github.com/example/transcript-studio/internal/providers/llm"
	"github.com/example/transcript-studio/internal/transform"
)

const DefaultModel = "meta-llama/Meta-Llama-3-70B-Instruct-Turbo"

type Config struct {
	Addr       string     `yaml:"addr"`
	DataDir    string     `yaml:"data_dir"`
	InMemory   bool       `yaml:"in_memory"`
	Generation Generation `yaml:"generation"`
	Storage    Storage    `yaml:"storage"`
	Auth       Auth       `yaml:"auth"`
	Log        Log        `yaml:"log"`
}

type Generation struct {
	Provider           string        `yaml:"provider"`
	Model              string        `yaml:"model"`
	APIKey             string        `yaml:"api_key"`
	BaseURL            string        `yaml:"base_url"`
	Timeout            time.Duration `yaml:"timeout"`
	CheckpointInterval time.Duration `yaml:"checkpoint_interval"`
	OnDisconnect       string        `yaml:"on_disconnect"`
}

type Storage struct {
	Kind      string `yaml:"kind"` // local | s3
	Dir       string `yaml:"dir"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

type Auth struct {
	// Tokens maps bearer tokens to owner ids.
	Tokens        map[string]string `yaml:"tokens"`
	TrustedHeader string            `yaml:"trusted_header"`
}

type Log struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

func Default() Config {
	return Config{
		Addr:    ":8080",
		DataDir: "./data",
		Generation: Generation{
			Provider:           llm.ProviderTogether,
			Model:              DefaultModel,
			Timeout:            transform.DefaultTimeout,
			CheckpointInterval: transform.DefaultCheckpointInterval,
			OnDisconnect:       string(transform.DisconnectFail),
		},
		Storage: Storage{Kind: "local"},
		Log:     Log{Level: "info", Format: "text"},
	}
}

// Load reads path (optional), then a .env file in the working directory if
// present, then the process environment.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: .env: %w", err)
	}
	return LoadWith(path, os.LookupEnv)
}

// LoadWith is Load with an explicit environment lookup and no .env file.
func LoadWith(path string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if err := applyEnv(&cfg, lookup); err != nil {
		return Config{}, err
	}
	if cfg.Storage.Dir == "" {
		cfg.Storage.Dir = strings.TrimSuffix(cfg.DataDir, "/") + "/documents"
	}
	return cfg, cfg.Validate()
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v, ok := lookup(k); ok && v != "" {
				*dst = v
			}
		}
	}
	str(&cfg.Addr, "STUDIO_ADDR")
	if v, ok := lookup("PORT"); ok && v != "" {
		cfg.Addr = ":" + v
	}
	str(&cfg.DataDir, "STUDIO_DATA_DIR")
	if v, ok := lookup("STUDIO_IN_MEMORY"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: STUDIO_IN_MEMORY: %w", err)
		}
		cfg.InMemory = b
	}

	g := &cfg.Generation
	str(&g.Provider, "LLM_PROVIDER")
	str(&g.Model, "LLM_MODEL")
	str(&g.BaseURL, "OPENAI_API_BASE")
	str(&g.OnDisconnect, "STUDIO_ON_DISCONNECT")
	str(&g.APIKey, "LLM_API_KEY")
	switch strings.ToLower(g.Provider) {
	case llm.ProviderTogether:
		str(&g.APIKey, "TOGETHER_API_KEY")
	case llm.ProviderOpenAI:
		str(&g.APIKey, "OPENAI_API_KEY")
	case llm.ProviderGemini:
		str(&g.APIKey, "GEMINI_API_KEY", "GOOGLE_API_KEY")
	}
	for key, dst := range map[string]*time.Duration{
		"STUDIO_GENERATION_TIMEOUT":  &g.Timeout,
		"STUDIO_CHECKPOINT_INTERVAL": &g.CheckpointInterval,
	} {
		if v, ok := lookup(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("config: %s: %w", key, err)
			}
			*dst = d
		}
	}

	s := &cfg.Storage
	str(&s.Kind, "STUDIO_STORAGE")
	str(&s.Dir, "STUDIO_STORAGE_DIR")
	str(&s.Bucket, "S3_UPLOAD_BUCKET")
	str(&s.Prefix, "S3_UPLOAD_PREFIX")
	str(&s.Region, "S3_UPLOAD_REGION", "AWS_S3_REGION")
	str(&s.Endpoint, "S3_ENDPOINT")
	str(&s.AccessKey, "S3_UPLOAD_KEY", "AWS_ACCESS_KEY_ID")
	str(&s.SecretKey, "S3_UPLOAD_SECRET", "AWS_SECRET_ACCESS_KEY")

	if v, ok := lookup("STUDIO_AUTH_TOKENS"); ok && v != "" {
		if cfg.Auth.Tokens == nil {
			cfg.Auth.Tokens = map[string]string{}
		}
		for tok, owner := range auth.ParseTokens(v) {
			cfg.Auth.Tokens[tok] = owner
		}
	}
	str(&cfg.Auth.TrustedHeader, "STUDIO_TRUSTED_HEADER")
	str(&cfg.Log.Level, "LOG_LEVEL")
	str(&cfg.Log.Format, "LOG_FORMAT")
	return nil
}

func (c Config) Validate() error {
	var errs []error
	switch strings.ToLower(c.Generation.Provider) {
	case llm.ProviderTogether, llm.ProviderOpenAI, llm.ProviderGemini, llm.ProviderMock:
	default:
		errs = append(errs, fmt.Errorf("unknown generation provider %q", c.Generation.Provider))
	}
	if c.Generation.Timeout <= 0 {
		errs = append(errs, errors.New("generation timeout must be positive"))
	}
	if c.Generation.CheckpointInterval < 0 {
		errs = append(errs, errors.New("checkpoint interval must not be negative"))
	}
	if !transform.DisconnectPolicy(c.Generation.OnDisconnect).Valid() {
		errs = append(errs, fmt.Errorf("on_disconnect must be fail or keep, got %q", c.Generation.OnDisconnect))
	}
	switch c.Storage.Kind {
	case "local":
	case "s3":
		if c.Storage.Bucket == "" {
			errs = append(errs, errors.New("s3 storage needs a bucket"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage kind %q", c.Storage.Kind))
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}
	return l, nil
}

// Logger builds the process logger writing to w.
func (l Log) Logger(w io.Writer) *slog.Logger {
	level, _ := parseLevel(l.Level)
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(l.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
