package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func env(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefaults(t *testing.T) {
	cfg, err := LoadWith("", env(nil))
	if err != nil {
		t.Fatalf("LoadWith: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.Generation.Timeout != 60*time.Second || cfg.Generation.OnDisconnect != "fail" {
		t.Fatalf("defaults = %+v", cfg)
	}
	if cfg.Generation.Model != DefaultModel {
		t.Fatalf("model = %q", cfg.Generation.Model)
	}
	if cfg.Storage.Dir != "./data/documents" {
		t.Fatalf("storage dir = %q", cfg.Storage.Dir)
	}
}

func TestFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "studio.yaml")
	yml := `
addr: ":9000"
generation:
  provider: openai
  model: gpt-4o-mini
  timeout: 30s
  on_disconnect: keep
storage:
  kind: s3
  bucket: docs
auth:
  tokens:
    abc: alice
`
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadWith(path, env(map[string]string{
		"PORT":               "7000",
		"OPENAI_API_KEY":     "sk-test",
		"TOGETHER_API_KEY":   "ignored",
		"STUDIO_AUTH_TOKENS": "def:bob",
	}))
	if err != nil {
		t.Fatalf("LoadWith: %v", err)
	}
	if cfg.Addr != ":7000" {
		t.Errorf("addr = %q, want env to win", cfg.Addr)
	}
	g := cfg.Generation
	if g.Provider != "openai" || g.Model != "gpt-4o-mini" || g.Timeout != 30*time.Second || g.OnDisconnect != "keep" {
		t.Errorf("generation = %+v", g)
	}
	if g.APIKey != "sk-test" {
		t.Errorf("api key = %q", g.APIKey)
	}
	if cfg.Auth.Tokens["abc"] != "alice" || cfg.Auth.Tokens["def"] != "bob" {
		t.Errorf("tokens = %v", cfg.Auth.Tokens)
	}
}

func TestValidate(t *testing.T) {
	for _, tc := range []struct {
		name string
		env  map[string]string
		want string
	}{
		{"provider", map[string]string{"LLM_PROVIDER": "anthropic"}, "unknown generation provider"},
		{"timeout", map[string]string{"STUDIO_GENERATION_TIMEOUT": "0s"}, "timeout must be positive"},
		{"policy", map[string]string{"STUDIO_ON_DISCONNECT": "retry"}, "on_disconnect"},
		{"bucket", map[string]string{"STUDIO_STORAGE": "s3"}, "needs a bucket"},
		{"storage", map[string]string{"STUDIO_STORAGE": "ftp"}, "unknown storage kind"},
		{"level", map[string]string{"LOG_LEVEL": "loud"}, "log level"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadWith("", env(tc.env))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want %q", err, tc.want)
			}
		})
	}
	if _, err := LoadWith("", env(map[string]string{"STUDIO_GENERATION_TIMEOUT": "soon"})); err == nil {
		t.Fatal("expected duration parse error")
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := Log{Level: "warn", Format: "json"}.Logger(&buf)
	log.Info("hidden")
	log.Warn("shown", "k", "v")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, `"msg":"shown"`) {
		t.Fatalf("log output = %q", out)
	}
}
