package config

import (
	"os"
	"testing"
)

func validConfig() Config {
	return Config{
		HTTP: HTTPConfig{Port: 8080},
		Search: SearchConfig{
			Endpoint: "https://search.example.net",
			Index:    "products-index",
		},
		OpenAI: OpenAIConfig{
			BaseURL: "https://openai.example.net/v1",
		},
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_MissingSearchEndpoint(t *testing.T) {
	cfg := validConfig()
	cfg.Search.Endpoint = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing search endpoint")
	}
}

func TestValidate_MissingIndexName(t *testing.T) {
	cfg := validConfig()
	cfg.Search.Index = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing index name")
	}
}

func TestValidate_MissingOpenAIBaseURL(t *testing.T) {
	cfg := validConfig()
	cfg.OpenAI.BaseURL = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing openai base url")
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Search.MaxResults != 5 {
		t.Errorf("expected MaxResults=5, got %d", cfg.Search.MaxResults)
	}
	if cfg.Search.VectorField != "embedding" {
		t.Errorf("expected VectorField=embedding, got %q", cfg.Search.VectorField)
	}
	if cfg.Search.APIVersion == "" {
		t.Error("expected a default api version")
	}
	if cfg.OpenAI.Temperature != 0.7 {
		t.Errorf("expected Temperature=0.7, got %v", cfg.OpenAI.Temperature)
	}
	if cfg.OpenAI.MaxTokens != 1000 {
		t.Errorf("expected MaxTokens=1000, got %d", cfg.OpenAI.MaxTokens)
	}
}

func TestExpandEnvVars(t *testing.T) {
	os.Setenv("SHOPDEX_TEST_KEY", "secret123")
	defer os.Unsetenv("SHOPDEX_TEST_KEY")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "api_key: ${SHOPDEX_TEST_KEY}", "api_key: secret123"},
		{"default used", "port: ${SHOPDEX_TEST_MISSING:-8080}", "port: 8080"},
		{"default unused", "key: ${SHOPDEX_TEST_KEY:-fallback}", "key: secret123"},
		{"missing no default", "key: ${SHOPDEX_TEST_MISSING}", "key: "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(expandEnvVars([]byte(tt.in)))
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetEnv(t *testing.T) {
	os.Unsetenv("ENV")
	if env := GetEnv(); env != "local" {
		t.Errorf("expected default env local, got %q", env)
	}

	os.Setenv("ENV", "prod")
	defer os.Unsetenv("ENV")
	if env := GetEnv(); env != "prod" {
		t.Errorf("expected prod, got %q", env)
	}
}
