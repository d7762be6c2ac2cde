package config

import "testing"

func validConfig() Config {
	cfg := Config{
		HTTP:    HTTPConfig{Port: 8080},
		Catalog: CatalogConfig{CSVPath: "data/titles.csv"},
		Embedding: EmbeddingConfig{
			Providers: map[string]ProviderConfig{
				"nebius": {APIKey: "test-key", BaseURL: "https://api.example.com/v1/"},
			},
			Vectorizers: map[string]VectorizerConfig{
				"default": {Provider: "nebius", Model: "test-model", Dimensions: 384},
			},
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingCSVPath(t *testing.T) {
	cfg := validConfig()
	cfg.Catalog.CSVPath = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing csv_path")
	}
}

func TestValidate_MissingVectorizers(t *testing.T) {
	cfg := validConfig()
	cfg.Embedding.Vectorizers = nil

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing vectorizers")
	}
}

func TestValidate_VectorizerUnknownProvider(t *testing.T) {
	cfg := validConfig()
	cfg.Embedding.Vectorizers = map[string]VectorizerConfig{
		"default": {Provider: "missing", Model: "test-model"},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for unknown vectorizer provider")
	}

	expected := `embedding.vectorizers.default references unknown provider "missing"`
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_ExtractionUnknownProvider(t *testing.T) {
	cfg := validConfig()
	cfg.Extraction = ExtractionConfig{Provider: "missing", Model: "test-model"}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown extraction provider")
	}
}

func TestValidate_ExtractionMissingModel(t *testing.T) {
	cfg := validConfig()
	cfg.Extraction = ExtractionConfig{Provider: "nebius"}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for extraction provider without model")
	}
}

func TestValidate_ScanLimitBelowResultCap(t *testing.T) {
	cfg := validConfig()
	cfg.Search.ScanLimit = 5
	cfg.Search.ResultCap = 10

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for scan_limit < result_cap")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 30 {
		t.Errorf("expected WriteTimeoutSec=30, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Catalog.EmbedBatchSize != 128 {
		t.Errorf("expected EmbedBatchSize=128, got %d", cfg.Catalog.EmbedBatchSize)
	}
	if cfg.Search.ScanLimit != 100 {
		t.Errorf("expected ScanLimit=100, got %d", cfg.Search.ScanLimit)
	}
	if cfg.Search.ResultCap != 10 {
		t.Errorf("expected ResultCap=10, got %d", cfg.Search.ResultCap)
	}
	if cfg.Cache.TTLHours != 24 {
		t.Errorf("expected TTLHours=24, got %d", cfg.Cache.TTLHours)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("REELFIND_TEST_KEY", "secret")

	in := []byte("api_key: ${REELFIND_TEST_KEY}\nbase_url: ${REELFIND_TEST_URL:-https://fallback/v1}")
	out := string(expandEnvVars(in))

	want := "api_key: secret\nbase_url: https://fallback/v1"
	if out != want {
		t.Errorf("unexpected expansion:\ngot:  %q\nwant: %q", out, want)
	}
}
