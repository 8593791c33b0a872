package config

import "testing"

func TestValidate_InvalidPort(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 0},
		Database: DatabaseConfig{Path: "cards.db"},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingDatabasePath(t *testing.T) {
	cfg := Config{
		HTTP: HTTPConfig{Port: 8080},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing database path")
	}
}

func TestValidate_PageSizeOrdering(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Path: "cards.db"},
		Catalog:  CatalogConfig{DefaultPageSize: 200, MaxPageSize: 100},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error when default page size exceeds max page size")
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
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Database.Path != "cards.db" {
		t.Errorf("expected Path='cards.db', got %q", cfg.Database.Path)
	}
	if cfg.Database.ReadOnly == nil || !*cfg.Database.ReadOnly {
		t.Error("expected ReadOnly to default to true")
	}
	if cfg.Database.BusyTimeout != 5000 {
		t.Errorf("expected BusyTimeout=5000, got %d", cfg.Database.BusyTimeout)
	}
	if cfg.Catalog.DefaultPageSize != 12 {
		t.Errorf("expected DefaultPageSize=12, got %d", cfg.Catalog.DefaultPageSize)
	}
	if cfg.Catalog.MaxPageSize != 100 {
		t.Errorf("expected MaxPageSize=100, got %d", cfg.Catalog.MaxPageSize)
	}
	if cfg.Catalog.FeaturedLimit != 8 {
		t.Errorf("expected FeaturedLimit=8, got %d", cfg.Catalog.FeaturedLimit)
	}
	if cfg.Catalog.SimilarLimit != 4 {
		t.Errorf("expected SimilarLimit=4, got %d", cfg.Catalog.SimilarLimit)
	}
	if cfg.Catalog.SuggestLimit != 8 {
		t.Errorf("expected SuggestLimit=8, got %d", cfg.Catalog.SuggestLimit)
	}
	if cfg.Catalog.CompareLimit != 4 {
		t.Errorf("expected CompareLimit=4, got %d", cfg.Catalog.CompareLimit)
	}
	if cfg.Chat.Model != "llama-3.3-70b-versatile" {
		t.Errorf("unexpected default chat model %q", cfg.Chat.Model)
	}
	if cfg.Chat.MaxTokens != 1024 {
		t.Errorf("expected MaxTokens=1024, got %d", cfg.Chat.MaxTokens)
	}
	if cfg.Chat.ContextCards != 5 {
		t.Errorf("expected ContextCards=5, got %d", cfg.Chat.ContextCards)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	ro := false
	cfg := Config{
		HTTP:     HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 120, ShutdownSec: 5},
		Database: DatabaseConfig{Path: "other.db", ReadOnly: &ro, BusyTimeout: 1000},
		Catalog:  CatalogConfig{DefaultPageSize: 24, MaxPageSize: 50, FeaturedLimit: 6},
		Chat:     ChatConfig{Model: "custom-model", MaxTokens: 256, ContextCards: 3},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.WriteTimeoutSec != 120 {
		t.Errorf("expected WriteTimeoutSec=120, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if *cfg.Database.ReadOnly {
		t.Error("expected ReadOnly=false to be preserved")
	}
	if cfg.Catalog.DefaultPageSize != 24 {
		t.Errorf("expected DefaultPageSize=24, got %d", cfg.Catalog.DefaultPageSize)
	}
	if cfg.Chat.Model != "custom-model" {
		t.Errorf("expected Model='custom-model', got %q", cfg.Chat.Model)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("CARDEX_TEST_KEY", "secret")

	got := string(expandEnvVars([]byte("api_key: ${CARDEX_TEST_KEY}\nmodel: ${CARDEX_TEST_MODEL:-fallback}")))
	want := "api_key: secret\nmodel: fallback"
	if got != want {
		t.Errorf("unexpected expansion:\ngot:  %q\nwant: %q", got, want)
	}
}
