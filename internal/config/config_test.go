package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Model != "gemini-2.0-flash" {
		t.Errorf("unexpected default model: %q", cfg.Model)
	}
	if cfg.APIKeyEnv != "GEMINI_API_KEY" {
		t.Errorf("unexpected default api key env: %q", cfg.APIKeyEnv)
	}
	if cfg.LogMode != "production" {
		t.Errorf("unexpected default log mode: %q", cfg.LogMode)
	}
	if cfg.AuditDisabled {
		t.Error("audit should be enabled by default")
	}
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	content := `{
		"model": "gemini-2.5-pro",
		"schema_path": "/etc/fnlgen/schema.json",
		"extra_forbidden_patterns": ["ビザ", " ビザ ", "パスポート"],
		"audit_disabled": true,
		"db_max_open_conns": 1
	}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Model != "gemini-2.5-pro" {
		t.Errorf("model not overridden: %q", cfg.Model)
	}
	if cfg.APIKeyEnv != "GEMINI_API_KEY" {
		t.Errorf("default lost during merge: %q", cfg.APIKeyEnv)
	}
	if cfg.SchemaPath != "/etc/fnlgen/schema.json" {
		t.Errorf("schema path not loaded: %q", cfg.SchemaPath)
	}
	if !cfg.AuditDisabled {
		t.Error("audit_disabled not applied")
	}
	if cfg.DBMaxOpenConns != 1 {
		t.Errorf("db_max_open_conns not applied: %d", cfg.DBMaxOpenConns)
	}
	want := []string{"ビザ", "パスポート"}
	if len(cfg.ExtraForbiddenPatterns) != len(want) {
		t.Fatalf("patterns not deduplicated: %v", cfg.ExtraForbiddenPatterns)
	}
	for i, p := range want {
		if cfg.ExtraForbiddenPatterns[i] != p {
			t.Errorf("pattern %d: got %q, want %q", i, cfg.ExtraForbiddenPatterns[i], p)
		}
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestMergeScalarsAndBooleans(t *testing.T) {
	base := DefaultConfig()
	base.AuditDisabled = true
	overlay := &Config{ReviewModel: "gemini-2.0-flash-lite"}

	got := Merge(base, overlay)
	if got.ReviewModel != "gemini-2.0-flash-lite" {
		t.Errorf("overlay scalar lost: %q", got.ReviewModel)
	}
	if got.Model != base.Model {
		t.Errorf("base scalar lost: %q", got.Model)
	}
	if !got.AuditDisabled {
		t.Error("base boolean lost")
	}
}
