// Package config loads application configuration from baseDir/config.json.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Config holds application configuration.
type Config struct {
	// Model is the generative model used for extraction.
	Model string `json:"model,omitempty"`

	// ReviewModel is the model used for semantic review.
	// Empty means use Model.
	ReviewModel string `json:"review_model,omitempty"`

	// APIKeyEnv names the environment variable holding the API key.
	APIKeyEnv string `json:"api_key_env,omitempty"`

	// SchemaPath points to the JSON Schema the extracted documents must
	// satisfy. Empty or missing file means validation is permissive.
	SchemaPath string `json:"schema_path,omitempty"`

	// PromptPath points to the master extraction prompt. Empty or
	// missing file means the built-in prompt.
	PromptPath string `json:"prompt_path,omitempty"`

	// ExtraForbiddenPatterns are additional regexp patterns scanned in
	// the final briefing, on top of the built-in list.
	ExtraForbiddenPatterns []string `json:"extra_forbidden_patterns,omitempty"`

	// AuditDisabled turns off run recording entirely.
	AuditDisabled bool `json:"audit_disabled,omitempty"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// If set to 1, all database access is serialized (reduces "database is locked" errors).
	// 0 means use sql.DB default (unlimited). Only set if you experience contention.
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	// 0 means use sql.DB default. Typically set equal to DBMaxOpenConns.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// LogMode selects logger output: "production" (default) or "development".
	LogMode string `json:"log_mode,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Model:     "gemini-2.0-flash",
		APIKeyEnv: "GEMINI_API_KEY",
		LogMode:   "production",
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.fnlgen.
func Load(baseDir string) (*Config, error) {
	return loadFile(filepath.Join(baseDir, "config.json"))
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile loads configuration from a specific file path.
// Returns default config if the file doesn't exist.
func loadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.Model = overlay.Model
	if result.Model == "" {
		result.Model = base.Model
	}

	result.ReviewModel = overlay.ReviewModel
	if result.ReviewModel == "" {
		result.ReviewModel = base.ReviewModel
	}

	result.APIKeyEnv = overlay.APIKeyEnv
	if result.APIKeyEnv == "" {
		result.APIKeyEnv = base.APIKeyEnv
	}

	result.SchemaPath = overlay.SchemaPath
	if result.SchemaPath == "" {
		result.SchemaPath = base.SchemaPath
	}

	result.PromptPath = overlay.PromptPath
	if result.PromptPath == "" {
		result.PromptPath = base.PromptPath
	}

	result.LogMode = overlay.LogMode
	if result.LogMode == "" {
		result.LogMode = base.LogMode
	}

	result.DBMaxOpenConns = overlay.DBMaxOpenConns
	if result.DBMaxOpenConns == 0 {
		result.DBMaxOpenConns = base.DBMaxOpenConns
	}

	result.DBMaxIdleConns = overlay.DBMaxIdleConns
	if result.DBMaxIdleConns == 0 {
		result.DBMaxIdleConns = base.DBMaxIdleConns
	}

	// Booleans: overlay wins if true, else base
	result.AuditDisabled = base.AuditDisabled || overlay.AuditDisabled

	result.ExtraForbiddenPatterns = mergeStringSlice(base.ExtraForbiddenPatterns, overlay.ExtraForbiddenPatterns)

	return result
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range a {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	for _, s := range b {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
