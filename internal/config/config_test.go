package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		content string
		check   func(t *testing.T, cfg *Config)
		wantErr string
	}{
		{
			name:    "empty file keeps defaults",
			content: "",
			check: func(t *testing.T, cfg *Config) {
				if cfg.LineEnding != LineEndingCRLF {
					t.Errorf("expected crlf, got %q", cfg.LineEnding)
				}
				if cfg.Translate.BatchSize != 50 {
					t.Errorf("expected batch size 50, got %d", cfg.Translate.BatchSize)
				}
			},
		},
		{
			name: "fields override defaults",
			content: `title: Demo
language: fr
named_styles: true
line_ending: LF
translate:
  provider: openai
  model: gpt-5-mini
  concurrency: 5
`,
			check: func(t *testing.T, cfg *Config) {
				if cfg.Title != "Demo" || cfg.Language != "fr" {
					t.Errorf("unexpected document defaults: %+v", cfg)
				}
				if !cfg.NamedStyles {
					t.Error("expected named styles")
				}
				if cfg.Delimiter() != "\n" {
					t.Errorf("expected LF delimiter, got %q", cfg.Delimiter())
				}
				if cfg.Translate.Provider != "openai" || cfg.Translate.Concurrency != 5 {
					t.Errorf("unexpected translate settings: %+v", cfg.Translate)
				}
				if cfg.Translate.BatchSize != 50 {
					t.Errorf("expected default batch size, got %d", cfg.Translate.BatchSize)
				}
			},
		},
		{
			name:    "bad line ending",
			content: "line_ending: cr\n",
			wantErr: "line_ending",
		},
		{
			name:    "malformed yaml",
			content: "title: [unclosed\n",
			wantErr: "failed to parse config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}

			cfg, err := Load(path)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Language = "de"
	cfg.Translate.Provider = "anthropic"
	if err := Save(path, cfg); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if loaded.Language != "de" || loaded.Translate.Provider != "anthropic" {
		t.Errorf("unexpected config after round trip: %+v", loaded)
	}
}
