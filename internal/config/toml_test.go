package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if cfg.Practice.Words != nil || cfg.TTS.Endpoint != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[practice]
words = 8
level = 3

[audio]
enabled = true
player = "mpv -"

[tts]
voice = "regina"
speed = 1.5
timeout = "5s"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Practice.Words == nil || *cfg.Practice.Words != 8 {
		t.Fatalf("unexpected words: %v", cfg.Practice.Words)
	}
	if cfg.Practice.Level == nil || *cfg.Practice.Level != 3 {
		t.Fatalf("unexpected level: %v", cfg.Practice.Level)
	}
	if cfg.Audio.Enabled == nil || !*cfg.Audio.Enabled {
		t.Fatalf("expected audio enabled")
	}
	if cfg.TTS.Voice == nil || *cfg.TTS.Voice != "regina" {
		t.Fatalf("unexpected voice: %v", cfg.TTS.Voice)
	}
	if cfg.TTS.Endpoint != nil {
		t.Fatalf("expected endpoint unset")
	}
}

func TestLoadAppliesEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[tts]\nvoice = \"regina\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("ZODIS_TTS_VOICE", "vytautas")
	t.Setenv("ZODIS_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.TTS.Voice == nil || *cfg.TTS.Voice != "vytautas" {
		t.Fatalf("expected env voice override, got %v", cfg.TTS.Voice)
	}
	if cfg.Log.Level == nil || *cfg.Log.Level != "debug" {
		t.Fatalf("expected env log level, got %v", cfg.Log.Level)
	}
	if cfg.Audio.Player != nil {
		t.Fatalf("expected player unset")
	}
}
