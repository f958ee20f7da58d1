// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
	Audio    AudioConfig    `toml:"audio"`
	TTS      TTSConfig      `toml:"tts"`
	Log      LogConfig      `toml:"log"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	Words    *int    `toml:"words"`
	Level    *int    `toml:"level"`
	WordList *string `toml:"wordlist"`
}

// AudioConfig maps pronunciation playback settings.
type AudioConfig struct {
	Enabled *bool   `toml:"enabled"`
	Player  *string `toml:"player"`
}

// TTSConfig maps speech synthesis service settings.
type TTSConfig struct {
	Endpoint          *string  `toml:"endpoint"`
	Voice             *string  `toml:"voice"`
	Speed             *float64 `toml:"speed"`
	Timeout           *string  `toml:"timeout"`
	RequestsPerMinute *int     `toml:"requests-per-minute"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
}

// EnvConfig holds overrides read from the environment.
type EnvConfig struct {
	TTSEndpoint *string `env:"ZODIS_TTS_ENDPOINT"`
	TTSVoice    *string `env:"ZODIS_TTS_VOICE"`
	AudioPlayer *string `env:"ZODIS_AUDIO_PLAYER"`
	LogLevel    *string `env:"ZODIS_LOG_LEVEL"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Load reads the TOML file and applies environment overrides on top of it.
func Load(path string) (FileConfig, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return FileConfig{}, err
	}
	var envCfg EnvConfig
	if err := env.Parse(&envCfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	ApplyEnv(&cfg, envCfg)
	return cfg, nil
}

// ApplyEnv overrides file values with the ones set in the environment.
func ApplyEnv(cfg *FileConfig, e EnvConfig) {
	if e.TTSEndpoint != nil {
		cfg.TTS.Endpoint = e.TTSEndpoint
	}
	if e.TTSVoice != nil {
		cfg.TTS.Voice = e.TTSVoice
	}
	if e.AudioPlayer != nil {
		cfg.Audio.Player = e.AudioPlayer
	}
	if e.LogLevel != nil {
		cfg.Log.Level = e.LogLevel
	}
}
