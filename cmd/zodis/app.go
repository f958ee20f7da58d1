package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/verte-zerg/zodis/internal/audiocache"
	"github.com/verte-zerg/zodis/internal/config"
	"github.com/verte-zerg/zodis/internal/generator"
	"github.com/verte-zerg/zodis/internal/session"
	"github.com/verte-zerg/zodis/internal/settings"
	"github.com/verte-zerg/zodis/internal/store"
	"github.com/verte-zerg/zodis/internal/tts"
	"github.com/verte-zerg/zodis/internal/wordlist"
)

// app holds the objects shared by every command.
type app struct {
	cfg      config.FileConfig
	logger   *log.Logger
	store    *store.Store
	catalog  *wordlist.Catalog
	settings *settings.Provider
	audio    *audiocache.Cache
	sessions *session.Manager
	logFile  *os.File
}

// openApp loads config, opens the database and builds the components.
// Logs go to logOut, or to the log file when logOut is nil.
func openApp(ctx context.Context, logOut io.Writer) (*app, error) {
	cfg, err := config.Load(config.DefaultConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	a := &app{cfg: cfg}
	if logOut == nil {
		f, err := openLogFile(config.DefaultLogPath())
		if err != nil {
			return nil, err
		}
		a.logFile = f
		logOut = f
	}
	a.logger = newLogger(logOut, derefString(cfg.Log.Level, ""))

	a.catalog = wordlist.Default()
	if path := derefString(cfg.Practice.WordList, ""); path != "" {
		words, err := wordlist.LoadWords(expandHome(path), wordlist.LettersOnly)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to load word list: %w", err)
		}
		added := a.catalog.Merge(words)
		a.logger.Debug("merged word list", "path", path, "words", len(words), "added", added)
	}

	st, err := store.Open(config.DefaultDBPath(), a.logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	a.store = st
	a.settings = settings.Load(ctx, st, a.catalog, a.logger)

	timeout := tts.DefaultTimeout
	if raw := derefString(cfg.TTS.Timeout, ""); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("invalid tts timeout %q: %w", raw, err)
		}
		timeout = parsed
	}
	client := tts.NewClient(tts.Config{
		Endpoint:          derefString(cfg.TTS.Endpoint, ""),
		Voice:             derefString(cfg.TTS.Voice, ""),
		Speed:             derefFloat(cfg.TTS.Speed, 1),
		Timeout:           timeout,
		RequestsPerMinute: derefInt(cfg.TTS.RequestsPerMinute, 0),
	})
	a.audio = audiocache.New(st, client, a.logger)
	return a, nil
}

// openSessions loads the persisted session, creating one when needed.
func (a *app) openSessions(ctx context.Context) (*session.Manager, error) {
	if a.sessions != nil {
		return a.sessions, nil
	}
	m, err := session.Open(ctx, a.store, a.settings, a.catalog, generator.New(), a.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}
	a.sessions = m
	return m, nil
}

func (a *app) Close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Error("failed to close db", "err", err)
		}
	}
	if a.logFile != nil {
		if cerr := a.logFile.Close(); cerr != nil {
			// Best-effort log file close.
			_ = cerr
		}
	}
}

func newLogger(w io.Writer, level string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Prefix:          "zodis",
	})
	lvl := log.WarnLevel
	if level != "" {
		parsed, err := log.ParseLevel(level)
		if err != nil {
			logger.Warn("unknown log level, using warn", "level", level)
		} else {
			lvl = parsed
		}
	}
	if debugFlag {
		lvl = log.DebugLevel
	}
	logger.SetLevel(lvl)
	return logger
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

func derefString(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}

func derefInt(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}

func derefFloat(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}
