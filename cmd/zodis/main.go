// Package main provides the CLI entrypoint for zodis.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/editor"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/zodis/internal/config"
	"github.com/verte-zerg/zodis/internal/settings"
	"github.com/verte-zerg/zodis/internal/tts"
	"github.com/verte-zerg/zodis/internal/tui"
)

var (
	debugFlag bool

	practiceLevel int
	practiceWords int
	practiceAudio bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "zodis",
		Short:         "Lithuanian word typing practice with pronunciation",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")
	rootCmd.Flags().IntVar(&practiceLevel, "level", 0, "difficulty level 1-4 (saved to settings)")
	rootCmd.Flags().IntVar(&practiceWords, "words", 0, "words per session (saved to settings)")
	rootCmd.Flags().BoolVar(&practiceAudio, "audio", true, "play word pronunciation")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newSessionCmd())
	rootCmd.AddCommand(newSettingsCmd())
	rootCmd.AddCommand(newWordsCmd())
	rootCmd.AddCommand(newAudioCmd())
	rootCmd.AddCommand(newStatsCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	a, err := openApp(ctx, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	applyIntConfig(cmd, "level", &practiceLevel, a.cfg.Practice.Level)
	applyIntConfig(cmd, "words", &practiceWords, a.cfg.Practice.Words)
	applyBoolConfig(cmd, "audio", &practiceAudio, a.cfg.Audio.Enabled)

	levelChanged, wordsChanged, err := applyPracticeSettings(ctx, a.settings, practiceLevel, practiceWords)
	if err != nil {
		return err
	}

	sessions, err := a.openSessions(ctx)
	if err != nil {
		return err
	}
	// A level change already redrew the session on open.
	if wordsChanged && !levelChanged {
		if _, err := sessions.StartNewSession(ctx); err != nil {
			return fmt.Errorf("failed to start session: %w", err)
		}
	}

	player := tui.CommandPlayer{Command: derefString(a.cfg.Audio.Player, tui.DefaultPlayerCommand)}
	if practiceAudio {
		if parts := strings.Fields(player.Command); len(parts) > 0 {
			if _, err := exec.LookPath(parts[0]); err != nil {
				a.logger.Warn("audio player not found, pronunciation disabled", "player", parts[0])
				logErrf("audio player %q not found; set [audio] player in config or use --audio=false\n", parts[0])
				practiceAudio = false
			}
		}
	}

	a.logger.Info("practice started", "level", sessions.Status().Level, "words", a.settings.WordsPerSession(), "audio", practiceAudio)
	m := tui.NewModel(sessions, a.audio, a.store, tui.Options{
		Audio:  practiceAudio,
		Player: player,
		Logger: a.logger,
	})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// applyPracticeSettings persists level and word count overrides and reports
// which of them changed.
func applyPracticeSettings(ctx context.Context, p *settings.Provider, level, words int) (levelChanged, wordsChanged bool, err error) {
	if level != 0 && level != p.SelectedLevel() {
		if err := p.SetSelectedLevel(ctx, level); err != nil {
			return false, false, fmt.Errorf("--level: %w", err)
		}
		levelChanged = true
	}
	if words != 0 && words != p.WordsPerSession() {
		if err := p.SetWordsPerSession(ctx, words); err != nil {
			return levelChanged, false, fmt.Errorf("--words: %w", err)
		}
		wordsChanged = true
	}
	return levelChanged, wordsChanged, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	c, err := editor.Cmd("zodis", path)
	if err != nil {
		return fmt.Errorf("failed to set up editor: %w", err)
	}
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# zodis configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# level = %d                # Difficulty level 1-4, saved to settings
# words = %d               # Words per session, saved to settings
# wordlist = "~/words.txt"  # Extra words, one per line

[audio]
# enabled = true
# player = %q   # Reads mp3 on stdin

[tts]
# endpoint = %q
# voice = %q
# speed = 1.0
# timeout = %q
# requests-per-minute = 0   # 0 means unlimited

[log]
# level = "warn"            # debug, info, warn, error
`,
		settings.DefaultLevel,
		settings.DefaultWordsPerSession,
		tui.DefaultPlayerCommand,
		tts.DefaultEndpoint,
		tts.DefaultVoice,
		tts.DefaultTimeout.String(),
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
