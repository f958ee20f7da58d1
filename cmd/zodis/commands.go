package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/zodis/internal/session"
	"github.com/verte-zerg/zodis/internal/stats"
	"github.com/verte-zerg/zodis/internal/wordlist"
	"github.com/verte-zerg/zodis/internal/wordsui"
)

const defaultCurveWindow = 5

var (
	wordsLevel int
	wordsEdit  bool

	audioOut string

	statsLevel       int
	statsLast        int
	statsCurveWindow int
)

// withApp opens the app with logs on stderr and runs fn.
func withApp(fn func(ctx context.Context, a *app) error) error {
	ctx := context.Background()
	a, err := openApp(ctx, os.Stderr)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect or replace the current session",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(func(ctx context.Context, a *app) error {
				m, err := a.openSessions(ctx)
				if err != nil {
					return err
				}
				return printSession(cmd.OutOrStdout(), m.Status(), m.UsedWordsCount(ctx))
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "new",
		Short: "Draw a new session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(func(ctx context.Context, a *app) error {
				m, err := a.openSessions(ctx)
				if err != nil {
					return err
				}
				draw, err := m.StartNewSession(ctx)
				if err != nil {
					return fmt.Errorf("failed to start session: %w", err)
				}
				out := cmd.OutOrStdout()
				if draw.LedgerReset {
					if _, err := fmt.Fprintln(out, "All words of this level were used; the ledger was reset."); err != nil {
						return err
					}
				}
				if draw.Source == session.PoolCatalogFallback {
					if _, err := fmt.Fprintln(out, "No enabled words fit this level; using the built-in list."); err != nil {
						return err
					}
				}
				return printSession(out, m.Status(), m.UsedWordsCount(ctx))
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "reset-used",
		Short: "Forget which words of the selected level were practiced",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(func(ctx context.Context, a *app) error {
				m, err := a.openSessions(ctx)
				if err != nil {
					return err
				}
				before := m.UsedWordsCount(ctx)
				if err := m.ResetUsedWords(ctx); err != nil {
					return fmt.Errorf("failed to reset used words: %w", err)
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d used words for level %d.\n", before, a.settings.SelectedLevel())
				return err
			})
		},
	})
	return cmd
}

func printSession(w io.Writer, status session.Status, used int) error {
	lines := []string{
		fmt.Sprintf("Level %d · %d/%d completed · %d used words", status.Level, status.Completed, status.Total, used),
	}
	for i, word := range status.Words {
		marker := " "
		if i < len(status.Progress) && status.Progress[i] {
			marker = "✓"
		}
		if i == status.Current {
			marker = ">"
		}
		lines = append(lines, fmt.Sprintf("%s %2d. %s", marker, i+1, word))
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change practice settings",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(func(_ context.Context, a *app) error {
				s := a.settings.Settings()
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Level: %d\nWords per session: %d\nEnabled words: %d of %d\n",
					s.SelectedLevel, s.WordsPerSession, len(s.AvailableWords), len(a.catalog.All()))
				return err
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set-words N",
		Short: "Set the number of words per session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid word count %q", args[0])
			}
			return withApp(func(ctx context.Context, a *app) error {
				if err := a.settings.SetWordsPerSession(ctx, n); err != nil {
					return err
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Words per session: %d\n", n)
				return err
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set-level L",
		Short: "Set the difficulty level (1-4)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid level %q", args[0])
			}
			return withApp(func(ctx context.Context, a *app) error {
				if err := a.settings.SetSelectedLevel(ctx, level); err != nil {
					return err
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Level: %d\n", level)
				return err
			})
		},
	})
	cmd.AddCommand(newWordToggleCmd("enable", "Enable words for practice", func(ctx context.Context, a *app, word string) (string, error) {
		added, err := a.settings.AddAvailableWord(ctx, word)
		if err != nil || !added {
			return "already enabled", err
		}
		return "enabled", nil
	}))
	cmd.AddCommand(newWordToggleCmd("disable", "Disable words for practice", func(ctx context.Context, a *app, word string) (string, error) {
		removed, err := a.settings.RemoveAvailableWord(ctx, word)
		if err != nil || !removed {
			return "not enabled", err
		}
		return "disabled", nil
	}))
	cmd.AddCommand(newWordToggleCmd("toggle", "Flip word availability", func(ctx context.Context, a *app, word string) (string, error) {
		enabled, err := a.settings.ToggleWordAvailability(ctx, word)
		if enabled {
			return "enabled", err
		}
		return "disabled", err
	}))
	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Restore default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(func(ctx context.Context, a *app) error {
				if err := a.settings.ResetToDefaults(ctx); err != nil {
					return err
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "Settings restored to defaults.")
				return err
			})
		},
	})
	return cmd
}

func newWordToggleCmd(use, short string, apply func(ctx context.Context, a *app, word string) (string, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " WORD...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app) error {
				for _, raw := range args {
					word := wordlist.Normalize(raw)
					state, err := apply(ctx, a, word)
					if err != nil {
						return fmt.Errorf("%s: %w", raw, err)
					}
					if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", word, state); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newWordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "words",
		Short: "List words of a level with their availability",
		Args:  cobra.NoArgs,
		RunE:  runWordsCmd,
	}
	cmd.Flags().IntVar(&wordsLevel, "level", 0, "level to list (default: selected level)")
	cmd.Flags().BoolVar(&wordsEdit, "edit", false, "browse and toggle words interactively")
	return cmd
}

func runWordsCmd(cmd *cobra.Command, _ []string) error {
	var logOut io.Writer = os.Stderr
	if wordsEdit {
		logOut = nil
	}
	ctx := context.Background()
	a, err := openApp(ctx, logOut)
	if err != nil {
		return err
	}
	defer a.Close()

	level := wordsLevel
	if level == 0 {
		level = a.settings.SelectedLevel()
	}
	if !wordlist.ValidLevel(level) {
		return fmt.Errorf("--level must be between %d and %d", wordlist.MinLevel, wordlist.MaxLevel)
	}
	m, err := a.openSessions(ctx)
	if err != nil {
		return err
	}
	if wordsEdit {
		program := tea.NewProgram(wordsui.NewModel(a.catalog, a.settings, m, level, a.logger), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run words TUI: %w", err)
		}
		return nil
	}
	return stats.RenderWordTable(cmd.OutOrStdout(), wordsui.Rows(ctx, a.catalog, a.settings, m, level))
}

func newAudioCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audio",
		Short: "Manage cached pronunciations",
	}
	fetchCmd := &cobra.Command{
		Use:   "fetch WORD",
		Short: "Fetch (or read from cache) the pronunciation of a word",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app) error {
				cached := a.audio.HasAudio(ctx, args[0])
				payload, err := a.audio.FetchAudio(ctx, args[0])
				if err != nil {
					return err
				}
				source := "synthesized"
				if cached {
					source = "cached"
				}
				if audioOut != "" {
					if err := os.WriteFile(audioOut, payload, 0o644); err != nil {
						return fmt.Errorf("failed to write audio: %w", err)
					}
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%s)\n", wordlist.Normalize(args[0]), humanize.Bytes(uint64(len(payload))), source)
				return err
			})
		},
	}
	fetchCmd.Flags().StringVarP(&audioOut, "out", "o", "", "write the audio to a file")
	cmd.AddCommand(fetchCmd)
	cmd.AddCommand(&cobra.Command{
		Use:   "prefetch [WORD...]",
		Short: "Fetch pronunciations for words (default: the current session)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app) error {
				words := args
				if len(words) == 0 {
					m, err := a.openSessions(ctx)
					if err != nil {
						return err
					}
					words = m.Status().Words
				}
				fetched := a.audio.PreFetchWordAudio(ctx, words)
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Fetched %d new pronunciations for %d words.\n", fetched, len(words))
				return err
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show audio cache usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(func(ctx context.Context, a *app) error {
				s, err := a.audio.Stats(ctx)
				if err != nil {
					return err
				}
				lines := []string{
					fmt.Sprintf("Entries: %d", s.Entries),
					fmt.Sprintf("Size: %s", humanize.Bytes(uint64(s.TotalBytes))),
				}
				if s.Entries > 0 {
					lines = append(lines,
						fmt.Sprintf("Oldest: %s", humanize.Time(s.Oldest)),
						fmt.Sprintf("Newest: %s", humanize.Time(s.Newest)),
					)
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.Join(lines, "\n"))
				return err
			})
		},
	})
	return cmd
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show practice history",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().IntVar(&statsLevel, "level", 0, "level filter")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	if statsLevel != 0 && !wordlist.ValidLevel(statsLevel) {
		return fmt.Errorf("--level must be between %d and %d", wordlist.MinLevel, wordlist.MaxLevel)
	}
	if statsLast < 0 {
		return errors.New("--last must be >= 0")
	}
	return withApp(func(ctx context.Context, a *app) error {
		report, err := stats.BuildReport(ctx, a.store, stats.ReportConfig{
			Level:       statsLevel,
			Last:        statsLast,
			CurveWindow: statsCurveWindow,
		})
		if err != nil {
			return err
		}
		return report.Render(cmd.OutOrStdout(), terminalWidth())
	})
}

func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return width
}
