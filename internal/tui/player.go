package tui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrNoPlayer is returned when no player command is configured.
var ErrNoPlayer = errors.New("no audio player configured")

// DefaultPlayerCommand reads mp3 data from stdin.
const DefaultPlayerCommand = "mpv --no-video --really-quiet -"

// Player plays an audio payload.
type Player interface {
	Play(ctx context.Context, audio []byte) error
}

// CommandPlayer pipes the payload into an external command.
type CommandPlayer struct {
	Command string
}

// Play runs the command with audio on stdin and waits for it to exit.
func (p CommandPlayer) Play(ctx context.Context, audio []byte) error {
	parts := strings.Fields(p.Command)
	if len(parts) == 0 {
		return ErrNoPlayer
	}
	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...)
	cmd.Stdin = bytes.NewReader(audio)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("failed to play audio: %w: %s", err, msg)
		}
		return fmt.Errorf("failed to play audio: %w", err)
	}
	return nil
}
