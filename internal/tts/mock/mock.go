// Package mock provides an in-memory Synthesizer for tests.
package mock

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Synthesizer records calls and returns canned audio.
// It is safe for concurrent use.
type Synthesizer struct {
	mu      sync.Mutex
	calls   []string
	errs    map[string]error
	audio   map[string][]byte
	delay   time.Duration
	failAll error
}

// New returns a Synthesizer that answers every word with "audio:<word>".
func New() *Synthesizer {
	return &Synthesizer{
		errs:  make(map[string]error),
		audio: make(map[string][]byte),
	}
}

// SetAudio configures the payload returned for text.
func (s *Synthesizer) SetAudio(text string, payload []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audio[text] = payload
}

// FailOn makes requests for text return err.
func (s *Synthesizer) FailOn(text string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs[text] = err
}

// FailAll makes every request return err; nil clears it.
func (s *Synthesizer) FailAll(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failAll = err
}

// SetDelay simulates network latency.
func (s *Synthesizer) SetDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

// Synthesize implements tts.Synthesizer.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	s.mu.Lock()
	s.calls = append(s.calls, text)
	delay := s.delay
	err := s.failAll
	if e, ok := s.errs[text]; ok {
		err = e
	}
	payload, ok := s.audio[text]
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		payload = []byte(fmt.Sprintf("audio:%s", text))
	}
	out := make([]byte, len(payload))
	copy(out, payload)
	return out, nil
}

// Calls returns the texts requested so far, in call order.
func (s *Synthesizer) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.calls))
	copy(out, s.calls)
	return out
}

// CallCount returns how many requests were made.
func (s *Synthesizer) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}
