// Package tts talks to the speech synthesis service.
package tts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultEndpoint is the public Lithuanian synthesis service.
	DefaultEndpoint = "https://sinteze.intelektika.lt/synthesis.service/prod/synthesize"
	// DefaultVoice is the voice used when none is configured.
	DefaultVoice = "vytautas"
	// DefaultTimeout bounds a single synthesis request.
	DefaultTimeout = 15 * time.Second
)

// ErrSynthesis wraps every failure to obtain audio from the service.
var ErrSynthesis = errors.New("failed to synthesize speech")

// Synthesizer turns text into an audio payload.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Config configures a Client.
type Config struct {
	Endpoint string
	Voice    string
	Speed    float64
	Timeout  time.Duration
	// RequestsPerMinute limits outgoing requests; zero means unlimited.
	RequestsPerMinute int
	// Origin and Referer are sent when set; the public service checks them.
	Origin  string
	Referer string
}

// Client calls the synthesis HTTP endpoint.
type Client struct {
	endpoint   string
	voice      string
	speed      float64
	origin     string
	referer    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

type synthesizeRequest struct {
	Text             string  `json:"text"`
	SaveRequest      bool    `json:"saveRequest"`
	OutputTextFormat string  `json:"outputTextFormat"`
	Speed            float64 `json:"speed"`
	Voice            string  `json:"voice"`
}

type synthesizeResponse struct {
	AudioAsString string `json:"audioAsString"`
}

// NewClient builds a Client, filling defaults for unset fields.
func NewClient(cfg Config) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Voice == "" {
		cfg.Voice = DefaultVoice
	}
	if cfg.Speed <= 0 {
		cfg.Speed = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Origin == "" && cfg.Endpoint == DefaultEndpoint {
		cfg.Origin = "https://snekos-sinteze.lt"
		cfg.Referer = "https://snekos-sinteze.lt/"
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1)
	}
	return &Client{
		endpoint:   cfg.Endpoint,
		voice:      cfg.Voice,
		speed:      cfg.Speed,
		origin:     cfg.Origin,
		referer:    cfg.Referer,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    limiter,
	}
}

// Synthesize requests speech for text and returns the decoded audio bytes.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty text", ErrSynthesis)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSynthesis, err)
	}

	body, err := json.Marshal(synthesizeRequest{
		Text:             text,
		SaveRequest:      false,
		OutputTextFormat: "none",
		Speed:            c.speed,
		Voice:            c.voice,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %v", ErrSynthesis, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrSynthesis, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.origin != "" {
		req.Header.Set("Origin", c.origin)
	}
	if c.referer != "" {
		req.Header.Set("Referer", c.referer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSynthesis, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain a little of the body so the connection can be reused.
		_, _ = io.CopyN(io.Discard, resp.Body, 4096)
		return nil, fmt.Errorf("%w: unexpected status: %s", ErrSynthesis, resp.Status)
	}

	var payload synthesizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrSynthesis, err)
	}
	if payload.AudioAsString == "" {
		return nil, fmt.Errorf("%w: empty audio in response", ErrSynthesis)
	}
	audio, err := base64.StdEncoding.DecodeString(payload.AudioAsString)
	if err != nil {
		return nil, fmt.Errorf("%w: decode audio: %v", ErrSynthesis, err)
	}
	return audio, nil
}
