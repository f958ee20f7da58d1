package tts

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSynthesizeDecodesAudio(t *testing.T) {
	var got synthesizeRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(synthesizeResponse{
			AudioAsString: base64.StdEncoding.EncodeToString([]byte("mp3-bytes")),
		})
	}))
	t.Cleanup(server.Close)

	c := NewClient(Config{Endpoint: server.URL, Voice: "regina", Speed: 0.8})
	audio, err := c.Synthesize(context.Background(), " mama ")
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if string(audio) != "mp3-bytes" {
		t.Fatalf("unexpected audio %q", audio)
	}
	if got.Text != "mama" || got.Voice != "regina" || got.Speed != 0.8 || got.OutputTextFormat != "none" || got.SaveRequest {
		t.Fatalf("unexpected request body: %+v", got)
	}
}

func TestSynthesizeDefaults(t *testing.T) {
	c := NewClient(Config{})
	if c.endpoint != DefaultEndpoint || c.voice != DefaultVoice || c.speed != 1 {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.origin == "" {
		t.Fatalf("expected origin header for the default endpoint")
	}
}

func TestSynthesizeFailures(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "nope", http.StatusBadGateway)
			},
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("{"))
			},
		},
		{
			name: "empty audio",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"audioAsString":""}`))
			},
		},
		{
			name: "bad base64",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"audioAsString":"***"}`))
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(tc.handler)
			t.Cleanup(server.Close)
			c := NewClient(Config{Endpoint: server.URL})
			if _, err := c.Synthesize(context.Background(), "mama"); !errors.Is(err, ErrSynthesis) {
				t.Fatalf("expected ErrSynthesis, got %v", err)
			}
		})
	}
}

func TestSynthesizeEmptyText(t *testing.T) {
	c := NewClient(Config{Endpoint: "http://127.0.0.1:0"})
	if _, err := c.Synthesize(context.Background(), "  "); !errors.Is(err, ErrSynthesis) {
		t.Fatalf("expected ErrSynthesis, got %v", err)
	}
}

func TestSynthesizeCancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"audioAsString":"YQ=="}`))
	}))
	t.Cleanup(server.Close)
	c := NewClient(Config{Endpoint: server.URL})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Synthesize(ctx, "mama"); !errors.Is(err, ErrSynthesis) {
		t.Fatalf("expected ErrSynthesis, got %v", err)
	}
}
