package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return c
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Error("expected error for missing API key")
	}
}

func TestNewClient_Defaults(t *testing.T) {
	c, err := NewClient(Config{APIKey: "key"})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	if c.cfg.BaseURL != defaultBaseURL {
		t.Errorf("expected default base URL, got %s", c.cfg.BaseURL)
	}
	if c.cfg.ChatModel != defaultChatModel {
		t.Errorf("expected default chat model, got %s", c.cfg.ChatModel)
	}
	if c.cfg.Voice != defaultVoice {
		t.Errorf("expected default voice, got %s", c.cfg.Voice)
	}
}

func TestTranscribe(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", auth)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("failed to parse multipart form: %v", err)
		}
		if model := r.FormValue("model"); model != defaultTranscribe {
			t.Errorf("expected model %s, got %s", defaultTranscribe, model)
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("missing file part: %v", err)
		}
		defer file.Close()

		json.NewEncoder(w).Encode(map[string]string{"text": "hello world"})
	})

	text, err := c.Transcribe(context.Background(), []byte("fake-wav-bytes"))
	if err != nil {
		t.Fatalf("transcribe failed: %v", err)
	}
	if text != "hello world" {
		t.Errorf("expected transcript, got %q", text)
	}
}

func TestTranscribe_EmptyAudio(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for empty audio")
	})

	if _, err := c.Transcribe(context.Background(), nil); err == nil {
		t.Error("expected error for empty audio")
	}
}

func TestTranscribe_APIError(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("rate limited"))
	})

	_, err := c.Transcribe(context.Background(), []byte("audio"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("error should carry the status code: %v", err)
	}
}

func TestGenerateReply(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if len(req.Messages) != 2 {
			t.Fatalf("expected system and user messages, got %d", len(req.Messages))
		}
		if req.Messages[0].Role != "system" {
			t.Errorf("first message should be the system prompt, got role %s", req.Messages[0].Role)
		}
		if req.Messages[1].Content != "how are you" {
			t.Errorf("unexpected user content %q", req.Messages[1].Content)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "doing well"}},
			},
		})
	})

	reply, err := c.GenerateReply(context.Background(), "how are you")
	if err != nil {
		t.Fatalf("generate reply failed: %v", err)
	}
	if reply != "doing well" {
		t.Errorf("expected reply, got %q", reply)
	}
}

func TestGenerateReply_NoChoices(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	})

	if _, err := c.GenerateReply(context.Background(), "hi"); err == nil {
		t.Error("expected error for empty choices")
	}
}

func TestSynthesize(t *testing.T) {
	audioBytes := []byte{0x49, 0x44, 0x33, 0x04}
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/speech" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		var req speechRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Input != "say this" {
			t.Errorf("unexpected input %q", req.Input)
		}
		if req.Voice != defaultVoice {
			t.Errorf("expected default voice, got %s", req.Voice)
		}

		w.Write(audioBytes)
	})

	audio, err := c.Synthesize(context.Background(), "say this")
	if err != nil {
		t.Fatalf("synthesize failed: %v", err)
	}
	if !bytes.Equal(audio, audioBytes) {
		t.Errorf("expected raw audio bytes back, got %v", audio)
	}
}
