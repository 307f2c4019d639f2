package conversation

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/agentvoice/relay/internal/audio"
	"github.com/google/uuid"
)

type VADResult struct {
	SpeechActive bool   `json:"speech_active"`
	Text         string `json:"text"`
}

type vadRegistry struct {
	mu       sync.Mutex
	sessions map[string]struct{}
}

func newVADRegistry() *vadRegistry {
	return &vadRegistry{sessions: make(map[string]struct{})}
}

func (r *vadRegistry) create() string {
	id := uuid.New().String()
	r.mu.Lock()
	r.sessions[id] = struct{}{}
	r.mu.Unlock()
	return id
}

func (r *vadRegistry) exists(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[id]
	return ok
}

// StartVAD registers a new voice-activity-detection session and returns
// its ID.
func (o *Orchestrator) StartVAD() string {
	return o.vad.create()
}

// DetectSpeech transcribes the payload for a registered VAD session. Speech
// counts as active when the transcript is non-empty after trimming.
func (o *Orchestrator) DetectSpeech(ctx context.Context, sessionID, payload string) (*VADResult, error) {
	if !o.vad.exists(sessionID) {
		return nil, fmt.Errorf("invalid VAD session ID %q", sessionID)
	}

	data, err := audio.Decode(payload)
	if err != nil {
		return nil, err
	}
	data = audio.NormalizeWAV(data, audio.TranscribeRate)

	text, err := o.speech.Transcribe(ctx, data)
	if err != nil {
		return nil, err
	}

	active := strings.TrimSpace(text) != ""
	if !active {
		text = ""
	}
	return &VADResult{SpeechActive: active, Text: text}, nil
}
