package gateway

import "encoding/json"

type EventType string

// Client to server.
const (
	EventAudioData   EventType = "audio_data"
	EventChatRequest EventType = "chat_request"
	EventStartVAD    EventType = "start_vad"
	EventVADAudio    EventType = "vad_audio"
)

// Server to client.
const (
	EventTranscription     EventType = "transcription"
	EventChatResponse      EventType = "chat_response"
	EventVADSessionCreated EventType = "vad_session_created"
	EventVADResult         EventType = "vad_result"
	EventError             EventType = "error"
)

type Event struct {
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type AudioPayload struct {
	Audio string `json:"audio"`
}

type ChatRequestPayload struct {
	Message string `json:"message"`
}

type VADAudioPayload struct {
	SessionID string `json:"session_id"`
	Audio     string `json:"audio"`
}

type TranscriptionPayload struct {
	Text string `json:"text"`
}

type ChatResponsePayload struct {
	Text  string `json:"text"`
	Audio string `json:"audio"`
}

type VADSessionPayload struct {
	SessionID string `json:"session_id"`
}

type VADResultPayload struct {
	SessionID    string `json:"session_id"`
	SpeechActive bool   `json:"speech_active"`
	Text         string `json:"text"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func newEvent(t EventType, payload any) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{Type: t, Payload: data}, nil
}
