package gateway

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/agentvoice/relay/internal/conversation"
	"github.com/agentvoice/relay/internal/history"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

type fakeProvider struct {
	mu         sync.Mutex
	transcript string
	reply      string
	audio      []byte
}

func (f *fakeProvider) Transcribe(ctx context.Context, audio []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.transcript, nil
}

func (f *fakeProvider) GenerateReply(ctx context.Context, text string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reply, nil
}

func (f *fakeProvider) Synthesize(ctx context.Context, text string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.audio, nil
}

func dialTestGateway(t *testing.T, provider *fakeProvider) *websocket.Conn {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	orch := conversation.New(provider, nil, history.NewStore(nil), nil, logger)
	h := NewHandler(orch, logger)

	e := echo.New()
	h.RegisterRoutes(e)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to dial websocket: %v", err)
	}
	t.Cleanup(func() { ws.Close() })
	return ws
}

func sendEvent(t *testing.T, ws *websocket.Conn, eventType EventType, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	if err := ws.WriteJSON(Event{Type: eventType, Payload: data}); err != nil {
		t.Fatalf("failed to write event: %v", err)
	}
}

func readEvent(t *testing.T, ws *websocket.Conn) Event {
	ws.SetReadDeadline(time.Now().Add(5 * time.Second))
	var evt Event
	if err := ws.ReadJSON(&evt); err != nil {
		t.Fatalf("failed to read event: %v", err)
	}
	return evt
}

func TestGateway_ChatRequest(t *testing.T) {
	provider := &fakeProvider{reply: "hi there", audio: []byte{1, 2}}
	ws := dialTestGateway(t, provider)

	sendEvent(t, ws, EventChatRequest, ChatRequestPayload{Message: "hello"})

	evt := readEvent(t, ws)
	if evt.Type != EventChatResponse {
		t.Fatalf("expected chat_response, got %s", evt.Type)
	}

	var resp ChatResponsePayload
	if err := json.Unmarshal(evt.Payload, &resp); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}
	if resp.Text != "hi there" {
		t.Errorf("unexpected reply %q", resp.Text)
	}
	if !strings.HasPrefix(resp.Audio, "data:audio/mp3;base64,") {
		t.Errorf("expected encoded audio, got %q", resp.Audio)
	}
}

// The browser client sends chat text under the "message" key; the raw JSON
// must be accepted as-is, independent of the Go struct round-trip.
func TestGateway_ChatRequest_WireFormat(t *testing.T) {
	provider := &fakeProvider{reply: "wire reply", audio: []byte{5}}
	ws := dialTestGateway(t, provider)

	raw := []byte(`{"type":"chat_request","payload":{"message":"hello over the wire"}}`)
	if err := ws.WriteMessage(websocket.TextMessage, raw); err != nil {
		t.Fatalf("failed to write raw event: %v", err)
	}

	evt := readEvent(t, ws)
	if evt.Type != EventChatResponse {
		t.Fatalf("expected chat_response for documented wire format, got %s", evt.Type)
	}

	var resp ChatResponsePayload
	if err := json.Unmarshal(evt.Payload, &resp); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}
	if resp.Text != "wire reply" {
		t.Errorf("unexpected reply %q", resp.Text)
	}
}

func TestGateway_ChatRequest_Empty(t *testing.T) {
	ws := dialTestGateway(t, &fakeProvider{})

	sendEvent(t, ws, EventChatRequest, ChatRequestPayload{Message: "   "})

	evt := readEvent(t, ws)
	if evt.Type != EventError {
		t.Fatalf("expected error event, got %s", evt.Type)
	}
}

func TestGateway_AudioData_TranscriptionBeforeResponse(t *testing.T) {
	provider := &fakeProvider{transcript: "spoken words", reply: "answer", audio: []byte{3}}
	ws := dialTestGateway(t, provider)

	payload := base64.StdEncoding.EncodeToString([]byte("wav"))
	sendEvent(t, ws, EventAudioData, AudioPayload{Audio: payload})

	first := readEvent(t, ws)
	if first.Type != EventTranscription {
		t.Fatalf("expected transcription first, got %s", first.Type)
	}
	var tr TranscriptionPayload
	json.Unmarshal(first.Payload, &tr)
	if tr.Text != "spoken words" {
		t.Errorf("unexpected transcript %q", tr.Text)
	}

	second := readEvent(t, ws)
	if second.Type != EventChatResponse {
		t.Fatalf("expected chat_response second, got %s", second.Type)
	}
}

func TestGateway_AudioData_EmptyTranscriptStopsPipeline(t *testing.T) {
	provider := &fakeProvider{transcript: ""}
	ws := dialTestGateway(t, provider)

	payload := base64.StdEncoding.EncodeToString([]byte("wav"))
	sendEvent(t, ws, EventAudioData, AudioPayload{Audio: payload})

	evt := readEvent(t, ws)
	if evt.Type != EventTranscription {
		t.Fatalf("expected transcription, got %s", evt.Type)
	}

	// Nothing further should arrive for an empty transcript.
	ws.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	var extra Event
	if err := ws.ReadJSON(&extra); err == nil {
		t.Errorf("unexpected extra event %s", extra.Type)
	}
}

func TestGateway_VADFlow(t *testing.T) {
	provider := &fakeProvider{transcript: "detected", reply: "reaction", audio: []byte{7}}
	ws := dialTestGateway(t, provider)

	sendEvent(t, ws, EventStartVAD, struct{}{})

	created := readEvent(t, ws)
	if created.Type != EventVADSessionCreated {
		t.Fatalf("expected vad_session_created, got %s", created.Type)
	}
	var sess VADSessionPayload
	json.Unmarshal(created.Payload, &sess)
	if sess.SessionID == "" {
		t.Fatal("expected session ID")
	}

	payload := base64.StdEncoding.EncodeToString([]byte("wav"))
	sendEvent(t, ws, EventVADAudio, VADAudioPayload{SessionID: sess.SessionID, Audio: payload})

	result := readEvent(t, ws)
	if result.Type != EventVADResult {
		t.Fatalf("expected vad_result, got %s", result.Type)
	}
	var vr VADResultPayload
	json.Unmarshal(result.Payload, &vr)
	if !vr.SpeechActive || vr.Text != "detected" {
		t.Errorf("unexpected vad result %+v", vr)
	}

	response := readEvent(t, ws)
	if response.Type != EventChatResponse {
		t.Fatalf("expected chat_response after active speech, got %s", response.Type)
	}
}

func TestGateway_VADAudio_UnknownSession(t *testing.T) {
	ws := dialTestGateway(t, &fakeProvider{})

	payload := base64.StdEncoding.EncodeToString([]byte("wav"))
	sendEvent(t, ws, EventVADAudio, VADAudioPayload{SessionID: "missing", Audio: payload})

	evt := readEvent(t, ws)
	if evt.Type != EventError {
		t.Fatalf("expected error event, got %s", evt.Type)
	}
}

func TestGateway_UnknownEventType(t *testing.T) {
	ws := dialTestGateway(t, &fakeProvider{})

	sendEvent(t, ws, EventType("bogus"), struct{}{})

	evt := readEvent(t, ws)
	if evt.Type != EventError {
		t.Fatalf("expected error event, got %s", evt.Type)
	}
	var ep ErrorPayload
	json.Unmarshal(evt.Payload, &ep)
	if !strings.Contains(ep.Message, "bogus") {
		t.Errorf("error should name the event type, got %q", ep.Message)
	}
}
