package gateway

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/agentvoice/relay/internal/conversation"
	"github.com/agentvoice/relay/internal/shared"
	"github.com/labstack/echo/v4"
)

// Handler owns the websocket endpoint and routes client events to the
// conversation orchestrator.
type Handler struct {
	orch   *conversation.Orchestrator
	logger *slog.Logger
}

func NewHandler(orch *conversation.Orchestrator, logger *slog.Logger) *Handler {
	return &Handler{
		orch:   orch,
		logger: logger.With("component", "gateway"),
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws", h.HandleConnection)
}

func (h *Handler) HandleConnection(c echo.Context) error {
	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return err
	}

	conn := newClientConn(ws, h.logger)
	h.logger.Info("client connected", "remote", c.Request().RemoteAddr)

	go conn.writePump()
	conn.readPump(h)

	h.logger.Info("client disconnected", "remote", c.Request().RemoteAddr)
	return nil
}

func (h *Handler) dispatch(conn *clientConn, evt *Event) {
	ctx := context.Background()

	switch evt.Type {
	case EventAudioData:
		h.handleAudio(ctx, conn, evt.Payload)
	case EventChatRequest:
		h.handleChat(ctx, conn, evt.Payload)
	case EventStartVAD:
		h.handleStartVAD(conn)
	case EventVADAudio:
		h.handleVADAudio(ctx, conn, evt.Payload)
	default:
		conn.EmitError("unknown event type: " + string(evt.Type))
	}
}

// handleAudio emits the transcription before the agent round trip so the
// client can render the user's words while the reply is in flight.
func (h *Handler) handleAudio(ctx context.Context, conn *clientConn, payload json.RawMessage) {
	var p AudioPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		conn.EmitError("invalid audio_data payload")
		return
	}

	text, err := h.orch.Transcribe(ctx, p.Audio)
	if err != nil {
		h.logger.Error("transcription failed", "error", err)
		conn.EmitError("transcription failed: " + err.Error())
		return
	}

	conn.Emit(EventTranscription, TranscriptionPayload{Text: text})

	if strings.TrimSpace(text) == "" {
		return
	}

	exc, err := h.orch.Respond(ctx, shared.SourceVoice, text)
	if err != nil {
		h.logger.Error("response failed", "error", err)
		conn.EmitError("response failed: " + err.Error())
		return
	}

	conn.Emit(EventChatResponse, ChatResponsePayload{Text: exc.Text, Audio: exc.Audio})
}

func (h *Handler) handleChat(ctx context.Context, conn *clientConn, payload json.RawMessage) {
	var p ChatRequestPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		conn.EmitError("invalid chat_request payload")
		return
	}

	if strings.TrimSpace(p.Message) == "" {
		conn.EmitError("chat_request message must not be empty")
		return
	}

	exc, err := h.orch.Respond(ctx, shared.SourceChat, p.Message)
	if err != nil {
		h.logger.Error("response failed", "error", err)
		conn.EmitError("response failed: " + err.Error())
		return
	}

	conn.Emit(EventChatResponse, ChatResponsePayload{Text: exc.Text, Audio: exc.Audio})
}

func (h *Handler) handleStartVAD(conn *clientConn) {
	id := h.orch.StartVAD()
	conn.Emit(EventVADSessionCreated, VADSessionPayload{SessionID: id})
}

func (h *Handler) handleVADAudio(ctx context.Context, conn *clientConn, payload json.RawMessage) {
	var p VADAudioPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		conn.EmitError("invalid vad_audio payload")
		return
	}

	result, err := h.orch.DetectSpeech(ctx, p.SessionID, p.Audio)
	if err != nil {
		h.logger.Error("vad failed", "error", err)
		conn.EmitError("vad failed: " + err.Error())
		return
	}

	conn.Emit(EventVADResult, VADResultPayload{
		SessionID:    p.SessionID,
		SpeechActive: result.SpeechActive,
		Text:         result.Text,
	})

	if !result.SpeechActive {
		return
	}

	exc, err := h.orch.Respond(ctx, shared.SourceVAD, result.Text)
	if err != nil {
		h.logger.Error("response failed", "error", err)
		conn.EmitError("response failed: " + err.Error())
		return
	}

	conn.Emit(EventChatResponse, ChatResponsePayload{Text: exc.Text, Audio: exc.Audio})
}
