package conversation

import (
	"context"
	"log/slog"

	"github.com/agentvoice/relay/internal/agentforce"
	"github.com/agentvoice/relay/internal/audio"
	"github.com/agentvoice/relay/internal/history"
	"github.com/agentvoice/relay/internal/shared"
	"github.com/agentvoice/relay/internal/speech"
)

// Exchange is one completed round trip: the agent's reply as text plus the
// synthesized audio as a browser-ready data URL.
type Exchange struct {
	Text  string
	Audio string
}

// Orchestrator coordinates one conversation turn: text in (transcribed or
// direct), agent reply out, synthesized. When no agent client is configured
// it falls back to direct reply generation, which carries no session state.
type Orchestrator struct {
	speech    speech.Provider
	agent     *agentforce.Client
	history   *history.Store
	persister agentforce.StatePersister
	log       *slog.Logger

	vad *vadRegistry
}

func New(provider speech.Provider, agent *agentforce.Client, hist *history.Store, persister agentforce.StatePersister, log *slog.Logger) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}
	if agent == nil {
		log.Warn("agent client not configured, falling back to direct reply generation")
	}
	return &Orchestrator{
		speech:    provider,
		agent:     agent,
		history:   hist,
		persister: persister,
		log:       log,
		vad:       newVADRegistry(),
	}
}

func (o *Orchestrator) AgentAvailable() bool {
	return o.agent != nil
}

// Transcribe decodes the client audio payload and runs speech-to-text.
// WAV payloads are normalized to mono 16-bit at the transcription rate
// first; other containers go through as-is.
func (o *Orchestrator) Transcribe(ctx context.Context, payload string) (string, error) {
	data, err := audio.Decode(payload)
	if err != nil {
		return "", err
	}
	data = audio.NormalizeWAV(data, audio.TranscribeRate)
	return o.speech.Transcribe(ctx, data)
}

// Respond runs the reply path for a user utterance and synthesizes the
// answer. Failures are returned verbatim; nothing is swallowed here.
func (o *Orchestrator) Respond(ctx context.Context, source shared.Source, text string) (*Exchange, error) {
	reply, sessionID, err := o.reply(ctx, text)
	if err != nil {
		return nil, err
	}

	audioBytes, err := o.speech.Synthesize(ctx, reply)
	if err != nil {
		return nil, err
	}

	if err := o.history.Record(ctx, &history.Exchange{
		Source:         source,
		UserText:       text,
		ReplyText:      reply,
		AgentSessionID: sessionID,
	}); err != nil {
		o.log.Warn("failed to record exchange", "error", err)
	}

	return &Exchange{Text: reply, Audio: audio.Encode(audioBytes)}, nil
}

func (o *Orchestrator) reply(ctx context.Context, text string) (reply, sessionID string, err error) {
	if o.agent == nil {
		reply, err = o.speech.GenerateReply(ctx, text)
		return reply, "", err
	}

	r, err := o.agent.CompleteConversation(ctx, text)
	o.persistAgentState(ctx)
	if err != nil {
		return "", "", err
	}
	return r.Text, o.agent.Status().SessionID, nil
}

// persistAgentState runs after every agent call, success or not: a failed
// send may still have refreshed the token or replaced the session.
func (o *Orchestrator) persistAgentState(ctx context.Context) {
	if o.persister == nil {
		return
	}
	if err := o.persister.SaveState(ctx, o.agent.State()); err != nil {
		o.log.Warn("failed to persist agent state", "error", err)
	}
}
