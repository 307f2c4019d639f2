package speech

import "context"

// Provider is the speech boundary: transcription in, reply generation and
// synthesis out. Implementations are safe for concurrent use.
type Provider interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
	GenerateReply(ctx context.Context, text string) (string, error)
	Synthesize(ctx context.Context, text string) ([]byte, error)
}
