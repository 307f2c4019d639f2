package speech

import "time"

const (
	defaultBaseURL        = "https://api.openai.com/v1"
	defaultChatModel      = "gpt-4o"
	defaultTranscribe     = "whisper-1"
	defaultSynthesisModel = "tts-1"
	defaultVoice          = "alloy"

	// Voice replies should stay short enough to speak.
	systemPrompt  = "You are a helpful voice assistant. Keep your responses concise and conversational, suitable for speech."
	replyMaxTokens = 150
)

type Config struct {
	APIKey          string
	BaseURL         string
	ChatModel       string
	TranscribeModel string
	SynthesisModel  string
	Voice           string
	Timeout         time.Duration
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

type speechRequest struct {
	Model string `json:"model"`
	Voice string `json:"voice"`
	Input string `json:"input"`
}
