package bootstrap

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddr string
	LogLevel   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	DatabaseDSN string

	OpenAIAPIKey          string
	OpenAIBaseURL         string
	OpenAIChatModel       string
	OpenAITranscribeModel string
	OpenAISynthesisModel  string
	OpenAIVoice           string

	AgentServerURL    string
	AgentClientID     string
	AgentClientSecret string
	AgentID           string
	AgentEndpoint     string
}

func LoadConfig() *Config {
	// Missing .env is fine; the environment may carry everything.
	_ = godotenv.Load()

	return &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":8080"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		DatabaseDSN: getEnv("DATABASE_DSN", ""),

		OpenAIAPIKey:          getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:         getEnv("OPENAI_BASE_URL", ""),
		OpenAIChatModel:       getEnv("OPENAI_CHAT_MODEL", ""),
		OpenAITranscribeModel: getEnv("OPENAI_TRANSCRIBE_MODEL", ""),
		OpenAISynthesisModel:  getEnv("OPENAI_SYNTHESIS_MODEL", ""),
		OpenAIVoice:           getEnv("OPENAI_VOICE", ""),

		AgentServerURL:    getEnv("AGENTFORCE_SERVER_URL", ""),
		AgentClientID:     getEnv("AGENTFORCE_CLIENT_ID", ""),
		AgentClientSecret: getEnv("AGENTFORCE_CLIENT_SECRET", ""),
		AgentID:           getEnv("AGENTFORCE_AGENT_ID", ""),
		AgentEndpoint:     getEnv("AGENTFORCE_ENDPOINT", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
