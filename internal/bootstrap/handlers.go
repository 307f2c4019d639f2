package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/agentvoice/relay/internal/agentforce"
	"github.com/agentvoice/relay/internal/conversation"
	"github.com/agentvoice/relay/internal/credstore"
	"github.com/agentvoice/relay/internal/gateway"
	"github.com/agentvoice/relay/internal/health"
	"github.com/agentvoice/relay/internal/history"
	"github.com/agentvoice/relay/internal/shared"
	"github.com/agentvoice/relay/internal/speech"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/fx"
)

const version = "1.0.0"

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func ProvideLogger(cfg *Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
}

func ProvideSpeechProvider(cfg *Config) (speech.Provider, error) {
	return speech.NewClient(speech.Config{
		APIKey:          cfg.OpenAIAPIKey,
		BaseURL:         cfg.OpenAIBaseURL,
		ChatModel:       cfg.OpenAIChatModel,
		TranscribeModel: cfg.OpenAITranscribeModel,
		SynthesisModel:  cfg.OpenAISynthesisModel,
		Voice:           cfg.OpenAIVoice,
	})
}

// ProvideAgentClient builds the remote agent client, restoring any persisted
// token and session state. Missing credentials disable the client rather
// than failing startup; the relay then answers through the direct reply path.
func ProvideAgentClient(cfg *Config, store *credstore.Store, logger *slog.Logger) *agentforce.Client {
	creds := agentforce.Credentials{
		ServerURL:    cfg.AgentServerURL,
		ClientID:     cfg.AgentClientID,
		ClientSecret: cfg.AgentClientSecret,
		AgentID:      cfg.AgentID,
	}

	opts := []agentforce.Option{
		agentforce.WithLogger(logger.With("component", "agentforce")),
	}
	if cfg.AgentEndpoint != "" {
		opts = append(opts, agentforce.WithAgentEndpoint(cfg.AgentEndpoint))
	}

	client, err := agentforce.New(creds, opts...)
	if err != nil {
		logger.Warn("agent client disabled", "error", err)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	st, err := store.LoadState(ctx)
	switch {
	case err == nil:
		client.Restore(st)
		logger.Info("restored agent state", "session_id", st.SessionID, "sequence_id", st.SequenceID)
	case errors.Is(err, shared.ErrNotFound):
	default:
		logger.Warn("failed to load agent state", "error", err)
	}

	return client
}

func ProvideOrchestrator(provider speech.Provider, client *agentforce.Client, histStore *history.Store, credStore *credstore.Store, logger *slog.Logger) *conversation.Orchestrator {
	return conversation.New(provider, client, histStore, credStore, logger.With("component", "conversation"))
}

func ProvideAgentHandler(client *agentforce.Client, credStore *credstore.Store, logger *slog.Logger) *agentforce.Handler {
	return agentforce.NewHandler(client, credStore, logger.With("handler", "agent"))
}

func ProvideHistoryHandler(store *history.Store, logger *slog.Logger) *history.Handler {
	return history.NewHandler(store, logger.With("handler", "history"))
}

func ProvideGatewayHandler(orch *conversation.Orchestrator, logger *slog.Logger) *gateway.Handler {
	return gateway.NewHandler(orch, logger)
}

func ProvideHealthHandler(redisClient *redis.Client, orch *conversation.Orchestrator, histStore *history.Store, logger *slog.Logger) *health.Handler {
	return health.NewHandler(redisClient, orch, histStore, logger.With("handler", "health"), version)
}

type HandlerParams struct {
	fx.In

	AgentHandler   *agentforce.Handler
	HistoryHandler *history.Handler
	GatewayHandler *gateway.Handler
	HealthHandler  *health.Handler
}

func RegisterRoutes(e *echo.Echo, params HandlerParams) {
	api := e.Group("/v1")

	params.AgentHandler.RegisterRoutes(api.Group("/agent"))
	params.HistoryHandler.RegisterRoutes(api.Group("/history"))

	params.GatewayHandler.RegisterRoutes(e)
	params.HealthHandler.RegisterRoutes(e)

	e.GET("/swagger/*", echoSwagger.EchoWrapHandler())
}

var HandlersModule = fx.Options(
	fx.Provide(
		ProvideLogger,
		ProvideSpeechProvider,
		ProvideAgentClient,
		ProvideOrchestrator,
		ProvideAgentHandler,
		ProvideHistoryHandler,
		ProvideGatewayHandler,
		ProvideHealthHandler,
	),
	fx.Invoke(RegisterRoutes),
)
