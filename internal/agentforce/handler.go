package agentforce

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/agentvoice/relay/internal/dto"
	"github.com/agentvoice/relay/internal/shared"
	"github.com/labstack/echo/v4"
)

const testMessage = "Hello, this is a test message"

// StatePersister receives the client's issued state after calls that mutate
// it. Persistence stays outside the state machine.
type StatePersister interface {
	SaveState(ctx context.Context, st State) error
}

type Handler struct {
	client    *Client
	persister StatePersister
	logger    *slog.Logger
}

// NewHandler serves the agent status and connectivity-test endpoints. The
// client may be nil when the agent service is not configured; both endpoints
// then answer 503.
func NewHandler(client *Client, persister StatePersister, logger *slog.Logger) *Handler {
	return &Handler{
		client:    client,
		persister: persister,
		logger:    logger,
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/status", h.Status)
	g.POST("/test", h.Test)
}

// Status godoc
// @Summary Agent session status
// @Description Reports whether an agent session is active, plus its ID and sequence counter.
// @Tags agent
// @Produce json
// @Success 200 {object} dto.AgentStatusResponse
// @Failure 503 {object} shared.APIError
// @Router /agent/status [get]
func (h *Handler) Status(c echo.Context) error {
	if h.client == nil {
		return shared.ServiceUnavailable("agent_unavailable", "agent client not configured")
	}

	st := h.client.Status()
	return c.JSON(http.StatusOK, dto.AgentStatusResponse{
		Active:     st.Active,
		SessionID:  st.SessionID,
		SequenceID: st.SequenceID,
	})
}

// Test godoc
// @Summary Agent connectivity test
// @Description Runs authenticate, create session and send message in sequence, returning the first failing stage or the final reply.
// @Tags agent
// @Produce json
// @Success 200 {object} dto.AgentTestResponse
// @Failure 502 {object} dto.AgentTestResponse
// @Failure 503 {object} shared.APIError
// @Router /agent/test [post]
func (h *Handler) Test(c echo.Context) error {
	if h.client == nil {
		return shared.ServiceUnavailable("agent_unavailable", "agent client not configured")
	}

	ctx := c.Request().Context()

	if _, err := h.client.Authenticate(ctx); err != nil {
		return c.JSON(http.StatusBadGateway, dto.AgentTestResponse{Stage: "authenticate", Error: err.Error()})
	}
	if _, err := h.client.CreateSession(ctx); err != nil {
		h.persist(ctx)
		return c.JSON(http.StatusBadGateway, dto.AgentTestResponse{Stage: "create_session", Error: err.Error()})
	}

	reply, err := h.client.SendMessage(ctx, testMessage)
	h.persist(ctx)
	if err != nil {
		return c.JSON(http.StatusBadGateway, dto.AgentTestResponse{Stage: "send_message", Error: err.Error()})
	}

	return c.JSON(http.StatusOK, dto.AgentTestResponse{
		Success:    true,
		Stage:      "send_message",
		Reply:      reply.Text,
		SequenceID: reply.NextSequenceID,
	})
}

func (h *Handler) persist(ctx context.Context) {
	if h.persister == nil {
		return
	}
	if err := h.persister.SaveState(ctx, h.client.State()); err != nil {
		h.logger.Warn("failed to persist agent state", "error", err)
	}
}
