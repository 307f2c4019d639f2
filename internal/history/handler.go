package history

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/agentvoice/relay/internal/dto"
	"github.com/agentvoice/relay/internal/shared"
	"github.com/labstack/echo/v4"
)

type Handler struct {
	store  *Store
	logger *slog.Logger
}

func NewHandler(store *Store, logger *slog.Logger) *Handler {
	return &Handler{
		store:  store,
		logger: logger,
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.Recent)
}

// Recent godoc
// @Summary Recent conversation exchanges
// @Tags history
// @Produce json
// @Param limit query int false "Maximum exchanges to return (default 20, max 200)"
// @Success 200 {object} dto.HistoryResponse
// @Failure 503 {object} shared.APIError
// @Router /history [get]
func (h *Handler) Recent(c echo.Context) error {
	if !h.store.Enabled() {
		return shared.ServiceUnavailable("history_unavailable", "history store not configured")
	}

	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	exchanges, err := h.store.Recent(c.Request().Context(), limit)
	if err != nil {
		h.logger.Error("failed to list exchanges", "error", err)
		return shared.InternalError("history_failed", "failed to list exchanges")
	}

	resp := dto.HistoryResponse{
		Total:     len(exchanges),
		Exchanges: make([]dto.ExchangeResponse, len(exchanges)),
	}
	for i, e := range exchanges {
		resp.Exchanges[i] = dto.ExchangeResponse{
			ID:             e.ID,
			Source:         e.Source.String(),
			UserText:       e.UserText,
			ReplyText:      e.ReplyText,
			AgentSessionID: e.AgentSessionID,
			CreatedAt:      e.CreatedAt,
		}
	}

	return c.JSON(http.StatusOK, resp)
}
