package dto

import "time"

type ExchangeResponse struct {
	ID             string    `json:"id" example:"exc_9f2d6c1a"`
	Source         string    `json:"source" example:"voice"`
	UserText       string    `json:"user_text" example:"What is my order status?"`
	ReplyText      string    `json:"reply_text" example:"Your order shipped yesterday."`
	AgentSessionID string    `json:"agent_session_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type HistoryResponse struct {
	Total     int                `json:"total" example:"20"`
	Exchanges []ExchangeResponse `json:"exchanges"`
}
