package history

import (
	"time"

	"github.com/agentvoice/relay/internal/shared"
	"gorm.io/gorm"
)

type Exchange struct {
	ID             string        `gorm:"primaryKey"`
	Source         shared.Source `gorm:"index;size:16"`
	UserText       string
	ReplyText      string
	AgentSessionID string `gorm:"index"`
	CreatedAt      time.Time
}

func (e *Exchange) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = shared.NewID("exc_")
	}
	return nil
}
