package domain

import (
	"time"

	"github.com/google/uuid"
)

// BotAccount is a host-bot service account. The Discord-facing process
// logs in with its key and relays acting-user ids on every request.
type BotAccount struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name       string    `json:"name" gorm:"uniqueIndex;not null"`
	APIKeyHash string    `json:"-" gorm:"not null"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (BotAccount) TableName() string {
	return "bot_accounts"
}

type BotSession struct {
	ID               uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	BotID            uuid.UUID `json:"botId" gorm:"type:uuid;not null;index"`
	RefreshTokenHash string    `json:"-" gorm:"not null"`
	ExpiresAt        time.Time `json:"expiresAt" gorm:"not null"`
	CreatedAt        time.Time `json:"createdAt"`
}

func (BotSession) TableName() string {
	return "bot_sessions"
}
