package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxRollSlots caps how many characters one roll may offer.
const MaxRollSlots = 10

// DefaultRollSessionTTL is how long a roll stays claimable.
const DefaultRollSessionTTL = 5 * time.Minute

type RollSessionStatus string

const (
	RollSessionOpen    RollSessionStatus = "open"
	RollSessionClosed  RollSessionStatus = "closed"
	RollSessionExpired RollSessionStatus = "expired"
)

// RollSlot binds one slot symbol ("1".."10") to an offered character.
// The presentation layer maps symbols to whatever reactions it likes.
type RollSlot struct {
	Symbol      string `json:"symbol"`
	CharacterID string `json:"characterId"`
}

// RollSession is the ephemeral offer created by a roll. It lives in
// memory only: exactly one slot across the whole session can be won,
// after which the session is closed; otherwise it expires.
type RollSession struct {
	ID          uuid.UUID         `json:"id"`
	GuildID     string            `json:"guildId"`
	RequesterID string            `json:"requesterId"`
	Slots       []RollSlot        `json:"slots"`
	Status      RollSessionStatus `json:"status"`
	WinnerID    *string           `json:"winnerId"`
	ClaimedID   *string           `json:"claimedCharacterId"`
	CreatedAt   time.Time         `json:"createdAt"`
	ExpiresAt   time.Time         `json:"expiresAt"`
}

// Slot returns the character id bound to a symbol.
func (s *RollSession) Slot(symbol string) (string, bool) {
	for _, slot := range s.Slots {
		if slot.Symbol == symbol {
			return slot.CharacterID, true
		}
	}
	return "", false
}
