package domain

import (
	"time"

	"github.com/google/uuid"
)

// WishlistEntry is a free-text character name a user wants to be told
// about when someone claims it. Matching is case-insensitive.
type WishlistEntry struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID        string    `json:"userId" gorm:"type:varchar(32);not null;index;uniqueIndex:idx_wishlist_user_name"`
	CharacterName string    `json:"characterName" gorm:"not null;uniqueIndex:idx_wishlist_user_name"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (WishlistEntry) TableName() string {
	return "wishlist_entries"
}
