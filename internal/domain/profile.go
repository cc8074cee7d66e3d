package domain

import (
	"time"
)

// UserProfile holds a user's collection bookkeeping. User ids are
// opaque strings supplied by the host platform and never parsed.
type UserProfile struct {
	UserID              string     `json:"userId" gorm:"primaryKey;type:varchar(32)"`
	HaremTitle          string     `json:"haremTitle" gorm:"not null;default:'Harem'"`
	FavoriteCharacterID *string    `json:"favoriteCharacterId"`
	LastRoll            *time.Time `json:"lastRoll"`
	TotalRolls          int        `json:"totalRolls" gorm:"not null;default:0"`
	SuccessfulClaims    int        `json:"successfulClaims" gorm:"not null;default:0"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}

// OnCooldown reports whether the user rolled within the last cooldown
// window. A user who never rolled is never on cooldown.
func (p *UserProfile) OnCooldown(cooldown time.Duration, now time.Time) bool {
	if p.LastRoll == nil {
		return false
	}
	return now.Before(p.LastRoll.Add(cooldown))
}

// CooldownRemaining returns how long until the user may roll again,
// zero if they may roll now.
func (p *UserProfile) CooldownRemaining(cooldown time.Duration, now time.Time) time.Duration {
	if p.LastRoll == nil {
		return 0
	}
	remaining := p.LastRoll.Add(cooldown).Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}
