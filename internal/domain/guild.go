package domain

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// GuildPolicy is per-community configuration. The service only reads
// it when gating operations; admins update it through the guild API.
type GuildPolicy struct {
	GuildID         string         `json:"guildId" gorm:"primaryKey;type:varchar(32)"`
	Enabled         bool           `json:"enabled" gorm:"not null;default:true"`
	MarriageCost    int64          `json:"marriageCost" gorm:"not null;default:10000"`
	DivorceCost     int64          `json:"divorceCost" gorm:"not null;default:5000"`
	TradeCost       int64          `json:"tradeCost" gorm:"not null;default:1000"`
	CooldownMinutes int            `json:"cooldownMinutes" gorm:"not null;default:120"`
	MaxMarriages    int            `json:"maxMarriages" gorm:"not null;default:50"`
	PingWishlist    bool           `json:"pingWishlist" gorm:"not null;default:true"`
	AdminRoleID     *string        `json:"adminRoleId" gorm:"type:varchar(32)"`
	BonusRollRoles  datatypes.JSON `json:"bonusRollRoles" gorm:"type:jsonb"` // {"<roleId>": extraRolls}
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

func (GuildPolicy) TableName() string {
	return "guild_policies"
}

// DefaultGuildPolicy mirrors the defaults a guild gets before an admin
// touches anything.
func DefaultGuildPolicy(guildID string) *GuildPolicy {
	return &GuildPolicy{
		GuildID:         guildID,
		Enabled:         true,
		MarriageCost:    10000,
		DivorceCost:     5000,
		TradeCost:       1000,
		CooldownMinutes: 120,
		MaxMarriages:    50,
		PingWishlist:    true,
		BonusRollRoles:  datatypes.JSON([]byte("{}")),
	}
}

// Cooldown returns the roll cooldown as a duration.
func (p *GuildPolicy) Cooldown() time.Duration {
	return time.Duration(p.CooldownMinutes) * time.Minute
}

// BonusRolls returns the largest bonus-roll count granted by any of the
// user's roles. Malformed table entries are ignored.
func (p *GuildPolicy) BonusRolls(roleIDs []string) int {
	if len(p.BonusRollRoles) == 0 {
		return 0
	}
	var table map[string]int
	if err := json.Unmarshal(p.BonusRollRoles, &table); err != nil {
		return 0
	}
	bonus := 0
	for _, id := range roleIDs {
		if extra, ok := table[id]; ok && extra > bonus {
			bonus = extra
		}
	}
	return bonus
}

// SetBonusRolls replaces the bonus-roll entry for one role; zero or
// negative removes it.
func (p *GuildPolicy) SetBonusRolls(roleID string, rolls int) error {
	table := map[string]int{}
	if len(p.BonusRollRoles) > 0 {
		if err := json.Unmarshal(p.BonusRollRoles, &table); err != nil {
			return err
		}
	}
	if rolls <= 0 {
		delete(table, roleID)
	} else {
		table[roleID] = rolls
	}
	raw, err := json.Marshal(table)
	if err != nil {
		return err
	}
	p.BonusRollRoles = datatypes.JSON(raw)
	return nil
}
