package service

import (
	"context"
	"fmt"

	"github.com/paimonworks/harem-service/internal/domain"
	"github.com/paimonworks/harem-service/internal/repository"
)

// GuildService reads and updates per-guild policy. Only bot accounts
// reach these endpoints, and the host bot enforces who inside the
// guild may issue admin commands.
type GuildService struct {
	guildRepo repository.GuildPolicyRepository
}

func NewGuildService(guildRepo repository.GuildPolicyRepository) *GuildService {
	return &GuildService{guildRepo: guildRepo}
}

func (s *GuildService) GetPolicy(ctx context.Context, guildID string) (*domain.GuildPolicy, error) {
	return s.guildRepo.GetOrCreate(ctx, guildID)
}

// PolicyPatch updates only the fields that are set.
type PolicyPatch struct {
	Enabled         *bool
	MarriageCost    *int64
	DivorceCost     *int64
	TradeCost       *int64
	CooldownMinutes *int
	MaxMarriages    *int
	PingWishlist    *bool
	AdminRoleID     *string
}

func (s *GuildService) UpdatePolicy(ctx context.Context, guildID string, patch PolicyPatch) (*domain.GuildPolicy, error) {
	policy, err := s.guildRepo.GetOrCreate(ctx, guildID)
	if err != nil {
		return nil, err
	}

	if patch.Enabled != nil {
		policy.Enabled = *patch.Enabled
	}
	if patch.MarriageCost != nil {
		if *patch.MarriageCost < 0 {
			return nil, fmt.Errorf("marriage cost must not be negative")
		}
		policy.MarriageCost = *patch.MarriageCost
	}
	if patch.DivorceCost != nil {
		if *patch.DivorceCost < 0 {
			return nil, fmt.Errorf("divorce cost must not be negative")
		}
		policy.DivorceCost = *patch.DivorceCost
	}
	if patch.TradeCost != nil {
		if *patch.TradeCost < 0 {
			return nil, fmt.Errorf("trade cost must not be negative")
		}
		policy.TradeCost = *patch.TradeCost
	}
	if patch.CooldownMinutes != nil {
		if *patch.CooldownMinutes < 0 {
			return nil, fmt.Errorf("cooldown must not be negative")
		}
		policy.CooldownMinutes = *patch.CooldownMinutes
	}
	if patch.MaxMarriages != nil {
		if *patch.MaxMarriages < 0 {
			return nil, fmt.Errorf("max marriages must not be negative")
		}
		policy.MaxMarriages = *patch.MaxMarriages
	}
	if patch.PingWishlist != nil {
		policy.PingWishlist = *patch.PingWishlist
	}
	if patch.AdminRoleID != nil {
		if *patch.AdminRoleID == "" {
			policy.AdminRoleID = nil
		} else {
			policy.AdminRoleID = patch.AdminRoleID
		}
	}

	if err := s.guildRepo.Update(ctx, policy); err != nil {
		return nil, err
	}
	return policy, nil
}

// SetBonusRolls grants (or with rolls <= 0 revokes) extra roll slots
// for holders of a role.
func (s *GuildService) SetBonusRolls(ctx context.Context, guildID, roleID string, rolls int) (*domain.GuildPolicy, error) {
	if rolls > domain.MaxRollSlots-1 {
		return nil, fmt.Errorf("bonus rolls cannot exceed %d", domain.MaxRollSlots-1)
	}
	policy, err := s.guildRepo.GetOrCreate(ctx, guildID)
	if err != nil {
		return nil, err
	}
	if err := policy.SetBonusRolls(roleID, rolls); err != nil {
		return nil, err
	}
	if err := s.guildRepo.Update(ctx, policy); err != nil {
		return nil, err
	}
	return policy, nil
}
