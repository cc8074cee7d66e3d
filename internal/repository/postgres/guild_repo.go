package postgres

import (
	"context"

	"github.com/paimonworks/harem-service/internal/domain"
	"gorm.io/gorm"
)

type guildPolicyRepository struct {
	db *gorm.DB
}

func NewGuildPolicyRepository(db *gorm.DB) *guildPolicyRepository {
	return &guildPolicyRepository{db: db}
}

func (r *guildPolicyRepository) GetOrCreate(ctx context.Context, guildID string) (*domain.GuildPolicy, error) {
	var policy domain.GuildPolicy
	err := r.db.WithContext(ctx).
		Where(domain.GuildPolicy{GuildID: guildID}).
		Attrs(*domain.DefaultGuildPolicy(guildID)).
		FirstOrCreate(&policy).Error
	if err != nil {
		return nil, err
	}
	return &policy, nil
}

func (r *guildPolicyRepository) Update(ctx context.Context, policy *domain.GuildPolicy) error {
	return r.db.WithContext(ctx).Save(policy).Error
}
